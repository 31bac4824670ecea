// Package route groups a batch of question records by category and is the
// single source of truth for the category used in dispatch. Assignment is a
// cheap two-stage heuristic: topic-tag matching against known category keys,
// then expertise scoring over the configured owners.
package route

import (
	"strings"

	"github.com/pevans/forumscout/config"
	"github.com/pevans/forumscout/forum"
)

// DefaultCategory is assigned when neither topic tags nor owner expertise
// produce any evidence.
const DefaultCategory = "default"

// Router assigns categories to questions using the routing tables in the
// registry.
type Router struct {
	reg *config.Registry
}

// NewRouter creates a router over the given registry.
func NewRouter(reg *config.Registry) *Router {
	return &Router{reg: reg}
}

// Assign determines the category for a single question. Topic tags are
// checked first: a tag (lower-cased, spaces to hyphens) that equals or is a
// substring of a known category key wins, first match in the registry's
// stable category order. Failing that, every owner whose expertise terms
// appear in the lower-cased title+content adds one point to each category
// that owner is explicitly mapped to; the highest score wins, ties broken by
// category encounter order. With no evidence at all the question lands in
// DefaultCategory.
func (r *Router) Assign(q forum.QuestionRecord) string {
	categories := r.reg.Categories()

	for _, topic := range q.Topics {
		normalized := strings.ReplaceAll(strings.ToLower(topic), " ", "-")
		if normalized == "" {
			continue
		}
		for _, category := range categories {
			if normalized == category || strings.Contains(category, normalized) {
				return category
			}
		}
	}

	text := strings.ToLower(q.Title + " " + q.Content)
	scores := map[string]int{}
	for _, owner := range r.reg.AllOwners() {
		if !expertiseMatches(owner, text) {
			continue
		}
		for _, category := range categories {
			if containsID(r.reg.MappedOwnerIDs(category), owner.ID) {
				scores[category]++
			}
		}
	}

	best := ""
	bestScore := 0
	for _, category := range categories {
		if scores[category] > bestScore {
			best = category
			bestScore = scores[category]
		}
	}
	if best == "" {
		return DefaultCategory
	}
	return best
}

// Route groups a batch by assigned category, preserving input order within
// each group.
func (r *Router) Route(questions []forum.QuestionRecord) map[string][]forum.QuestionRecord {
	grouped := map[string][]forum.QuestionRecord{}
	for _, q := range questions {
		category := r.Assign(q)
		grouped[category] = append(grouped[category], q)
	}
	return grouped
}

func expertiseMatches(owner config.Owner, text string) bool {
	for _, term := range owner.Expertise {
		if term != "" && strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
