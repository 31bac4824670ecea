package config

import (
	"regexp"
	"sort"
	"strings"
)

// Owner is a person responsible for answering questions in one or more
// categories, addressable via a chat mention handle.
type Owner struct {
	ID        string
	Name      string
	Handle    string
	Expertise []string
}

// Registry holds the owner records and routing tables parsed from a flat set
// of key/value settings. It is immutable after construction; callers pass it
// by reference into the router and dispatcher rather than consulting ambient
// state.
type Registry struct {
	owners         map[string]Owner
	ownerOrder     []string
	channels       map[string]string
	categoryOwners map[string][]string
	categoryOrder  []string
	defaultChannel string
}

var (
	managerKeyPattern  = regexp.MustCompile(`^MANAGER_([A-Z0-9_]+)_([A-Z]+)$`)
	channelKeyPattern  = regexp.MustCompile(`^CHANNEL_([A-Z0-9_]+)$`)
	categoryKeyPattern = regexp.MustCompile(`^CATEGORY_([A-Z0-9_]+)_MANAGERS$`)
)

// NewRegistry builds a registry from flat settings. Three naming schemes are
// recognized:
//
//	MANAGER_<ID>_<ATTR>          per-owner attributes (NAME, SLACK, EXPERTISE)
//	CHANNEL_<CATEGORY>           per-category channel overrides
//	CATEGORY_<CATEGORY>_MANAGERS comma-separated owner-ID list per category
//
// Category keys are lower-cased with underscores converted to hyphens. The
// SLACK_DEFAULT_CHANNEL setting provides the global channel fallback.
func NewRegistry(settings map[string]string) *Registry {
	r := &Registry{
		owners:         map[string]Owner{},
		channels:       map[string]string{},
		categoryOwners: map[string][]string{},
		defaultChannel: settings["SLACK_DEFAULT_CHANNEL"],
	}

	// Raw per-owner attributes keyed by lowercase owner ID. The MANAGER_
	// pattern is greedy, so MANAGER_JO_ANN_SLACK parses the attribute as the
	// final underscore segment.
	attrs := map[string]map[string]string{}
	for key, value := range settings {
		if m := managerKeyPattern.FindStringSubmatch(key); m != nil {
			id := strings.ToLower(m[1])
			if attrs[id] == nil {
				attrs[id] = map[string]string{}
			}
			attrs[id][strings.ToLower(m[2])] = value
			continue
		}
		if m := channelKeyPattern.FindStringSubmatch(key); m != nil {
			r.channels[categoryKey(m[1])] = value
			continue
		}
		if m := categoryKeyPattern.FindStringSubmatch(key); m != nil {
			r.categoryOwners[categoryKey(m[1])] = splitList(value)
		}
	}

	for id, a := range attrs {
		owner := Owner{
			ID:     id,
			Name:   a["name"],
			Handle: NormalizeHandle(a["slack"]),
		}
		if owner.Handle == "@" {
			owner.Handle = "@" + id
		}
		if raw, ok := a["expertise"]; ok {
			for _, term := range splitList(raw) {
				owner.Expertise = append(owner.Expertise, strings.ToLower(term))
			}
		}
		r.owners[id] = owner
		r.ownerOrder = append(r.ownerOrder, id)
	}
	sort.Strings(r.ownerOrder)

	// Known categories are the union of channel overrides and owner mappings,
	// minus the literal default entry. Sorted so iteration is stable within a
	// run.
	seen := map[string]bool{}
	for category := range r.channels {
		seen[category] = true
	}
	for category := range r.categoryOwners {
		seen[category] = true
	}
	delete(seen, "default")
	for category := range seen {
		r.categoryOrder = append(r.categoryOrder, category)
	}
	sort.Strings(r.categoryOrder)

	return r
}

// NormalizeHandle strips whitespace from a chat handle and guarantees a
// single leading @.
func NormalizeHandle(handle string) string {
	cleaned := strings.Join(strings.Fields(handle), "")
	cleaned = strings.TrimLeft(cleaned, "@")
	return "@" + cleaned
}

// Owner resolves an owner record by ID. The lookup is total: unknown IDs
// synthesize a record with a derived handle and no expertise, so downstream
// code never branches on "owner not found". Both the bare ID and the
// MANAGER_<ID> long form are accepted.
func (r *Registry) Owner(id string) Owner {
	key := strings.ToLower(id)
	key = strings.TrimPrefix(key, "manager_")

	if owner, ok := r.owners[key]; ok {
		return owner
	}
	return Owner{
		ID:     key,
		Name:   key,
		Handle: "@" + key,
	}
}

// AllOwners returns every configured owner in stable ID order.
func (r *Registry) AllOwners() []Owner {
	owners := make([]Owner, 0, len(r.ownerOrder))
	for _, id := range r.ownerOrder {
		owners = append(owners, r.owners[id])
	}
	return owners
}

// Categories returns the known category keys in stable order, excluding the
// literal default entry.
func (r *Registry) Categories() []string {
	return r.categoryOrder
}

// Channel resolves the notification channel for a category. Resolution order:
// category-specific override, then the entry named "default", then the global
// fallback channel. Returns "" when nothing is configured, which the
// dispatcher treats as undeliverable.
func (r *Registry) Channel(category string) string {
	if channel, ok := r.channels[category]; ok {
		return channel
	}
	if channel, ok := r.channels["default"]; ok {
		return channel
	}
	return r.defaultChannel
}

// MappedOwnerIDs returns the owner IDs explicitly mapped to a category,
// without any fallback. Used by the router's expertise scoring, which only
// considers explicit mappings.
func (r *Registry) MappedOwnerIDs(category string) []string {
	ids := make([]string, 0, len(r.categoryOwners[category]))
	for _, id := range r.categoryOwners[category] {
		ids = append(ids, strings.TrimPrefix(strings.ToLower(id), "manager_"))
	}
	return ids
}

// OwnersFor resolves the owner list for a category: the category's explicit
// mapping, falling back to the "default" mapping, falling back to an empty
// list.
func (r *Registry) OwnersFor(category string) []Owner {
	ids := r.categoryOwners[category]
	if len(ids) == 0 {
		ids = r.categoryOwners["default"]
	}

	owners := make([]Owner, 0, len(ids))
	for _, id := range ids {
		owners = append(owners, r.Owner(id))
	}
	return owners
}

// MentionsFor resolves the deduplicated mention handles to tag for a
// category. Resolution order: the category's explicit mapping, then the
// "default" mapping, then every configured owner except one literally keyed
// "default". The extra tier guarantees categories with no explicit owner
// still reach someone.
func (r *Registry) MentionsFor(category string) []string {
	if handles := dedupe(handlesOf(r.OwnersFor(category))); len(handles) > 0 {
		return handles
	}

	var handles []string
	for _, id := range r.ownerOrder {
		if id == "default" {
			continue
		}
		handles = append(handles, r.owners[id].Handle)
	}
	return dedupe(handles)
}

func handlesOf(owners []Owner) []string {
	handles := make([]string, 0, len(owners))
	for _, owner := range owners {
		handles = append(handles, owner.Handle)
	}
	return handles
}

func dedupe(values []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func categoryKey(raw string) string {
	return strings.ReplaceAll(strings.ToLower(raw), "_", "-")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
