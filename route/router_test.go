package route

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pevans/forumscout/config"
	"github.com/pevans/forumscout/forum"
)

func testRouter() *Router {
	reg := config.NewRegistry(map[string]string{
		"MANAGER_ALICE_SLACK":        "@alice",
		"MANAGER_ALICE_EXPERTISE":    "xdp, template",
		"MANAGER_BOB_SLACK":          "@bob",
		"MANAGER_BOB_EXPERTISE":      "dispatcher, osgi",
		"CHANNEL_DESIGNER":           "#designer-channel",
		"CHANNEL_CORE":               "#core-channel",
		"CATEGORY_DESIGNER_MANAGERS": "alice",
		"CATEGORY_CORE_MANAGERS":     "bob",
	})
	return NewRouter(reg)
}

func TestAssignByTopicTag(t *testing.T) {
	router := testRouter()

	category := router.Assign(forum.QuestionRecord{
		Title:  "Some question",
		Topics: []string{"Designer"},
	})

	assert.Equal(t, "designer", category)
}

func TestAssignTopicSubstringMatch(t *testing.T) {
	router := testRouter()

	// "core" is a substring match for the core category key even though the
	// tag isn't an exact key.
	category := router.Assign(forum.QuestionRecord{
		Title:  "Some question",
		Topics: []string{"Core"},
	})

	assert.Equal(t, "core", category)
}

func TestAssignTopicSpacesNormalized(t *testing.T) {
	reg := config.NewRegistry(map[string]string{
		"CHANNEL_FORMS_WORKFLOW": "#workflow",
	})
	router := NewRouter(reg)

	category := router.Assign(forum.QuestionRecord{
		Topics: []string{"Forms Workflow"},
	})

	assert.Equal(t, "forms-workflow", category)
}

func TestAssignByExpertiseScore(t *testing.T) {
	router := testRouter()

	category := router.Assign(forum.QuestionRecord{
		Title:   "Broken XDP template",
		Content: "my template does not render",
	})

	assert.Equal(t, "designer", category, "alice's expertise maps the question to designer")
}

func TestAssignNoEvidenceIsDefault(t *testing.T) {
	router := testRouter()

	category := router.Assign(forum.QuestionRecord{
		Title:   "Totally unrelated",
		Content: "nothing matches here",
	})

	assert.Equal(t, DefaultCategory, category)
}

func TestAssignTieBrokenByEncounterOrder(t *testing.T) {
	reg := config.NewRegistry(map[string]string{
		"MANAGER_ALICE_SLACK":     "@alice",
		"MANAGER_ALICE_EXPERTISE": "widget",
		"CATEGORY_ALPHA_MANAGERS": "alice",
		"CATEGORY_BETA_MANAGERS":  "alice",
	})
	router := NewRouter(reg)

	// Alice is mapped to both categories, so both score 1; the first category
	// in stable order wins.
	category := router.Assign(forum.QuestionRecord{Title: "widget question"})

	assert.Equal(t, "alpha", category)
}

func TestRouteGroupsPreservingOrder(t *testing.T) {
	router := testRouter()

	questions := []forum.QuestionRecord{
		{ID: "1", Topics: []string{"designer"}},
		{ID: "2", Topics: []string{"core"}},
		{ID: "3", Topics: []string{"designer"}},
	}

	grouped := router.Route(questions)

	assert.Len(t, grouped, 2)
	assert.Equal(t, []string{"1", "3"}, ids(grouped["designer"]))
	assert.Equal(t, []string{"2"}, ids(grouped["core"]))
}

func ids(questions []forum.QuestionRecord) []string {
	out := make([]string, 0, len(questions))
	for _, q := range questions {
		out = append(out, q.ID)
	}
	return out
}
