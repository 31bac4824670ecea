package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings() map[string]string {
	return map[string]string{
		"MANAGER_ALICE_NAME":          "Alice",
		"MANAGER_ALICE_SLACK":         "alice.smith",
		"MANAGER_ALICE_EXPERTISE":     "designer, xdp, pdf",
		"MANAGER_BOB_NAME":            "Bob",
		"MANAGER_BOB_SLACK":           "@bob",
		"MANAGER_BOB_EXPERTISE":       "core, dispatcher",
		"MANAGER_CAROL_SLACK":         "@ carol jones ",
		"CHANNEL_DESIGNER":            "#designer-help",
		"CHANNEL_DEFAULT":             "#forms-general",
		"CATEGORY_DESIGNER_MANAGERS":  "alice",
		"CATEGORY_CORE_MANAGERS":      "bob, carol",
		"CATEGORY_DEFAULT_MANAGERS":   "bob",
		"SLACK_DEFAULT_CHANNEL":       "#catch-all",
		"CHANNEL_FORMS_WORKFLOW":      "#workflow",
		"UNRELATED_SETTING":           "ignored",
	}
}

func TestRegistryOwnerNormalization(t *testing.T) {
	reg := NewRegistry(testSettings())

	alice := reg.Owner("alice")
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, "@alice.smith", alice.Handle, "handle should gain a leading @")
	assert.Equal(t, []string{"designer", "xdp", "pdf"}, alice.Expertise)

	bob := reg.Owner("bob")
	assert.Equal(t, "@bob", bob.Handle, "existing @ should not be doubled")

	carol := reg.Owner("carol")
	assert.Equal(t, "@caroljones", carol.Handle, "whitespace should be stripped from handles")
}

func TestRegistryOwnerIsTotal(t *testing.T) {
	reg := NewRegistry(testSettings())

	ghost := reg.Owner("GHOST")
	assert.Equal(t, "ghost", ghost.ID)
	assert.Equal(t, "@ghost", ghost.Handle)
	assert.Empty(t, ghost.Expertise)
}

func TestRegistryOwnerLongForm(t *testing.T) {
	reg := NewRegistry(testSettings())

	// The MANAGER_ALICE long form resolves to the same record as alice.
	assert.Equal(t, reg.Owner("alice"), reg.Owner("MANAGER_ALICE"))
}

func TestRegistryChannelResolution(t *testing.T) {
	reg := NewRegistry(testSettings())

	assert.Equal(t, "#designer-help", reg.Channel("designer"), "category-specific channel wins")
	assert.Equal(t, "#forms-general", reg.Channel("accessibility"), "default channel entry is the second tier")

	noDefault := testSettings()
	delete(noDefault, "CHANNEL_DEFAULT")
	reg = NewRegistry(noDefault)
	assert.Equal(t, "#catch-all", reg.Channel("accessibility"), "global fallback is the third tier")

	delete(noDefault, "SLACK_DEFAULT_CHANNEL")
	reg = NewRegistry(noDefault)
	assert.Equal(t, "", reg.Channel("accessibility"), "nothing configured means undeliverable")
}

func TestRegistryCategoryKeyNormalization(t *testing.T) {
	reg := NewRegistry(testSettings())
	assert.Equal(t, "#workflow", reg.Channel("forms-workflow"), "underscores become hyphens in category keys")
}

func TestRegistryOwnersForFallsBackToDefault(t *testing.T) {
	reg := NewRegistry(testSettings())

	designer := reg.OwnersFor("designer")
	require.Len(t, designer, 1)
	assert.Equal(t, "alice", designer[0].ID)

	unmapped := reg.OwnersFor("accessibility")
	require.Len(t, unmapped, 1)
	assert.Equal(t, "bob", unmapped[0].ID, "unmapped categories use the default mapping")

	noDefault := testSettings()
	delete(noDefault, "CATEGORY_DEFAULT_MANAGERS")
	reg = NewRegistry(noDefault)
	assert.Empty(t, reg.OwnersFor("accessibility"))
}

func TestRegistryMentionsForAllOwnersFallback(t *testing.T) {
	settings := testSettings()
	delete(settings, "CATEGORY_DEFAULT_MANAGERS")
	settings["MANAGER_DEFAULT_SLACK"] = "@everyone"
	reg := NewRegistry(settings)

	mentions := reg.MentionsFor("accessibility")
	assert.ElementsMatch(t, []string{"@alice.smith", "@bob", "@caroljones"}, mentions,
		"unmapped categories tag every owner except the default entry")
	assert.NotContains(t, mentions, "@everyone")
}

func TestRegistryMentionsForDeduplicates(t *testing.T) {
	settings := testSettings()
	settings["CATEGORY_CORE_MANAGERS"] = "bob, bob, carol"
	reg := NewRegistry(settings)

	assert.Equal(t, []string{"@bob", "@caroljones"}, reg.MentionsFor("core"))
}

func TestRegistryCategoriesStableAndComplete(t *testing.T) {
	reg := NewRegistry(testSettings())

	categories := reg.Categories()
	assert.Equal(t, []string{"core", "designer", "forms-workflow"}, categories)
	assert.NotContains(t, categories, "default")
}
