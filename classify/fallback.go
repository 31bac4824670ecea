package classify

import "strings"

// fallbackRule pairs a category with the keywords that select it. Rule order
// is a total order and is preserved exactly: earlier, more specific rules
// deliberately shadow later generic ones (document-of-record keywords are
// checked before the generic runtime ones, for example).
type fallbackRule struct {
	category    string
	keywords    []string
	explanation string
}

var fallbackRules = []fallbackRule{
	{"document-of-record", []string{"document of record", "dor", "pdf output"}, "Contains explicit references to Document of Record"},
	{"designer", []string{"xdp", "designer", "xfa"}, "Related to XDP or Designer application"},
	{"accessibility", []string{"accessibility", "wcag", "screen reader", "aria"}, "Contains accessibility terms"},
	{"adaptive-forms-runtime", []string{"submit", "submission", "runtime", "javascript", "client"}, "Related to form submission or runtime"},
	{"adaptive-forms-core-components", []string{"core component", "core-component"}, "Mentions core components"},
	{"adaptive-forms-headless", []string{"headless", "react", "api", "sdk"}, "Related to headless forms"},
	{"integration-third-party", []string{"integration", "third party", "connector"}, "About integrations"},
	{"forms-workflow", []string{"workflow", "review", "approval"}, "About form workflows"},
	{"adaptive-forms-authoring", []string{"authoring", "creating", "editing", "configure"}, "About creating or configuring forms"},
}

// Fallback performs deterministic keyword classification over the combined
// title, content, and topic text. The first matching rule wins at confidence
// 70; the catch-all returns the most common category at confidence 50.
func Fallback(title, content string, topics []string) Result {
	text := strings.ToLower(title)
	if content != "" {
		text += " " + strings.ToLower(content)
	}
	if len(topics) > 0 {
		text += " " + strings.ToLower(strings.Join(topics, " "))
	}

	for _, rule := range fallbackRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(text, keyword) {
				return Result{
					Category:    rule.category,
					Confidence:  70,
					Explanation: rule.explanation,
				}
			}
		}
	}

	return Result{
		Category:    "adaptive-forms-authoring",
		Confidence:  50,
		Explanation: "Default category (most common)",
	}
}
