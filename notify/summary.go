package notify

import (
	"fmt"
	"sort"
	"strings"
)

// maxOwnersPerRow limits owner names shown per table row; the overflow is
// collapsed into an "(and N more)" suffix.
const maxOwnersPerRow = 3

// RenderSummary renders the aggregated delivery statistics as a
// human-readable end-of-run report. Pure formatting; writing the text
// somewhere is the caller's concern.
func RenderSummary(report *DeliveryReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Delivery summary (run %s)\n", report.RunID)
	fmt.Fprintf(&b, "Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&b, "Messages sent:       %d\n", report.MessagesSent)
	fmt.Fprintf(&b, "Questions processed: %d\n", report.QuestionsProcessed)
	fmt.Fprintf(&b, "Categories:          %d\n", len(report.Deliveries))

	if len(report.Failures) > 0 {
		fmt.Fprintf(&b, "Failed deliveries:   %d\n", len(report.Failures))
		for _, failure := range report.Failures {
			fmt.Fprintf(&b, "  - %s -> %s: %s\n", failure.Category, failure.Channel, failure.Err)
		}
	}

	if len(report.Channels) > 0 {
		b.WriteString("\nChannels:\n")
		for _, channel := range sortedKeys(report.Channels) {
			stats := report.Channels[channel]
			fmt.Fprintf(&b, "  %-24s questions=%-4d categories=%-3d owners=%d\n",
				channel, stats.Questions, len(stats.Categories), len(stats.Owners))
		}
	}

	if len(report.Owners) > 0 {
		b.WriteString("\nOwners:\n")
		for _, handle := range sortedKeys(report.Owners) {
			stats := report.Owners[handle]
			fmt.Fprintf(&b, "  %-24s questions=%-4d categories=%-3d channels=%s\n",
				handle, stats.Questions, len(stats.Categories), strings.Join(stats.Channels, ","))
		}
	}

	if len(report.Deliveries) > 0 {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%-40s %-24s %-10s %s\n", "CATEGORY", "CHANNEL", "QUESTIONS", "OWNERS")
		for _, delivery := range report.Deliveries {
			fmt.Fprintf(&b, "%-40s %-24s %-10d %s\n",
				delivery.Category, delivery.Channel, delivery.Questions, ownersCell(delivery.Owners))
		}
	}

	return b.String()
}

// ownersCell renders at most maxOwnersPerRow owner names, collapsing the rest.
func ownersCell(owners []string) string {
	if len(owners) <= maxOwnersPerRow {
		return strings.Join(owners, ", ")
	}
	shown := strings.Join(owners[:maxOwnersPerRow], ", ")
	return fmt.Sprintf("%s (and %d more)", shown, len(owners)-maxOwnersPerRow)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
