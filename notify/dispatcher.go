package notify

import (
	"context"
	"log/slog"
	"sort"

	"github.com/pevans/forumscout/config"
	"github.com/pevans/forumscout/forum"
)

// Dispatcher sends one batched message per category to the channel resolved
// through the registry, aggregating delivery statistics as it goes.
type Dispatcher struct {
	reg    *config.Registry
	sender Sender
	log    *slog.Logger
}

// NewDispatcher creates a dispatcher sending through the given transport.
func NewDispatcher(reg *config.Registry, sender Sender, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{reg: reg, sender: sender, log: log}
}

// Dispatch delivers one message per category and returns the aggregated
// delivery report. Categories resolving to no channel or no mention handles
// are skipped with a warning rather than treated as failures, and a failed
// send for one category never aborts the remaining ones.
func (d *Dispatcher) Dispatch(ctx context.Context, categorized map[string][]forum.QuestionRecord) *DeliveryReport {
	report := NewDeliveryReport()

	// Sorted keys keep dispatch order stable within a run.
	categories := make([]string, 0, len(categorized))
	for category := range categorized {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		questions := categorized[category]
		if len(questions) == 0 {
			continue
		}

		channel := d.reg.Channel(category)
		if channel == "" {
			d.log.Warn("skipping category with no resolvable channel", "category", category)
			continue
		}

		mentions := d.reg.MentionsFor(category)
		if len(mentions) == 0 {
			d.log.Warn("skipping category with no owners to mention", "category", category, "channel", channel)
			continue
		}

		msg := Message{
			Channel:   channel,
			Category:  category,
			Mentions:  mentions,
			Questions: questions,
		}

		if err := d.sender.Send(ctx, msg); err != nil {
			d.log.Error("failed to deliver category message", "category", category, "channel", channel, "err", err)
			report.recordFailure(msg, err)
			continue
		}

		d.log.Info("delivered category message", "category", category, "channel", channel, "questions", len(questions))
		report.recordDelivery(msg)
	}

	return report
}
