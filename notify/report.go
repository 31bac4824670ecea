package notify

import (
	"time"

	"github.com/google/uuid"
)

// ChannelStats aggregates deliveries for one channel within a run.
type ChannelStats struct {
	Questions  int
	Categories []string
	Owners     []string
}

// OwnerStats aggregates deliveries for one owner handle within a run.
type OwnerStats struct {
	Questions  int
	Categories []string
	Channels   []string
}

// CategoryDelivery records one delivered per-category message, in dispatch
// order.
type CategoryDelivery struct {
	Category  string
	Channel   string
	Questions int
	Owners    []string
}

// DeliveryFailure records one failed send.
type DeliveryFailure struct {
	Category string
	Channel  string
	Err      string
}

// DeliveryReport is the dispatcher's only output within a run: per-channel
// and per-owner aggregates backing the summary reporter, plus the overall
// verdict. AllDelivered is the logical AND over attempted sends only; skipped
// categories do not count as failures.
type DeliveryReport struct {
	RunID              uuid.UUID
	GeneratedAt        time.Time
	MessagesSent       int
	QuestionsProcessed int
	Deliveries         []CategoryDelivery
	Channels           map[string]*ChannelStats
	Owners             map[string]*OwnerStats
	Failures           []DeliveryFailure
	AllDelivered       bool
}

// NewDeliveryReport creates an empty report for a fresh run.
func NewDeliveryReport() *DeliveryReport {
	return &DeliveryReport{
		RunID:        uuid.New(),
		GeneratedAt:  time.Now(),
		Channels:     map[string]*ChannelStats{},
		Owners:       map[string]*OwnerStats{},
		AllDelivered: true,
	}
}

// recordDelivery folds one successful per-category send into the aggregates.
func (r *DeliveryReport) recordDelivery(msg Message) {
	r.MessagesSent++
	r.QuestionsProcessed += len(msg.Questions)
	r.Deliveries = append(r.Deliveries, CategoryDelivery{
		Category:  msg.Category,
		Channel:   msg.Channel,
		Questions: len(msg.Questions),
		Owners:    msg.Mentions,
	})

	channel := r.Channels[msg.Channel]
	if channel == nil {
		channel = &ChannelStats{}
		r.Channels[msg.Channel] = channel
	}
	channel.Questions += len(msg.Questions)
	channel.Categories = appendUnique(channel.Categories, msg.Category)
	for _, handle := range msg.Mentions {
		channel.Owners = appendUnique(channel.Owners, handle)
	}

	for _, handle := range msg.Mentions {
		owner := r.Owners[handle]
		if owner == nil {
			owner = &OwnerStats{}
			r.Owners[handle] = owner
		}
		owner.Questions += len(msg.Questions)
		owner.Categories = appendUnique(owner.Categories, msg.Category)
		owner.Channels = appendUnique(owner.Channels, msg.Channel)
	}
}

func (r *DeliveryReport) recordFailure(msg Message, err error) {
	r.AllDelivered = false
	r.Failures = append(r.Failures, DeliveryFailure{
		Category: msg.Category,
		Channel:  msg.Channel,
		Err:      err.Error(),
	})
}

func appendUnique(values []string, value string) []string {
	for _, existing := range values {
		if existing == value {
			return values
		}
	}
	return append(values, value)
}
