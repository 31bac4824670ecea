// Package notify fans categorized question batches out to chat channels and
// aggregates delivery statistics for the end-of-run summary.
package notify

import (
	"context"

	"github.com/pevans/forumscout/forum"
)

// Message is one batched per-category notification addressed to a channel.
type Message struct {
	Channel   string
	Category  string
	Mentions  []string
	Questions []forum.QuestionRecord
}

// Sender delivers one message to a channel. Implementations make a single
// best-effort attempt; the dispatcher does not retry.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
