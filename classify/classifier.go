// Package classify assigns a topical category to one forum question, either
// through an external LLM call or through deterministic keyword rules when
// the LLM is unavailable.
package classify

import (
	"context"
	"log/slog"
)

// Result is the outcome of classifying one question. Transient; produced per
// question, never persisted.
type Result struct {
	Category    string `json:"category"`
	Confidence  int    `json:"confidence"`
	Explanation string `json:"explanation"`
}

// Labeler is the external text-classification collaborator. An error return
// covers auth failures, transport errors, and unparsable completions alike.
type Labeler interface {
	Classify(ctx context.Context, title, content string, topics []string) (Result, error)
}

// Classifier labels questions through a Labeler, recovering locally with
// keyword rules on any failure. One flaky classification never blocks the
// batch.
type Classifier struct {
	llm Labeler
	log *slog.Logger
}

// New creates a classifier. A nil labeler means keyword rules only.
func New(llm Labeler, log *slog.Logger) *Classifier {
	if log == nil {
		log = slog.Default()
	}
	return &Classifier{llm: llm, log: log}
}

// Classify returns a category for the question. It never fails: any error
// from the labeler is converted into the keyword fallback result.
func (c *Classifier) Classify(ctx context.Context, title, content string, topics []string) Result {
	if c.llm == nil {
		return Fallback(title, content, topics)
	}

	result, err := c.llm.Classify(ctx, title, content, topics)
	if err != nil {
		c.log.Warn("classification unavailable, using keyword fallback", "err", err)
		return Fallback(title, content, topics)
	}
	return result
}
