package forum

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// FetchFeed fetches and parses the board's RSS or Atom feed. The gofeed
// library detects and handles both formats.
func FetchFeed(ctx context.Context, url string) (*gofeed.Feed, error) {
	fp := gofeed.NewParser()
	feed, err := fp.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return feed, nil
}

// FeedItemToQuestion converts a feed item to a QuestionRecord. Feed entries
// lack listing counters, so views/likes/replies stay zero.
func FeedItemToQuestion(item *gofeed.Item) QuestionRecord {
	id := item.GUID
	if id == "" {
		id = item.Link
	}

	title := item.Title
	if title == "" {
		title = "(No title)"
	}

	author := "Unknown"
	if item.Author != nil && item.Author.Name != "" {
		author = item.Author.Name
	} else if len(item.Authors) > 0 && item.Authors[0].Name != "" {
		author = item.Authors[0].Name
	}

	date := ""
	if item.PublishedParsed != nil {
		date = item.PublishedParsed.Format("2006-01-02")
	} else if item.UpdatedParsed != nil {
		date = item.UpdatedParsed.Format("2006-01-02")
	} else {
		date = time.Now().Format("2006-01-02")
	}

	var topics []string
	for _, category := range item.Categories {
		if topic := strings.TrimSpace(category); topic != "" {
			topics = append(topics, topic)
		}
	}

	return QuestionRecord{
		ID:      id,
		Title:   title,
		URL:     item.Link,
		Author:  author,
		Date:    date,
		Content: strings.TrimSpace(item.Description),
		Topics:  topics,
	}
}

// FeedToQuestions converts all feed items on or after startDate to question
// records. A zero startDate keeps everything.
func FeedToQuestions(feed *gofeed.Feed, startDate time.Time) []QuestionRecord {
	questions := make([]QuestionRecord, 0, len(feed.Items))
	for _, item := range feed.Items {
		q := FeedItemToQuestion(item)
		if !startDate.IsZero() {
			posted, ok := ParseDate(q.Date)
			if !ok || posted.Before(startDate) {
				continue
			}
		}
		questions = append(questions, q)
	}
	return questions
}
