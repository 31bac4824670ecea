package forum

import (
	"regexp"
	"strings"
	"time"
)

// QuestionRecord represents a single unanswered question scraped from the
// forum listing page. Records are immutable once produced; every downstream
// stage consumes them read-only.
type QuestionRecord struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	URL     string   `json:"url"`
	Author  string   `json:"author"`
	Date    string   `json:"date"`
	Content string   `json:"content"`
	Views   int      `json:"views"`
	Likes   int      `json:"likes"`
	Replies int      `json:"replies"`
	Topics  []string `json:"topics"`
}

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// NormalizeDate converts a listing-page date like "3/18/25" (MM/DD/YY) to
// ISO-8601 (YYYY-MM-DD). Strings that don't parse are returned unchanged.
func NormalizeDate(raw string) string {
	parsed, err := time.Parse("1/2/06", strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	return parsed.Format("2006-01-02")
}

// ParseDate parses a normalized ISO-8601 date string. The second return value
// is false when the string is not a valid ISO date.
func ParseDate(date string) (time.Time, bool) {
	if !isoDatePattern.MatchString(date) {
		return time.Time{}, false
	}
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
