package forum

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultBaseURL is the question board this tool was built for. Any board
// with the same listing markup works.
const DefaultBaseURL = "https://experienceleaguecommunities.adobe.com/t5/adobe-experience-manager-forms/bd-p/experience-manager-forms-qanda"

const listingUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// ScraperConfig holds the knobs for a listing scrape.
type ScraperConfig struct {
	BaseURL   string
	StartDate time.Time
	MaxPages  int
	PageDelay time.Duration
}

// Scraper fetches paginated forum listing pages and extracts question records.
type Scraper struct {
	cfg    ScraperConfig
	client *http.Client
	log    *slog.Logger
}

// NewScraper creates a scraper with sensible defaults for any zero-valued
// config fields.
func NewScraper(cfg ScraperConfig, log *slog.Logger) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 10
	}
	if cfg.PageDelay == 0 {
		cfg.PageDelay = 2 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Scraper{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}
}

// PageURL returns the listing URL for a given page number, filtered to
// unresolved questions sorted by date descending.
func PageURL(baseURL string, page int) string {
	if page <= 1 {
		return baseURL + "?filter=unresolved&order=DESC&sort=date"
	}
	return fmt.Sprintf("%s/page/%d?filter=unresolved&order=DESC&sort=date", baseURL, page)
}

// Scrape walks listing pages starting at page 1 and collects all question
// records on or after the configured start date. It stops at the first page
// that yields no records, or once MaxPages is reached.
func (s *Scraper) Scrape(ctx context.Context) ([]QuestionRecord, error) {
	var questions []QuestionRecord

	for page := 1; page <= s.cfg.MaxPages; page++ {
		if page > 1 {
			// Be polite to the forum between pages.
			select {
			case <-time.After(s.cfg.PageDelay):
			case <-ctx.Done():
				return questions, ctx.Err()
			}
		}

		pageQuestions, err := s.scrapePage(ctx, page)
		if err != nil {
			return questions, fmt.Errorf("failed to scrape page %d: %w", page, err)
		}
		if len(pageQuestions) == 0 {
			s.log.Warn("no questions extracted from page", "page", page)
			break
		}
		questions = append(questions, pageQuestions...)
	}

	return questions, nil
}

func (s *Scraper) scrapePage(ctx context.Context, page int) ([]QuestionRecord, error) {
	url := PageURL(s.cfg.BaseURL, page)
	s.log.Info("scraping listing page", "page", page, "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", listingUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return ParseListing(doc, s.cfg.StartDate), nil
}

// ParseListing extracts question records from a parsed listing page,
// filtering out questions dated before startDate. A zero startDate keeps
// everything.
func ParseListing(doc *goquery.Document, startDate time.Time) []QuestionRecord {
	var questions []QuestionRecord

	doc.Find("div#messages > ul > li").Each(func(_ int, row *goquery.Selection) {
		titleLink := row.Find("div.message-box div.spectrum-Heading--sizeM a.subject").First()
		if titleLink.Length() == 0 {
			return
		}
		title := strings.TrimSpace(titleLink.Text())

		url := ""
		if href, ok := titleLink.Attr("href"); ok {
			url = "https://experienceleaguecommunities.adobe.com" + href
		}

		id := strings.TrimPrefix(row.AttrOr("data-id", ""), "message-")

		author := strings.TrimSpace(row.Find("div.author a").First().Text())
		if author == "" {
			author = "Unknown"
		}

		// The post-time element carries "author • M/D/YY"; keep the final
		// segment.
		dateText := strings.TrimSpace(row.Find("span.post-time").First().Text())
		if idx := strings.LastIndex(dateText, "•"); idx >= 0 {
			dateText = strings.TrimSpace(dateText[idx+len("•"):])
		}
		date := NormalizeDate(dateText)

		stats := map[string]int{}
		row.Find("div[data-stat]").Each(func(_ int, stat *goquery.Selection) {
			name := strings.ToLower(stat.AttrOr("data-stat", ""))
			value, err := strconv.Atoi(stat.AttrOr("data-value", "0"))
			if err != nil {
				value = 0
			}
			stats[name] = value
		})

		content := strings.TrimSpace(row.Find("div.truncated-body").First().Text())

		var topics []string
		row.Find("div.conversation-topics a.tag").Each(func(_ int, tag *goquery.Selection) {
			if topic := strings.TrimSpace(tag.Text()); topic != "" {
				topics = append(topics, topic)
			}
		})

		if !startDate.IsZero() {
			posted, ok := ParseDate(date)
			if !ok || posted.Before(startDate) {
				return
			}
		}

		questions = append(questions, QuestionRecord{
			ID:      id,
			Title:   title,
			URL:     url,
			Author:  author,
			Date:    date,
			Content: content,
			Views:   stats["views"],
			Likes:   stats["likes"],
			Replies: stats["replies"],
			Topics:  topics,
		})
	})

	return questions
}
