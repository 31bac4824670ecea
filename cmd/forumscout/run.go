package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pevans/forumscout/classify"
	"github.com/pevans/forumscout/config"
	"github.com/pevans/forumscout/email"
	"github.com/pevans/forumscout/forum"
	"github.com/pevans/forumscout/notify"
	"github.com/pevans/forumscout/route"
)

// runOnce executes one full pipeline pass: fetch the question batch, write
// it out, optionally classify, route by category, dispatch Slack messages,
// print the delivery summary, and send the email report.
func runOnce(ctx context.Context, log *slog.Logger, opts options) error {
	startDate, err := time.Parse("2006-01-02", opts.startDate)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}

	questions, err := fetchQuestions(ctx, log, opts, startDate)
	if err != nil {
		return err
	}
	log.Info("found unanswered questions", "count", len(questions), "since", opts.startDate)

	if opts.output != "" {
		if err := writeBatch(opts.output, questions); err != nil {
			return err
		}
		log.Info("wrote question batch", "path", opts.output)
	}

	// LLM classifications annotate the email report only. Channel routing is
	// always driven by the topic/expertise router so that a flaky or slow
	// LLM never changes where questions land.
	var classifications map[string]classify.Result
	if opts.classify {
		classifications = classifyBatch(ctx, log, opts, questions)
	}

	reg := config.NewRegistry(opts.settings)

	if opts.sendSlack && !opts.skipSlack && len(questions) > 0 {
		token := firstNonEmpty(opts.settings["SLACK_TOKEN"], opts.fileConfig.Slack.Token)
		if token == "" {
			log.Error("slack enabled but SLACK_TOKEN is not set")
		} else {
			router := route.NewRouter(reg)
			dispatcher := notify.NewDispatcher(reg, notify.NewSlackSender(token), log)

			report := dispatcher.Dispatch(ctx, router.Route(questions))
			fmt.Print(notify.RenderSummary(report))
			if !report.AllDelivered {
				log.Error("some category messages failed to deliver", "failures", len(report.Failures))
			}
		}
	}

	if opts.sendEmail && !opts.skipEmail && len(questions) > 0 {
		sender := email.NewSender(emailConfig(opts), log)
		if err := sender.Send(ctx, questions, classifications, opts.startDate); err != nil {
			log.Error("failed to send email report", "err", err)
		} else {
			log.Info("email report sent")
		}
	}

	return nil
}

func fetchQuestions(ctx context.Context, log *slog.Logger, opts options, startDate time.Time) ([]forum.QuestionRecord, error) {
	if opts.feedURL != "" {
		feed, err := forum.FetchFeed(ctx, opts.feedURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch feed: %w", err)
		}
		return forum.FeedToQuestions(feed, startDate), nil
	}

	scraper := forum.NewScraper(forum.ScraperConfig{
		BaseURL:   opts.baseURL,
		StartDate: startDate,
		MaxPages:  opts.maxPages,
	}, log)
	return scraper.Scrape(ctx)
}

func classifyBatch(ctx context.Context, log *slog.Logger, opts options, questions []forum.QuestionRecord) map[string]classify.Result {
	var llm classify.Labeler
	if apiKey := opts.settings["LLM_API_KEY"]; apiKey != "" {
		llm = classify.NewClient(apiKey,
			classify.WithBaseURL(firstNonEmpty(opts.settings["LLM_BASE_URL"], opts.fileConfig.Classifier.BaseURL)),
			classify.WithModel(firstNonEmpty(opts.settings["LLM_MODEL"], opts.fileConfig.Classifier.Model)),
		)
	} else {
		log.Warn("LLM_API_KEY not set, classifying with keyword rules only")
	}

	classifier := classify.New(llm, log)
	results := make(map[string]classify.Result, len(questions))
	for _, q := range questions {
		results[q.ID] = classifier.Classify(ctx, q.Title, q.Content, q.Topics)
	}
	return results
}

func writeBatch(path string, questions []forum.QuestionRecord) error {
	data, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func emailConfig(opts options) email.Config {
	settings := opts.settings
	fileCfg := opts.fileConfig.SMTP
	return email.Config{
		Server:      firstNonEmpty(settings["SCOUT_SMTP_SERVER"], fileCfg.Server),
		Port:        firstPositive(settingInt(settings, "SCOUT_SMTP_PORT"), fileCfg.Port),
		Sender:      firstNonEmpty(settings["SCOUT_SENDER_EMAIL"], fileCfg.Sender),
		SenderName:  firstNonEmpty(settings["SCOUT_SENDER_NAME"], fileCfg.SenderName),
		DisplayFrom: firstNonEmpty(settings["SCOUT_DISPLAY_FROM"], fileCfg.DisplayFrom),
		Password:    settings["SCOUT_EMAIL_PASSWORD"],
		UseSSL:      settings["SCOUT_USE_SSL"] == "true" || fileCfg.UseSSL,
		To:          splitRecipients(settings["SCOUT_RECIPIENTS"]),
		CC:          splitRecipients(settings["SCOUT_CC_RECIPIENTS"]),
		BCC:         splitRecipients(settings["SCOUT_BCC_RECIPIENTS"]),
	}
}

func splitRecipients(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
