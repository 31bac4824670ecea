package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pevans/forumscout/config"
	"github.com/pevans/forumscout/logger"
)

// options collects the per-run settings resolved from flags, environment
// settings, and the optional config file.
type options struct {
	startDate  string
	maxPages   int
	baseURL    string
	feedURL    string
	output     string
	classify   bool
	sendEmail  bool
	skipEmail  bool
	sendSlack  bool
	skipSlack  bool
	schedule   string
	settings   map[string]string
	fileConfig *config.FileConfig
}

func main() {
	envFile := flag.String("env-file", ".env", "Path to dotenv file with settings (missing file is ignored)")
	startDate := flag.String("start-date", "", "Only keep questions on or after this date, YYYY-MM-DD (SCOUT_START_DATE; default 30 days ago)")
	maxPages := flag.Int("max-pages", 0, "Maximum listing pages to scrape (SCOUT_MAX_PAGES)")
	baseURL := flag.String("base-url", "", "Forum listing base URL (SCOUT_BASE_URL)")
	feedURL := flag.String("feed-url", "", "Consume the board's RSS feed instead of scraping the listing (SCOUT_FEED_URL)")
	output := flag.String("output", "questions.json", "File to write the scraped question batch to")
	classifyFlag := flag.Bool("classify", false, "Annotate questions with LLM categories in the email report (needs LLM_API_KEY)")
	emailFlag := flag.Bool("email", false, "Send the email report (implied when SCOUT_RECIPIENTS is set)")
	skipEmail := flag.Bool("skip-email", false, "Skip the email report even when recipients are configured")
	slackFlag := flag.Bool("slack", false, "Send Slack notifications (or set SCOUT_SLACK_ENABLED=true)")
	skipSlack := flag.Bool("skip-slack", false, "Skip Slack notifications even when enabled")
	schedule := flag.String("schedule", "", "Cron expression; run the pipeline periodically instead of once")
	logLevel := flag.String("log-level", getEnv("LOG_LEVEL", "info"), "Log level: debug, info, warn, error (LOG_LEVEL)")
	flag.Parse()

	log := logger.New(*logLevel)

	settings, err := config.LoadSettings(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fileConfig, err := config.LoadConfigFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if fileConfig == nil {
		fileConfig = &config.FileConfig{}
	}
	if settings["SLACK_DEFAULT_CHANNEL"] == "" && fileConfig.Slack.DefaultChannel != "" {
		settings["SLACK_DEFAULT_CHANNEL"] = fileConfig.Slack.DefaultChannel
	}

	opts := options{
		startDate:  firstNonEmpty(*startDate, settings["SCOUT_START_DATE"], defaultStartDate()),
		maxPages:   firstPositive(*maxPages, settingInt(settings, "SCOUT_MAX_PAGES"), fileConfig.Scrape.MaxPages, 10),
		baseURL:    firstNonEmpty(*baseURL, settings["SCOUT_BASE_URL"], fileConfig.Scrape.BaseURL),
		feedURL:    firstNonEmpty(*feedURL, settings["SCOUT_FEED_URL"], fileConfig.Scrape.FeedURL),
		output:     *output,
		classify:   *classifyFlag,
		sendEmail:  *emailFlag || settings["SCOUT_RECIPIENTS"] != "",
		skipEmail:  *skipEmail,
		sendSlack:  *slackFlag || settings["SCOUT_SLACK_ENABLED"] == "true",
		skipSlack:  *skipSlack,
		schedule:   *schedule,
		settings:   settings,
		fileConfig: fileConfig,
	}

	if _, err := time.Parse("2006-01-02", opts.startDate); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid start date %q (want YYYY-MM-DD)\n", opts.startDate)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if opts.schedule == "" {
		if err := runOnce(ctx, log, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Periodic mode: run immediately, then on the cron schedule until
	// interrupted.
	if err := runOnce(ctx, log, opts); err != nil {
		log.Error("scheduled run failed", "err", err)
	}

	c := cron.New()
	_, err = c.AddFunc(opts.schedule, func() {
		if err := runOnce(ctx, log, opts); err != nil {
			log.Error("scheduled run failed", "err", err)
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid schedule %q: %v\n", opts.schedule, err)
		os.Exit(1)
	}

	log.Info("running on schedule", "schedule", opts.schedule)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	log.Info("shut down")
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func defaultStartDate() string {
	return time.Now().AddDate(0, 0, -30).Format("2006-01-02")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func settingInt(settings map[string]string, key string) int {
	value, err := strconv.Atoi(settings[key])
	if err != nil {
		return 0
	}
	return value
}
