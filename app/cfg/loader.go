package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Portal configuration
	PortalURL      string  `long:"portal-url" env:"PORTAL_URL" default:"https://estm.fa.em2.oraclecloud.com/hcmUI/CandidateExperience/en/sites/CX_1001/jobs" description:"Job portal listing URL"`
	RulesFile      string  `long:"rules-file" env:"RULES_FILE" description:"YAML file with grade filter rules (optional, defaults built in)"`
	UserAgent      string  `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36" description:"Browser user agent string"`
	Headless       bool    `long:"headless" env:"HEADLESS" description:"Run the browser headless (use --headless=false for a visible window)"`
	InitialWait    int     `long:"initial-wait" env:"INITIAL_WAIT" default:"20" description:"Seconds to wait for the portal to render after page load"`
	PageTimeout    int     `long:"page-timeout" env:"PAGE_TIMEOUT" default:"60" description:"Page load timeout in seconds"`
	ScrollAttempts int     `long:"scroll-attempts" env:"SCROLL_ATTEMPTS" default:"15" description:"Maximum pagination/scroll attempts on the listing page"`
	RequestRate    float64 `long:"request-rate" env:"REQUEST_RATE" default:"0.5" description:"Detail page requests per second"`

	// Feed configuration
	FeedPath        string `long:"feed-path" env:"FEED_PATH" default:"unwomen_jobs.xml" description:"Path of the persisted RSS feed file"`
	FeedTitle       string `long:"feed-title" env:"FEED_TITLE" default:"UN Women Job Vacancies" description:"RSS channel title"`
	FeedLink        string `long:"feed-link" env:"FEED_LINK" description:"RSS channel link (defaults to the portal URL)"`
	FeedDescription string `long:"feed-description" env:"FEED_DESCRIPTION" default:"List of vacancies at UN Women" description:"RSS channel description"`
	SelfURL         string `long:"self-url" env:"SELF_URL" default:"https://cinfoposte.github.io/unwomen-jobs/unwomen_jobs.xml" description:"Public URL of the published feed (atom:link rel=self)"`
	MaxItems        int    `long:"max-items" env:"MAX_ITEMS" default:"50" description:"Maximum number of included jobs collected per run"`

	// Run policy
	AllowEmpty     bool `long:"allow-empty" env:"ALLOW_EMPTY" description:"Treat zero collected jobs as a valid run instead of a failure"`
	ResetOnCorrupt bool `long:"reset-on-corrupt" env:"RESET_ON_CORRUPT" description:"Start from an empty feed when the previous feed file is unparseable"`

	// Scheduling and serving
	Schedule string `long:"schedule" env:"SCHEDULE" description:"Cron expression for repeated runs (empty = run once and exit)"`
	Port     string `long:"port" env:"PORT" description:"HTTP port for serving the feed in scheduled mode (empty = disabled)"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/Zurich)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	_ = godotenv.Load()

	raw := rawCfg{Headless: true}

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		PortalURL:       raw.PortalURL,
		RulesFile:       raw.RulesFile,
		UserAgent:       raw.UserAgent,
		Headless:        raw.Headless,
		InitialWait:     raw.InitialWait,
		PageTimeout:     raw.PageTimeout,
		ScrollAttempts:  raw.ScrollAttempts,
		RequestRate:     raw.RequestRate,
		FeedPath:        raw.FeedPath,
		FeedTitle:       raw.FeedTitle,
		FeedLink:        cmp.Or(raw.FeedLink, raw.PortalURL),
		FeedDescription: raw.FeedDescription,
		SelfURL:         raw.SelfURL,
		MaxItems:        raw.MaxItems,
		AllowEmpty:      raw.AllowEmpty,
		ResetOnCorrupt:  raw.ResetOnCorrupt,
		Schedule:        raw.Schedule,
		Port:            raw.Port,
		Timezone:        raw.Timezone,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
