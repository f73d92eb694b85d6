package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

type Config struct {
	TelegramBot TelegramBot
	LeagueAPI   LeagueAPI
	Directory   Directory
	Redis       Redis
	Server      Server
	Schedule    Schedule
}

// TelegramBot is optional: an empty token disables the bot and the alert job.
type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN"`
	ChatID int64  `envconfig:"CHAT_ID"`
}

type LeagueAPI struct {
	URL     string        `envconfig:"LEAGUE_API_URL" required:"true"`
	Timeout time.Duration `envconfig:"LEAGUE_API_TIMEOUT" default:"10s"`
	// Minimum spacing between outbound requests. Zero disables limiting.
	Rate time.Duration `envconfig:"LEAGUE_API_RATE" default:"250ms"`
}

type Directory struct {
	Source string `envconfig:"DIRECTORY_SOURCE" default:"http"`
	DSN    string `envconfig:"DIRECTORY_DSN" default:"nba_fantasy.db"`
}

type Redis struct {
	URL       string        `envconfig:"REDIS_URL"`
	RosterTTL time.Duration `envconfig:"ROSTER_TTL" default:"720h"`
}

type Server struct {
	Addr        string   `envconfig:"HTTP_ADDR" default:":8080"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

type Schedule struct {
	Timezone             string `envconfig:"TIMEZONE" default:"Europe/Madrid"`
	DirectoryRefreshCron string `envconfig:"DIRECTORY_REFRESH_CRON" default:"0 6 * * *"`
	CoverageAlertCron    string `envconfig:"COVERAGE_ALERT_CRON" default:"0 9 * * 1"`
	DefaultGameweek      int    `envconfig:"DEFAULT_GAMEWEEK" default:"1"`
	// Sessions unused for SessionIdleTTL are dropped from memory every
	// SessionSweep. Their rosters stay in the store.
	SessionIdleTTL time.Duration `envconfig:"SESSION_IDLE_TTL" default:"24h"`
	SessionSweep   time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"1h"`
}

const (
	SourceHTTP   = "http"
	SourceSQLite = "sqlite"
)

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Directory.Source) {
	case SourceHTTP, SourceSQLite:
		c.Directory.Source = strings.ToLower(c.Directory.Source)
	default:
		return fmt.Errorf("DIRECTORY_SOURCE must be %q or %q, got %q", SourceHTTP, SourceSQLite, c.Directory.Source)
	}

	if _, err := cron.ParseStandard(c.Schedule.DirectoryRefreshCron); err != nil {
		return fmt.Errorf("invalid DIRECTORY_REFRESH_CRON: %w", err)
	}
	if _, err := cron.ParseStandard(c.Schedule.CoverageAlertCron); err != nil {
		return fmt.Errorf("invalid COVERAGE_ALERT_CRON: %w", err)
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	if c.Schedule.DefaultGameweek < 1 {
		return fmt.Errorf("DEFAULT_GAMEWEEK must be positive, got %d", c.Schedule.DefaultGameweek)
	}
	if c.Schedule.SessionIdleTTL <= 0 || c.Schedule.SessionSweep <= 0 {
		return fmt.Errorf("SESSION_IDLE_TTL and SESSION_SWEEP_INTERVAL must be positive")
	}
	return nil
}

// BotEnabled reports whether a Telegram token was configured.
func (c *Config) BotEnabled() bool {
	return c.TelegramBot.Token != ""
}
