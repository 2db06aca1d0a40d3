package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// TriggerConfig is one named pattern in the trigger table. Patterns may
// embed a {bot_id} placeholder which is substituted before compilation.
type TriggerConfig struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
}

// Config holds all configuration for the application.
type Config struct {
	Port                  int
	DatabaseURL           string
	ChannelSecret         string
	ChannelAccessToken    string
	BotID                 string
	DefaultTimezone       string
	NextDayThresholdHours int
	Triggers              []TriggerConfig
	LogLevel              string
	Environment           string
}

// DefaultTriggers is the built-in trigger table, in priority order.
// add_reminder must come before reminder_explain: both match "!remind"
// prefixes and the first match wins.
func DefaultTriggers() []TriggerConfig {
	return []TriggerConfig{
		{Name: "add_reminder", Pattern: `{bot_id}\s+!remind(?:er)?(?P<advance>15)? (?P<timestamp>[^.]*).(?P<text>.*)`},
		{Name: "reminder_explain", Pattern: `!remind(?:er)?(?:15)? (?P<timestamp>[^.]*).(?P<text>.*)`},
		{Name: "cancel_reminder", Pattern: `!cancelreminder\s+(?P<id>\d+)`},
		{Name: "set_timezone", Pattern: `!timezone\s+(?P<zone>\S+)`},
		{Name: "get_timezone", Pattern: `!timezone\s*$`},
	}
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*Config, error) {
	// Errors are ignored if the file doesn't exist; existing env
	// variables are never overridden.
	_ = godotenv.Load()

	cfg := &Config{
		Port:                  8080,
		DatabaseURL:           "tildy.db",
		DefaultTimezone:       "UTC",
		NextDayThresholdHours: 6,
		Triggers:              DefaultTriggers(),
		LogLevel:              "info",
		Environment:           "development",
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		cfg.Port = port
	}

	if dbURL := os.Getenv("TILDY_DB_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}

	cfg.ChannelSecret = os.Getenv("CHANNEL_SECRET")
	if cfg.ChannelSecret == "" {
		return nil, fmt.Errorf("CHANNEL_SECRET is not set")
	}
	cfg.ChannelAccessToken = os.Getenv("CHANNEL_ACCESS_TOKEN")
	if cfg.ChannelAccessToken == "" {
		return nil, fmt.Errorf("CHANNEL_ACCESS_TOKEN is not set")
	}

	cfg.BotID = os.Getenv("TILDY_BOT_ID")
	if cfg.BotID == "" {
		cfg.BotID = "@tildy"
	}

	if zone := os.Getenv("TILDY_DEFAULT_TIMEZONE"); zone != "" {
		cfg.DefaultTimezone = zone
	}

	if thresholdStr := os.Getenv("TILDY_NEXT_DAY_THRESHOLD_HOURS"); thresholdStr != "" {
		threshold, err := strconv.Atoi(thresholdStr)
		if err != nil {
			return nil, fmt.Errorf("invalid TILDY_NEXT_DAY_THRESHOLD_HOURS: %w", err)
		}
		cfg.NextDayThresholdHours = threshold
	}

	if encoded := os.Getenv("TILDY_TRIGGERS"); encoded != "" {
		var triggers []TriggerConfig
		if err := decodeBase64JSON(encoded, &triggers); err != nil {
			return nil, fmt.Errorf("unable to decode TILDY_TRIGGERS: %w", err)
		}
		cfg.Triggers = triggers
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		cfg.Environment = strings.ToLower(env)
	}

	return cfg, nil
}

// decodeBase64JSON decodes a base64-encoded JSON value into out.
// Structured config travels through env vars this way so quoting-heavy
// regex tables survive the shell.
func decodeBase64JSON(encoded string, out interface{}) error {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("invalid base64: %w", err)
	}
	if err := json.Unmarshal(decoded, out); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
