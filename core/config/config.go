package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// ErrTokenRequired is returned when no bot token is configured.
var ErrTokenRequired = errors.New("telegram token is required")

// TelegramConfig holds Telegram bot settings.
type TelegramConfig struct {
	Token string `yaml:"token" envconfig:"BOT_TOKEN"`
	// AdminID is the operator chat id; 0 leaves admin-only behaviour unreachable.
	AdminID int64  `yaml:"admin_id" envconfig:"ADMIN_CHAT_ID"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// RelayConfig tunes the reply-session behaviour.
type RelayConfig struct {
	ReplyTTLMinutes int `yaml:"reply_ttl_minutes" envconfig:"RELAY_REPLY_TTL_MINUTES"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format      string `yaml:"format" envconfig:"LOG_FORMAT"`
	KeysOrder   string `yaml:"keys_order" envconfig:"LOG_KEYS_ORDER"`
	DebugSample string `yaml:"debug_sample" envconfig:"LOG_DEBUG_SAMPLE"`
	Dir         string `yaml:"dir" envconfig:"LOG_DIR"`
	File        string `yaml:"file" envconfig:"LOG_FILE"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile" envconfig:"LOG_PROFILE"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"

	// DefaultReplyTTLMinutes is how long a reply session stays valid.
	DefaultReplyTTLMinutes = 10
	// DefaultLongPollTimeoutSeconds is used when no timeout is configured.
	DefaultLongPollTimeoutSeconds = 10
)

// Config aggregates the bot configuration.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	Relay    RelayConfig    `yaml:"relay"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ReplyTTL returns the reply-session lifetime.
func (c *Config) ReplyTTL() time.Duration {
	return time.Duration(c.Relay.ReplyTTLMinutes) * time.Minute
}

// Load reads configuration from an optional YAML file and environment variables.
// An empty path means environment only.
func Load(path string) (*Config, error) {
	var cfg Config

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates cfg in place and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	cfg.Telegram.Token = strings.TrimSpace(cfg.Telegram.Token)
	if cfg.Telegram.Token == "" {
		return ErrTokenRequired
	}
	if err := cfg.normalizeRunMode(); err != nil {
		return err
	}
	return cfg.normalizeRelay()
}

func (c *Config) normalizeRunMode() error {
	mode := strings.ToLower(strings.TrimSpace(c.Telegram.RunMode))
	switch mode {
	case "", "polling", RunModeLongpoll:
		mode = RunModeLongpoll
		switch t := c.Telegram.LongPollTimeoutSeconds; {
		case t < 0:
			return errors.New("telegram.longpoll_timeout_seconds must be >= 0")
		case t == 0:
			c.Telegram.LongPollTimeoutSeconds = DefaultLongPollTimeoutSeconds
		}
	case RunModeWebhook:
		var missing []string
		if strings.TrimSpace(c.Webhook.URL) == "" {
			missing = append(missing, "webhook.url")
		}
		if strings.TrimSpace(c.Webhook.Listen) == "" {
			missing = append(missing, "webhook.listen")
		}
		if c.Webhook.Port <= 0 {
			missing = append(missing, "webhook.port")
		}
		if len(missing) > 0 {
			return fmt.Errorf("webhook mode requires %s", strings.Join(missing, ", "))
		}
	default:
		return fmt.Errorf("unknown telegram.run_mode %q (want %s or %s)", c.Telegram.RunMode, RunModeLongpoll, RunModeWebhook)
	}
	c.Telegram.RunMode = mode
	return nil
}

func (c *Config) normalizeRelay() error {
	switch {
	case c.Relay.ReplyTTLMinutes < 0:
		return errors.New("relay.reply_ttl_minutes must be >= 0")
	case c.Relay.ReplyTTLMinutes == 0:
		c.Relay.ReplyTTLMinutes = DefaultReplyTTLMinutes
	}
	return nil
}
