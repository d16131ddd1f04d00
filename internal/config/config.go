package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the main config struct
type Config struct {
	Environment string            `yaml:"environment" env:"ENVIRONMENT" env-default:"production" env-description:"Environment name"`
	Secret      string            `yaml:"secret" env:"SECRET" env-default:"" env-description:"Secret key for the admin API bearer authorization"`
	Verbose     string            `yaml:"verbose" env:"VERBOSE" env-default:"info" env-description:"Verbose mode for debug output"`
	Database    DatabaseConfig    `yaml:"database"`
	Telegram    TelegramConfig    `yaml:"telegram"`
	Moderation  ModerationConfig  `yaml:"moderation"`
	Classifier  ClassifierConfig  `yaml:"classifier"`
	Transcriber TranscriberConfig `yaml:"transcriber"`
	API         APIConfig         `yaml:"api"`
	Influx      InfluxConfig      `yaml:"influx"`
	Proxy       ProxyConfig       `yaml:"proxy"`
}

// Telegram config
type TelegramConfig struct {
	Token     string        `yaml:"token" env:"TELEGRAM_TOKEN" env-required:"true" env-description:"Telegram bot token"`
	Timeout   time.Duration `yaml:"timeout" env:"TELEGRAM_TIMEOUT" env-default:"10s" env-description:"Long polling timeout"`
	Chats     []int64       `yaml:"chats" env:"TELEGRAM_CHATS" env-description:"Chats to moderate, empty means all"`
	Admins    []int64       `yaml:"admins" env:"TELEGRAM_ADMINS" env-description:"Admin user ids"`
	Whitelist []int64       `yaml:"whitelist" env:"TELEGRAM_WHITELIST" env-description:"Whitelisted user ids"`
	Blacklist []int64       `yaml:"blacklist" env:"TELEGRAM_BLACKLIST" env-description:"Blacklisted user ids"`
	IgnoreVia bool          `yaml:"ignore_via" env:"TELEGRAM_IGNORE_VIA" env-default:"false" env-description:"Ignore messages sent via inline bots"`
}

// Moderation policy config
type ModerationConfig struct {
	WarnAtCount       int           `yaml:"warn_at_count" env:"MODERATION_WARN_AT_COUNT" env-default:"8" env-description:"Toxic count that triggers the warning"`
	BlockAtCount      int           `yaml:"block_at_count" env:"MODERATION_BLOCK_AT_COUNT" env-default:"10" env-description:"Toxic count that triggers the block"`
	BlockDuration     time.Duration `yaml:"block_duration" env:"MODERATION_BLOCK_DURATION" env-default:"48h" env-description:"How long a blocked user stays blocked"`
	ToxicityThreshold float64       `yaml:"toxicity_threshold" env:"MODERATION_TOXICITY_THRESHOLD" env-default:"0.5" env-description:"Classifier score above which a message is toxic"`
	Keywords          []string      `yaml:"keywords" env:"MODERATION_KEYWORDS" env-description:"Keywords highlighted in the removal explanation"`
	FailOpen          bool          `yaml:"fail_open" env:"MODERATION_FAIL_OPEN" env-default:"true" env-description:"Admit the message when the classifier is unreachable"`
}

// Toxicity classifier service config
type ClassifierConfig struct {
	URL       string        `yaml:"url" env:"CLASSIFIER_URL" env-default:"" env-description:"Toxicity classifier endpoint"`
	Token     string        `yaml:"token" env:"CLASSIFIER_TOKEN" env-default:"" env-description:"Bearer token for the classifier endpoint"`
	Timeout   time.Duration `yaml:"timeout" env:"CLASSIFIER_TIMEOUT" env-default:"5s" env-description:"Classifier call timeout"`
	CacheSize int64         `yaml:"cache_size" env:"CLASSIFIER_CACHE_SIZE" env-default:"10000" env-description:"Max cached verdicts, 0 disables the cache"`
}

// Speech-to-text service config
type TranscriberConfig struct {
	URL     string        `yaml:"url" env:"TRANSCRIBER_URL" env-default:"" env-description:"Speech-to-text endpoint, empty disables voice moderation"`
	Token   string        `yaml:"token" env:"TRANSCRIBER_TOKEN" env-default:"" env-description:"Bearer token for the transcriber endpoint"`
	Timeout time.Duration `yaml:"timeout" env:"TRANSCRIBER_TIMEOUT" env-default:"15s" env-description:"Transcription call timeout"`
}

// API config
type APIConfig struct {
	Host         string        `yaml:"host" env:"API_HOST" env-default:"localhost" env-description:"API host address to bind to"`
	Port         int           `yaml:"port" env:"API_PORT" env-default:"8080" env-description:"API port to bind to"`
	Timeout      time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"30s"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"API_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"API_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"API_IDLE_TIMEOUT" env-default:"15s"`
}

// InfluxDB metrics config
type InfluxConfig struct {
	URL    string `yaml:"url" env:"INFLUX_URL" env-default:"" env-description:"InfluxDB url, empty disables metrics"`
	Token  string `yaml:"token" env:"INFLUX_TOKEN" env-default:""`
	Org    string `yaml:"org" env:"INFLUX_ORG" env-default:""`
	Bucket string `yaml:"bucket" env:"INFLUX_BUCKET" env-default:""`
}

// SOCKS5 proxy config for outgoing calls
type ProxyConfig struct {
	Address  string `yaml:"address" env:"PROXY_ADDRESS" env-default:""`
	Port     int    `yaml:"port" env:"PROXY_PORT" env-default:"0"`
	Username string `yaml:"username" env:"PROXY_USERNAME" env-default:""`
	Password string `yaml:"password" env:"PROXY_PASSWORD" env-default:""`
}

// SQLite or PostgreSQL config
type DatabaseConfig struct {
	// Driver is the database driver to use. Supported drivers are "sqlite3" and "postgres".
	Driver     string `yaml:"driver" env:"DATABASE_DRIVER" env-default:"sqlite3" env-description:"Database driver to use"`
	Connection string `yaml:"connection" env:"DATABASE_CONNECTION" env-default:":memory:" env-description:"Database connection string"`
}

// ConfigError - config loading error
type ConfigError struct {
	Message string
}

// Error - implement the error interface
func (e *ConfigError) Error() string {
	return e.Message
}

func MustLoadConfig() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yml"
	}

	var config Config

	// If the config file does not exist - read from environment variables only
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := cleanenv.ReadEnv(&config); err != nil {
			return nil, &ConfigError{
				Message: fmt.Sprintf("Cannot read config from environment: %s", err),
			}
		}

		return &config, nil
	}

	if err := cleanenv.ReadConfig(configPath, &config); err != nil {
		return nil, &ConfigError{
			Message: fmt.Sprintf("Cannot read config file: %s", err),
		}
	}

	return &config, nil
}
