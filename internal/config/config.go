// Package config loads the runtime configuration of the sales message service.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ErrInvalidConfig is returned by Validate when a setting is out of range.
var ErrInvalidConfig = errors.New("invalid config")

const envPrefix = "SALES"

// DefaultKeywords are the product tokens a message must mention to be accepted.
var DefaultKeywords = []string{"mango", "mangos", "apple", "apples", "orange", "oranges"}

// Config holds every knob of the service. The zero value is not usable; start from Default.
type Config struct {
	Report  ReportConfig  `mapstructure:"report" toml:"report"`
	Message MessageConfig `mapstructure:"message" toml:"message"`
	TCP     TCPConfig     `mapstructure:"tcp" toml:"tcp"`
	HTTP    HTTPConfig    `mapstructure:"http" toml:"http"`
	Log     LogConfig     `mapstructure:"log" toml:"log"`
}

// ReportConfig controls the message-count thresholds.
type ReportConfig struct {
	// Period is the number of messages between two periodic reports.
	Period int `mapstructure:"period" toml:"period"`
	// PauseCeiling is the message count at which reporting pauses and adjustments are replayed.
	PauseCeiling int `mapstructure:"pause_ceiling" toml:"pause_ceiling"`
}

// MessageConfig controls line validation and field extraction.
type MessageConfig struct {
	MinLength       int      `mapstructure:"min_length" toml:"min_length"`
	Keywords        []string `mapstructure:"keywords" toml:"keywords"`
	CurrencySymbols string   `mapstructure:"currency_symbols" toml:"currency_symbols"`
}

type TCPConfig struct {
	Addr string `mapstructure:"addr" toml:"addr"`
}

type HTTPConfig struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled"`
	Addr    string `mapstructure:"addr" toml:"addr"`
}

type LogConfig struct {
	Level       string `mapstructure:"level" toml:"level"`
	Development bool   `mapstructure:"development" toml:"development"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Report: ReportConfig{
			Period:       10,
			PauseCeiling: 50,
		},
		Message: MessageConfig{
			MinLength:       10,
			Keywords:        append([]string(nil), DefaultKeywords...),
			CurrencySymbols: "£$",
		},
		TCP:  TCPConfig{Addr: "localhost:9898"},
		HTTP: HTTPConfig{Enabled: true, Addr: ":8081"},
		Log:  LogConfig{Level: "info"},
	}
}

// Load reads configuration from defaults, an optional file at path and
// SALES_* environment variables, in increasing order of precedence.
func Load(v *viper.Viper, path string) (Config, error) {
	if v == nil {
		v = viper.New()
	}
	setDefaults(v, Default())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
			v.SetConfigType(ext)
		}
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	// Env values for lists arrive as a single string.
	if len(cfg.Message.Keywords) == 1 && strings.Contains(cfg.Message.Keywords[0], ",") {
		cfg.Message.Keywords = splitList(cfg.Message.Keywords[0])
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("report.period", d.Report.Period)
	v.SetDefault("report.pause_ceiling", d.Report.PauseCeiling)
	v.SetDefault("message.min_length", d.Message.MinLength)
	v.SetDefault("message.keywords", d.Message.Keywords)
	v.SetDefault("message.currency_symbols", d.Message.CurrencySymbols)
	v.SetDefault("tcp.addr", d.TCP.Addr)
	v.SetDefault("http.enabled", d.HTTP.Enabled)
	v.SetDefault("http.addr", d.HTTP.Addr)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.development", d.Log.Development)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports the first setting that the service cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Report.Period <= 0:
		return fmt.Errorf("%w: report.period must be > 0, got %d", ErrInvalidConfig, c.Report.Period)
	case c.Report.PauseCeiling <= 0:
		return fmt.Errorf("%w: report.pause_ceiling must be > 0, got %d", ErrInvalidConfig, c.Report.PauseCeiling)
	case c.Message.MinLength < 0:
		return fmt.Errorf("%w: message.min_length must be >= 0, got %d", ErrInvalidConfig, c.Message.MinLength)
	case c.TCP.Addr == "":
		return fmt.Errorf("%w: tcp.addr is empty", ErrInvalidConfig)
	case c.HTTP.Enabled && c.HTTP.Addr == "":
		return fmt.Errorf("%w: http.addr is empty", ErrInvalidConfig)
	}
	if len(c.Message.Keywords) == 0 {
		return fmt.Errorf("%w: message.keywords is empty", ErrInvalidConfig)
	}
	for _, k := range c.Message.Keywords {
		if k == "" {
			return fmt.Errorf("%w: message.keywords contains an empty keyword", ErrInvalidConfig)
		}
	}
	return nil
}
