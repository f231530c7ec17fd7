// Package config loads admin shell settings from YAML and ADMIN_* variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces environment overrides, e.g. ADMIN_SERVER_ADDR.
const EnvPrefix = "ADMIN"

// Config is the full runtime configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Log      LogConfig      `yaml:"log" envconfig:"LOG"`
	Shell    ShellConfig    `yaml:"shell" envconfig:"SHELL"`
	Mock     MockConfig     `yaml:"mock" envconfig:"MOCK"`
	Charts   ChartConfig    `yaml:"charts" envconfig:"CHARTS"`
	Activity ActivityConfig `yaml:"activity" envconfig:"ACTIVITY"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr           string        `yaml:"addr" envconfig:"ADDR" validate:"required"`
	Transport      string        `yaml:"transport" envconfig:"TRANSPORT" validate:"oneof=chi fiber"`
	BasePath       string        `yaml:"base_path" envconfig:"BASE_PATH"`
	APIPath        string        `yaml:"api_path" envconfig:"API_PATH" validate:"required,startswith=/"`
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" validate:"gt=0"`
	RateLimit      int           `yaml:"rate_limit" envconfig:"RATE_LIMIT" validate:"gte=0"`
	Production     bool          `yaml:"production" envconfig:"PRODUCTION"`
	MountMock      bool          `yaml:"mount_mock" envconfig:"MOUNT_MOCK"`
	AllowedOrigins []string      `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json"`
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
}

// ShellConfig tunes store defaults.
type ShellConfig struct {
	PageSize      int    `yaml:"page_size" envconfig:"PAGE_SIZE" validate:"gte=1,lte=100"`
	Breakpoint    int    `yaml:"breakpoint" envconfig:"BREAKPOINT" validate:"gte=1"`
	TUIBreakpoint int    `yaml:"tui_breakpoint" envconfig:"TUI_BREAKPOINT" validate:"gte=1"`
	IDStrategy    string `yaml:"id_strategy" envconfig:"ID_STRATEGY" validate:"oneof=sequential uuid"`
}

// MockConfig shapes the in-memory provider.
type MockConfig struct {
	DashboardDelay time.Duration `yaml:"dashboard_delay" envconfig:"DASHBOARD_DELAY" validate:"gte=0"`
	OrdersDelay    time.Duration `yaml:"orders_delay" envconfig:"ORDERS_DELAY" validate:"gte=0"`
	AddOrderDelay  time.Duration `yaml:"add_order_delay" envconfig:"ADD_ORDER_DELAY" validate:"gte=0"`
	SidebarDelay   time.Duration `yaml:"sidebar_delay" envconfig:"SIDEBAR_DELAY" validate:"gte=0"`
	OrderCount     int           `yaml:"order_count" envconfig:"ORDER_COUNT" validate:"gte=0"`
	// RemoteURL points the shell at a served mock API instead of the
	// in-process one.
	RemoteURL string `yaml:"remote_url" envconfig:"REMOTE_URL" validate:"omitempty,url"`
}

// ChartConfig controls chart rendering and caching.
type ChartConfig struct {
	Theme        string        `yaml:"theme" envconfig:"THEME" validate:"oneof=light dark"`
	AssetsHost   string        `yaml:"assets_host" envconfig:"ASSETS_HOST" validate:"omitempty,url"`
	CacheTTL     time.Duration `yaml:"cache_ttl" envconfig:"CACHE_TTL" validate:"gte=0"`
	CacheBackend string        `yaml:"cache_backend" envconfig:"CACHE_BACKEND" validate:"oneof=memory redis"`
	RedisAddr    string        `yaml:"redis_addr" envconfig:"REDIS_ADDR" validate:"required_if=CacheBackend redis"`
}

// ActivityConfig controls activity emission into the sidebar feed.
type ActivityConfig struct {
	Enabled bool   `yaml:"enabled" envconfig:"ENABLED"`
	Channel string `yaml:"channel" envconfig:"CHANNEL"`
}

// Default returns the demo configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			Transport:      "chi",
			APIPath:        "/api",
			RequestTimeout: 30 * time.Second,
			RateLimit:      120,
			MountMock:      true,
		},
		Log: LogConfig{Format: "text", Level: "info"},
		Shell: ShellConfig{
			PageSize:      8,
			Breakpoint:    768,
			TUIBreakpoint: 100,
			IDStrategy:    "sequential",
		},
		Mock: MockConfig{
			DashboardDelay: 2 * time.Second,
			OrdersDelay:    1500 * time.Millisecond,
			AddOrderDelay:  1500 * time.Millisecond,
			SidebarDelay:   1500 * time.Millisecond,
			OrderCount:     35,
		},
		Charts: ChartConfig{
			Theme:        "light",
			CacheTTL:     5 * time.Minute,
			CacheBackend: "memory",
			RedisAddr:    "127.0.0.1:6379",
		},
		Activity: ActivityConfig{Enabled: true, Channel: "admin"},
	}
}

// Load starts from Default, applies the YAML file at path when given, then
// ADMIN_* environment overrides, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path) //nolint:gosec
		if err != nil {
			return Config{}, fmt.Errorf("config: open %s: %w", path, err)
		}
		defer f.Close()
		if err := Decode(f, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode overlays YAML onto cfg. Unknown keys are rejected.
func Decode(r io.Reader, cfg *Config) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

// Validate checks field rules.
func (c Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}
