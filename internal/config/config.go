package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v8"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/airwaves/internal/radiobrowser"
)

// Config holds the settings airwaves reads at startup.
type Config struct {
	UserAgent    string
	Timeout      time.Duration
	BootstrapURL string
	PageSize     int
	Order        string
	Reverse      bool
	HideBroken   bool
	PollInterval time.Duration
	LogFile      string
	MetricsAddr  string // Empty disables the status server
}

const (
	defaultConfigPath   = "~/.config/airwaves/config.toml"
	defaultLogFile      = "~/.local/share/airwaves/airwaves.log"
	defaultPageSize     = 100
	defaultOrder        = "votes"
	defaultPollInterval = 5 * time.Minute

	envPrefix = "AIRWAVES_"
)

// fileConfig mirrors config.toml. Pointers distinguish an absent key from a
// zero value.
type fileConfig struct {
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds *int   `toml:"timeout_seconds"`
	BootstrapURL   string `toml:"bootstrap_url"`
	PageSize       *int   `toml:"page_size"`
	Order          string `toml:"order"`
	Reverse        *bool  `toml:"reverse"`
	HideBroken     *bool  `toml:"hide_broken"`
	PollSeconds    *int   `toml:"poll_seconds"`
	LogFile        string `toml:"log_file"`
	MetricsAddr    string `toml:"metrics_addr"`
}

// envConfig lists the AIRWAVES_* overrides. Unset variables leave the
// pointers nil.
type envConfig struct {
	UserAgent    *string `env:"USER_AGENT"`
	Timeout      *int    `env:"TIMEOUT"`
	BootstrapURL *string `env:"BOOTSTRAP_URL"`
	PageSize     *int    `env:"PAGE_SIZE"`
	Order        *string `env:"ORDER"`
	HideBroken   *bool   `env:"HIDE_BROKEN"`
	MetricsAddr  *string `env:"METRICS_ADDR"`
	LogFile      *string `env:"LOG_FILE"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		UserAgent:    radiobrowser.DefaultUserAgent,
		Timeout:      radiobrowser.DefaultTimeout,
		BootstrapURL: radiobrowser.DefaultBootstrapURL,
		PageSize:     defaultPageSize,
		Order:        defaultOrder,
		HideBroken:   true,
		PollInterval: defaultPollInterval,
		LogFile:      mustExpand(defaultLogFile),
	}
}

// Load locates and parses the airwaves config, falling back to defaults when
// the file is missing, then applies AIRWAVES_* environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	if raw != nil {
		cfg.applyFile(*raw)
	}

	var overrides envConfig
	if err := env.ParseWithOptions(&overrides, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	cfg.applyEnv(overrides)

	cfg.LogFile = mustExpand(cfg.LogFile)
	return cfg, nil
}

func readFile(path string) (*fileConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &raw, nil
}

func (c *Config) applyFile(raw fileConfig) {
	setString(&c.UserAgent, raw.UserAgent)
	setString(&c.BootstrapURL, raw.BootstrapURL)
	setString(&c.Order, raw.Order)
	setString(&c.LogFile, raw.LogFile)
	c.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)

	if raw.TimeoutSeconds != nil && *raw.TimeoutSeconds > 0 {
		c.Timeout = time.Duration(*raw.TimeoutSeconds) * time.Second
	}
	if raw.PageSize != nil && *raw.PageSize > 0 {
		c.PageSize = *raw.PageSize
	}
	if raw.PollSeconds != nil && *raw.PollSeconds > 0 {
		c.PollInterval = time.Duration(*raw.PollSeconds) * time.Second
	}
	if raw.Reverse != nil {
		c.Reverse = *raw.Reverse
	}
	if raw.HideBroken != nil {
		c.HideBroken = *raw.HideBroken
	}
}

func (c *Config) applyEnv(o envConfig) {
	if o.UserAgent != nil {
		setString(&c.UserAgent, *o.UserAgent)
	}
	if o.BootstrapURL != nil {
		setString(&c.BootstrapURL, *o.BootstrapURL)
	}
	if o.Order != nil {
		setString(&c.Order, *o.Order)
	}
	if o.LogFile != nil {
		setString(&c.LogFile, *o.LogFile)
	}
	if o.MetricsAddr != nil {
		c.MetricsAddr = strings.TrimSpace(*o.MetricsAddr)
	}
	if o.Timeout != nil && *o.Timeout > 0 {
		c.Timeout = time.Duration(*o.Timeout) * time.Second
	}
	if o.PageSize != nil && *o.PageSize > 0 {
		c.PageSize = *o.PageSize
	}
	if o.HideBroken != nil {
		c.HideBroken = *o.HideBroken
	}
}

// setString assigns v to dst unless v is blank.
func setString(dst *string, v string) {
	if trimmed := strings.TrimSpace(v); trimmed != "" {
		*dst = trimmed
	}
}

// Filter returns the listing filter for the first page.
func (c Config) Filter() radiobrowser.ListingFilter {
	f := radiobrowser.ListingFilter{
		Limit:      radiobrowser.Int(c.PageSize),
		Offset:     radiobrowser.Int(0),
		HideBroken: radiobrowser.Bool(c.HideBroken),
	}
	if c.Order != "" {
		f.Order = radiobrowser.String(c.Order)
		f.Reverse = radiobrowser.Bool(c.Reverse)
	}
	return f
}

// ClientOptions returns the radiobrowser options derived from c.
func (c Config) ClientOptions() []radiobrowser.Option {
	return []radiobrowser.Option{
		radiobrowser.WithUserAgent(c.UserAgent),
		radiobrowser.WithTimeout(c.Timeout),
		radiobrowser.WithBootstrapURL(c.BootstrapURL),
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
