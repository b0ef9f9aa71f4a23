package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/airwaves/internal/radiobrowser"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.UserAgent != radiobrowser.DefaultUserAgent {
		t.Fatalf("UserAgent = %q, want %q", cfg.UserAgent, radiobrowser.DefaultUserAgent)
	}
	if cfg.BootstrapURL != radiobrowser.DefaultBootstrapURL {
		t.Fatalf("BootstrapURL = %q, want %q", cfg.BootstrapURL, radiobrowser.DefaultBootstrapURL)
	}
	if cfg.Timeout != radiobrowser.DefaultTimeout {
		t.Fatalf("Timeout = %v, want %v", cfg.Timeout, radiobrowser.DefaultTimeout)
	}
	if cfg.PageSize != defaultPageSize || cfg.Order != defaultOrder || !cfg.HideBroken {
		t.Fatalf("listing defaults = %d/%q/%v, want %d/%q/true", cfg.PageSize, cfg.Order, cfg.HideBroken, defaultPageSize, defaultOrder)
	}
	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("PollInterval = %v, want %v", cfg.PollInterval, defaultPollInterval)
	}
	if cfg.MetricsAddr != "" {
		t.Fatalf("MetricsAddr = %q, want empty", cfg.MetricsAddr)
	}

	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
user_agent = "  my-player/2.0  "
timeout_seconds = 3
bootstrap_url = " http://127.0.0.1:9000/json/servers "
page_size = 25
order = "clickcount"
reverse = true
hide_broken = false
poll_seconds = 90
log_file = "~/logs/airwaves.log"
metrics_addr = " 127.0.0.1:9090 "
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.UserAgent != "my-player/2.0" {
		t.Fatalf("UserAgent = %q, want %q", cfg.UserAgent, "my-player/2.0")
	}
	if cfg.Timeout != 3*time.Second {
		t.Fatalf("Timeout = %v, want 3s", cfg.Timeout)
	}
	if cfg.BootstrapURL != "http://127.0.0.1:9000/json/servers" {
		t.Fatalf("BootstrapURL = %q", cfg.BootstrapURL)
	}
	if cfg.PageSize != 25 || cfg.Order != "clickcount" || !cfg.Reverse || cfg.HideBroken {
		t.Fatalf("listing = %d/%q/%v/%v, want 25/clickcount/true/false", cfg.PageSize, cfg.Order, cfg.Reverse, cfg.HideBroken)
	}
	if cfg.PollInterval != 90*time.Second {
		t.Fatalf("PollInterval = %v, want 90s", cfg.PollInterval)
	}
	if cfg.LogFile != filepath.Join(home, "logs", "airwaves.log") {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.MetricsAddr != "127.0.0.1:9090" {
		t.Fatalf("MetricsAddr = %q, want %q", cfg.MetricsAddr, "127.0.0.1:9090")
	}
}

func TestLoad_EmptyAndNonPositiveValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, `
user_agent = "   "
timeout_seconds = 0
page_size = -5
order = ""
poll_seconds = 0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Default()
	if cfg.UserAgent != want.UserAgent || cfg.Timeout != want.Timeout || cfg.PageSize != want.PageSize {
		t.Fatalf("cfg = %+v, want defaults %+v", cfg, want)
	}
	if cfg.Order != want.Order || cfg.PollInterval != want.PollInterval {
		t.Fatalf("cfg = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AIRWAVES_USER_AGENT", "env-agent/1.0")
	t.Setenv("AIRWAVES_TIMEOUT", "7")
	t.Setenv("AIRWAVES_PAGE_SIZE", "10")
	t.Setenv("AIRWAVES_ORDER", "name")
	t.Setenv("AIRWAVES_HIDE_BROKEN", "false")
	t.Setenv("AIRWAVES_METRICS_ADDR", ":9100")

	path := writeConfig(t, `
user_agent = "file-agent/1.0"
page_size = 50
hide_broken = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.UserAgent != "env-agent/1.0" {
		t.Fatalf("UserAgent = %q, want env-agent/1.0", cfg.UserAgent)
	}
	if cfg.Timeout != 7*time.Second {
		t.Fatalf("Timeout = %v, want 7s", cfg.Timeout)
	}
	if cfg.PageSize != 10 || cfg.Order != "name" || cfg.HideBroken {
		t.Fatalf("listing = %d/%q/%v, want 10/name/false", cfg.PageSize, cfg.Order, cfg.HideBroken)
	}
	if cfg.MetricsAddr != ":9100" {
		t.Fatalf("MetricsAddr = %q, want :9100", cfg.MetricsAddr)
	}
}

func TestLoad_InvalidEnvironmentFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AIRWAVES_PAGE_SIZE", "lots")

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatalf("Load returned nil error, want environment parse error")
	}
	if !strings.Contains(err.Error(), "parse environment") {
		t.Fatalf("Load error = %q, want it to mention parse environment", err.Error())
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := writeConfig(t, `user_agent = [`)
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestConfig_Filter(t *testing.T) {
	cfg := Config{PageSize: 20, Order: "votes", Reverse: true, HideBroken: true}
	if got := cfg.Filter().Encode(); got != "limit=20&offset=0&order=votes&reverse=true&hidebroken=true" {
		t.Fatalf("Filter().Encode() = %q", got)
	}

	cfg.Order = ""
	cfg.HideBroken = false
	if got := cfg.Filter().Encode(); got != "limit=20&offset=0&hidebroken=false" {
		t.Fatalf("Filter().Encode() without order = %q", got)
	}
}

func TestConfig_ClientOptions(t *testing.T) {
	cfg := Default()
	cfg.UserAgent = "custom/1.0"

	client := radiobrowser.NewClient(cfg.ClientOptions()...)
	if client.UserAgent() != "custom/1.0" {
		t.Fatalf("UserAgent() = %q, want custom/1.0", client.UserAgent())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
