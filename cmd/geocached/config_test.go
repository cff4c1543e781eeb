package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/unkn0wn-root/geocache"
)

func TestDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no geocached.yaml in sight

	cfg, err := loadConfig(viper.New(), "")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Listen != ":8080" || cfg.LogBackend != "zap" || cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("cfg=%+v", cfg)
	}
	for _, name := range []string{geocache.CacheGeocoding, geocache.CacheReverseGeocoding} {
		cc, ok := cfg.Caches[name]
		if !ok || cc.MaxSize != 5 || cc.TTL != 2*time.Minute {
			t.Fatalf("cache %q: %+v ok=%v", name, cc, ok)
		}
	}
	if !strings.Contains(cfg.Provider.ForwardURL, "ADDRESS") {
		t.Fatalf("forward url=%q", cfg.Provider.ForwardURL)
	}
}

func TestFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "geocached.yaml")
	yaml := `
listen: ":9090"
log_backend: slog
caches:
  geocoding:
    max_size: 50
    ttl: 30s
provider:
  rate_limit: 2.5
`
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GEOCACHED_LOG_BACKEND", "logrus")
	t.Setenv("GEOCACHED_CACHES_REVERSE-GEOCODING_TTL", "45s")
	t.Setenv("GEOCACHED_PROVIDER_ACCESS_KEY", "k")

	cfg, err := loadConfig(viper.New(), file)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Listen != ":9090" {
		t.Fatalf("listen=%q", cfg.Listen)
	}
	if cfg.LogBackend != "logrus" {
		t.Fatalf("env should override file, got %q", cfg.LogBackend)
	}
	if cc := cfg.Caches[geocache.CacheGeocoding]; cc.MaxSize != 50 || cc.TTL != 30*time.Second {
		t.Fatalf("geocoding=%+v", cc)
	}
	if cc := cfg.Caches[geocache.CacheReverseGeocoding]; cc.MaxSize != 5 || cc.TTL != 45*time.Second {
		t.Fatalf("reverse-geocoding=%+v", cc)
	}
	if cfg.Provider.RateLimit != 2.5 || cfg.Provider.AccessKey != "k" {
		t.Fatalf("provider=%+v", cfg.Provider)
	}
}

func TestFlagsOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GEOCACHED_LISTEN", ":7000")

	cmd := newRootCmd()
	if err := cmd.Flags().Parse([]string{"--listen", ":7777", "--log-backend", "slog"}); err != nil {
		t.Fatal(err)
	}
	v := viper.New()
	if err := bindFlags(v, cmd.Flags()); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(v, "")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Listen != ":7777" || cfg.LogBackend != "slog" {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestInvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GEOCACHED_LOG_BACKEND", "stdout")
	if _, err := loadConfig(viper.New(), ""); err == nil {
		t.Fatalf("unknown backend should fail")
	}

	if _, err := loadConfig(viper.New(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("explicit missing file should fail")
	}
}

func TestNewLoggerBackends(t *testing.T) {
	for _, b := range []string{"zap", "logrus", "slog"} {
		var buf bytes.Buffer
		l, flush, err := newLogger(b, "info", &buf)
		if err != nil {
			t.Fatalf("%s: %v", b, err)
		}
		l.Debug("hidden", nil)
		l.Info("listening", geocache.Fields{"addr": ":8080"})
		flush()

		out := buf.String()
		if strings.Contains(out, "hidden") || !strings.Contains(out, "listening") || !strings.Contains(out, ":8080") {
			t.Fatalf("%s output: %s", b, out)
		}
	}
	if _, _, err := newLogger("zap", "loud", &bytes.Buffer{}); err == nil {
		t.Fatalf("bad level should fail")
	}
}
