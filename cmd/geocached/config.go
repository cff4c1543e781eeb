package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/unkn0wn-root/geocache"
)

const envPrefix = "geocached"

type Config struct {
	Listen          string        `mapstructure:"listen"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	LogBackend string `mapstructure:"log_backend"` // zap, logrus or slog
	LogLevel   string `mapstructure:"log_level"`

	MetricsNamespace string `mapstructure:"metrics_namespace"`

	Shards int                             `mapstructure:"shards"`
	Caches map[string]geocache.CacheConfig `mapstructure:"caches"`
	Hooks  HooksConfig                     `mapstructure:"hooks"`

	Provider ProviderConfig `mapstructure:"provider"`
}

type HooksConfig struct {
	HitEvery     uint64 `mapstructure:"hit_every"`
	MissEvery    uint64 `mapstructure:"miss_every"`
	AsyncWorkers int    `mapstructure:"async_workers"`
	AsyncQueue   int    `mapstructure:"async_queue"`
}

type ProviderConfig struct {
	ForwardURL string        `mapstructure:"forward_url"`
	ReverseURL string        `mapstructure:"reverse_url"`
	AccessKey  string        `mapstructure:"access_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RateLimit  float64       `mapstructure:"rate_limit"`
	Burst      int           `mapstructure:"burst"`
	MaxBody    int           `mapstructure:"max_body"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", ":8080")
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("log_backend", "zap")
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics_namespace", "geocached")
	v.SetDefault("shards", 0)

	for name, cc := range geocache.DefaultConfig().Caches {
		v.SetDefault("caches."+name+".max_size", cc.MaxSize)
		v.SetDefault("caches."+name+".ttl", cc.TTL)
	}

	v.SetDefault("hooks.hit_every", 100)
	v.SetDefault("hooks.miss_every", 10)
	v.SetDefault("hooks.async_workers", 1)
	v.SetDefault("hooks.async_queue", 1024)

	v.SetDefault("provider.forward_url", "http://api.positionstack.com/v1/forward?access_key=ACCESS_KEY&query=ADDRESS")
	v.SetDefault("provider.reverse_url", "http://api.positionstack.com/v1/reverse?access_key=ACCESS_KEY&query=LATITUDE,LONGITUDE")
	v.SetDefault("provider.access_key", "")
	v.SetDefault("provider.timeout", 10*time.Second)
	v.SetDefault("provider.rate_limit", 0)
	v.SetDefault("provider.burst", 1)
	v.SetDefault("provider.max_body", 1<<20)
}

// bindFlags maps command line flags onto config keys.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for key, flag := range map[string]string{
		"listen":              "listen",
		"log_backend":         "log-backend",
		"log_level":           "log-level",
		"provider.access_key": "access-key",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return nil
}

// loadConfig resolves defaults, the optional YAML file, GEOCACHED_* env vars
// and flags, in increasing precedence. An empty file path searches the
// working directory and /etc/geocached for geocached.yaml.
func loadConfig(v *viper.Viper, file string) (Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("geocached")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/geocached")
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &nf) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.LogBackend {
	case "zap", "logrus", "slog":
	default:
		return fmt.Errorf("log_backend %q: want zap, logrus or slog", c.LogBackend)
	}
	if c.Listen == "" {
		return errors.New("listen address is empty")
	}
	if len(c.Caches) == 0 {
		return errors.New("no caches configured")
	}
	return nil
}

func (c Config) registryConfig(log geocache.Logger, hooks geocache.Hooks) geocache.Config {
	return geocache.Config{
		Caches: c.Caches,
		Logger: log,
		Hooks:  hooks,
		Shards: c.Shards,
	}
}
