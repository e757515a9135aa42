// Package config loads the process-level runtime options: where settings
// live, how the service listens, renders and fetches. User-editable display
// settings are not here; see internal/settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// SMARTDISPLAY_SERVER_ADDRESS.
const EnvPrefix = "SMARTDISPLAY"

// Config holds all runtime configuration.
type Config struct {
	General GeneralConfig `mapstructure:"general"`
	Server  ServerConfig  `mapstructure:"server"`
	Render  RenderConfig  `mapstructure:"render"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Panel   PanelConfig   `mapstructure:"panel"`
	Storage StorageConfig `mapstructure:"storage"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	// DataDir is the base directory; settings go to <DataDir>/config/settings.yaml.
	DataDir string `mapstructure:"data_dir"`
}

func (g GeneralConfig) Normalize() GeneralConfig {
	g.DataDir = strings.TrimSpace(g.DataDir)
	if g.DataDir == "" {
		g.DataDir = "."
	}
	return g
}

// ServerConfig contains HTTP listen settings. An empty Address means the
// host and port from the settings tree are used.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// RenderConfig controls the templated render path.
type RenderConfig struct {
	ChromePath   string        `mapstructure:"chrome_path"`
	Timeout      time.Duration `mapstructure:"timeout"`
	TemplatesDir string        `mapstructure:"templates_dir"`
}

func (r RenderConfig) Normalize() RenderConfig {
	if r.Timeout <= 0 {
		r.Timeout = 30 * time.Second
	}
	return r
}

// FetchConfig bounds every upstream request.
type FetchConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	Retries  int           `mapstructure:"retries"`
	Backoff  time.Duration `mapstructure:"backoff"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

func (f FetchConfig) Normalize() FetchConfig {
	if f.Timeout <= 0 {
		f.Timeout = 10 * time.Second
	}
	if f.Backoff <= 0 {
		f.Backoff = 500 * time.Millisecond
	}
	return f
}

func (f FetchConfig) Validate() error {
	if f.Retries < 0 {
		return fmt.Errorf("fetch.retries cannot be negative")
	}
	if f.CacheTTL < 0 {
		return fmt.Errorf("fetch.cache_ttl cannot be negative")
	}
	return nil
}

// PanelConfig selects the e-paper driver and the preview fallback file.
type PanelConfig struct {
	Driver      string `mapstructure:"driver"`
	PreviewPath string `mapstructure:"preview_path"`
}

func (p PanelConfig) Normalize() PanelConfig {
	p.Driver = strings.ToLower(strings.TrimSpace(p.Driver))
	if p.Driver == "" {
		p.Driver = "none"
	}
	if strings.TrimSpace(p.PreviewPath) == "" {
		p.PreviewPath = "preview.png"
	}
	return p
}

// StorageConfig contains storage settings
type StorageConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig contains Redis connection settings. The fetch cache is
// disabled while Host is empty.
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether a redis cache is configured.
func (r RedisConfig) Enabled() bool { return strings.TrimSpace(r.Host) != "" }

func (r RedisConfig) Validate() error {
	if !r.Enabled() {
		return nil
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("storage.redis.port required when host is set")
	}
	if r.DB < 0 {
		return fmt.Errorf("storage.redis.db cannot be negative")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.data_dir", ".")
	v.SetDefault("server.address", "")
	v.SetDefault("render.chrome_path", "")
	v.SetDefault("render.timeout", "30s")
	v.SetDefault("render.templates_dir", "templates")
	v.SetDefault("fetch.timeout", "10s")
	v.SetDefault("fetch.retries", 1)
	v.SetDefault("fetch.backoff", "500ms")
	v.SetDefault("fetch.cache_ttl", "5m")
	v.SetDefault("panel.driver", "none")
	v.SetDefault("panel.preview_path", "preview.png")
	v.SetDefault("storage.redis.host", "")
	v.SetDefault("storage.redis.port", "6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.timeout", "2s")
}

// LoadConfig reads smartdisplay.yaml (or the file at path) and
// SMARTDISPLAY_* environment overrides on top of the defaults. A missing
// config file is fine when path is empty.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("smartdisplay")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		if exe, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(exe))
		}
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.General = cfg.General.Normalize()
	cfg.Render = cfg.Render.Normalize()
	cfg.Fetch = cfg.Fetch.Normalize()
	cfg.Panel = cfg.Panel.Normalize()

	if err := cfg.Fetch.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.Redis.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
