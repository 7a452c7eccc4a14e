package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config captures the settings axedeck reads from its config file and environment.
type Config struct {
	Path         string
	Devices      string
	Addresses    []string
	PollInterval time.Duration
	Timeout      time.Duration
	HideZero     bool
	LogFile      string
	Debug        bool
}

const (
	defaultConfigPath   = "~/.config/axedeck/config.toml"
	defaultPollInterval = 5 * time.Second
	envPrefix           = "AXEDECK"
)

// DefaultPath returns the default config file location before expansion.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the axedeck config, falling back to defaults when the
// file is missing. AXEDECK_* environment variables override file values.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	v := newViper(resolved)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg := Config{
		Path:     resolved,
		Devices:  strings.TrimSpace(v.GetString("devices")),
		HideZero: v.GetBool("hide_zero"),
		Debug:    v.GetBool("debug"),
	}
	cfg.Addresses = ParseAddresses(cfg.Devices)

	cfg.PollInterval, err = durationSetting(v.Get("poll_interval"))
	if err != nil {
		return Config{}, fmt.Errorf("parse poll_interval: %w", err)
	}
	cfg.Timeout, err = durationSetting(v.Get("timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("parse timeout: %w", err)
	}

	if logFile := strings.TrimSpace(v.GetString("log_file")); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}

	return cfg, nil
}

// Watch re-reads the config file whenever it changes on disk and hands the
// result to fn. The file must exist when Watch is called.
func Watch(path string, fn func(Config, error)) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(resolved); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	v := newViper(resolved)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	v.OnConfigChange(func(fsnotify.Event) {
		fn(Load(resolved))
	})
	v.WatchConfig()
	return nil
}

// WithDevices returns a copy of c whose address list comes from raw instead of
// the config file.
func (c Config) WithDevices(raw string) Config {
	c.Devices = strings.TrimSpace(raw)
	c.Addresses = ParseAddresses(c.Devices)
	return c
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("devices", "")
	v.SetDefault("poll_interval", defaultPollInterval.String())
	v.SetDefault("timeout", "0s")
	v.SetDefault("hide_zero", false)
	v.SetDefault("log_file", "")
	v.SetDefault("debug", false)
	return v
}

// durationSetting accepts Go duration strings ("5s") or bare numbers, which
// are read as seconds.
func durationSetting(raw any) (time.Duration, error) {
	var d time.Duration
	switch value := raw.(type) {
	case nil:
		return 0, nil
	case time.Duration:
		d = value
	case int:
		d = time.Duration(value) * time.Second
	case int64:
		d = time.Duration(value) * time.Second
	case float64:
		d = time.Duration(value * float64(time.Second))
	case string:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return 0, nil
		}
		if secs, err := strconv.ParseFloat(trimmed, 64); err == nil {
			d = time.Duration(secs * float64(time.Second))
			break
		}
		parsed, err := time.ParseDuration(trimmed)
		if err != nil {
			return 0, err
		}
		d = parsed
	default:
		return 0, fmt.Errorf("unsupported value %v", raw)
	}
	if d < 0 {
		return 0, fmt.Errorf("must not be negative, got %s", d)
	}
	return d, nil
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
