// Package settings loads grip's configuration from its home directory and
// the environment.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/vyk2rr/grip/internal/apperr"
)

const (
	// HomeEnv names the environment variable that overrides the home directory.
	HomeEnv = "GRIPHOME"
	// FileName is the settings file looked up in the home directory.
	FileName = "settings.toml"
	// LocalFileName is merged over FileName when present.
	LocalFileName = "settings_local.toml"

	DefaultHost     = "localhost"
	DefaultPort     = 6419
	defaultCacheDir = "cache-{version}"
)

// Settings holds grip's resolved configuration.
type Settings struct {
	Home           string `mapstructure:"-"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	APIURL         string `mapstructure:"api_url"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	AutoRefresh    bool   `mapstructure:"autorefresh"`
	Debug          bool   `mapstructure:"debug"`
	Quiet          bool   `mapstructure:"quiet"`
	CacheDirectory string `mapstructure:"cache_directory"`
}

// Options controls where settings are loaded from. Zero values select the
// defaults: $GRIPHOME or ~/.grip.
type Options struct {
	Home    string
	Version string
}

// Load reads settings.toml and settings_local.toml from the grip home
// directory, applies GRIP_* environment overrides and fills in defaults.
// A malformed settings file is reported as a validation error.
func Load(opts Options) (*Settings, error) {
	home, err := resolveHome(opts.Home)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("host", DefaultHost)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("api_url", "")
	v.SetDefault("username", "")
	v.SetDefault("password", "")
	v.SetDefault("autorefresh", true)
	v.SetDefault("debug", false)
	v.SetDefault("quiet", false)
	v.SetDefault("cache_directory", defaultCacheDir)

	v.SetEnvPrefix("GRIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// GRIPURL predates the GRIP_ prefix and is still honored.
	if err := v.BindEnv("api_url", "GRIP_API_URL", "GRIPURL"); err != nil {
		return nil, fmt.Errorf("bind api_url: %w", err)
	}

	for _, name := range []string{FileName, LocalFileName} {
		path := filepath.Join(home, name)
		if !fileExists(path) {
			continue
		}
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.MergeInConfig(); err != nil {
			return nil, apperr.Wrap(err, fmt.Sprintf("Invalid settings file %s: %v", path, err))
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, apperr.Wrap(err, fmt.Sprintf("Invalid settings: %v", err))
	}
	s.Home = home

	if s.Port < 0 || s.Port > 65535 {
		return nil, apperr.Invalid("Invalid port in settings: %d", s.Port)
	}

	s.CacheDirectory = expandCacheDir(home, s.CacheDirectory, opts.Version)
	return s, nil
}

// Default returns the settings used when nothing is configured.
func Default(home, version string) *Settings {
	return &Settings{
		Home:           home,
		Host:           DefaultHost,
		Port:           DefaultPort,
		AutoRefresh:    true,
		CacheDirectory: expandCacheDir(home, defaultCacheDir, version),
	}
}

func resolveHome(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if home := os.Getenv(HomeEnv); home != "" {
		return home, nil
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(userHome, ".grip"), nil
}

// expandCacheDir substitutes {version} and anchors relative paths at home.
func expandCacheDir(home, dir, version string) string {
	if version == "" {
		version = "dev"
	}
	dir = strings.ReplaceAll(dir, "{version}", version)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(home, dir)
	}
	return dir
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
