package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "airwaves"

type Config struct {
	// Player settings
	Player PlayerConfig `koanf:"player"`

	// Artwork lookup settings
	Artwork ArtworkConfig `koanf:"artwork"`

	// Connectivity detection and stall recovery
	Network NetworkConfig `koanf:"network"`

	// HTTP stream settings
	Stream StreamConfig `koanf:"stream"`

	Log LogConfig `koanf:"log"`

	// Now-playing websocket feed (disabled when listen is empty)
	Server ServerConfig `koanf:"server"`
}

// PlayerConfig holds engine behaviour settings.
type PlayerConfig struct {
	AutoPlay *bool             `koanf:"auto_play"` // start once ready (default: true)
	Volume   *float64          `koanf:"volume"`    // initial volume 0.0-1.0 (default: last saved)
	Headers  map[string]string `koanf:"headers"`   // extra HTTP headers sent with every stream

	Notifications *bool `koanf:"notifications"` // desktop notification on title change (default: true)
}

// ArtworkConfig holds artwork lookup settings.
type ArtworkConfig struct {
	Enabled      *bool    `koanf:"enabled"`        // default: true
	Size         int      `koanf:"size"`           // square size in pixels (default: 300)
	Providers    []string `koanf:"providers"`      // lookup order (default: itunes, deezer, musicbrainz, lastfm)
	CacheTTLDays int      `koanf:"cache_ttl_days"` // found artwork kept this long (default: 30)
	LastfmKey    string   `koanf:"lastfm_api_key"`
	LastfmSecret string   `koanf:"lastfm_api_secret"`
}

// NetworkConfig holds connectivity settings.
type NetworkConfig struct {
	Reachability    string `koanf:"reachability"`      // "auto", "networkmanager", "probe", "none" (default: "auto")
	ProbeAddr       string `koanf:"probe_addr"`        // host:port dialed by the prober (default: "1.1.1.1:53")
	ProbeIntervalMS int    `koanf:"probe_interval_ms"` // default: 5000
	RecoveryGraceMS int    `koanf:"recovery_grace_ms"` // wait before reloading a stalled stream (default: 1000)
}

// StreamConfig holds HTTP stream settings.
type StreamConfig struct {
	BufferMS  int    `koanf:"buffer_ms"`  // decoded audio kept ahead (default: 10000)
	AheadMS   int    `koanf:"ahead_ms"`   // audio needed before ready (default: 2000)
	UserAgent string `koanf:"user_agent"` // default: "airwaves/<version>"
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `koanf:"level"` // "debug", "info", "warn", "error" (default: "info")
	File  string `koanf:"file"`  // default: $XDG_STATE_HOME/airwaves/airwaves.log
}

// ServerConfig holds the now-playing feed settings.
type ServerConfig struct {
	Listen string `koanf:"listen"` // e.g. "127.0.0.1:8411"
}

// Load reads the default config files. extra, when set, is loaded last.
func Load(extra string) (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()
	if extra != "" {
		configPaths = append(configPaths, expandPath(extra))
	}

	for i, path := range configPaths {
		if _, err := os.Stat(path); err != nil {
			// An explicitly requested file must exist.
			if extra != "" && i == len(configPaths)-1 {
				return nil, err
			}
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Expand ~ in log file
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}

	// Normalize provider names
	for i, p := range cfg.Artwork.Providers {
		cfg.Artwork.Providers[i] = strings.ToLower(strings.TrimSpace(p))
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. $XDG_CONFIG_HOME/airwaves/config.toml
	paths = append(paths, filepath.Join(xdg.ConfigHome, appName, "config.toml"))

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetPlayerConfig returns the player configuration with defaults applied.
func (c *Config) GetPlayerConfig() PlayerConfig {
	cfg := c.Player

	if cfg.AutoPlay == nil {
		cfg.AutoPlay = ptr(true)
	}
	if cfg.Notifications == nil {
		cfg.Notifications = ptr(true)
	}
	if cfg.Volume != nil {
		cfg.Volume = ptr(max(0, min(*cfg.Volume, 1)))
	}

	return cfg
}

// DefaultProviders is the artwork lookup order when none is configured.
var DefaultProviders = []string{"itunes", "deezer", "musicbrainz", "lastfm"}

// GetArtworkConfig returns the artwork configuration with defaults applied.
func (c *Config) GetArtworkConfig() ArtworkConfig {
	cfg := c.Artwork

	if cfg.Enabled == nil {
		cfg.Enabled = ptr(true)
	}
	if cfg.Size <= 0 || cfg.Size > 1200 {
		cfg.Size = 300
	}
	if len(cfg.Providers) == 0 {
		cfg.Providers = slices.Clone(DefaultProviders)
	}
	if cfg.CacheTTLDays <= 0 {
		cfg.CacheTTLDays = 30
	}

	return cfg
}

// HasLastfmConfig returns true if the Last.fm artwork provider is configured.
func (c *Config) HasLastfmConfig() bool {
	return c.Artwork.LastfmKey != "" && c.Artwork.LastfmSecret != ""
}

// GetNetworkConfig returns the network configuration with defaults applied.
func (c *Config) GetNetworkConfig() NetworkConfig {
	cfg := c.Network

	switch cfg.Reachability {
	case "auto", "networkmanager", "probe", "none":
	default:
		cfg.Reachability = "auto"
	}
	if cfg.ProbeAddr == "" {
		cfg.ProbeAddr = "1.1.1.1:53"
	}
	if cfg.ProbeIntervalMS <= 0 {
		cfg.ProbeIntervalMS = 5000
	}
	if cfg.RecoveryGraceMS <= 0 {
		cfg.RecoveryGraceMS = 1000
	}

	return cfg
}

// ProbeInterval returns the probe interval as a duration.
func (c NetworkConfig) ProbeInterval() time.Duration {
	return time.Duration(c.ProbeIntervalMS) * time.Millisecond
}

// RecoveryGrace returns the recovery grace period as a duration.
func (c NetworkConfig) RecoveryGrace() time.Duration {
	return time.Duration(c.RecoveryGraceMS) * time.Millisecond
}

// GetStreamConfig returns the stream configuration with defaults applied.
func (c *Config) GetStreamConfig(version string) StreamConfig {
	cfg := c.Stream

	if cfg.BufferMS <= 0 {
		cfg.BufferMS = 10000
	}
	if cfg.AheadMS <= 0 {
		cfg.AheadMS = 2000
	}
	cfg.AheadMS = min(cfg.AheadMS, cfg.BufferMS)
	if cfg.UserAgent == "" {
		cfg.UserAgent = appName + "/" + version
	}

	return cfg
}

// Buffer returns the buffer size as a duration.
func (c StreamConfig) Buffer() time.Duration {
	return time.Duration(c.BufferMS) * time.Millisecond
}

// Ahead returns the ready threshold as a duration.
func (c StreamConfig) Ahead() time.Duration {
	return time.Duration(c.AheadMS) * time.Millisecond
}

// GetLogConfig returns the log configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log

	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "error":
		cfg.Level = strings.ToLower(cfg.Level)
	default:
		cfg.Level = "info"
	}
	if cfg.File == "" {
		cfg.File = filepath.Join(xdg.StateHome, appName, appName+".log")
	}

	return cfg
}

func ptr[T any](v T) *T { return &v }
