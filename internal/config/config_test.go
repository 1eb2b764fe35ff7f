//nolint:goconst // test cases intentionally repeat strings for readability
package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/adrg/xdg"
)

// isolate runs the test in an empty directory with its own XDG dirs.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmpDir, "state"))
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	t.Chdir(tmpDir)
	return tmpDir
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/logs/airwaves.log",
			expected: filepath.Join(home, "logs", "airwaves.log"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/var/log/airwaves.log",
			expected: "/var/log/airwaves.log",
		},
		{
			name:     "relative path unchanged",
			input:    "logs/airwaves.log",
			expected: "logs/airwaves.log",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	tmpDir := isolate(t)
	paths := getConfigPaths()

	want := []string{
		filepath.Join(tmpDir, "config", "airwaves", "config.toml"),
		"config.toml",
	}
	if !slices.Equal(paths, want) {
		t.Errorf("getConfigPaths() = %v, want %v", paths, want)
	}
}

func TestLoad_NoFiles(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	p := cfg.GetPlayerConfig()
	if p.AutoPlay == nil || !*p.AutoPlay {
		t.Error("AutoPlay should default to true")
	}
	if p.Volume != nil {
		t.Errorf("Volume = %v, want unset", *p.Volume)
	}
	if p.Notifications == nil || !*p.Notifications {
		t.Error("Notifications should default to true")
	}
}

func TestLoad_BasicConfig(t *testing.T) {
	isolate(t)
	writeConfig(t, "config.toml", `
[player]
auto_play = false
volume = 0.6
notifications = false

[player.headers]
X-Token = "abc"

[artwork]
size = 600
providers = [" Deezer ", "ITUNES"]
lastfm_api_key = "key"
lastfm_api_secret = "secret"

[network]
reachability = "probe"
probe_addr = "9.9.9.9:53"
recovery_grace_ms = 2500

[stream]
buffer_ms = 4000
ahead_ms = 500
user_agent = "MyRadio/2.0"

[log]
level = "DEBUG"

[server]
listen = "127.0.0.1:8411"
`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	p := cfg.GetPlayerConfig()
	if *p.AutoPlay {
		t.Error("AutoPlay = true, want false")
	}
	if *p.Notifications {
		t.Error("Notifications = true, want false")
	}
	if p.Volume == nil || *p.Volume != 0.6 {
		t.Errorf("Volume = %v, want 0.6", p.Volume)
	}
	if p.Headers["X-Token"] != "abc" {
		t.Errorf("Headers = %v, want X-Token", p.Headers)
	}

	a := cfg.GetArtworkConfig()
	if a.Size != 600 {
		t.Errorf("Size = %d, want 600", a.Size)
	}
	if !slices.Equal(a.Providers, []string{"deezer", "itunes"}) {
		t.Errorf("Providers = %v, want [deezer itunes]", a.Providers)
	}
	if !cfg.HasLastfmConfig() {
		t.Error("HasLastfmConfig() = false, want true")
	}

	n := cfg.GetNetworkConfig()
	if n.Reachability != "probe" || n.ProbeAddr != "9.9.9.9:53" {
		t.Errorf("Network = %+v", n)
	}
	if n.RecoveryGrace() != 2500*time.Millisecond {
		t.Errorf("RecoveryGrace() = %v, want 2.5s", n.RecoveryGrace())
	}

	s := cfg.GetStreamConfig("1.0.0")
	if s.Buffer() != 4*time.Second || s.Ahead() != 500*time.Millisecond {
		t.Errorf("Stream = %+v", s)
	}
	if s.UserAgent != "MyRadio/2.0" {
		t.Errorf("UserAgent = %q, want MyRadio/2.0", s.UserAgent)
	}

	if l := cfg.GetLogConfig(); l.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", l.Level)
	}
	if cfg.Server.Listen != "127.0.0.1:8411" {
		t.Errorf("Server.Listen = %q", cfg.Server.Listen)
	}
}

func TestLoad_LocalOverridesXDG(t *testing.T) {
	tmpDir := isolate(t)
	writeConfig(t, filepath.Join(tmpDir, "config", "airwaves", "config.toml"), `
[stream]
user_agent = "from-xdg"
buffer_ms = 3000
`)
	writeConfig(t, "config.toml", `
[stream]
user_agent = "from-pwd"
`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	s := cfg.GetStreamConfig("dev")
	if s.UserAgent != "from-pwd" {
		t.Errorf("UserAgent = %q, want from-pwd", s.UserAgent)
	}
	if s.BufferMS != 3000 {
		t.Errorf("BufferMS = %d, want 3000 (merged from xdg)", s.BufferMS)
	}
}

func TestLoad_ExtraFile(t *testing.T) {
	tmpDir := isolate(t)
	extra := filepath.Join(tmpDir, "custom.toml")
	writeConfig(t, "config.toml", `
[log]
level = "warn"
`)
	writeConfig(t, extra, `
[log]
level = "error"
`)

	cfg, err := Load(extra)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.GetLogConfig().Level; got != "error" {
		t.Errorf("Level = %q, want error", got)
	}
}

func TestLoad_ExtraFileMissing(t *testing.T) {
	tmpDir := isolate(t)

	if _, err := Load(filepath.Join(tmpDir, "missing.toml")); err == nil {
		t.Error("Load() should fail for a missing explicit config file")
	}
}

func TestLoad_InvalidToml(t *testing.T) {
	isolate(t)
	writeConfig(t, "config.toml", "invalid = [[[")

	if _, err := Load(""); err == nil {
		t.Error("Load() should fail on invalid TOML")
	}
}

func TestLoad_LogFileExpansion(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}
	isolate(t)
	writeConfig(t, "config.toml", `
[log]
file = "~/airwaves.log"
`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := filepath.Join(home, "airwaves.log"); cfg.Log.File != want {
		t.Errorf("Log.File = %q, want %q", cfg.Log.File, want)
	}
}

func TestGetPlayerConfig_ClampsVolume(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-0.5, 0},
		{0.3, 0.3},
		{1.7, 1},
	}
	for _, tt := range tests {
		c := Config{Player: PlayerConfig{Volume: ptr(tt.in)}}
		if got := *c.GetPlayerConfig().Volume; got != tt.want {
			t.Errorf("Volume(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGetArtworkConfig_Defaults(t *testing.T) {
	cfg := (&Config{}).GetArtworkConfig()

	if cfg.Enabled == nil || !*cfg.Enabled {
		t.Error("Enabled should default to true")
	}
	if cfg.Size != 300 {
		t.Errorf("Size = %d, want 300", cfg.Size)
	}
	if !slices.Equal(cfg.Providers, DefaultProviders) {
		t.Errorf("Providers = %v, want %v", cfg.Providers, DefaultProviders)
	}
	if cfg.CacheTTLDays != 30 {
		t.Errorf("CacheTTLDays = %d, want 30", cfg.CacheTTLDays)
	}

	// Defaults are copied, not shared.
	cfg.Providers[0] = "changed"
	if DefaultProviders[0] == "changed" {
		t.Error("GetArtworkConfig() shares DefaultProviders")
	}
}

func TestGetArtworkConfig_InvalidSize(t *testing.T) {
	for _, size := range []int{-1, 0, 5000} {
		c := Config{Artwork: ArtworkConfig{Size: size}}
		if got := c.GetArtworkConfig().Size; got != 300 {
			t.Errorf("Size(%d) = %d, want 300", size, got)
		}
	}
}

func TestHasLastfmConfig(t *testing.T) {
	tests := []struct {
		name     string
		config   ArtworkConfig
		expected bool
	}{
		{"both set", ArtworkConfig{LastfmKey: "k", LastfmSecret: "s"}, true},
		{"only key", ArtworkConfig{LastfmKey: "k"}, false},
		{"only secret", ArtworkConfig{LastfmSecret: "s"}, false},
		{"neither", ArtworkConfig{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Config{Artwork: tt.config}
			if got := c.HasLastfmConfig(); got != tt.expected {
				t.Errorf("HasLastfmConfig() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetNetworkConfig_Defaults(t *testing.T) {
	cfg := (&Config{Network: NetworkConfig{Reachability: "bogus"}}).GetNetworkConfig()

	if cfg.Reachability != "auto" {
		t.Errorf("Reachability = %q, want auto", cfg.Reachability)
	}
	if cfg.ProbeAddr != "1.1.1.1:53" {
		t.Errorf("ProbeAddr = %q", cfg.ProbeAddr)
	}
	if cfg.ProbeInterval() != 5*time.Second {
		t.Errorf("ProbeInterval() = %v, want 5s", cfg.ProbeInterval())
	}
	if cfg.RecoveryGrace() != time.Second {
		t.Errorf("RecoveryGrace() = %v, want 1s", cfg.RecoveryGrace())
	}
}

func TestGetStreamConfig_Defaults(t *testing.T) {
	cfg := (&Config{}).GetStreamConfig("1.2.3")

	if cfg.Buffer() != 10*time.Second {
		t.Errorf("Buffer() = %v, want 10s", cfg.Buffer())
	}
	if cfg.Ahead() != 2*time.Second {
		t.Errorf("Ahead() = %v, want 2s", cfg.Ahead())
	}
	if cfg.UserAgent != "airwaves/1.2.3" {
		t.Errorf("UserAgent = %q, want airwaves/1.2.3", cfg.UserAgent)
	}
}

func TestGetStreamConfig_AheadCappedByBuffer(t *testing.T) {
	cfg := (&Config{Stream: StreamConfig{BufferMS: 1000, AheadMS: 5000}}).GetStreamConfig("dev")
	if cfg.AheadMS != 1000 {
		t.Errorf("AheadMS = %d, want 1000", cfg.AheadMS)
	}
}

func TestGetLogConfig_Defaults(t *testing.T) {
	tmpDir := isolate(t)

	cfg := (&Config{Log: LogConfig{Level: "verbose"}}).GetLogConfig()
	if cfg.Level != "info" {
		t.Errorf("Level = %q, want info", cfg.Level)
	}
	if want := filepath.Join(tmpDir, "state", "airwaves", "airwaves.log"); cfg.File != want {
		t.Errorf("File = %q, want %q", cfg.File, want)
	}
}
