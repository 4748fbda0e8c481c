package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./musik.db" {
			t.Errorf("expected database path ./musik.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Importer.Interval() != time.Second {
			t.Errorf("expected poll interval 1s, got %v", config.Importer.Interval())
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[server]
host = "127.0.0.1"
port = 9090
base_url = "http://music.local/"

[importer]
poll_interval = "250ms"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Database.MaxOpenConns != 4 {
			t.Errorf("expected missing keys to keep defaults, got max_open_conns %d", config.Database.MaxOpenConns)
		}
		if config.Server.Addr() != "127.0.0.1:9090" {
			t.Errorf("expected addr 127.0.0.1:9090, got %s", config.Server.Addr())
		}
		if config.Server.APIBaseURL() != "http://music.local" {
			t.Errorf("expected trimmed base url, got %s", config.Server.APIBaseURL())
		}
		if config.Importer.Interval() != 250*time.Millisecond {
			t.Errorf("expected 250ms poll interval, got %v", config.Importer.Interval())
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}

		config, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
		if err != nil {
			t.Fatalf("expected defaults, got %v", err)
		}
		if config.Server.Port != 8080 {
			t.Errorf("expected default port, got %d", config.Server.Port)
		}
	})

	t.Run("APIBaseURL From Wildcard Host", func(t *testing.T) {
		s := ServerConfig{Host: "0.0.0.0", Port: 8080}
		if got := s.APIBaseURL(); got != "http://127.0.0.1:8080" {
			t.Errorf("expected loopback base url, got %s", got)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		config := DefaultConfig()
		config.Server.Port = 0
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}

		config = DefaultConfig()
		config.Database.Path = ""
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("Invalid Poll Interval", func(t *testing.T) {
		if got := (ImporterConfig{PollInterval: "soon"}).Interval(); got != time.Second {
			t.Errorf("expected fallback 1s, got %v", got)
		}
	})
}

func TestParseLogLevel(t *testing.T) {
	tc := []struct {
		name string
		want log.Level
	}{
		{name: "debug", want: log.DebugLevel},
		{name: "WARN", want: log.WarnLevel},
		{name: "Warning", want: log.WarnLevel},
		{name: "fatal", want: log.FatalLevel},
		{name: " error ", want: log.ErrorLevel},
		{name: "", want: log.InfoLevel},
		{name: "chatty", want: log.InfoLevel},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLogLevel(tt.name); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
