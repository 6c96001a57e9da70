package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./focusfm.db" {
			t.Errorf("expected database path ./focusfm.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Credentials.Spotify.ClientID != "your_spotify_client_id" {
			t.Errorf("expected spotify client_id your_spotify_client_id, got %s", config.Credentials.Spotify.ClientID)
		}

		if config.Credentials.Spotify.RedirectURI != "http://localhost:3000/auth/spotify/callback" {
			t.Errorf("unexpected redirect URI %s", config.Credentials.Spotify.RedirectURI)
		}
	})

	t.Run("Addr", func(t *testing.T) {
		cfg := ServerConfig{Host: "127.0.0.1", Port: 3000}
		if cfg.Addr() != "127.0.0.1:3000" {
			t.Errorf("expected 127.0.0.1:3000, got %s", cfg.Addr())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		content := `
[credentials.spotify]
client_id = "abc"
client_secret = "def"
redirect_uri = "http://localhost:9999/cb"

[database]
path = ":memory:"
max_open_conns = 2
max_idle_conns = 1

[server]
host = "0.0.0.0"
port = 8080
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Credentials.Spotify.ClientID != "abc" {
			t.Errorf("expected client_id abc, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Database.Path != ":memory:" {
			t.Errorf("expected :memory:, got %s", config.Database.Path)
		}
		if config.Server.Port != 8080 {
			t.Errorf("expected port 8080, got %d", config.Server.Port)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("Environment Overrides", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "env_client")
		t.Setenv("SPOTIFY_CLIENT_SECRET", "env_secret")

		config := DefaultConfig()
		if config.Credentials.Spotify.ClientID != "env_client" {
			t.Errorf("expected env override env_client, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.Spotify.ClientSecret != "env_secret" {
			t.Errorf("expected env override env_secret, got %s", config.Credentials.Spotify.ClientSecret)
		}
	})
}
