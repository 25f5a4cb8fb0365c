package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./setlistr.db" {
			t.Errorf("expected database path ./setlistr.db, got %s", config.Database.Path)
		}
		if config.Server.Addr() != "127.0.0.1:5000" {
			t.Errorf("expected loopback address 127.0.0.1:5000, got %s", config.Server.Addr())
		}
		if config.Credentials.Spotify.RedirectURI != "http://127.0.0.1:5000/callback" {
			t.Errorf("unexpected redirect uri %s", config.Credentials.Spotify.RedirectURI)
		}
		if config.Auth.Timeout.Duration != 2*time.Minute {
			t.Errorf("expected auth timeout 2m, got %v", config.Auth.Timeout.Duration)
		}
		if config.Spotify.BatchSize != 100 {
			t.Errorf("expected batch size 100, got %d", config.Spotify.BatchSize)
		}
		if config.Scraper.BaseURL != "https://www.setlist.fm" {
			t.Errorf("unexpected scraper base url %s", config.Scraper.BaseURL)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

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
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[server]
host = "127.0.0.1"
port = 8888

[auth]
timeout = "45s"

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Server.Port != 8888 {
			t.Errorf("expected server port 8888, got %d", config.Server.Port)
		}
		if config.Auth.Timeout.Duration != 45*time.Second {
			t.Errorf("expected timeout 45s, got %v", config.Auth.Timeout.Duration)
		}
		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.Spotify.RedirectURI != "http://127.0.0.1:5000/callback" {
			t.Errorf("expected default redirect uri to survive partial file, got %s", config.Credentials.Spotify.RedirectURI)
		}
	})

	t.Run("LoadConfig Bad Duration", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[auth]\ntimeout = \"soon\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadEnv", func(t *testing.T) {
		writeEnv := func(t *testing.T, content string) string {
			t.Helper()
			envPath := filepath.Join(t.TempDir(), ".env")
			if err := os.WriteFile(envPath, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write env file: %v", err)
			}
			return envPath
		}
		unsetEnv := func(t *testing.T, key string) {
			t.Helper()
			prev, ok := os.LookupEnv(key)
			os.Unsetenv(key)
			t.Cleanup(func() {
				if ok {
					os.Setenv(key, prev)
				} else {
					os.Unsetenv(key)
				}
			})
		}

		tests := []struct {
			name       string
			env        string
			setup      func(t *testing.T)
			wantID     string
			wantSecret string
		}{
			{
				name: "unset variable reads .env",
				env:  "SPOTIFY_CLIENT_ID=from_env\nSPOTIFY_CLIENT_SECRET=secret_from_env\n",
				setup: func(t *testing.T) {
					unsetEnv(t, envClientID)
					unsetEnv(t, envClientSecret)
				},
				wantID:     "from_env",
				wantSecret: "secret_from_env",
			},
			{
				name: "empty exported variable reads .env",
				env:  "SPOTIFY_CLIENT_ID=from_env\n",
				setup: func(t *testing.T) {
					t.Setenv(envClientID, "")
					t.Setenv(envClientSecret, "secret_from_process")
				},
				wantID:     "from_env",
				wantSecret: "secret_from_process",
			},
			{
				name: "process variable wins over .env",
				env:  "SPOTIFY_CLIENT_ID=from_env\n",
				setup: func(t *testing.T) {
					t.Setenv(envClientID, "from_process")
					unsetEnv(t, envClientSecret)
				},
				wantID:     "from_process",
				wantSecret: "",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				envPath := writeEnv(t, tt.env)
				tt.setup(t)

				config := DefaultConfig()
				if err := config.LoadEnv(envPath, filepath.Join(t.TempDir(), "missing.env")); err != nil {
					t.Fatalf("LoadEnv() error = %v", err)
				}

				if config.Credentials.Spotify.ClientID != tt.wantID {
					t.Errorf("client id = %q, want %q", config.Credentials.Spotify.ClientID, tt.wantID)
				}
				if config.Credentials.Spotify.ClientSecret != tt.wantSecret {
					t.Errorf("client secret = %q, want %q", config.Credentials.Spotify.ClientSecret, tt.wantSecret)
				}
				if _, set := os.LookupEnv("SPOTIFY_CLIENT_ID"); set && os.Getenv("SPOTIFY_CLIENT_ID") == "from_env" {
					t.Error(".env values should not be exported to the process")
				}
			})
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tests := []struct {
			name    string
			mutate  func(*Config)
			wantErr error
		}{
			{name: "valid", mutate: func(c *Config) {}},
			{name: "missing client id", mutate: func(c *Config) { c.Credentials.Spotify.ClientID = "" }, wantErr: ErrMissingCredentials},
			{name: "missing client secret", mutate: func(c *Config) { c.Credentials.Spotify.ClientSecret = "" }, wantErr: ErrMissingCredentials},
			{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: ErrInvalidConfig},
			{name: "zero timeout", mutate: func(c *Config) { c.Auth.Timeout.Duration = 0 }, wantErr: ErrInvalidConfig},
			{name: "listener port differs from redirect", mutate: func(c *Config) { c.Server.Port = 5001 }, wantErr: ErrInvalidConfig},
			{name: "listener host differs from redirect", mutate: func(c *Config) { c.Server.Host = "localhost" }, wantErr: ErrInvalidConfig},
			{name: "redirect without host", mutate: func(c *Config) { c.Credentials.Spotify.RedirectURI = "/callback" }, wantErr: ErrInvalidConfig},
			{
				name: "matching custom address",
				mutate: func(c *Config) {
					c.Server.Host, c.Server.Port = "localhost", 8080
					c.Credentials.Spotify.RedirectURI = "http://localhost:8080/auth/done"
				},
			},
			{
				name: "default http port",
				mutate: func(c *Config) {
					c.Server.Port = 80
					c.Credentials.Spotify.RedirectURI = "http://127.0.0.1/callback"
				},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				config.Credentials.Spotify.ClientID = "id"
				config.Credentials.Spotify.ClientSecret = "secret"
				tt.mutate(config)

				err := config.Validate()
				if tt.wantErr == nil && err != nil {
					t.Fatalf("Validate() unexpected error = %v", err)
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
				}
			})
		}
	})
}
