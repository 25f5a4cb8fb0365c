package shared

import (
	_ "embed"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	envClientID     = "SPOTIFY_CLIENT_ID"
	envClientSecret = "SPOTIFY_CLIENT_SECRET"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Spotify     SpotifyAPIConfig  `toml:"spotify"`
	Server      ServerConfig      `toml:"server"`
	Auth        AuthConfig        `toml:"auth"`
	Scraper     ScraperConfig     `toml:"scraper"`
	Database    DatabaseConfig    `toml:"database"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// SpotifyAPIConfig contains provider endpoints. Tests point these at local servers.
type SpotifyAPIConfig struct {
	AuthURL   string `toml:"auth_url"`
	TokenURL  string `toml:"token_url"`
	APIURL    string `toml:"api_url"`
	BatchSize int    `toml:"batch_size"`
}

// ServerConfig contains the loopback listener address.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// AuthConfig bounds the wait for the authorization redirect.
type AuthConfig struct {
	Timeout Duration `toml:"timeout"`
}

// ScraperConfig contains settings for setlist page fetches.
type ScraperConfig struct {
	BaseURL   string  `toml:"base_url"`
	UserAgent string  `toml:"user_agent"`
	RateLimit float64 `toml:"rate_limit"` // requests per second
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig selects the logger level.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a [time.Duration] that decodes from TOML strings like "90s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: bad duration %q: %v", ErrInvalidConfig, text, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv reads the given dotenv files (".env" when none are given) and overlays Spotify credentials.
//
// A non-empty process variable wins over the files; an exported but empty one does not. Among files, the first one
// that sets a key wins. A missing dotenv file is not an error.
func (c *Config) LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	fromFiles := map[string]string{}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		values, err := godotenv.Read(f)
		if err != nil {
			return fmt.Errorf("%w: failed to load %s: %v", ErrInvalidConfig, f, err)
		}
		for k, v := range values {
			if _, ok := fromFiles[k]; !ok {
				fromFiles[k] = v
			}
		}
	}

	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fromFiles[key]
	}

	if v := lookup(envClientID); v != "" {
		c.Credentials.Spotify.ClientID = v
	}
	if v := lookup(envClientSecret); v != "" {
		c.Credentials.Spotify.ClientSecret = v
	}
	return nil
}

// Validate reports missing credentials or unusable settings.
//
// Callers treat a failure as fatal before any network activity.
func (c *Config) Validate() error {
	if c.Credentials.Spotify.ClientID == "" {
		return fmt.Errorf("%w: %s is not set (config.toml or .env)", ErrMissingCredentials, envClientID)
	}
	if c.Credentials.Spotify.ClientSecret == "" {
		return fmt.Errorf("%w: %s is not set (config.toml or .env)", ErrMissingCredentials, envClientSecret)
	}
	if c.Credentials.Spotify.RedirectURI == "" {
		return fmt.Errorf("%w: redirect_uri is empty", ErrInvalidConfig)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.Auth.Timeout.Duration <= 0 {
		return fmt.Errorf("%w: auth timeout must be positive", ErrInvalidConfig)
	}

	redirect, err := url.Parse(c.Credentials.Spotify.RedirectURI)
	if err != nil || redirect.Hostname() == "" {
		return fmt.Errorf("%w: redirect_uri %q is not an absolute URL", ErrInvalidConfig, c.Credentials.Spotify.RedirectURI)
	}
	if got := redirectAddr(redirect); got != c.Server.Addr() {
		return fmt.Errorf("%w: redirect_uri points at %s but the listener binds %s ([server] host and port must match)",
			ErrInvalidConfig, got, c.Server.Addr())
	}
	return nil
}

// redirectAddr returns the host:port a redirect URL reaches, filling in the scheme's default port.
func redirectAddr(u *url.URL) string {
	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	return net.JoinHostPort(u.Hostname(), port)
}
