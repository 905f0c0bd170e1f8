package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Feed     FeedConfig     `toml:"feed"`
}

// APIConfig contains settings for the Relevant backend API.
type APIConfig struct {
	BaseURL        string  `toml:"base_url"`
	TokenPath      string  `toml:"token_path"`
	TimeoutSecs    int     `toml:"timeout_secs"`
	RetryCount     int     `toml:"retry_count"`
	RequestsPerSec float64 `toml:"requests_per_sec"`
}

// DatabaseConfig contains local cache database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains static file server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	Dist string `toml:"dist"`
}

// FeedConfig contains feed defaults applied when flags are omitted.
type FeedConfig struct {
	PageSize     int     `toml:"page_size"`
	MinRelevance float64 `toml:"min_relevance"`
	StaleSecs    int     `toml:"stale_secs"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
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

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResolveTokenPath resolves the credential file location, expanding a leading "~".
//
// Falls back to ~/.relevant/token when the config leaves it empty.
func (c *Config) ResolveTokenPath() string {
	p := c.API.TokenPath
	if p == "" {
		p = filepath.Join("~", ".relevant", "token")
	}
	return expandHome(p)
}

// ResolveDatabasePath resolves the local database location, expanding a
// leading "~".
//
// Falls back to ~/.relevant/cache.db when the config leaves it empty.
func (c *Config) ResolveDatabasePath() string {
	p := c.Database.Path
	if p == "" {
		p = filepath.Join("~", ".relevant", "cache.db")
	}
	return expandHome(p)
}

func expandHome(p string) string {
	if len(p) > 0 && p[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}
