package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Identity IdentityConfig `toml:"identity"`
	Docstore DocstoreConfig `toml:"docstore"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Matching MatchingConfig `toml:"matching"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
}

// IdentityConfig contains settings for the hosted identity service.
type IdentityConfig struct {
	Endpoint    string `toml:"endpoint"`
	Project     string `toml:"project"`
	SessionFile string `toml:"session_file"`
}

// DocstoreConfig contains settings for the document store backend.
type DocstoreConfig struct {
	Endpoint     string `toml:"endpoint"`
	Project      string `toml:"project"`
	DatabaseID   string `toml:"database_id"`
	CollectionID string `toml:"collection_id"`
	PageSize     int    `toml:"page_size"`
	// Local switches the store to the SQLite database at [DatabaseConfig.Path]
	// instead of the hosted endpoint. Run setup first to create the schema.
	Local bool `toml:"local"`
}

// CatalogConfig contains settings for the third-party album metadata API.
type CatalogConfig struct {
	APIKey     string  `toml:"api_key"`
	BaseURL    string  `toml:"base_url"`
	RatePerSec float64 `toml:"rate_per_sec"`
}

// MatchingConfig contains album identity matching policy knobs.
type MatchingConfig struct {
	StripIndexSuffix bool    `toml:"strip_index_suffix"`
	MinScore         float64 `toml:"min_score"`
}

// DatabaseConfig contains settings for the local SQLite document store.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the local verification callback server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// A .env file in the working directory, when present, overrides secret values
// (WAXLOG_CATALOG_API_KEY, WAXLOG_IDENTITY_PROJECT, WAXLOG_DOCSTORE_PROJECT)
// so credentials can stay out of the checked-in config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
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

// applyEnv overlays environment variables onto the config. Loading .env is
// best-effort: a missing file is not an error.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("WAXLOG_CATALOG_API_KEY"); v != "" {
		c.Catalog.APIKey = v
	}
	if v := os.Getenv("WAXLOG_IDENTITY_PROJECT"); v != "" {
		c.Identity.Project = v
	}
	if v := os.Getenv("WAXLOG_DOCSTORE_PROJECT"); v != "" {
		c.Docstore.Project = v
	}
}
