package config

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mandelsoft/vfs/pkg/vfs"
)

// DefaultPort is the TCP port the web server listens on if none is configured.
const DefaultPort uint16 = 5000

// Config represents the application configuration, backed by a filesystem for
// persistence.
type Config struct {
	Server   Server
	Database Database

	fs   vfs.FileSystem
	path string
}

// NewConfig creates a new Config instance with the specified filesystem
// and configuration file path.
func NewConfig(fs vfs.FileSystem, path string) *Config {
	return &Config{fs: fs, path: path}
}

// Load reads and parses the configuration file from the filesystem.
// If the file doesn't exist, it initializes with an empty configuration.
func (c *Config) Load() error {
	configJSON, err := vfs.ReadFile(c.fs, c.path)
	if err != nil && !vfs.IsErrNotExist(err) {
		return fmt.Errorf("failed reading configuration file: %w", err)
	}

	// Ensure that unmarshalling JSON doesn't fail if the file doesn't exist or is empty.
	if len(configJSON) == 0 {
		configJSON = []byte("{}")
	}

	if err = json.Unmarshal(configJSON, c); err != nil {
		return fmt.Errorf("failed parsing configuration file: %w", err)
	}

	return nil
}

// Exists returns true if the configuration file exists.
func (c *Config) Exists() (bool, error) {
	ok, err := vfs.Exists(c.fs, c.path)
	if err != nil {
		return false, fmt.Errorf("failed checking configuration file: %w", err)
	}
	return ok, nil
}

// Path returns the filesystem path where the configuration is stored.
func (c *Config) Path() string {
	return c.path
}

// Save writes the current configuration to the filesystem as JSON.
func (c *Config) Save() error {
	if err := c.fs.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed creating configuration directory: %w", err)
	}
	configJSON, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed serializing configuration data: %w", err)
	}
	if err = vfs.WriteFile(c.fs, c.path, configJSON, 0o644); err != nil {
		return fmt.Errorf("failed writing configuration file: %w", err)
	}

	return nil
}

// Server defines configuration options specific to the HTTP server.
type Server struct {
	// Host is the network interface address the server will listen on. An empty
	// value means all interfaces.
	Host sql.Null[string] `json:"host"`
	// Port is the TCP port the server will listen on.
	Port sql.Null[uint16] `json:"port"`
	// EnableGlobalErrorLogging enables logging of unhandled errors and panics
	// raised while serving requests.
	EnableGlobalErrorLogging sql.Null[bool] `json:"enable_global_error_logging"`
	// RateLimit is the number of requests per second allowed for each client.
	// A value of 0 disables rate limiting.
	RateLimit sql.Null[float64] `json:"rate_limit"`
	// RateBurst is the number of requests a client can make at once, above
	// RateLimit.
	RateBurst sql.Null[int] `json:"rate_burst"`
}

// Database defines configuration options of the SQLite database.
type Database struct {
	// Path is the filesystem path of the SQLite database file.
	Path sql.Null[string] `json:"path"`
}

type cfgWrapper struct {
	Server   srvCfgWrapper `json:"server"`
	Database dbCfgWrapper  `json:"database"`
}
type srvCfgWrapper struct {
	Host                     string   `json:"host,omitempty"`
	Port                     uint16   `json:"port,omitempty"`
	EnableGlobalErrorLogging *bool    `json:"enable_global_error_logging,omitempty"`
	RateLimit                *float64 `json:"rate_limit,omitempty"`
	RateBurst                int      `json:"rate_burst,omitempty"`
}
type dbCfgWrapper struct {
	Path string `json:"path,omitempty"`
}

// MarshalJSON implements custom JSON marshaling to convert sql.Null values
// to their underlying types, omitting invalid/null fields from the output.
func (c Config) MarshalJSON() ([]byte, error) {
	w := cfgWrapper{}

	if c.Server.Host.Valid {
		w.Server.Host = c.Server.Host.V
	}
	if c.Server.Port.Valid {
		w.Server.Port = c.Server.Port.V
	}
	if c.Server.EnableGlobalErrorLogging.Valid {
		w.Server.EnableGlobalErrorLogging = &c.Server.EnableGlobalErrorLogging.V
	}
	if c.Server.RateLimit.Valid {
		w.Server.RateLimit = &c.Server.RateLimit.V
	}
	if c.Server.RateBurst.Valid {
		w.Server.RateBurst = c.Server.RateBurst.V
	}

	if c.Database.Path.Valid {
		w.Database.Path = c.Database.Path.V
	}

	//nolint:wrapcheck // This is fine.
	return json.Marshal(w)
}

// UnmarshalJSON implements custom JSON unmarshaling to convert plain values
// into sql.Null types.
func (c *Config) UnmarshalJSON(data []byte) error {
	var w cfgWrapper
	if err := json.Unmarshal(data, &w); err != nil {
		//nolint:wrapcheck // This is fine.
		return err
	}

	if w.Server.Host != "" {
		c.Server.Host = sql.Null[string]{V: w.Server.Host, Valid: true}
	}
	if w.Server.Port > 0 {
		c.Server.Port = sql.Null[uint16]{V: w.Server.Port, Valid: true}
	}
	if w.Server.EnableGlobalErrorLogging != nil {
		c.Server.EnableGlobalErrorLogging = sql.Null[bool]{V: *w.Server.EnableGlobalErrorLogging, Valid: true}
	}
	if w.Server.RateLimit != nil {
		if *w.Server.RateLimit < 0 {
			return fmt.Errorf("invalid server rate limit %v: must be 0 or greater", *w.Server.RateLimit)
		}
		c.Server.RateLimit = sql.Null[float64]{V: *w.Server.RateLimit, Valid: true}
	}
	if w.Server.RateBurst > 0 {
		c.Server.RateBurst = sql.Null[int]{V: w.Server.RateBurst, Valid: true}
	}

	if w.Database.Path != "" {
		c.Database.Path = sql.Null[string]{V: w.Database.Path, Valid: true}
	}

	return nil
}

// SetDefaults sets default configuration values if they weren't set already.
func (c *Config) SetDefaults() {
	if !c.Server.Port.Valid {
		c.Server.Port = sql.Null[uint16]{V: DefaultPort, Valid: true}
	}
	if !c.Server.EnableGlobalErrorLogging.Valid {
		c.Server.EnableGlobalErrorLogging = sql.Null[bool]{V: false, Valid: true}
	}
	if !c.Server.RateBurst.Valid {
		c.Server.RateBurst = sql.Null[int]{V: 10, Valid: true}
	}
}
