// Package config loads the posterdesk configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"posterdesk/internal/domain"
)

const (
	ConfigFileName          = "config.json"
	DefaultAutosaveSchedule = "@every 30s"
	DefaultExportScale      = 2.0
)

// DataDir returns ~/.local/share/posterdesk, where the database, exports
// and the config file live.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "posterdesk"), nil
}

// Catalog describes the remote template catalog database.
// The password is kept in the secret store, never here.
type Catalog struct {
	Driver   string `json:"driver"` // postgres | mysql | sqlite | mongodb
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
	Database string `json:"database,omitempty"`
	Username string `json:"username,omitempty"`
	SSLMode  string `json:"sslMode,omitempty"`
	URI      string `json:"uri,omitempty"`
}

// Enabled reports whether a catalog is configured.
func (c Catalog) Enabled() bool { return c.Driver != "" }

// Connection converts c for the catalog connectors.
func (c Catalog) Connection() domain.CatalogConnection {
	return domain.CatalogConnection{
		Driver:   domain.CatalogDriver(c.Driver),
		Host:     c.Host,
		Port:     c.Port,
		Database: c.Database,
		Username: c.Username,
		SSLMode:  c.SSLMode,
		URI:      c.URI,
	}
}

type Config struct {
	// PageSizes replaces the built-in presets when non-empty.
	PageSizes       []domain.PageSize `json:"pageSizes,omitempty"`
	DefaultPageSize string            `json:"defaultPageSize"`
	// AutosaveSchedule is a cron spec; empty disables autosave.
	AutosaveSchedule string `json:"autosaveSchedule"`
	// ExportDir receives CLI and MCP exports. Empty means <data dir>/exports.
	ExportDir   string  `json:"exportDir,omitempty"`
	ExportScale float64 `json:"exportScale"`
	// EditorCommand is the external editor for long box text.
	EditorCommand string  `json:"editorCommand"`
	Catalog       Catalog `json:"catalog"`
	// MCPAddr serves the in-app MCP server over streamable HTTP, e.g.
	// 127.0.0.1:7331. Empty keeps it off.
	MCPAddr string `json:"mcpAddr,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		DefaultPageSize:  domain.DefaultPageSizeKey,
		AutosaveSchedule: DefaultAutosaveSchedule,
		ExportScale:      DefaultExportScale,
		EditorCommand:    "nvim",
	}
}

// PageSizeRegistry builds the page-size registry from the configured
// presets, or from the built-ins when none are configured.
func (c *Config) PageSizeRegistry() (*domain.PageSizes, error) {
	presets := c.PageSizes
	if len(presets) == 0 {
		presets = domain.BuiltinPageSizes()
	}
	return domain.NewPageSizes(presets, c.DefaultPageSize)
}

// ResolvedExportDir returns ExportDir or the default under dataDir.
func (c *Config) ResolvedExportDir(dataDir string) string {
	if c.ExportDir != "" {
		return c.ExportDir
	}
	return filepath.Join(dataDir, "exports")
}

// Validate checks the fields that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if _, err := c.PageSizeRegistry(); err != nil {
		return err
	}
	if c.AutosaveSchedule != "" {
		if _, err := cron.ParseStandard(c.AutosaveSchedule); err != nil {
			return fmt.Errorf("autosaveSchedule %q: %w", c.AutosaveSchedule, err)
		}
	}
	if c.ExportScale < 0 {
		return fmt.Errorf("exportScale must not be negative")
	}
	switch c.Catalog.Driver {
	case "", "postgres", "mysql", "sqlite", "mongodb":
	default:
		return fmt.Errorf("catalog driver %q not supported", c.Catalog.Driver)
	}
	return nil
}

// Path returns the config file path inside dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, ConfigFileName)
}

// Load reads the config at path. A missing file is created with defaults.
// A file that does not parse or validate is backed up next to itself and
// defaults are used.
func Load(path string) *Config {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			if saveErr := Save(path, cfg); saveErr != nil {
				log.Printf("[CONFIG] failed to save default config: %v", saveErr)
			}
			return cfg
		}
		log.Printf("[CONFIG] failed to read config file: %v", err)
		return DefaultConfig()
	}

	cfg := DefaultConfig()
	err = json.Unmarshal(data, cfg)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		preview := string(data)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		log.Printf("[CONFIG] invalid config file at %s: %v\nConfig content preview: %s", path, err, preview)

		backupPath := path + ".corrupt." + time.Now().Format("20060102-150405")
		if backupErr := os.WriteFile(backupPath, data, 0644); backupErr == nil {
			log.Printf("[CONFIG] backed up invalid config to: %s", backupPath)
		}
		return DefaultConfig()
	}
	return cfg
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
