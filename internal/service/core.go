package service

import (
	"fmt"
	"log"
	"path/filepath"

	"posterdesk/internal/config"
	"posterdesk/internal/domain"
	"posterdesk/internal/secret"
	"posterdesk/internal/storage"
)

// DatabaseFileName is the SQLite file inside the data directory.
const DatabaseFileName = "posterdesk.db"

// Core is the set of services shared by the desktop app, the CLI and the
// standalone MCP server.
type Core struct {
	DataDir string
	Config  *config.Config
	DB      *storage.DB

	Presets   *Presets
	Templates *TemplateService
	Editors   *EditorService
	Exports   *ExportService
	Catalog   *CatalogService
	Secrets   secret.SecretStore
	Window    *WindowSettingsService
}

// OpenCore loads the config in dataDir, opens the database and wires the
// services. secrets may be nil for the default store.
func OpenCore(dataDir string, secrets secret.SecretStore, emitter EventEmitter) (*Core, error) {
	if emitter == nil {
		emitter = NopEmitter{}
	}
	if secrets == nil {
		secrets = secret.Default()
	}
	cfg := config.Load(config.Path(dataDir))

	reg, err := cfg.PageSizeRegistry()
	if err != nil {
		log.Printf("[CONFIG] page sizes: %v; using built-in presets", err)
	}

	db, err := storage.New(filepath.Join(dataDir, DatabaseFileName), dataDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	store := storage.NewTemplateStore(db)

	c := &Core{DataDir: dataDir, Config: cfg, DB: db, Secrets: secrets}
	c.Presets = NewPresets(reg)
	c.Templates = NewTemplateService(store, c.Presets, emitter)
	c.Editors = NewEditorService(c.Presets, c.Templates, storage.NewUndoStore(db), emitter)
	c.Exports = NewExportService(c.Editors, c.Templates, cfg.ExportScale, emitter)
	c.Catalog = NewCatalogService(store, cfg.Catalog, secrets, nil, emitter)
	c.Window = NewWindowSettingsService(db)
	return c, nil
}

// ExportDir is where CLI and MCP exports are written.
func (c *Core) ExportDir() string {
	return c.Config.ResolvedExportDir(c.DataDir)
}

// ApplyConfig pushes a reloaded config into the running services.
// Open sessions keep their page; only new sessions see new presets.
func (c *Core) ApplyConfig(cfg *config.Config) {
	if reg, err := cfg.PageSizeRegistry(); err != nil {
		log.Printf("[CONFIG] page sizes: %v; keeping previous presets", err)
	} else {
		c.Presets.Set(reg)
	}
	c.Exports.SetScale(cfg.ExportScale)
	c.Catalog.SetConfig(cfg.Catalog)

	if cfg.AutosaveSchedule != c.Config.AutosaveSchedule {
		if err := c.Editors.StartAutosave(cfg.AutosaveSchedule); err != nil {
			log.Printf("[CONFIG] %v", err)
		}
	}
	c.Config = cfg
}

// PageSizes returns the active presets.
func (c *Core) PageSizes() []domain.PageSize {
	return c.Presets.List()
}

// Close stops autosave and closes the database.
func (c *Core) Close() error {
	c.Editors.StopAutosave()
	return c.DB.Close()
}
