package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"posterdesk/internal/config"
	"posterdesk/internal/dbclient"
	"posterdesk/internal/domain"
	"posterdesk/internal/secret"
	"posterdesk/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Catalog Service: shared template catalog
// ─────────────────────────────────────────────────────────────

// CatalogService publishes local templates to the configured catalog
// database and imports entries from it.
type CatalogService struct {
	templates *storage.TemplateStore
	secrets   secret.SecretStore
	connect   dbclient.Factory
	emitter   EventEmitter

	mu  sync.RWMutex
	cfg config.Catalog
}

func NewCatalogService(
	templates *storage.TemplateStore,
	cfg config.Catalog,
	secrets secret.SecretStore,
	connect dbclient.Factory,
	emitter EventEmitter,
) *CatalogService {
	if connect == nil {
		connect = dbclient.NewConnector
	}
	if emitter == nil {
		emitter = NopEmitter{}
	}
	return &CatalogService{templates: templates, cfg: cfg, secrets: secrets, connect: connect, emitter: emitter}
}

// SetConfig replaces the catalog settings after a config reload.
func (s *CatalogService) SetConfig(cfg config.Catalog) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// Enabled reports whether a catalog is configured.
func (s *CatalogService) Enabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Enabled()
}

// SetPassword stores the catalog password in the secret store.
func (s *CatalogService) SetPassword(password string) error {
	return s.secrets.Set(secret.CatalogPasswordKey, []byte(password))
}

func (s *CatalogService) open() (dbclient.Connector, error) {
	s.mu.RLock()
	cfg := s.cfg
	s.mu.RUnlock()
	if !cfg.Enabled() {
		return nil, fmt.Errorf("no catalog configured")
	}
	var password string
	if s.secrets != nil {
		pw, err := s.secrets.Get(secret.CatalogPasswordKey)
		if err != nil {
			return nil, fmt.Errorf("read catalog password: %w", err)
		}
		password = string(pw)
	}
	return s.connect(cfg.Connection(), password)
}

func (s *CatalogService) with(fn func(dbclient.Connector) error) error {
	conn, err := s.open()
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}

// Test verifies the catalog is reachable.
func (s *CatalogService) Test(ctx context.Context) error {
	return s.with(func(c dbclient.Connector) error { return c.TestConnection(ctx) })
}

// Publish pushes a saved template to the catalog.
func (s *CatalogService) Publish(ctx context.Context, templateID string) (*domain.CatalogEntry, error) {
	t, err := s.templates.GetTemplate(templateID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	entry := domain.EntryFromTemplate(t, publisherName(), now)

	err = s.with(func(c dbclient.Connector) error { return c.Publish(ctx, entry) })
	if err != nil {
		log.Printf("[CATALOG] publish %s failed: %v", templateID, err)
		return nil, err
	}
	if err := s.templates.MarkPublished(t.ID, now); err != nil {
		log.Printf("[CATALOG] mark %s published: %v", t.ID, err)
	}
	log.Printf("[CATALOG] published %s (%s)", t.ID, t.Title)
	s.emitter.Emit(ctx, EventCatalogChanged, entry.ID)
	return &entry, nil
}

// List returns catalog entries newest first.
func (s *CatalogService) List(ctx context.Context, category string) ([]domain.CatalogSummary, error) {
	var out []domain.CatalogSummary
	err := s.with(func(c dbclient.Connector) error {
		var err error
		out, err = c.List(ctx, category)
		return err
	})
	return out, err
}

// Import fetches a catalog entry and stores it as a new local template.
func (s *CatalogService) Import(ctx context.Context, entryID string) (*domain.Template, error) {
	var entry *domain.CatalogEntry
	err := s.with(func(c dbclient.Connector) error {
		var err error
		entry, err = c.Fetch(ctx, entryID)
		return err
	})
	if err != nil {
		return nil, err
	}
	t := &domain.Template{
		ID:          uuid.New().String(),
		Title:       entry.Title,
		Description: entry.Description,
		Category:    entry.Category,
		PageKey:     entry.PageKey,
		EditorData:  entry.EditorData,
	}
	if err := s.templates.CreateTemplate(t); err != nil {
		return nil, err
	}
	s.emitter.Emit(ctx, EventTemplateSaved, t)
	return t, nil
}

func publisherName() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	host, _ := os.Hostname()
	return host
}
