package app

import (
	"posterdesk/internal/domain"
	"posterdesk/internal/secret"
)

// ============================================================
// Templates
// ============================================================

// SaveTemplate stores the session as a template. Empty meta fields keep
// the values the session already has.
func (a *App) SaveTemplate(sessionID string, meta domain.TemplateMeta) (*domain.Template, error) {
	return a.core.Editors.Save(a.ctx, sessionID, meta)
}

func (a *App) ListTemplates(category string) ([]domain.Template, error) {
	return a.core.Templates.List(category)
}

func (a *App) DeleteTemplate(templateID string) error {
	return a.core.Templates.Delete(a.ctx, templateID)
}

// ============================================================
// Template catalog
// ============================================================

func (a *App) CatalogEnabled() bool {
	return a.core.Catalog.Enabled()
}

// SetCatalogPassword stores the catalog password in the secret store.
func (a *App) SetCatalogPassword(password string) error {
	if password == "" {
		return a.core.Secrets.Delete(secret.CatalogPasswordKey)
	}
	return a.core.Catalog.SetPassword(password)
}

func (a *App) TestCatalog() error {
	return a.core.Catalog.Test(a.ctx)
}

func (a *App) PublishTemplate(templateID string) (*domain.CatalogEntry, error) {
	return a.core.Catalog.Publish(a.ctx, templateID)
}

func (a *App) ListCatalog(category string) ([]domain.CatalogSummary, error) {
	list, err := a.core.Catalog.List(a.ctx, category)
	if list == nil && err == nil {
		list = []domain.CatalogSummary{}
	}
	return list, err
}

func (a *App) ImportCatalogEntry(entryID string) (*domain.Template, error) {
	return a.core.Catalog.Import(a.ctx, entryID)
}
