package service_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"posterdesk/internal/service"
	"posterdesk/internal/storage"
)

type fixture struct {
	db        *storage.DB
	store     *storage.TemplateStore
	presets   *service.Presets
	emitter   *service.MockEmitter
	templates *service.TemplateService
	editors   *service.EditorService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.New(filepath.Join(dir, "posterdesk.db"), dir)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		db:      db,
		store:   storage.NewTemplateStore(db),
		presets: service.NewPresets(nil),
		emitter: &service.MockEmitter{},
	}
	f.templates = service.NewTemplateService(f.store, f.presets, f.emitter)
	f.editors = service.NewEditorService(f.presets, f.templates, storage.NewUndoStore(db), f.emitter)
	t.Cleanup(f.editors.StopAutosave)
	return f
}
