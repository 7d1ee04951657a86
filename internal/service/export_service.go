package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"posterdesk/internal/domain"
	"posterdesk/internal/export"
)

// ErrExportBusy is returned while an export of the same poster is running.
var ErrExportBusy = errors.New("export already running")

// ExportResult is reported through export:done.
type ExportResult struct {
	SessionID  string        `json:"sessionId,omitempty"`
	TemplateID string        `json:"templateId,omitempty"`
	Format     export.Format `json:"format"`
	Filename   string        `json:"filename"`
}

// ExportService renders sessions and saved templates. Exports of the same
// poster never overlap; editor state is never touched.
type ExportService struct {
	editors   *EditorService
	templates *TemplateService
	emitter   EventEmitter
	guard     runningJobsGuard

	mu    sync.RWMutex
	scale float64
}

func NewExportService(editors *EditorService, templates *TemplateService, scale float64, emitter EventEmitter) *ExportService {
	if emitter == nil {
		emitter = NopEmitter{}
	}
	return &ExportService{editors: editors, templates: templates, scale: scale, emitter: emitter}
}

// SetScale changes the raster scale of later exports.
func (s *ExportService) SetScale(scale float64) {
	s.mu.Lock()
	s.scale = scale
	s.mu.Unlock()
}

func (s *ExportService) exporter(d export.Deliverer) *export.Exporter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return export.NewExporter(d, s.scale)
}

// Export renders the session's current snapshot in format and hands it to d.
func (s *ExportService) Export(ctx context.Context, sessionID string, format export.Format, d export.Deliverer) (ExportResult, error) {
	view, err := s.editors.View(sessionID)
	if err != nil {
		return ExportResult{}, err
	}
	snap, title, err := s.editors.Snapshot(sessionID)
	if err != nil {
		return ExportResult{}, err
	}
	key := view.TemplateID
	if key == "" {
		key = sessionID
	}
	res := ExportResult{SessionID: sessionID, TemplateID: view.TemplateID, Format: format}
	return s.run(ctx, key, title, format, snap, d, res)
}

// ExportTemplate renders a saved template without opening a session.
func (s *ExportService) ExportTemplate(ctx context.Context, templateID string, format export.Format, d export.Deliverer) (ExportResult, error) {
	if s.templates == nil {
		return ExportResult{}, fmt.Errorf("export template: no template store")
	}
	t, snap, err := s.templates.Load(templateID)
	if err != nil {
		return ExportResult{}, err
	}
	res := ExportResult{TemplateID: t.ID, Format: format}
	return s.run(ctx, t.ID, t.Title, format, snap, d, res)
}

func (s *ExportService) run(ctx context.Context, key, title string, format export.Format, snap domain.Snapshot, d export.Deliverer, res ExportResult) (ExportResult, error) {
	if !s.guard.TryLock(key) {
		return ExportResult{}, fmt.Errorf("export %s: %w", key, ErrExportBusy)
	}
	defer s.guard.Unlock(key)

	filename, err := s.exporter(d).Export(ctx, format, title, snap)
	if err != nil {
		s.emitter.Emit(ctx, EventNotifyError, map[string]string{
			"title":   "Export failed",
			"message": err.Error(),
		})
		return ExportResult{}, err
	}
	res.Filename = filename
	s.emitter.Emit(ctx, EventExportDone, res)
	return res, nil
}

// Wait blocks until running exports finish or ctx is done.
func (s *ExportService) Wait(ctx context.Context) {
	s.guard.WaitAll(ctx)
}
