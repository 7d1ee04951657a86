package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"posterdesk/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Template Service: saved poster layouts
// ─────────────────────────────────────────────────────────────

// TemplateService saves and loads templates. The editor core never touches
// persistence; it only produces and consumes snapshots.
type TemplateService struct {
	store   domain.TemplateStore
	presets *Presets
	emitter EventEmitter
}

func NewTemplateService(store domain.TemplateStore, presets *Presets, emitter EventEmitter) *TemplateService {
	if emitter == nil {
		emitter = NopEmitter{}
	}
	return &TemplateService{store: store, presets: presets, emitter: emitter}
}

// Save creates (empty meta.ID) or updates a template holding snap.
func (s *TemplateService) Save(ctx context.Context, meta domain.TemplateMeta, snap domain.Snapshot) (*domain.Template, error) {
	title := strings.TrimSpace(meta.Title)
	if title == "" {
		return nil, fmt.Errorf("save template: title is required")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	if meta.ID == "" {
		t := &domain.Template{
			ID:          uuid.New().String(),
			Title:       title,
			Description: meta.Description,
			Category:    meta.Category,
			PageKey:     snap.Page.Key,
			EditorData:  string(data),
		}
		if err := s.store.CreateTemplate(t); err != nil {
			return nil, err
		}
		s.emitter.Emit(ctx, EventTemplateSaved, t)
		return t, nil
	}

	t, err := s.store.GetTemplate(meta.ID)
	if err != nil {
		return nil, err
	}
	t.Title = title
	t.Description = meta.Description
	t.Category = meta.Category
	t.PageKey = snap.Page.Key
	t.EditorData = string(data)
	if err := s.store.UpdateTemplate(t); err != nil {
		return nil, err
	}
	s.emitter.Emit(ctx, EventTemplateSaved, t)
	return t, nil
}

// Load returns a template and its decoded snapshot. A snapshot saved
// without page dimensions takes them from the preset named by PageKey.
func (s *TemplateService) Load(id string) (*domain.Template, domain.Snapshot, error) {
	t, err := s.store.GetTemplate(id)
	if err != nil {
		return nil, domain.Snapshot{}, err
	}
	snap, err := s.decode(t)
	if err != nil {
		return nil, domain.Snapshot{}, err
	}
	return t, snap, nil
}

func (s *TemplateService) decode(t *domain.Template) (domain.Snapshot, error) {
	var snap domain.Snapshot
	if t.EditorData != "" {
		if err := json.Unmarshal([]byte(t.EditorData), &snap); err != nil {
			return domain.Snapshot{}, fmt.Errorf("decode template %s: %w", t.ID, err)
		}
	}
	// Pages from the catalog or old rows may be missing or degenerate.
	if !snap.Page.FitsTextBox() {
		key := snap.Page.Key
		if key == "" {
			key = t.PageKey
		}
		snap.Page = s.presets.Resolve(key)
	}
	return snap, nil
}

func (s *TemplateService) List(category string) ([]domain.Template, error) {
	list, err := s.store.ListTemplates(category)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	if list == nil {
		list = []domain.Template{}
	}
	return list, nil
}

func (s *TemplateService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTemplate(id); err != nil {
		return err
	}
	s.emitter.Emit(ctx, EventTemplateDeleted, id)
	return nil
}
