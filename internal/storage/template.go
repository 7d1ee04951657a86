package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"posterdesk/internal/domain"
)

// TemplateStore implements domain.TemplateStore using SQLite.
type TemplateStore struct {
	db *DB
}

func NewTemplateStore(db *DB) *TemplateStore {
	return &TemplateStore{db: db}
}

const templateColumns = `id, title, description, category, page_key, editor_data, created_at, updated_at`

func scanTemplate(row interface{ Scan(...any) error }, t *domain.Template) error {
	return row.Scan(&t.ID, &t.Title, &t.Description, &t.Category, &t.PageKey, &t.EditorData, &t.CreatedAt, &t.UpdatedAt)
}

func (s *TemplateStore) CreateTemplate(t *domain.Template) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	_, err := s.db.Conn().Exec(
		`INSERT INTO templates (`+templateColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, t.Category, t.PageKey, t.EditorData, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

func (s *TemplateStore) GetTemplate(id string) (*domain.Template, error) {
	t := &domain.Template{}
	err := scanTemplate(s.db.Conn().QueryRow(`SELECT `+templateColumns+` FROM templates WHERE id = ?`, id), t)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get template %s: %w", id, ErrTemplateNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

// ListTemplates returns templates newest first. An empty category lists all.
func (s *TemplateStore) ListTemplates(category string) ([]domain.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates`
	var args []any
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := s.db.Conn().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Template
	for rows.Next() {
		var t domain.Template
		if err := scanTemplate(rows, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *TemplateStore) UpdateTemplate(t *domain.Template) error {
	t.UpdatedAt = time.Now()
	res, err := s.db.Conn().Exec(
		`UPDATE templates SET title = ?, description = ?, category = ?, page_key = ?, editor_data = ?, updated_at = ? WHERE id = ?`,
		t.Title, t.Description, t.Category, t.PageKey, t.EditorData, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update template %s: %w", t.ID, ErrTemplateNotFound)
	}
	return nil
}

func (s *TemplateStore) DeleteTemplate(id string) error {
	res, err := s.db.Conn().Exec(`DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete template %s: %w", id, ErrTemplateNotFound)
	}
	return nil
}

// MarkPublished records when a template was last pushed to the catalog.
func (s *TemplateStore) MarkPublished(id string, at time.Time) error {
	_, err := s.db.Conn().Exec(`UPDATE templates SET published_at = ? WHERE id = ?`, at, id)
	return err
}

// LatestUpdate returns the newest updated_at across all templates. The app
// polls it to notice writes made by the standalone MCP process.
func (s *TemplateStore) LatestUpdate() (time.Time, error) {
	var ts sql.NullString
	if err := s.db.Conn().QueryRow(`SELECT MAX(updated_at) FROM templates`).Scan(&ts); err != nil {
		return time.Time{}, err
	}
	if !ts.Valid {
		return time.Time{}, nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05.999999999-07:00", time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, ts.String); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse updated_at %q", ts.String)
}
