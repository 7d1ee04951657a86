package domain

import "time"

// Template is a saved poster layout. EditorData holds the JSON-encoded
// Snapshot; the editor core never reads this field directly.
type Template struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	PageKey     string    `json:"pageKey"`
	EditorData  string    `json:"editorData"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TemplateMeta is the user-supplied part of a template.
type TemplateMeta struct {
	ID          string `json:"id"` // empty to create
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type TemplateStore interface {
	CreateTemplate(t *Template) error
	GetTemplate(id string) (*Template, error)
	ListTemplates(category string) ([]Template, error)
	UpdateTemplate(t *Template) error
	DeleteTemplate(id string) error
}
