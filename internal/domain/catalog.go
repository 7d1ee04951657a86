package domain

import "time"

// CatalogDriver is the database engine behind the template catalog.
type CatalogDriver string

const (
	CatalogDriverPostgres CatalogDriver = "postgres"
	CatalogDriverMySQL    CatalogDriver = "mysql"
	CatalogDriverSQLite   CatalogDriver = "sqlite"
	CatalogDriverMongoDB  CatalogDriver = "mongodb"
)

// CatalogConnection holds the metadata for reaching the catalog.
// The password is stored separately in the secret store.
type CatalogConnection struct {
	Driver   CatalogDriver `json:"driver"`
	Host     string        `json:"host"`     // hostname, or file path for sqlite
	Port     int           `json:"port"`     // 0 selects the driver default
	Database string        `json:"database"` // db name; empty for sqlite
	Username string        `json:"username"`
	SSLMode  string        `json:"sslMode"`
	URI      string        `json:"uri"` // full mongodb:// or mongodb+srv:// URI
}

// CatalogEntry is a template published to the shared catalog.
type CatalogEntry struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Category    string    `json:"category" bson:"category"`
	PageKey     string    `json:"pageKey" bson:"pageKey"`
	EditorData  string    `json:"editorData" bson:"editorData"`
	Publisher   string    `json:"publisher" bson:"publisher"`
	PublishedAt time.Time `json:"publishedAt" bson:"publishedAt"`
}

// CatalogSummary is a catalog listing row without the editor data.
type CatalogSummary struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Category    string    `json:"category" bson:"category"`
	PageKey     string    `json:"pageKey" bson:"pageKey"`
	Publisher   string    `json:"publisher" bson:"publisher"`
	PublishedAt time.Time `json:"publishedAt" bson:"publishedAt"`
}

// EntryFromTemplate prepares t for publishing.
func EntryFromTemplate(t *Template, publisher string, at time.Time) CatalogEntry {
	return CatalogEntry{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		PageKey:     t.PageKey,
		EditorData:  t.EditorData,
		Publisher:   publisher,
		PublishedAt: at,
	}
}
