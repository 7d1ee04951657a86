// Package dbclient publishes templates to and fetches them from the shared
// catalog database.
package dbclient

import (
	"context"
	"errors"
	"fmt"

	"posterdesk/internal/domain"
)

// CatalogTable is the table (or MongoDB collection) holding published templates.
const CatalogTable = "poster_templates"

var (
	ErrUnsupportedDriver = errors.New("unsupported catalog driver")
	ErrEntryNotFound     = errors.New("catalog entry not found")
)

// Connector abstracts the catalog database.
type Connector interface {
	// TestConnection verifies connectivity.
	TestConnection(ctx context.Context) error

	// Publish inserts or replaces the entry with e.ID.
	Publish(ctx context.Context, e domain.CatalogEntry) error

	// Fetch returns one entry, or ErrEntryNotFound.
	Fetch(ctx context.Context, id string) (*domain.CatalogEntry, error)

	// List returns entries newest first; an empty category lists all.
	List(ctx context.Context, category string) ([]domain.CatalogSummary, error)

	// Close releases the connection.
	Close() error
}

// NewConnector creates a Connector for conn. The password comes from the
// secret store.
func NewConnector(conn domain.CatalogConnection, password string) (Connector, error) {
	switch conn.Driver {
	case domain.CatalogDriverSQLite:
		return newSQLiteConnector(conn)
	case domain.CatalogDriverMySQL:
		return newSQLConnector(mysqlDialect, buildMySQLDSN(conn, password))
	case domain.CatalogDriverPostgres:
		return newSQLConnector(postgresDialect, buildPostgresDSN(conn, password))
	case domain.CatalogDriverMongoDB:
		return newMongoConnector(conn, password)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, conn.Driver)
	}
}

// Factory opens connectors; services take one so tests can swap it.
type Factory func(conn domain.CatalogConnection, password string) (Connector, error)
