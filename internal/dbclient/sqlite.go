package dbclient

import (
	"fmt"

	"posterdesk/internal/domain"

	_ "modernc.org/sqlite"
)

// newSQLiteConnector opens a catalog stored in a SQLite file, for example
// on a shared drive. WAL mode with a busy timeout tolerates several writers.
func newSQLiteConnector(conn domain.CatalogConnection) (*sqlConnector, error) {
	if conn.Host == "" {
		return nil, fmt.Errorf("sqlite catalog: host must be a file path")
	}
	dsn := conn.Host + "?_journal_mode=WAL&_busy_timeout=5000"
	return newSQLConnector(sqliteDialect, dsn)
}
