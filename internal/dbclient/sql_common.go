package dbclient

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"posterdesk/internal/domain"
)

// dialect captures what differs between the SQL engines.
type dialect struct {
	driverName  string
	numbered    bool // $1, $2 placeholders instead of ?
	createTable string
	upsertTail  string
}

var catalogColumns = []string{"id", "title", "description", "category", "page_key", "editor_data", "publisher", "published_at"}

const conflictUpdate = ` ON CONFLICT (id) DO UPDATE SET
	title = excluded.title, description = excluded.description, category = excluded.category,
	page_key = excluded.page_key, editor_data = excluded.editor_data,
	publisher = excluded.publisher, published_at = excluded.published_at`

var (
	postgresDialect = dialect{
		driverName: "postgres",
		numbered:   true,
		createTable: `CREATE TABLE IF NOT EXISTS ` + CatalogTable + ` (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			page_key TEXT NOT NULL DEFAULT '',
			editor_data TEXT NOT NULL,
			publisher TEXT NOT NULL DEFAULT '',
			published_at TIMESTAMPTZ NOT NULL
		)`,
		upsertTail: conflictUpdate,
	}
	mysqlDialect = dialect{
		driverName: "mysql",
		createTable: `CREATE TABLE IF NOT EXISTS ` + CatalogTable + ` (
			id VARCHAR(64) PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			category VARCHAR(128) NOT NULL,
			page_key VARCHAR(64) NOT NULL,
			editor_data LONGTEXT NOT NULL,
			publisher VARCHAR(255) NOT NULL,
			published_at DATETIME(6) NOT NULL
		)`,
		upsertTail: ` ON DUPLICATE KEY UPDATE
	title = VALUES(title), description = VALUES(description), category = VALUES(category),
	page_key = VALUES(page_key), editor_data = VALUES(editor_data),
	publisher = VALUES(publisher), published_at = VALUES(published_at)`,
	}
	sqliteDialect = dialect{
		driverName: "sqlite",
		createTable: `CREATE TABLE IF NOT EXISTS ` + CatalogTable + ` (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			page_key TEXT NOT NULL DEFAULT '',
			editor_data TEXT NOT NULL,
			publisher TEXT NOT NULL DEFAULT '',
			published_at DATETIME NOT NULL
		)`,
		upsertTail: conflictUpdate,
	}
)

// rebind rewrites ? placeholders for dialects that number them.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteString("$" + strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (d dialect) upsertQuery() string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(catalogColumns)), ", ")
	return d.rebind(`INSERT INTO ` + CatalogTable + ` (` + strings.Join(catalogColumns, ", ") +
		`) VALUES (` + marks + `)` + d.upsertTail)
}

// sqlConnector is the shared implementation for MySQL, Postgres, and SQLite.
type sqlConnector struct {
	dialect dialect
	db      *sql.DB

	mu    sync.Mutex
	ready bool // catalog table ensured
}

func newSQLConnector(d dialect, dsn string) (*sqlConnector, error) {
	db, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.driverName, err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(10 * time.Minute)

	return &sqlConnector{dialect: d, db: db}, nil
}

func (c *sqlConnector) TestConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return c.db.PingContext(ctx)
}

func (c *sqlConnector) ensureTable(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready {
		return nil
	}
	if _, err := c.db.ExecContext(ctx, c.dialect.createTable); err != nil {
		return fmt.Errorf("create %s: %w", CatalogTable, err)
	}
	c.ready = true
	return nil
}

func (c *sqlConnector) Publish(ctx context.Context, e domain.CatalogEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := c.ensureTable(ctx); err != nil {
		return err
	}
	_, err := c.db.ExecContext(ctx, c.dialect.upsertQuery(),
		e.ID, e.Title, e.Description, e.Category, e.PageKey, e.EditorData, e.Publisher, e.PublishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", e.ID, err)
	}
	return nil
}

func (c *sqlConnector) Fetch(ctx context.Context, id string) (*domain.CatalogEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := c.ensureTable(ctx); err != nil {
		return nil, err
	}
	q := c.dialect.rebind(`SELECT ` + strings.Join(catalogColumns, ", ") + ` FROM ` + CatalogTable + ` WHERE id = ?`)
	var e domain.CatalogEntry
	err := c.db.QueryRowContext(ctx, q, id).Scan(
		&e.ID, &e.Title, &e.Description, &e.Category, &e.PageKey, &e.EditorData, &e.Publisher, &e.PublishedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("fetch %s: %w", id, ErrEntryNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", id, err)
	}
	return &e, nil
}

func (c *sqlConnector) List(ctx context.Context, category string) ([]domain.CatalogSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := c.ensureTable(ctx); err != nil {
		return nil, err
	}
	q := `SELECT id, title, category, page_key, publisher, published_at FROM ` + CatalogTable
	var args []any
	if category != "" {
		q += ` WHERE category = ?`
		args = append(args, category)
	}
	q += ` ORDER BY published_at DESC`

	rows, err := c.db.QueryContext(ctx, c.dialect.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()

	out := []domain.CatalogSummary{}
	for rows.Next() {
		var s domain.CatalogSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Category, &s.PageKey, &s.Publisher, &s.PublishedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}
	return out, nil
}

func (c *sqlConnector) Close() error {
	return c.db.Close()
}
