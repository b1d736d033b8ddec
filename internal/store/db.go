package store

import (
	"database/sql"
	"embed"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Dialect names the SQL flavour behind a DB.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// DB wraps a database connection together with its dialect.
type DB struct {
	*sql.DB
	dialect Dialect
}

// New opens a database connection. driver is "sqlite" (the default) or
// "postgres"; dsn is a file path, ":memory:" or a postgres connection string.
func New(driver, dsn string) (*DB, error) {
	dialect := Dialect(strings.ToLower(strings.TrimSpace(driver)))
	switch dialect {
	case "", SQLite:
		dialect = SQLite
	case Postgres, "postgresql":
		dialect = Postgres
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if dialect == SQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dialect == SQLite {
		// An in-memory database lives per connection.
		if isMemoryDSN(dsn) {
			db.SetMaxOpenConns(1)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
	}

	return &DB{DB: db, dialect: dialect}, nil
}

// sqlitePragmas are applied by the driver to every pooled connection.
// Foreign keys are per connection in SQLite, and writers wait on a locked
// database instead of failing with SQLITE_BUSY.
var sqlitePragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

// sqliteDSN appends the connection pragmas to dsn, skipping any the caller
// already set. File databases also get WAL journaling and immediate
// transactions so concurrent writers queue on the busy timeout.
func sqliteDSN(dsn string) string {
	params := append([]string(nil), sqlitePragmas...)
	memory := isMemoryDSN(dsn)
	if !memory {
		params = append(params, "journal_mode(WAL)")
	}

	var extra []string
	for _, p := range params {
		name := p[:strings.IndexByte(p, '(')]
		if strings.Contains(dsn, "_pragma="+name) {
			continue
		}
		extra = append(extra, "_pragma="+p)
	}
	if !memory && !strings.Contains(dsn, "_txlock=") {
		extra = append(extra, "_txlock=immediate")
	}
	if len(extra) == 0 {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(extra, "&")
}

func isMemoryDSN(dsn string) bool {
	return strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// Dialect reports the SQL flavour of the connection.
func (db *DB) Dialect() Dialect { return db.dialect }

// RunMigrations creates the schema if it does not exist yet.
func (db *DB) RunMigrations() error {
	migration, err := schemaFS.ReadFile("schema/" + string(db.dialect) + ".sql")
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	if _, err := db.Exec(string(migration)); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Rebind rewrites ? placeholders into the dialect's form.
func (db *DB) Rebind(query string) string {
	if db.dialect != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
