package source

import (
	"context"
	"database/sql"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/sdshc/costshare/internal/conservation"
)

// SQLiteSource reads every row of one table in a SQLite database file.
type SQLiteSource struct {
	path  string
	table string
}

// NewSQLite creates a SQLiteSource for table in the database at path.
func NewSQLite(path, table string) *SQLiteSource {
	return &SQLiteSource{path: path, table: table}
}

// Describe implements Source.
func (s *SQLiteSource) Describe() string { return "sqlite:" + s.path + "#" + s.table }

// Load implements Source.
func (s *SQLiteSource) Load(ctx context.Context) ([]conservation.RawRow, error) {
	// sql.Open would create a missing file; a missing database is unavailable.
	if _, err := os.Stat(s.path); err != nil {
		return nil, unavailable(err, "source: stat %s", s.path)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, unavailable(err, "source: open %s", s.path)
	}
	defer db.Close() //nolint:errcheck

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoteSQLiteIdent(s.table))
	if err != nil {
		return nil, unavailable(err, "source: query %s", s.Describe())
	}
	defer rows.Close() //nolint:errcheck

	cols, err := rows.Columns()
	if err != nil {
		return nil, malformed(err, "source: columns of %s", s.Describe())
	}

	var out []conservation.RawRow
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, malformed(err, "source: scan %s", s.Describe())
		}
		out = append(out, valuesRow(cols, vals))
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err, "source: read %s", s.Describe())
	}
	if out == nil {
		out = []conservation.RawRow{}
	}
	return out, nil
}

func quoteSQLiteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
