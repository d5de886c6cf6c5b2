package source

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sdshc/costshare/internal/conservation"
)

// Querier is the subset of *pgxpool.Pool the Postgres source uses.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// PostgresSource reads every row of one table over a pgx pool. The table
// may be schema-qualified ("public.contracts").
type PostgresSource struct {
	connString string
	table      string
	connect    func(ctx context.Context, connString string) (Querier, error)
}

// NewPostgres creates a PostgresSource. A pool is opened per load and closed
// when it finishes.
func NewPostgres(connString, table string) *PostgresSource {
	return &PostgresSource{
		connString: connString,
		table:      table,
		connect: func(ctx context.Context, connString string) (Querier, error) {
			pool, err := pgxpool.New(ctx, connString)
			if err != nil {
				return nil, err
			}
			return pool, nil
		},
	}
}

// Describe implements Source.
func (s *PostgresSource) Describe() string { return redact(s.connString) + "#" + s.table }

// Load implements Source.
func (s *PostgresSource) Load(ctx context.Context) ([]conservation.RawRow, error) {
	pool, err := s.connect(ctx, s.connString)
	if err != nil {
		return nil, unavailable(err, "source: connect %s", redact(s.connString))
	}
	defer pool.Close()

	rows, err := pool.Query(ctx, "SELECT * FROM "+tableIdentifier(s.table).Sanitize())
	if err != nil {
		return nil, unavailable(err, "source: query %s", s.Describe())
	}
	defer rows.Close()

	var cols []string
	out := []conservation.RawRow{}
	for rows.Next() {
		if cols == nil {
			cols = columnNames(rows)
		}
		vals, err := rows.Values()
		if err != nil {
			return nil, malformed(err, "source: decode row of %s", s.Describe())
		}
		out = append(out, valuesRow(cols, vals))
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err, "source: read %s", s.Describe())
	}
	return out, nil
}

func columnNames(rows pgx.Rows) []string {
	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, fd := range fields {
		cols[i] = fd.Name
	}
	return cols
}

func tableIdentifier(table string) pgx.Identifier {
	return pgx.Identifier(strings.Split(table, "."))
}

// valuesRow renders database values the way they would appear in a CSV
// export of the same table.
func valuesRow(cols []string, vals []any) conservation.RawRow {
	row := make(conservation.RawRow, len(cols))
	for i, col := range cols {
		if i < len(vals) {
			row[col] = cellString(vals[i])
		} else {
			row[col] = ""
		}
	}
	return row
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	case interface{ Float64Value() (pgtype.Float8, error) }:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// redact hides the password of a URL-style location.
func redact(loc string) string {
	u, err := url.Parse(loc)
	if err != nil || u.User == nil {
		return loc
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
