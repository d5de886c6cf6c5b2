// Package source loads the contract and funding tables from files, URLs and
// database tables and hands them to the normalizer as header-keyed rows.
package source

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sdshc/costshare/internal/conservation"
	"github.com/sdshc/costshare/internal/fetcher"
)

// Sentinel load failures. Match with eris.Is.
var (
	// ErrUnavailable means the table could not be retrieved.
	ErrUnavailable = eris.New("table unavailable")
	// ErrMalformed means the table was retrieved but cannot be read as a table.
	ErrMalformed = eris.New("table malformed")
)

// Source delivers one table.
type Source interface {
	Load(ctx context.Context) ([]conservation.RawRow, error)
	// Describe names the source for logs, without credentials.
	Describe() string
}

// Config locates a table. Table names the database table for sqlite: and
// postgres:// URIs; Sheet names the worksheet of a workbook.
type Config struct {
	URI   string `mapstructure:"uri" yaml:"uri"`
	Table string `mapstructure:"table" yaml:"table"`
	Sheet string `mapstructure:"sheet" yaml:"sheet"`
}

// Open builds the Source for cfg. Remote URIs are downloaded through f.
func Open(cfg Config, f fetcher.Fetcher) (Source, error) {
	uri := strings.TrimSpace(cfg.URI)
	lower := strings.ToLower(uri)

	switch {
	case uri == "":
		return nil, eris.Wrap(ErrMalformed, "source: empty uri")
	case strings.HasPrefix(lower, "sqlite:"):
		if cfg.Table == "" {
			return nil, eris.Wrapf(ErrMalformed, "source: %s needs a table name", uri)
		}
		return NewSQLite(strings.TrimPrefix(uri[len("sqlite:"):], "//"), cfg.Table), nil
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		if cfg.Table == "" {
			return nil, eris.Wrap(ErrMalformed, "source: postgres uri needs a table name")
		}
		return NewPostgres(uri, cfg.Table), nil
	case fetcher.IsRemote(uri):
		if f == nil {
			return nil, eris.Wrapf(ErrMalformed, "source: no fetcher for %s", uri)
		}
		if _, err := kindOf(uri); err != nil {
			return nil, err
		}
		return &RemoteSource{url: uri, sheet: cfg.Sheet, fetcher: f}, nil
	default:
		if _, err := kindOf(uri); err != nil {
			return nil, err
		}
		return &FileSource{path: uri, sheet: cfg.Sheet}, nil
	}
}

type fileKind int

const (
	kindCSV fileKind = iota
	kindXLSX
	kindZIP
)

// kindOf picks the decoder from the extension of a file path or URL path.
func kindOf(loc string) (fileKind, error) {
	if fetcher.IsRemote(loc) {
		if u, err := url.Parse(loc); err == nil {
			loc = u.Path
		}
	}
	switch ext := strings.ToLower(path.Ext(loc)); ext {
	case ".csv", ".txt", "":
		return kindCSV, nil
	case ".xlsx":
		return kindXLSX, nil
	case ".zip":
		return kindZIP, nil
	default:
		return 0, eris.Wrapf(ErrMalformed, "source: unsupported file type %q", ext)
	}
}

// tableRows keys each data row by the header. Short rows read as empty for
// the missing columns; unnamed columns are dropped.
func tableRows(t *fetcher.Table) []conservation.RawRow {
	header := make([]string, len(t.Header))
	for i, h := range t.Header {
		header[i] = strings.TrimSpace(h)
	}

	out := make([]conservation.RawRow, 0, len(t.Rows))
	for _, cells := range t.Rows {
		row := make(conservation.RawRow, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if _, dup := row[name]; dup {
				continue
			}
			if i < len(cells) {
				row[name] = cells[i]
			} else {
				row[name] = ""
			}
		}
		out = append(out, row)
	}
	return out
}

func unavailable(err error, format string, args ...any) error {
	return eris.Wrapf(ErrUnavailable, format+": %v", append(args, err)...)
}

func malformed(err error, format string, args ...any) error {
	return eris.Wrapf(ErrMalformed, format+": %v", append(args, err)...)
}
