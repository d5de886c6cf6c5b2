package source

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sdshc/costshare/internal/conservation"
	"github.com/sdshc/costshare/internal/fetcher"
)

// maxDownload bounds a downloaded table.
const maxDownload = 256 << 20

// FileSource reads a CSV, XLSX or single-table ZIP file from disk.
type FileSource struct {
	path  string
	sheet string
}

// NewFile creates a FileSource. sheet selects the worksheet of a workbook.
func NewFile(path, sheet string) *FileSource {
	return &FileSource{path: path, sheet: sheet}
}

// Describe implements Source.
func (s *FileSource) Describe() string { return s.path }

// Load implements Source.
func (s *FileSource) Load(ctx context.Context) ([]conservation.RawRow, error) {
	kind, err := kindOf(s.path)
	if err != nil {
		return nil, err
	}

	if kind == kindXLSX {
		if _, err := os.Stat(s.path); err != nil {
			return nil, unavailable(err, "source: stat %s", s.path)
		}
		t, err := fetcher.ReadXLSXFile(s.path, fetcher.XLSXOptions{SheetName: s.sheet})
		if err != nil {
			return nil, malformed(err, "source: read %s", s.path)
		}
		return tableRows(t), nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, unavailable(err, "source: read %s", s.path)
	}
	return decodeTable(ctx, s.path, data, s.sheet)
}

// RemoteSource downloads a table over HTTP(S) or FTP.
type RemoteSource struct {
	url     string
	sheet   string
	fetcher fetcher.Fetcher
}

// NewRemote creates a RemoteSource that downloads through f.
func NewRemote(url, sheet string, f fetcher.Fetcher) *RemoteSource {
	return &RemoteSource{url: url, sheet: sheet, fetcher: f}
}

// Describe implements Source.
func (s *RemoteSource) Describe() string { return redact(s.url) }

// Load implements Source.
func (s *RemoteSource) Load(ctx context.Context) ([]conservation.RawRow, error) {
	body, err := s.fetcher.Download(ctx, s.url)
	if err != nil {
		return nil, unavailable(err, "source: download %s", s.Describe())
	}
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(io.LimitReader(body, maxDownload+1))
	if err != nil {
		return nil, unavailable(err, "source: read body of %s", s.Describe())
	}
	if len(data) > maxDownload {
		return nil, eris.Wrapf(ErrMalformed, "source: %s exceeds %d bytes", s.Describe(), maxDownload)
	}

	zap.L().Debug("source: downloaded table",
		zap.String("source", s.Describe()),
		zap.Int("bytes", len(data)),
	)
	return decodeTable(ctx, s.url, data, s.sheet)
}

// decodeTable decodes an in-memory CSV, XLSX or ZIP payload. name supplies
// the extension.
func decodeTable(ctx context.Context, name string, data []byte, sheet string) ([]conservation.RawRow, error) {
	kind, err := kindOf(name)
	if err != nil {
		return nil, err
	}

	switch kind {
	case kindXLSX:
		t, err := fetcher.ReadXLSXBytes(data, fetcher.XLSXOptions{SheetName: sheet})
		if err != nil {
			return nil, malformed(err, "source: decode workbook %s", redact(name))
		}
		return tableRows(t), nil
	case kindZIP:
		inner, body, err := fetcher.ExtractZIPSingle(data)
		if err != nil {
			return nil, malformed(err, "source: unpack %s", redact(name))
		}
		if k, err := kindOf(inner); err != nil || k == kindZIP {
			return nil, eris.Wrapf(ErrMalformed, "source: archive %s holds unsupported file %q", redact(name), inner)
		}
		return decodeTable(ctx, inner, body, sheet)
	default:
		t, err := fetcher.ReadCSVTable(ctx, bytes.NewReader(data), fetcher.CSVOptions{LazyQuotes: true})
		if err != nil {
			return nil, malformed(err, "source: decode csv %s", redact(name))
		}
		return tableRows(t), nil
	}
}
