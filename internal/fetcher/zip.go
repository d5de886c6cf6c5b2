package fetcher

import (
	"archive/zip"
	"bytes"
	"io"
	"path"
	"strings"

	"github.com/rotisserie/eris"
)

// maxZIPEntry bounds the decompressed size of an archived table.
const maxZIPEntry = 256 << 20

// ExtractZIPSingle returns the name and contents of the one table file in
// an in-memory ZIP archive. Directories and macOS resource forks are
// ignored.
func ExtractZIPSingle(data []byte) (string, []byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, eris.Wrap(err, "zip: open archive")
	}

	var files []*zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(f.Name, "__MACOSX/") || strings.HasPrefix(path.Base(f.Name), "._") {
			continue
		}
		files = append(files, f)
	}
	if len(files) != 1 {
		return "", nil, eris.Errorf("zip: expected exactly 1 file, got %d", len(files))
	}

	body, err := readZIPEntry(files[0])
	if err != nil {
		return "", nil, err
	}
	return path.Base(files[0].Name), body, nil
}

func readZIPEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, eris.Wrap(err, "zip: open entry")
	}
	defer rc.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(rc, maxZIPEntry+1))
	if err != nil {
		return nil, eris.Wrapf(err, "zip: read %s", f.Name)
	}
	if len(body) > maxZIPEntry {
		return nil, eris.Errorf("zip: entry %s exceeds %d bytes", f.Name, maxZIPEntry)
	}
	return body, nil
}
