package fetcher

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type zipEntry struct {
	name string
	body string
}

func createTestZIP(t *testing.T, entries ...zipEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		fw, err := w.Create(e.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtractZIPSingle(t *testing.T) {
	data := createTestZIP(t, zipEntry{"export/contracts.csv", "FARM\nPrairie Acres\n"})

	name, body, err := ExtractZIPSingle(data)
	require.NoError(t, err)
	assert.Equal(t, "contracts.csv", name)
	assert.Equal(t, "FARM\nPrairie Acres\n", string(body))
}

func TestExtractZIPSingle_SkipsResourceForks(t *testing.T) {
	data := createTestZIP(t,
		zipEntry{"__MACOSX/._contracts.csv", "junk"},
		zipEntry{"dir/", ""},
		zipEntry{"contracts.csv", "FARM\n"},
	)

	name, _, err := ExtractZIPSingle(data)
	require.NoError(t, err)
	assert.Equal(t, "contracts.csv", name)
}

func TestExtractZIPSingle_MultipleFiles(t *testing.T) {
	data := createTestZIP(t,
		zipEntry{"a.csv", "x"},
		zipEntry{"b.csv", "y"},
	)

	_, _, err := ExtractZIPSingle(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected exactly 1 file, got 2")
}

func TestExtractZIPSingle_Empty(t *testing.T) {
	_, _, err := ExtractZIPSingle(createTestZIP(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 0")
}

func TestExtractZIPSingle_InvalidArchive(t *testing.T) {
	_, _, err := ExtractZIPSingle([]byte("not a zip"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zip: open archive")
}
