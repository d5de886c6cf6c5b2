package source

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createContractsDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "costshare.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	_, err = db.Exec(`CREATE TABLE contracts (FARM TEXT, ACRES REAL, SEG INTEGER, RED_N TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO contracts VALUES ('Prairie Acres', 40.5, 2, '12.3'), ('Dakota Hills', NULL, 1, '*')`)
	require.NoError(t, err)
	return path
}

func TestSQLiteSource_Load(t *testing.T) {
	path := createContractsDB(t)

	src, err := Open(Config{URI: "sqlite:" + path, Table: "contracts"}, nil)
	require.NoError(t, err)

	rows, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Prairie Acres", rows[0]["FARM"])
	assert.Equal(t, "40.5", rows[0]["ACRES"])
	assert.Equal(t, "2", rows[0]["SEG"])
	assert.Equal(t, "", rows[1]["ACRES"])
	assert.Equal(t, "*", rows[1]["RED_N"])
}

func TestSQLiteSource_EmptyTable(t *testing.T) {
	path := createContractsDB(t)
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE funding (BMP TEXT)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	rows, err := NewSQLite(path, "funding").Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestSQLiteSource_MissingDatabase(t *testing.T) {
	_, err := NewSQLite(filepath.Join(t.TempDir(), "missing.db"), "contracts").Load(context.Background())
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrUnavailable))
}

func TestSQLiteSource_MissingTable(t *testing.T) {
	path := createContractsDB(t)

	_, err := NewSQLite(path, "nope").Load(context.Background())
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrUnavailable))
}

func TestQuoteSQLiteIdent(t *testing.T) {
	assert.Equal(t, `"contracts"`, quoteSQLiteIdent("contracts"))
	assert.Equal(t, `"a""b"`, quoteSQLiteIdent(`a"b`))
}
