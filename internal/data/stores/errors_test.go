package stores

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/planboard/internal/data/db"
)

func backups(t *testing.T, dir string) (main, wal, shm []string) {
	t.Helper()

	files, err := filepath.Glob(filepath.Join(dir, db.FileName+".corrupt.*"))
	require.NoError(t, err)

	for _, f := range files {
		switch {
		case strings.HasSuffix(f, "-wal"):
			wal = append(wal, f)
		case strings.HasSuffix(f, "-shm"):
			shm = append(shm, f)
		default:
			main = append(main, f)
		}
	}
	return main, wal, shm
}

func TestRecoverFromCorruption(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, db.FileName)

	require.NoError(t, os.WriteFile(dbPath, []byte("corrupted data"), 0o644))
	require.NoError(t, os.WriteFile(dbPath+"-wal", []byte("wal data"), 0o644))
	require.NoError(t, os.WriteFile(dbPath+"-shm", []byte("shm data"), 0o644))

	require.NoError(t, RecoverFromCorruption(dir))

	main, wal, shm := backups(t, dir)
	assert.Len(t, main, 1)
	assert.Len(t, wal, 1)
	assert.Len(t, shm, 1)

	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err), "%s should be moved aside", p)
	}

	// A fresh database opens in place of the corrupted one.
	database, err := db.Open(dir, db.DefaultOpenOptions())
	require.NoError(t, err)
	require.NoError(t, database.Close())
}

func TestRecoverFromCorruption_MissingFile(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, RecoverFromCorruption(dir))

	main, wal, shm := backups(t, dir)
	assert.Empty(t, main)
	assert.Empty(t, wal)
	assert.Empty(t, shm)
}

func TestRecoverFromCorruption_WALWithoutDatabase(t *testing.T) {
	dir := t.TempDir()
	walPath := filepath.Join(dir, db.FileName) + "-wal"
	require.NoError(t, os.WriteFile(walPath, []byte("wal data"), 0o644))

	require.NoError(t, RecoverFromCorruption(dir))

	_, wal, _ := backups(t, dir)
	assert.Len(t, wal, 1)
	_, err := os.Stat(walPath)
	assert.True(t, os.IsNotExist(err))
}

func TestErrorClassifiers(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		notFound  bool
		corrupted bool
	}{
		{name: "no rows", err: fmt.Errorf("get todo: %w", sql.ErrNoRows), notFound: true},
		{name: "malformed image", err: errors.New("database disk image is malformed"), corrupted: true},
		{name: "not a database", err: errors.New("open: file is not a database"), corrupted: true},
		{name: "other", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.notFound, IsNotFoundError(tt.err))
			assert.Equal(t, tt.corrupted, IsCorruptionError(tt.err))
			assert.False(t, IsBusyError(tt.err))
			assert.False(t, IsConstraintError(tt.err))
		})
	}
}
