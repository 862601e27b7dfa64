package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMigrationsPath(t *testing.T) {
	for _, dbType := range []string{"postgresql", "mysql"} {
		path := findMigrationsPath(dbType)
		assert.Contains(t, path, dbType)
		_, err := os.Stat(path)
		assert.NoError(t, err, "migrations path should exist")
	}
}

func TestFindMigrationsPathFromDifferentWorkingDir(t *testing.T) {
	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		_ = os.Chdir(originalWd)
	}()

	subDir := filepath.Join(originalWd, "testdata")
	require.NoError(t, os.MkdirAll(subDir, 0o755))
	defer func() {
		_ = os.RemoveAll(subDir)
	}()

	require.NoError(t, os.Chdir(subDir))

	path := findMigrationsPath("postgresql")
	assert.Contains(t, path, "postgresql")
}

func TestTeardownDBWithNilDB(t *testing.T) {
	assert.NotPanics(t, func() {
		TeardownDB(t, nil)
	})
}
