package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDataDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("STORAGE_DRIVER", "file")
	t.Setenv("STORAGE_DATA_DIR", dir)
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func TestInitCommand(t *testing.T) {
	dir := setupDataDir(t)

	var out bytes.Buffer
	cmd := NewInitCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "items: 0 records")
	assert.Contains(t, out.String(), "categories: 0 records")
	assert.FileExists(t, filepath.Join(dir, "products-db.json"))
	assert.FileExists(t, filepath.Join(dir, "category-db.json"))
}

func TestRecordsListCommand(t *testing.T) {
	dir := setupDataDir(t)
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "category-db.json"),
		[]byte(`[{"id":1,"ownerId":1,"name":"A"},{"id":2,"ownerId":2,"name":"B"}]`),
		0o644,
	))

	t.Run("filtered", func(t *testing.T) {
		var out bytes.Buffer
		cmd := NewRecordsCommand()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"list", "categories", "--owner-id", "2"})
		require.NoError(t, cmd.Execute())

		assert.JSONEq(t, `[{"id":2,"ownerId":2,"name":"B"}]`, out.String())
	})

	t.Run("unknown collection", func(t *testing.T) {
		cmd := NewRecordsCommand()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"list", "owners"})
		assert.Error(t, cmd.Execute())
	})
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := NewVersionCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Inventra "+Version)
}
