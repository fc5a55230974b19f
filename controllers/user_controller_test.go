package controllers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/CUknot/forum_backend/config"
	"github.com/CUknot/forum_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveAvatar(t *testing.T) {
	dir := t.TempDir()
	previous := settings
	settings = &config.Config{MediaDir: dir}
	t.Cleanup(func() { settings = previous })

	for _, name := range []string{"old.png", models.DefaultAvatar} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	outside := filepath.Join(filepath.Dir(dir), filepath.Base(dir)+"-outside.png")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))
	t.Cleanup(func() { os.Remove(outside) })

	removeAvatar("old.png")
	removeAvatar(models.DefaultAvatar)
	removeAvatar("../" + filepath.Base(outside))
	removeAvatar("")
	removeAvatar("missing.png")

	_, err := os.Stat(filepath.Join(dir, "old.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.FileExists(t, filepath.Join(dir, models.DefaultAvatar))
	assert.FileExists(t, outside)
}
