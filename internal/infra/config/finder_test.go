package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
)

func TestFindRoot_FindsConfigFromNestedDir(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "ws")
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte("program:\n  name: X\n"), 0o644))

	got, err := NewFinder().FindRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestFindRoot_AcceptsFilePath(t *testing.T) {
	root := t.TempDir()
	cfg := filepath.Join(root, FileName)
	require.NoError(t, os.WriteFile(cfg, []byte(""), 0o644))

	got, err := NewFinder().FindRoot(cfg)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestFindRoot_NotFound(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmp, "a", "b"), 0o755))

	_, err := NewFinder().FindRoot(filepath.Join(tmp, "a", "b"))
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFindRoot_EmptyStart(t *testing.T) {
	_, err := NewFinder().FindRoot("")
	assert.True(t, domain.IsKind(err, domain.KindInvalidConfig))
}
