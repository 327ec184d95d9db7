package fsutil_test

import (
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/sentinel/pkg/fsutil"
)

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("returns content and info", func(t *testing.T) {
		t.Parallel()

		mem := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(mem, "/src/app.js", []byte("arr.at(-1)"), 0o600))

		content, info, err := fsutil.New(mem).ReadFile(context.Background(), "/src/app.js")
		require.NoError(t, err)
		assert.Equal(t, "arr.at(-1)", string(content))
		assert.Equal(t, "/src/app.js", info.Path)
		assert.Equal(t, int64(10), info.Size)
		assert.Equal(t, sha256.Sum256(content), info.Hash)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.New(afero.NewMemMapFs()).ReadFile(context.Background(), "/nope.js")
		require.ErrorIs(t, err, fsutil.ErrNotFound)
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		mem := afero.NewMemMapFs()
		require.NoError(t, mem.MkdirAll("/src", 0o755))

		_, _, err := fsutil.New(mem).ReadFile(context.Background(), "/src")
		require.ErrorIs(t, err, fsutil.ErrIsDirectory)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := fsutil.New(afero.NewMemMapFs()).ReadFile(ctx, "/a.js")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestCheckModified(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unchanged", func(t *testing.T) {
		t.Parallel()

		mem := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(mem, "/a.js", []byte("x"), 0o644))
		fsys := fsutil.New(mem)

		_, info, err := fsys.ReadFile(ctx, "/a.js")
		require.NoError(t, err)

		modified, err := fsys.CheckModified(ctx, info)
		require.NoError(t, err)
		assert.False(t, modified)
	})

	t.Run("same size different content", func(t *testing.T) {
		t.Parallel()

		mem := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(mem, "/a.js", []byte("foo"), 0o644))
		fsys := fsutil.New(mem)

		_, info, err := fsys.ReadFile(ctx, "/a.js")
		require.NoError(t, err)

		require.NoError(t, afero.WriteFile(mem, "/a.js", []byte("bar"), 0o644))
		require.NoError(t, mem.Chtimes("/a.js", info.ModTime, info.ModTime))

		modified, err := fsys.CheckModified(ctx, info)
		require.NoError(t, err)
		assert.True(t, modified)
	})

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()

		mem := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(mem, "/a.js", []byte("x"), 0o644))
		fsys := fsutil.New(mem)

		_, info, err := fsys.ReadFile(ctx, "/a.js")
		require.NoError(t, err)
		require.NoError(t, mem.Remove("/a.js"))

		modified, err := fsys.CheckModified(ctx, info)
		require.NoError(t, err)
		assert.True(t, modified)
	})

	t.Run("nil info", func(t *testing.T) {
		t.Parallel()

		_, err := fsutil.New(afero.NewMemMapFs()).CheckModified(ctx, nil)
		require.ErrorIs(t, err, fsutil.ErrNilFileInfo)
	})
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("replaces content and leaves no temp files", func(t *testing.T) {
		t.Parallel()

		mem := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(mem, "/src/a.js", []byte("old"), 0o644))

		require.NoError(t, fsutil.New(mem).WriteAtomic(ctx, "/src/a.js", []byte("new"), 0o600))

		got, err := afero.ReadFile(mem, "/src/a.js")
		require.NoError(t, err)
		assert.Equal(t, "new", string(got))

		entries, err := afero.ReadDir(mem, "/src")
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("preserves mode on disk", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "a.js")
		require.NoError(t, fsutil.New(nil).WriteAtomic(ctx, path, []byte("x"), 0o600))

		stat, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), stat.Mode().Perm())
	})
}

func TestCreateBackup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/a.js", []byte("original"), 0o644))
	fsys := fsutil.New(mem)

	created, err := fsys.CreateBackup(ctx, "/a.js")
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, afero.WriteFile(mem, "/a.js", []byte("changed"), 0o644))

	created, err = fsys.CreateBackup(ctx, "/a.js")
	require.NoError(t, err)
	assert.False(t, created, "existing backup must not be overwritten")

	backup, err := afero.ReadFile(mem, fsutil.BackupPath("/a.js"))
	require.NoError(t, err)
	assert.Equal(t, "original", string(backup))

	created, err = fsys.CreateBackup(ctx, "/missing.js")
	require.NoError(t, err)
	assert.False(t, created)
}
