package filex

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureDir_RelativeResolvesAgainstCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureDir("uploads")
	require.NoError(t, err)

	// macOS temp dirs are symlinked, compare resolved paths
	wantResolved, _ := filepath.EvalSymlinks(filepath.Join(tmp, "uploads"))
	gotResolved, _ := filepath.EvalSymlinks(got)
	require.Equal(t, wantResolved, gotResolved)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestEnsureDir_AbsoluteAndIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	got, err := EnsureDir(dir)
	require.NoError(t, err)
	require.Equal(t, dir, got)

	_, err = EnsureDir(dir)
	require.NoError(t, err)
}

func TestEnsureDir_FileInTheWay(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := EnsureDir(filepath.Join(blocker, "sub"))
	require.Error(t, err)
}

func TestWriteNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")

	require.NoError(t, WriteNew(path, []byte("one")))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "one", string(b))

	err = WriteNew(path, []byte("two"))
	require.True(t, errors.Is(err, fs.ErrExist), "existing file must not be overwritten, got %v", err)
}

func TestRemoveIfExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.png")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	require.NoError(t, RemoveIfExists(path))
	require.NoError(t, RemoveIfExists(path), "second removal must succeed")

	_, err := os.Stat(path)
	require.True(t, errors.Is(err, fs.ErrNotExist))
}
