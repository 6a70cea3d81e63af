package filesystem

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMockFileSystem_WriteRequiresParent(t *testing.T) {
	mfs := NewMockFileSystem()

	err := mfs.WriteFile("/missing/dir/file.txt", []byte("x"), 0644)
	require.ErrorIs(t, err, fs.ErrNotExist)

	require.NoError(t, mfs.MkdirAll("/missing/dir", 0755))
	require.NoError(t, mfs.WriteFile("/missing/dir/file.txt", []byte("x"), 0644))

	data, err := mfs.ReadFile("/missing/dir/file.txt")
	require.NoError(t, err)
	require.Equal(t, "x", string(data))
}

func TestMockFileSystem_WalkDirSkipDir(t *testing.T) {
	mfs := NewMockFileSystem()
	mfs.AddFile("/proj/src/Main.java", []byte("class Main {}"))
	mfs.AddFile("/proj/target/classes/Main.class", []byte{0})
	mfs.AddFile("/proj/pom.xml", []byte("<project/>"))

	var visited []string
	err := mfs.WalkDir("/proj", func(path string, d fs.DirEntry, err error) error {
		if d.IsDir() && d.Name() == "target" {
			return filepath.SkipDir
		}
		visited = append(visited, path)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"/proj", "/proj/pom.xml", "/proj/src", "/proj/src/Main.java"}, visited)
}

func TestMockFileSystem_TempAndRemoveAll(t *testing.T) {
	mfs := NewMockFileSystem()

	dir, err := mfs.MkdirTemp("codestart-*")
	require.NoError(t, err)
	require.Equal(t, "/tmp/codestart-1", dir)

	mfs.AddFile(filepath.Join(dir, "a", "b.txt"), []byte("b"))
	require.NoError(t, mfs.RemoveAll(dir))
	require.False(t, mfs.Exists(dir))
	require.False(t, mfs.Exists(filepath.Join(dir, "a", "b.txt")))
	require.NoError(t, mfs.RemoveAll("/never/existed"))
}
