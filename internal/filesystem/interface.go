package filesystem

import (
	"io/fs"
)

// FileSystem is the file access used by the persisted store, the preset
// loader and the project unpacker.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm fs.FileMode) error
	Remove(path string) error
	RemoveAll(path string) error

	ReadDir(path string) ([]fs.DirEntry, error)
	MkdirAll(path string, perm fs.FileMode) error
	MkdirTemp(pattern string) (string, error)

	Stat(path string) (fs.FileInfo, error)
	Exists(path string) bool
	Getwd() (string, error)
	UserConfigDir() (string, error)

	WalkDir(root string, fn fs.WalkDirFunc) error
}
