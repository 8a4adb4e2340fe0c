package engine

import (
	"io/fs"
	"os"
)

// FileSystem is what the engine needs from the operating system.
type FileSystem interface {
	// ReadDir lists the entries of a directory.
	ReadDir(name string) ([]fs.DirEntry, error)

	// Stat follows links.
	Stat(name string) (fs.FileInfo, error)

	// Canonical resolves links and relative elements.
	Canonical(name string) (string, error)
}

// OSFileSystem is the FileSystem backed by package os.
type OSFileSystem struct{}

func (OSFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

func (OSFileSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (OSFileSystem) Canonical(name string) (string, error) {
	return canonical(name)
}
