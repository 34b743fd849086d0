package main

import (
	"io/fs"
	"os"
	"path/filepath"
)

// NewFS returns the host filesystem rooted at the process working directory.
// Unlike os.DirFS it accepts absolute and relative paths alike, which is what
// command line arguments look like.
func NewFS() fs.FS {
	return dirFS("")
}

type dirFS string

func (dir dirFS) Open(name string) (fs.File, error) {
	return os.Open(filepath.Join(string(dir), name))
}

func (dir dirFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(filepath.Join(string(dir), name))
}

func (dir dirFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(filepath.Join(string(dir), name))
}
