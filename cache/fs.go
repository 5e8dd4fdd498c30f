package cache

import (
	"os"
	"path/filepath"
)

// FS is the filesystem capability InsertPath walks. Any error from it
// aborts the current load.
type FS interface {
	// SubDirs lists the full paths of dir's immediate subdirectories.
	SubDirs(dir string) ([]string, error)
	// Files lists the full paths of dir's immediate non-directory entries.
	Files(dir string) ([]string, error)
	// ReadFile returns the full content of the file at path.
	ReadFile(path string) ([]byte, error)
}

// osFS is the default FS backed by the operating system.
type osFS struct{}

func (osFS) SubDirs(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range ents {
		if e.IsDir() {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}

func (osFS) Files(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range ents {
		if !e.IsDir() {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}

func (osFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

var _ FS = osFS{}
