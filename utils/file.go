package utils

import (
	"os"
	"path/filepath"
)

// EnsureParentDir creates the directory that will hold path if it doesn't exist
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, os.ModePerm)
}
