// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FindFilesByExtension collects the files ending with extension from every
// path. A path may be a single file or a directory searched recursively.
// A path that does not exist is an error. Each file is returned once, in
// walk order.
func FindFilesByExtension(extension string, paths ...string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("path %q does not exist: %w", root, err)
			}
			return nil, err
		}
		if !info.IsDir() {
			if strings.HasSuffix(root, extension) {
				add(root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}
