package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// SourceExt is the extension of Junon source files.
const SourceExt = ".ju"

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	// Get the directory containing the file
	parentDir = filepath.Dir(fullPath)

	return fullPath, parentDir, nil
}

// ExpandSources turns command-line arguments into the list of files to
// compile. Files are kept as given; directories contribute every SourceExt
// file below them, sorted. Duplicates are dropped.
func ExpandSources(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string

	add := func(path string) error {
		full, _, err := GetPathInfo(path)
		if err != nil {
			return err
		}
		if !seen[full] {
			seen[full] = true
			out = append(out, path)
		}
		return nil
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			if err := add(arg); err != nil {
				return nil, err
			}
			continue
		}

		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(path) == SourceExt {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", arg, err)
		}
		sort.Strings(found)
		for _, path := range found {
			if err := add(path); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
