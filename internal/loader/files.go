package loader

import (
	"io/fs"
	"os"
	"path/filepath"
)

// CollectFiles walks every given folder and returns all files with a
// recognized extension, in walk order. Duplicate input paths are visited
// once; paths that do not exist contribute nothing. In non-recursive mode
// only the top level of each folder is inspected.
func CollectFiles(paths []string, recursive bool) []string {
	seen := map[string]bool{}
	var files []string

	for _, path := range paths {
		if seen[path] {
			continue
		}
		seen[path] = true
		files = append(files, collectFolder(path, recursive)...)
	}
	return files
}

func collectFolder(root string, recursive bool) []string {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil
	}

	if !recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil
		}
		var files []string
		for _, entry := range entries {
			if !entry.IsDir() && Recognized(entry.Name()) {
				files = append(files, filepath.Join(root, entry.Name()))
			}
		}
		return files
	}

	var files []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if !d.IsDir() && Recognized(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	return files
}
