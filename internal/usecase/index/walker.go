package index

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// indexableExtensions lists the Godot project file types worth embedding.
var indexableExtensions = map[string]bool{
	".gd":       true,
	".tscn":     true,
	".tres":     true,
	".gdshader": true,
	".shader":   true,
	".md":       true,
	".txt":      true,
	".cfg":      true,
	".json":     true,
}

// skippedDirs are never descended into. The .import and .godot caches hold
// generated binaries; .git is never project content.
var skippedDirs = map[string]bool{
	".git":    true,
	".import": true,
	".godot":  true,
}

// projectFile is one readable file found during a walk, with its path
// relative to the project root.
type projectFile struct {
	RelPath string
	Text    string
}

// walkProject collects indexable files under root. maxSizeKB caps file size;
// files over the cap or failing the text sniff are counted as skipped.
func walkProject(root string, maxSizeKB int) (files []projectFile, skipped int, err error) {
	maxBytes := int64(maxSizeKB) * 1024

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if skippedDirs[d.Name()] || (d.Name() != "." && strings.HasPrefix(d.Name(), ".") && path != root) {
				return filepath.SkipDir
			}
			return nil
		}

		if !indexableExtensions[strings.ToLower(filepath.Ext(path))] {
			skipped++
			return nil
		}

		info, err := d.Info()
		if err != nil {
			skipped++
			return nil
		}
		if maxBytes > 0 && info.Size() > maxBytes {
			skipped++
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			skipped++
			return nil
		}
		if !looksLikeText(data) {
			skipped++
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		files = append(files, projectFile{
			RelPath: filepath.ToSlash(rel),
			Text:    string(data),
		})
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("walk %s: %w", root, err)
	}

	return files, skipped, nil
}

// looksLikeText sniffs the first KiB for NUL bytes. A .tres with embedded
// binary resources is not worth embedding.
func looksLikeText(data []byte) bool {
	probe := data
	if len(probe) > 1024 {
		probe = probe[:1024]
	}
	return !bytes.ContainsRune(probe, 0)
}
