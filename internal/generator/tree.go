package generator

import (
	"bytes"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/denormal/go-gitignore"
	"github.com/jakoblorz/go-codestart/internal/filesystem"
)

func loadGitIgnore(fsys filesystem.FileSystem, root string) (gitignore.GitIgnore, error) {
	ignorePath := filepath.Join(root, ".gitignore")
	if !fsys.Exists(ignorePath) {
		return nil, nil
	}

	data, err := fsys.ReadFile(ignorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .gitignore: %w", err)
	}

	return gitignore.New(bytes.NewReader(data), root, nil), nil
}

// Tree lists the files below root as sorted slash-separated relative
// paths, leaving out the .git directory and anything the project's own
// .gitignore excludes.
func Tree(fsys filesystem.FileSystem, root string) ([]string, error) {
	ignore, err := loadGitIgnore(fsys, root)
	if err != nil {
		return nil, err
	}

	var files []string
	err = fsys.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if entry.IsDir() && rel == ".git" {
			return filepath.SkipDir
		}

		if ignore != nil {
			if match := ignore.Relative(rel, entry.IsDir()); match != nil && match.Ignore() {
				if entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if !entry.IsDir() {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

// RenderTree draws files as an indented outline, directories first
// appearing where their first file does.
func RenderTree(name string, files []string) string {
	var b strings.Builder
	b.WriteString(name + "/\n")

	seen := make(map[string]bool)
	for _, f := range files {
		parts := strings.Split(f, "/")
		for depth := 0; depth < len(parts)-1; depth++ {
			dir := strings.Join(parts[:depth+1], "/")
			if seen[dir] {
				continue
			}
			seen[dir] = true
			b.WriteString(strings.Repeat("  ", depth+1) + parts[depth] + "/\n")
		}
		b.WriteString(strings.Repeat("  ", len(parts)) + parts[len(parts)-1] + "\n")
	}
	return b.String()
}
