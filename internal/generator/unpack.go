package generator

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jakoblorz/go-codestart/internal/filesystem"
)

// sanitizeEntry normalizes an archive entry name to a forward-slash
// relative path. Leading slashes, drive letters and ".." segments are
// dropped so no entry can land outside the destination.
func sanitizeEntry(name string) string {
	s := filepath.ToSlash(name)
	if len(s) > 1 && s[1] == ':' {
		s = s[2:]
	}
	s = strings.TrimLeft(s, "/")

	parts := strings.Split(s, "/")
	stack := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			if n := len(stack); n > 0 {
				stack = stack[:n-1]
			}
			continue
		}
		stack = append(stack, part)
	}
	return strings.Join(stack, "/")
}

// Unpack extracts a zip archive below dest and returns the relative paths
// of the files written, in archive order.
func Unpack(fsys filesystem.FileSystem, data []byte, dest string) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open project archive: %w", err)
	}

	if err := fsys.MkdirAll(dest, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dest, err)
	}

	var written []string
	for _, f := range zr.File {
		rel := sanitizeEntry(f.Name)
		if rel == "" {
			continue
		}
		target := filepath.Join(dest, filepath.FromSlash(rel))

		if f.FileInfo().IsDir() {
			if err := fsys.MkdirAll(target, 0755); err != nil {
				return nil, fmt.Errorf("failed to create %s: %w", target, err)
			}
			continue
		}

		content, err := readEntry(f)
		if err != nil {
			return nil, err
		}

		if err := fsys.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
		}

		perm := f.Mode().Perm()
		if perm == 0 {
			perm = 0644
		}
		if err := fsys.WriteFile(target, content, perm); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", target, err)
		}
		written = append(written, rel)
	}

	return written, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	return content, nil
}

// archiveRoot returns the single top-level directory every entry of the
// archive lives in, or "" when the archive is flat.
func archiveRoot(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open project archive: %w", err)
	}

	var root string
	for _, f := range zr.File {
		rel := sanitizeEntry(f.Name)
		if rel == "" {
			continue
		}
		head, _, nested := strings.Cut(rel, "/")
		if !nested && !f.FileInfo().IsDir() {
			return "", nil
		}
		if root == "" {
			root = head
		} else if head != root {
			return "", nil
		}
	}
	return root, nil
}
