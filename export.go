package hdlcore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExportFiles returns the files every section needs copied into a build
// tree, in section order with duplicates removed.
func ExportFiles(sections ...Section) []string {
	var files []string
	for _, s := range sections {
		if s == nil {
			continue
		}
		files = append(files, s.ExportFiles()...)
	}
	return uniqueStrings(files)
}

// ExportPackage copies files, given relative to srcDir, to the same relative
// location under destDir and returns the copied paths in slash form.
//
// A path that is absolute or escapes srcDir is rejected before anything is
// copied.
func ExportPackage(srcDir, destDir string, files []string) ([]string, error) {
	rels := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := packageRelativePath(f)
		if err != nil {
			return nil, err
		}
		rels = append(rels, rel)
	}

	copied := make([]string, 0, len(rels))
	for _, rel := range uniqueStrings(rels) {
		if err := copyFile(filepath.Join(srcDir, rel), filepath.Join(destDir, rel)); err != nil {
			return copied, fmt.Errorf("exporting %s: %w", filepath.ToSlash(rel), err)
		}
		copied = append(copied, filepath.ToSlash(rel))
	}
	return copied, nil
}

func packageRelativePath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("export path %q is absolute", path)
	}
	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("export path %q is outside the package", path)
	}
	return clean, nil
}

func copyFile(srcPath, destPath string) error {
	info, err := os.Stat(srcPath)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", srcPath)
	}

	if mkErr := os.MkdirAll(filepath.Dir(destPath), 0o755); mkErr != nil {
		return mkErr
	}

	in, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
