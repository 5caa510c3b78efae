package assembler

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vipshek/gradle-java-distribution/pkg/errors"
	"github.com/vipshek/gradle-java-distribution/pkg/logging"
)

// copyTree copies the tree rooted at src into dst, preserving file modes.
// exclude, when non-nil, receives paths relative to dst's bundle position
// (prefix + entry-relative path) and prunes whole subtrees. The walk is
// sequential and lexical, so re-running over identical inputs produces an
// identical tree.
func copyTree(src, dst, relPrefix string, exclude *ExcludeMatcher, logger logging.Logger) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.NewIOError("failed to walk source tree", err).WithContext("path", path)
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return errors.NewIOError("failed to relativize path", err).WithContext("path", path)
		}
		if rel == "." {
			return os.MkdirAll(dst, 0755)
		}

		bundleRel := filepath.Join(relPrefix, rel)
		if exclude != nil && exclude.Excluded(bundleRel) {
			logger.Debugf("Excluded from bundle: %s", bundleRel)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		target := filepath.Join(dst, rel)
		if d.IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return errors.NewIOError("failed to create directory", err).WithContext("path", target)
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return errors.NewIOError("failed to stat source file", err).WithContext("path", path)
		}
		if !info.Mode().IsRegular() {
			logger.Warnf("Skipping non-regular file: %s", path)
			return nil
		}

		if err := copyFile(path, target, info.Mode().Perm()); err != nil {
			return err
		}
		return nil
	})
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.NewIOError("failed to open source file", err).WithContext("path", src)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.NewIOError("failed to create target directory", err).WithContext("path", filepath.Dir(dst))
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return errors.NewIOError("failed to create target file", err).WithContext("path", dst)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.NewIOError("failed to copy file content", err).
			WithContext("source", src).
			WithContext("target", dst)
	}
	if err := out.Close(); err != nil {
		return errors.NewIOError("failed to close target file", err).WithContext("path", dst)
	}
	return nil
}
