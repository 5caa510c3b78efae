package assembler

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vipshek/gradle-java-distribution/pkg/errors"
	"github.com/vipshek/gradle-java-distribution/pkg/logging"
)

// ArchiveWriter packages an assembled bundle tree into a single file. The
// assembler treats the archive format as an external concern behind this
// interface.
type ArchiveWriter interface {
	Archive(bundleRoot, targetPath string) error
}

// TarGzWriter writes a gzip-compressed tar archive with entries rooted at
// the bundle directory name, in lexical walk order.
type TarGzWriter struct {
	logger logging.Logger
}

func NewTarGzWriter(logger logging.Logger) *TarGzWriter {
	return &TarGzWriter{
		logger: logger,
	}
}

func (w *TarGzWriter) Archive(bundleRoot, targetPath string) error {
	out, err := os.Create(targetPath)
	if err != nil {
		return errors.NewIOError("failed to create archive file", err).WithContext("path", targetPath)
	}
	defer out.Close()

	gzipWriter := gzip.NewWriter(out)
	tarWriter := tar.NewWriter(gzipWriter)

	rootName := filepath.Base(bundleRoot)
	walkErr := filepath.WalkDir(bundleRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.NewIOError("failed to walk bundle tree", err).WithContext("path", path)
		}

		rel, err := filepath.Rel(bundleRoot, path)
		if err != nil {
			return errors.NewIOError("failed to relativize path", err).WithContext("path", path)
		}
		if rel == "." {
			rel = ""
		}
		entryName := filepath.ToSlash(filepath.Join(rootName, rel))

		info, err := d.Info()
		if err != nil {
			return errors.NewIOError("failed to stat bundle entry", err).WithContext("path", path)
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return errors.NewIOError("failed to build archive header", err).WithContext("path", path)
		}
		header.Name = entryName
		if d.IsDir() {
			header.Name += "/"
		}

		if err := tarWriter.WriteHeader(header); err != nil {
			return errors.NewIOError("failed to write archive header", err).WithContext("entry", entryName)
		}
		if d.IsDir() {
			return nil
		}

		file, err := os.Open(path)
		if err != nil {
			return errors.NewIOError("failed to open bundle entry", err).WithContext("path", path)
		}
		defer file.Close()

		if _, err := io.Copy(tarWriter, file); err != nil {
			return errors.NewIOError("failed to write archive entry", err).WithContext("entry", entryName)
		}
		return nil
	})
	if walkErr != nil {
		tarWriter.Close()
		gzipWriter.Close()
		return walkErr
	}

	if err := tarWriter.Close(); err != nil {
		return errors.NewIOError("failed to finalize archive", err).WithContext("path", targetPath)
	}
	if err := gzipWriter.Close(); err != nil {
		return errors.NewIOError("failed to finalize archive compression", err).WithContext("path", targetPath)
	}

	w.logger.Infof("Archive written, path: %s", targetPath)
	return nil
}
