package assembler

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vipshek/gradle-java-distribution/pkg/logging"
)

func readArchiveEntries(t *testing.T, path string) map[string]string {
	t.Helper()

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	require.NoError(t, err)
	defer gzipReader.Close()

	entries := make(map[string]string)
	tarReader := tar.NewReader(gzipReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		if header.Typeflag == tar.TypeDir {
			entries[header.Name] = ""
			continue
		}
		content, err := io.ReadAll(tarReader)
		require.NoError(t, err)
		entries[header.Name] = string(content)
	}
	return entries
}

func TestArchiveContainsBundleTreeRootedAtBundleName(t *testing.T) {
	assembler, _ := newTestAssembler(t)
	bundleRoot, err := assembler.Assemble(testDescriptor(), newSourceRoots(t))
	require.NoError(t, err)

	archivePath := bundleRoot + ".tar.gz"
	writer := NewTarGzWriter(logging.NewNullLogger())
	require.NoError(t, writer.Archive(bundleRoot, archivePath))

	entries := readArchiveEntries(t, archivePath)

	assert.Contains(t, entries, "service-name-0.1/")
	assert.Contains(t, entries, "service-name-0.1/service/lib/app.jar")
	assert.Equal(t, "jar-bytes", entries["service-name-0.1/service/lib/app.jar"])
	assert.Contains(t, entries, "service-name-0.1/deployment/manifest.yaml")
	assert.Equal(t, "productName: service-name\nproductVersion: 0.1\n",
		entries["service-name-0.1/deployment/manifest.yaml"])

	// Runtime mount points travel as empty directories
	assert.Contains(t, entries, "service-name-0.1/var/log/")
	assert.Contains(t, entries, "service-name-0.1/var/run/")
}

func TestArchiveFailsForMissingBundleRoot(t *testing.T) {
	writer := NewTarGzWriter(logging.NewNullLogger())

	err := writer.Archive(filepath.Join(t.TempDir(), "missing"), filepath.Join(t.TempDir(), "out.tar.gz"))

	assert.Error(t, err)
}
