package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vipshek/gradle-java-distribution/pkg/errors"
	"github.com/vipshek/gradle-java-distribution/pkg/logging"
)

func newTestGenerator() *Generator {
	return NewGenerator(logging.NewNullLogger())
}

func TestRenderProducesProductNameAndVersion(t *testing.T) {
	descriptor := ServiceDescriptor{
		ServiceName: "service-name",
		Version:     StringVersion("0.1"),
	}

	doc, err := newTestGenerator().Render(descriptor)

	require.NoError(t, err)
	assert.Equal(t, "service-name", doc.Get(KeyProductName))
	assert.Equal(t, "0.1", doc.Get(KeyProductVersion))
}

func TestSerializeWritesExactLines(t *testing.T) {
	descriptor := ServiceDescriptor{
		ServiceName: "service-name",
		Version:     StringVersion("0.1"),
	}

	doc, err := newTestGenerator().Render(descriptor)
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, doc.Serialize(&sb))

	// Consumers parse the manifest as flat lines, so the exact bytes matter:
	// no quoting, no nesting.
	assert.Equal(t, "productName: service-name\nproductVersion: 0.1\n", sb.String())
}

// customVersion exercises the "version is not primitively textual" contract
type customVersion struct {
	major int
	minor int
}

func (v customVersion) String() string {
	return "2.7-rc1"
}

func TestRenderWithCustomVersionConversion(t *testing.T) {
	descriptor := ServiceDescriptor{
		ServiceName: "svc",
		Version:     customVersion{major: 2, minor: 7},
	}

	doc, err := newTestGenerator().Render(descriptor)

	require.NoError(t, err)
	assert.Equal(t, "2.7-rc1", doc.Get(KeyProductVersion))
}

type panickingVersion struct{}

func (panickingVersion) String() string {
	panic("conversion exploded")
}

func TestRenderWithPanickingVersionConversion(t *testing.T) {
	descriptor := ServiceDescriptor{
		ServiceName: "svc",
		Version:     panickingVersion{},
	}

	doc, err := newTestGenerator().Render(descriptor)

	assert.Nil(t, doc)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, err.Error(), "version conversion failed")
}

func TestRenderWithEmptyServiceName(t *testing.T) {
	descriptor := ServiceDescriptor{
		ServiceName: "",
		Version:     StringVersion("1.0"),
	}

	_, err := newTestGenerator().Render(descriptor)

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestRenderWithNilVersion(t *testing.T) {
	descriptor := ServiceDescriptor{
		ServiceName: "svc",
	}

	_, err := newTestGenerator().Render(descriptor)

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestGenerateOverwritesExistingManifest(t *testing.T) {
	deploymentDir := t.TempDir()
	manifestPath := filepath.Join(deploymentDir, FileName)
	require.NoError(t, os.WriteFile(manifestPath, []byte("user-supplied: garbage\n"), 0644))

	descriptor := ServiceDescriptor{
		ServiceName: "service-name",
		Version:     StringVersion("0.1"),
	}
	err := newTestGenerator().Generate(descriptor, deploymentDir)

	require.NoError(t, err)
	content, err := os.ReadFile(manifestPath)
	require.NoError(t, err)
	assert.Equal(t, "productName: service-name\nproductVersion: 0.1\n", string(content))
}

func TestGenerateCreatesDeploymentDirectory(t *testing.T) {
	deploymentDir := filepath.Join(t.TempDir(), "deployment")

	descriptor := ServiceDescriptor{
		ServiceName: "svc",
		Version:     StringVersion("1.2.3"),
	}
	err := newTestGenerator().Generate(descriptor, deploymentDir)

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(deploymentDir, FileName))
}

func TestGenerateLeavesNoTemporaryFiles(t *testing.T) {
	deploymentDir := t.TempDir()

	descriptor := ServiceDescriptor{
		ServiceName: "svc",
		Version:     StringVersion("1.0"),
	}
	require.NoError(t, newTestGenerator().Generate(descriptor, deploymentDir))

	entries, err := os.ReadDir(deploymentDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, FileName, entries[0].Name())
}

func TestParseRoundTrip(t *testing.T) {
	input := "productName: service-name\nproductVersion: 0.1\n"

	doc, err := Parse(strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, "service-name", doc.Get(KeyProductName))
	assert.Equal(t, "0.1", doc.Get(KeyProductVersion))
}

func TestParseSkipsBlankAndCommentLines(t *testing.T) {
	input := "# generated\n\nproductName: svc\n"

	doc, err := Parse(strings.NewReader(input))

	require.NoError(t, err)
	assert.Len(t, doc.Entries, 1)
	assert.Equal(t, "svc", doc.Get(KeyProductName))
}

func TestParseRejectsMalformedLine(t *testing.T) {
	_, err := Parse(strings.NewReader("not a key value line\n"))

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}
