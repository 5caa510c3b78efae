package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vipshek/gradle-java-distribution/pkg/errors"
	"github.com/vipshek/gradle-java-distribution/pkg/logging"
)

// FileName is the manifest location relative to the bundle's deployment
// directory.
const FileName = "manifest.yaml"

const (
	KeyProductName    = "productName"
	KeyProductVersion = "productVersion"
)

// Version is the only capability the generator requires of a version value:
// a deterministic textual representation. Plain strings adapt via
// StringVersion.
type Version interface {
	String() string
}

// StringVersion adapts a plain string to the Version capability
type StringVersion string

func (v StringVersion) String() string {
	return string(v)
}

// ServiceDescriptor identifies the packaged service. Immutable once the
// bundle is built.
type ServiceDescriptor struct {
	ServiceName      string
	Version          Version
	Entrypoint       string
	Args             []string
	WorkingDirectory string
}

// Entry is a single key/value pair of the flat manifest document
type Entry struct {
	Key   string
	Value string
}

// Document is the rendered manifest: an ordered, flat key/value document.
// Consumers parse it line by line, not as nested structure, so serialization
// writes bare `key: value` lines and never quotes scalars.
type Document struct {
	Entries []Entry
}

// Get returns the value for key, or "" if absent
func (d *Document) Get(key string) string {
	for _, entry := range d.Entries {
		if entry.Key == key {
			return entry.Value
		}
	}
	return ""
}

// Serialize writes the document as `key: value` lines
func (d *Document) Serialize(w io.Writer) error {
	for _, entry := range d.Entries {
		if _, err := fmt.Fprintf(w, "%s: %s\n", entry.Key, entry.Value); err != nil {
			return err
		}
	}
	return nil
}

// Parse reads a flat `key: value` document. Blank lines and `#` comment
// lines are skipped.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			return nil, errors.NewValidationError("malformed manifest line", nil).WithContext("line", line)
		}
		doc.Entries = append(doc.Entries, Entry{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewIOError("failed to read manifest", err)
	}
	return doc, nil
}

// Generator renders the bundle manifest from a service descriptor
type Generator struct {
	logger logging.Logger
}

func NewGenerator(logger logging.Logger) *Generator {
	return &Generator{
		logger: logger,
	}
}

// Render produces the manifest document. The descriptor's version is
// converted to text exactly once; a panicking conversion is surfaced as a
// validation error rather than crashing the packaging run.
func (g *Generator) Render(descriptor ServiceDescriptor) (doc *Document, err error) {
	if descriptor.ServiceName == "" {
		return nil, errors.NewValidationError("service name cannot be empty", nil)
	}
	if descriptor.Version == nil {
		return nil, errors.NewValidationError("service version cannot be nil", nil).
			WithContext("service_name", descriptor.ServiceName)
	}

	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = errors.NewValidationError("version conversion failed", fmt.Errorf("%v", r)).
				WithContext("service_name", descriptor.ServiceName)
		}
	}()
	versionText := descriptor.Version.String()

	return &Document{
		Entries: []Entry{
			{Key: KeyProductName, Value: descriptor.ServiceName},
			{Key: KeyProductVersion, Value: versionText},
		},
	}, nil
}

// Write publishes the document at path atomically (write to a temp file in
// the same directory, then rename), overwriting any existing file.
func (g *Generator) Write(doc *Document, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewIOError("failed to create manifest directory", err).WithContext("dir", dir)
	}

	tmp, err := os.CreateTemp(dir, FileName+".tmp-*")
	if err != nil {
		return errors.NewIOError("failed to create temporary manifest file", err).WithContext("dir", dir)
	}
	tmpName := tmp.Name()

	if err := doc.Serialize(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.NewIOError("failed to write manifest", err).WithContext("path", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.NewIOError("failed to close manifest file", err).WithContext("path", path)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.NewIOError("failed to publish manifest", err).WithContext("path", path)
	}

	g.logger.Infof("Manifest written, path: %s", path)
	return nil
}

// Generate renders the manifest and writes it to the deployment directory,
// replacing any user-supplied file of the same name.
func (g *Generator) Generate(descriptor ServiceDescriptor, deploymentDir string) error {
	doc, err := g.Render(descriptor)
	if err != nil {
		return err
	}
	return g.Write(doc, filepath.Join(deploymentDir, FileName))
}
