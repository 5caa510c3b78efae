package assembler

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vipshek/gradle-java-distribution/pkg/errors"
	"github.com/vipshek/gradle-java-distribution/pkg/manifest"
)

// BundleConfig is the top-level packaging configuration file structure
type BundleConfig struct {
	Service     ServiceConfig     `yaml:"service"`
	SourceRoots SourceRootsConfig `yaml:"source_roots"`
	Output      OutputConfig      `yaml:"output,omitempty"`
}

// ServiceConfig describes the packaged service
type ServiceConfig struct {
	Name             string   `yaml:"name"`
	Version          string   `yaml:"version"`
	Entrypoint       string   `yaml:"entrypoint,omitempty"`
	Args             []string `yaml:"args,omitempty"`
	WorkingDirectory string   `yaml:"working_directory,omitempty"`
}

// SourceRootsConfig classifies the input trees; paths are relative to the
// configuration file's directory unless absolute.
type SourceRootsConfig struct {
	BuildArtifacts    string `yaml:"build_artifacts"`
	DeploymentOverlay string `yaml:"deployment_overlay,omitempty"`
	VarOverlay        string `yaml:"var_overlay,omitempty"`
}

// OutputConfig controls where the bundle lands. Archiving is on unless
// archive is explicitly set to false.
type OutputConfig struct {
	Directory string `yaml:"directory,omitempty"`
	Archive   *bool  `yaml:"archive,omitempty"`
}

// LoadConfigFromFile loads packaging configuration from a YAML file and
// resolves relative source-root paths against the file's directory.
func LoadConfigFromFile(filename string) (*BundleConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.NewIOError("failed to read configuration file", err).WithContext("filename", filename)
	}

	var config BundleConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.NewValidationError("failed to parse YAML configuration", err).WithContext("filename", filename)
	}

	baseDir := filepath.Dir(filename)
	resolve := func(path string) string {
		if path == "" || filepath.IsAbs(path) {
			return path
		}
		return filepath.Join(baseDir, path)
	}
	config.SourceRoots.BuildArtifacts = resolve(config.SourceRoots.BuildArtifacts)
	config.SourceRoots.DeploymentOverlay = resolve(config.SourceRoots.DeploymentOverlay)
	config.SourceRoots.VarOverlay = resolve(config.SourceRoots.VarOverlay)
	config.Output.Directory = resolve(config.Output.Directory)

	setConfigDefaults(&config, baseDir)
	return &config, nil
}

func setConfigDefaults(config *BundleConfig, baseDir string) {
	if config.Output.Directory == "" {
		config.Output.Directory = filepath.Join(baseDir, "build", "distributions")
	}
	if config.Output.Archive == nil {
		archive := true
		config.Output.Archive = &archive
	}
}

// ValidateConfig validates the packaging configuration
func ValidateConfig(config *BundleConfig) error {
	if config == nil {
		return errors.NewValidationError("configuration cannot be nil", nil)
	}
	if config.Service.Name == "" {
		return errors.NewValidationError("service name cannot be empty", nil)
	}
	if config.Service.Version == "" {
		return errors.NewValidationError("service version cannot be empty", nil).
			WithContext("service_name", config.Service.Name)
	}
	if config.SourceRoots.BuildArtifacts == "" {
		return errors.NewValidationError("build artifacts source root is required", nil).
			WithContext("service_name", config.Service.Name)
	}
	return nil
}

// Descriptor builds the service descriptor the generator and assembler
// consume.
func (c *ServiceConfig) Descriptor() manifest.ServiceDescriptor {
	return manifest.ServiceDescriptor{
		ServiceName:      c.Name,
		Version:          manifest.StringVersion(c.Version),
		Entrypoint:       c.Entrypoint,
		Args:             c.Args,
		WorkingDirectory: c.WorkingDirectory,
	}
}
