package assembler

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vipshek/gradle-java-distribution/pkg/errors"
	"github.com/vipshek/gradle-java-distribution/pkg/logging"
	"github.com/vipshek/gradle-java-distribution/pkg/manifest"
	"github.com/vipshek/gradle-java-distribution/pkg/supervisor"
)

// SourceRoots classifies the assembler's inputs. Empty roots are skipped.
type SourceRoots struct {
	// BuildArtifacts is copied into service/
	BuildArtifacts string

	// DeploymentOverlay is copied into deployment/; its manifest.yaml, if
	// any, is replaced by the generated manifest
	DeploymentOverlay string

	// VarOverlay is copied into var/ minus var/log and var/run
	VarOverlay string
}

// Options configures an Assembler
type Options struct {
	// OutputDirectory receives the bundle root directory
	OutputDirectory string
}

// Assembler composes the distribution bundle tree: build artifacts,
// overlays, generated manifest and supervisor unit file, in a fixed merge
// order where later steps win.
type Assembler struct {
	options   Options
	generator *manifest.Generator
	logger    logging.Logger
}

func New(options Options, logger logging.Logger) *Assembler {
	return &Assembler{
		options:   options,
		generator: manifest.NewGenerator(logger),
		logger:    logger,
	}
}

// mergeStep is one stage of the assembly pipeline. Order is the overwrite
// rule: later steps win over earlier ones.
type mergeStep struct {
	name string
	run  func() error
}

// Assemble builds the bundle tree rooted at
// <OutputDirectory>/<serviceName>-<version> and returns that root. The
// operation is deterministic for fixed inputs. On failure the partial bundle
// is left in place for diagnosis.
func (a *Assembler) Assemble(descriptor manifest.ServiceDescriptor, roots SourceRoots) (string, error) {
	// Render first: this validates the descriptor and converts the version
	// to text exactly once, for both the manifest and the root name.
	doc, err := a.generator.Render(descriptor)
	if err != nil {
		return "", err
	}
	versionText := doc.Get(manifest.KeyProductVersion)

	bundleRoot := filepath.Join(a.options.OutputDirectory,
		fmt.Sprintf("%s-%s", descriptor.ServiceName, versionText))
	a.logger.Infof("Assembling bundle, service: %s, version: %s, root: %s",
		descriptor.ServiceName, versionText, bundleRoot)

	deploymentDir := filepath.Join(bundleRoot, "deployment")
	varMatcher := newVarOverlayMatcher()

	steps := []mergeStep{
		{
			name: "create bundle root",
			run: func() error {
				if err := os.MkdirAll(bundleRoot, 0755); err != nil {
					return errors.NewIOError("failed to create bundle root", err).WithContext("path", bundleRoot)
				}
				return nil
			},
		},
		{
			name: "copy build artifacts",
			run: func() error {
				if roots.BuildArtifacts == "" {
					return nil
				}
				return copyTree(roots.BuildArtifacts, filepath.Join(bundleRoot, "service"), "service", nil, a.logger)
			},
		},
		{
			name: "copy deployment overlay",
			run: func() error {
				if roots.DeploymentOverlay == "" {
					return nil
				}
				return copyTree(roots.DeploymentOverlay, deploymentDir, "deployment", nil, a.logger)
			},
		},
		{
			name: "copy var overlay",
			run: func() error {
				if roots.VarOverlay == "" {
					return nil
				}
				return copyTree(roots.VarOverlay, filepath.Join(bundleRoot, "var"), "var", varMatcher, a.logger)
			},
		},
		{
			// Generated manifest always wins over any overlay-supplied file
			name: "generate manifest",
			run: func() error {
				return a.generator.Write(doc, filepath.Join(deploymentDir, manifest.FileName))
			},
		},
		{
			name: "generate unit file",
			run: func() error {
				if descriptor.Entrypoint == "" {
					a.logger.Warnf("No entrypoint in descriptor, skipping unit file, service: %s", descriptor.ServiceName)
					return nil
				}
				unit := unitFromDescriptor(descriptor, versionText)
				return unit.Save(filepath.Join(deploymentDir, supervisor.UnitFileName))
			},
		},
		{
			// Runtime mount points exist in every bundle, always empty
			name: "create runtime directories",
			run: func() error {
				for _, dir := range []string{"var/log", "var/run", "var/conf"} {
					if err := os.MkdirAll(filepath.Join(bundleRoot, filepath.FromSlash(dir)), 0755); err != nil {
						return errors.NewIOError("failed to create runtime directory", err).WithContext("dir", dir)
					}
				}
				return nil
			},
		},
	}

	for _, step := range steps {
		a.logger.Debugf("Assembly step: %s", step.name)
		if err := step.run(); err != nil {
			return "", errors.NewIOError("assembly failed", err).
				WithContext("step", step.name).
				WithContext("bundle_root", bundleRoot)
		}
	}

	a.logger.Infof("Bundle assembled, root: %s", bundleRoot)
	return bundleRoot, nil
}

func unitFromDescriptor(descriptor manifest.ServiceDescriptor, versionText string) *supervisor.UnitFile {
	return &supervisor.UnitFile{
		Service: supervisor.ServiceInfo{
			Name:    descriptor.ServiceName,
			Version: versionText,
		},
		Execution: supervisor.ExecutionConfig{
			ExecutablePath:   descriptor.Entrypoint,
			Args:             descriptor.Args,
			WorkingDirectory: descriptor.WorkingDirectory,
		},
	}
}
