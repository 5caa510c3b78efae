package assembler

import (
	"github.com/vipshek/gradle-java-distribution/pkg/logging"
)

// RunOptions overrides parts of the file configuration from the command line
type RunOptions struct {
	// OutputDirectory overrides output.directory when non-empty
	OutputDirectory string
}

// Run loads a packaging configuration, assembles the bundle and archives it
// unless output.archive is disabled. This is the single entry point used by
// the distbuild command.
func Run(configPath string, runOptions RunOptions, logger logging.Logger) error {
	config, err := LoadConfigFromFile(configPath)
	if err != nil {
		return err
	}
	if err := ValidateConfig(config); err != nil {
		return err
	}

	outputDirectory := config.Output.Directory
	if runOptions.OutputDirectory != "" {
		outputDirectory = runOptions.OutputDirectory
	}

	assembler := New(Options{OutputDirectory: outputDirectory}, logger)
	bundleRoot, err := assembler.Assemble(config.Service.Descriptor(), SourceRoots{
		BuildArtifacts:    config.SourceRoots.BuildArtifacts,
		DeploymentOverlay: config.SourceRoots.DeploymentOverlay,
		VarOverlay:        config.SourceRoots.VarOverlay,
	})
	if err != nil {
		return err
	}

	if config.Output.Archive == nil || *config.Output.Archive {
		writer := NewTarGzWriter(logger)
		if err := writer.Archive(bundleRoot, bundleRoot+".tar.gz"); err != nil {
			return err
		}
	}
	return nil
}
