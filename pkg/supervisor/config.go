package supervisor

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vipshek/gradle-java-distribution/pkg/errors"
)

// UnitFileName is the supervisor configuration generated into the bundle's
// deployment directory at packaging time.
const UnitFileName = "service.yaml"

// Duration wraps time.Duration with human-readable YAML encoding ("10s")
type Duration time.Duration

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var text string
	if err := value.Decode(&text); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// ServiceInfo identifies the supervised service
type ServiceInfo struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// ExecutionConfig describes how to launch the managed process. Relative
// paths are resolved against the bundle home.
type ExecutionConfig struct {
	ExecutablePath   string   `yaml:"executable_path"`
	Args             []string `yaml:"args,omitempty"`
	WorkingDirectory string   `yaml:"working_directory,omitempty"`
}

// ControlConfig tunes the supervisor's stop/poll behavior
type ControlConfig struct {
	GracefulTimeout Duration `yaml:"graceful_timeout,omitempty"`
}

// UnitFile is the on-disk supervisor configuration
type UnitFile struct {
	Service   ServiceInfo     `yaml:"service"`
	Execution ExecutionConfig `yaml:"execution"`
	Control   ControlConfig   `yaml:"control,omitempty"`
}

// LoadUnitFile loads and validates a unit file
func LoadUnitFile(path string) (*UnitFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOError("failed to read unit file", err).WithContext("path", path)
	}

	var unit UnitFile
	if err := yaml.Unmarshal(data, &unit); err != nil {
		return nil, errors.NewValidationError("failed to parse unit file", err).WithContext("path", path)
	}

	if err := unit.Validate(); err != nil {
		return nil, err
	}
	return &unit, nil
}

// Save writes the unit file
func (u *UnitFile) Save(path string) error {
	if err := u.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(u)
	if err != nil {
		return errors.NewInternalError("failed to marshal unit file", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewIOError("failed to create unit file directory", err).WithContext("path", path)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewIOError("failed to write unit file", err).WithContext("path", path)
	}
	return nil
}

func (u *UnitFile) Validate() error {
	if u.Service.Name == "" {
		return errors.NewValidationError("unit file service name cannot be empty", nil)
	}
	if u.Execution.ExecutablePath == "" {
		return errors.NewValidationError("unit file executable path cannot be empty", nil).
			WithContext("service_name", u.Service.Name)
	}
	return nil
}

// Config is the resolved runtime configuration of a Supervisor
type Config struct {
	ServiceName      string
	ExecutablePath   string
	Args             []string
	WorkingDirectory string

	// Bundle runtime state directories
	RunDirectory string
	LogDirectory string

	// GracefulTimeout bounds the stop wait loop
	GracefulTimeout time.Duration

	// StartSettleDelay is how long start waits before the liveness check
	StartSettleDelay time.Duration

	// PollInterval is the stop wait-loop probe interval
	PollInterval time.Duration
}

const (
	DefaultGracefulTimeout  = 10 * time.Second
	DefaultStartSettleDelay = 200 * time.Millisecond
)

// NewConfigFromUnit resolves a unit file against a bundle home directory
func NewConfigFromUnit(home string, unit *UnitFile) Config {
	resolve := func(path string) string {
		if path == "" || filepath.IsAbs(path) {
			return path
		}
		return filepath.Join(home, path)
	}

	workingDirectory := unit.Execution.WorkingDirectory
	if workingDirectory == "" {
		workingDirectory = home
	} else {
		workingDirectory = resolve(workingDirectory)
	}

	return Config{
		ServiceName:      unit.Service.Name,
		ExecutablePath:   resolve(unit.Execution.ExecutablePath),
		Args:             unit.Execution.Args,
		WorkingDirectory: workingDirectory,
		RunDirectory:     filepath.Join(home, "var", "run"),
		LogDirectory:     filepath.Join(home, "var", "log"),
		GracefulTimeout:  time.Duration(unit.Control.GracefulTimeout),
	}
}
