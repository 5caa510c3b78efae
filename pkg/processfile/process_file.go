package processfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vipshek/gradle-java-distribution/pkg/errors"
	"github.com/vipshek/gradle-java-distribution/pkg/logging"
)

// ProcessFileConfig locates the runtime state directories of a bundle.
// RunDirectory holds PID files, LogDirectory holds startup logs; both are
// empty mount points at packaging time and populated only at runtime.
type ProcessFileConfig struct {
	RunDirectory string
	LogDirectory string
}

// ProcessFileManager owns the on-disk process files of one bundle instance.
// The PID file is shared mutable state across supervisor invocations; all
// reads and writes of it go through this type, and there is deliberately no
// lock around it (see the supervisor race documentation).
type ProcessFileManager struct {
	config ProcessFileConfig
	logger logging.Logger
}

func NewProcessFileManager(config ProcessFileConfig, logger logging.Logger) *ProcessFileManager {
	return &ProcessFileManager{
		config: config,
		logger: logger,
	}
}

// PIDFilePath returns the well-known PID file path for a service
func (m *ProcessFileManager) PIDFilePath(serviceName string) string {
	return filepath.Join(m.config.RunDirectory, serviceName+".pid")
}

// StartupLogPath returns the startup log path for a service
func (m *ProcessFileManager) StartupLogPath(serviceName string) string {
	return filepath.Join(m.config.LogDirectory, serviceName+"-startup.log")
}

// HasPIDFile reports whether a PID file exists for the service
func (m *ProcessFileManager) HasPIDFile(serviceName string) bool {
	_, err := os.Stat(m.PIDFilePath(serviceName))
	return err == nil
}

// WritePIDFile records the pid of the supervised instance
func (m *ProcessFileManager) WritePIDFile(serviceName string, pid int) error {
	pidFilePath := m.PIDFilePath(serviceName)

	if err := ValidateDirectory(pidFilePath); err != nil {
		return errors.NewIOError("invalid PID file directory", err).WithContext("path", pidFilePath)
	}

	content := fmt.Sprintf("%d\n", pid)
	if err := os.WriteFile(pidFilePath, []byte(content), 0644); err != nil {
		return errors.NewIOError("failed to write PID file", err).WithContext("path", pidFilePath)
	}

	m.logger.Debugf("PID file written, service: %s, path: %s, pid: %d", serviceName, pidFilePath, pid)
	return nil
}

// ReadPIDFile returns the tracked pid, or a not-found error if no instance
// is tracked.
func (m *ProcessFileManager) ReadPIDFile(serviceName string) (int, error) {
	pidFilePath := m.PIDFilePath(serviceName)

	data, err := os.ReadFile(pidFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, errors.NewNotFoundError("PID file not found", err).WithContext("path", pidFilePath)
		}
		return 0, errors.NewIOError("failed to read PID file", err).WithContext("path", pidFilePath)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, errors.NewValidationError("invalid pid in PID file", err).WithContext("path", pidFilePath)
	}
	return pid, nil
}

// RemovePIDFile deletes the PID file; removing an absent file is not an error
func (m *ProcessFileManager) RemovePIDFile(serviceName string) error {
	pidFilePath := m.PIDFilePath(serviceName)

	if err := os.Remove(pidFilePath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.NewIOError("failed to remove PID file", err).WithContext("path", pidFilePath)
	}

	m.logger.Debugf("PID file removed, service: %s, path: %s", serviceName, pidFilePath)
	return nil
}

// OpenStartupLog opens the startup log truncated, so the log captures output
// from the moment of the current start only.
func (m *ProcessFileManager) OpenStartupLog(serviceName string) (*os.File, error) {
	logPath := m.StartupLogPath(serviceName)

	if err := ValidateDirectory(logPath); err != nil {
		return nil, errors.NewIOError("invalid startup log directory", err).WithContext("path", logPath)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, errors.NewIOError("failed to open startup log", err).WithContext("path", logPath)
	}
	return file, nil
}

// ValidateDirectory ensures the parent directory of path exists, creating it
// if needed.
func ValidateDirectory(path string) error {
	dir := filepath.Dir(path)

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("path exists but is not a directory: %s", dir)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(dir, 0755)
}
