package supervisor

import (
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/vipshek/gradle-java-distribution/pkg/errors"
	"github.com/vipshek/gradle-java-distribution/pkg/logging"
	"github.com/vipshek/gradle-java-distribution/pkg/process"
	"github.com/vipshek/gradle-java-distribution/pkg/processfile"
)

// Supervisor manages exactly one detached long-running process per bundle
// instance, tracked through a PID file. Every method is a short-lived,
// independent invocation; state lives on disk, not in memory.
//
// The PID file is not protected by a lock, so two concurrent Start calls may
// both conclude that nothing is running and both spawn; the last PID-file
// writer wins. This is an accepted limitation of the single-PID-file design
// and is exercised by the tests rather than hidden.
type Supervisor struct {
	config Config
	files  *processfile.ProcessFileManager
	out    io.Writer
	logger logging.Logger
}

func New(config Config, out io.Writer, logger logging.Logger) *Supervisor {
	if config.GracefulTimeout <= 0 {
		config.GracefulTimeout = DefaultGracefulTimeout
	}
	if config.StartSettleDelay <= 0 {
		config.StartSettleDelay = DefaultStartSettleDelay
	}
	if config.PollInterval <= 0 {
		config.PollInterval = process.DefaultPollInterval
	}

	files := processfile.NewProcessFileManager(processfile.ProcessFileConfig{
		RunDirectory: config.RunDirectory,
		LogDirectory: config.LogDirectory,
	}, logger)

	return &Supervisor{
		config: config,
		files:  files,
		out:    out,
		logger: logger,
	}
}

// CurrentState derives the lifecycle state from the PID file and a liveness
// probe. An unreadable or garbled PID file counts as Unknown, never as an
// error: stale state is reconciled by stop/start.
func (s *Supervisor) CurrentState() (State, int) {
	pid, err := s.files.ReadPIDFile(s.config.ServiceName)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return StateStopped, 0
		}
		s.logger.Warnf("Unreadable PID file, service: %s, error: %v", s.config.ServiceName, err)
		return StateUnknown, 0
	}

	if process.Alive(pid) {
		return StateRunning, pid
	}
	return StateUnknown, pid
}

// Start spawns the managed process detached, redirects its output to the
// startup log and records its pid. Starting an already-running instance is a
// reported no-op.
func (s *Supervisor) Start() error {
	name := s.config.ServiceName
	fmt.Fprintf(s.out, "Running '%s'...\n", name)

	if state, pid := s.CurrentState(); state == StateRunning {
		fmt.Fprintf(s.out, "Already running (%d)\n", pid)
		return nil
	}

	logFile, err := s.files.OpenStartupLog(name)
	if err != nil {
		return err
	}
	defer logFile.Close()

	cmd := exec.Command(s.config.ExecutablePath, s.config.Args...)
	cmd.Dir = s.config.WorkingDirectory
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	process.Detach(cmd)

	if err := cmd.Start(); err != nil {
		return errors.NewProcessError("failed to start process", err).
			WithContext("service_name", name).
			WithContext("executable", s.config.ExecutablePath)
	}
	pid := cmd.Process.Pid
	s.logger.Infof("Process spawned, service: %s, pid: %d", name, pid)

	// Reap the child if it exits while this invocation is still alive, so a
	// zombie cannot satisfy the liveness probe below.
	go func() {
		_ = cmd.Wait()
	}()

	if err := s.files.WritePIDFile(name, pid); err != nil {
		_ = process.Kill(pid)
		return err
	}

	time.Sleep(s.config.StartSettleDelay)
	if !process.Alive(pid) {
		_ = s.files.RemovePIDFile(name)
		return errors.NewProcessError("process exited during startup", nil).
			WithContext("service_name", name).
			WithContext("startup_log", s.files.StartupLogPath(name))
	}

	fmt.Fprintf(s.out, "Started (%d)\n", pid)
	return nil
}

// Stop sends a graceful termination signal and polls until the process exits
// or the graceful timeout elapses. A missing PID file is a reported no-op; a
// stale PID file is reconciled. On timeout the PID file is left in place so
// a subsequent stop can retry.
func (s *Supervisor) Stop() error {
	name := s.config.ServiceName
	fmt.Fprintf(s.out, "Stopping '%s'...\n", name)

	pid, err := s.files.ReadPIDFile(name)
	if err != nil {
		if errors.IsNotFoundError(err) {
			fmt.Fprintln(s.out, "Nothing to stop")
			return nil
		}
		if errors.IsValidationError(err) {
			// Garbled PID file: nothing verifiable to stop
			s.logger.Warnf("Removing garbled PID file, service: %s, error: %v", name, err)
			_ = s.files.RemovePIDFile(name)
			fmt.Fprintln(s.out, "Nothing to stop")
			return nil
		}
		return err
	}

	if !process.Alive(pid) {
		// Stale PID file left by a crashed instance
		s.logger.Infof("Process already gone, service: %s, pid: %d", name, pid)
		if err := s.files.RemovePIDFile(name); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Stopped (%d)\n", pid)
		return nil
	}

	if err := process.Terminate(pid); err != nil {
		return errors.NewProcessError("failed to signal process", err).
			WithContext("service_name", name).
			WithContext("pid", fmt.Sprintf("%d", pid))
	}

	if err := process.WaitForExit(pid, s.config.GracefulTimeout, s.config.PollInterval); err != nil {
		// PID file stays so status/stop can observe and retry
		return err
	}

	if err := s.files.RemovePIDFile(name); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Stopped (%d)\n", pid)
	return nil
}

// Status reports the current state. Not-running is a successful report, not
// a failure.
func (s *Supervisor) Status() error {
	name := s.config.ServiceName
	fmt.Fprintf(s.out, "Checking '%s'...\n", name)

	if state, pid := s.CurrentState(); state == StateRunning {
		fmt.Fprintf(s.out, "Running (%d)\n", pid)
	} else {
		fmt.Fprintln(s.out, "Not running")
	}
	return nil
}

// Restart runs stop to completion, then start. It is sequential and not
// atomic: a status call observed mid-restart may report stopped.
func (s *Supervisor) Restart() error {
	if err := s.Stop(); err != nil {
		return err
	}
	return s.Start()
}
