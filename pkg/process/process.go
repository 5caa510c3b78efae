package process

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/vipshek/gradle-java-distribution/pkg/errors"
)

// Alive reports whether a process with the given pid exists. It relies on
// pid-level probing only, never on a child handle, so it works for processes
// started by a prior invocation of this program.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	return isAlive(pid)
}

// Terminate asks the process to shut down gracefully
func Terminate(pid int) error {
	if pid <= 0 {
		return errors.NewValidationError("invalid pid", nil).WithContext("pid", fmt.Sprintf("%d", pid))
	}
	return terminate(pid)
}

// Kill forcefully terminates the process
func Kill(pid int) error {
	if pid <= 0 {
		return errors.NewValidationError("invalid pid", nil).WithContext("pid", fmt.Sprintf("%d", pid))
	}
	return kill(pid)
}

// Detach configures cmd so the child survives the exit of this process
func Detach(cmd *exec.Cmd) {
	detach(cmd)
}

// DefaultPollInterval is the wait-loop probe interval used when none is
// configured.
const DefaultPollInterval = 100 * time.Millisecond

// WaitForExit polls until the process is gone or the timeout elapses. This is
// the single wait-with-timeout primitive shared by all callers; it returns a
// process error on timeout with the process still alive.
func WaitForExit(pid int, timeout, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	deadline := time.Now().Add(timeout)
	for {
		if !Alive(pid) {
			return nil
		}
		if time.Now().After(deadline) {
			return errors.NewProcessError("process did not exit within timeout", nil).
				WithContext("pid", fmt.Sprintf("%d", pid)).
				WithContext("timeout", timeout.String())
		}
		time.Sleep(interval)
	}
}
