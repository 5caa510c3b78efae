//go:build windows

package process

import (
	"os/exec"
	"syscall"
	"unsafe"
)

const (
	processQueryInformation = 0x0400
	processTerminate        = 0x0001

	// GetExitCodeProcess reports this while the process is running
	stillActive = 259
)

var (
	kernel32               = syscall.NewLazyDLL("kernel32.dll")
	procOpenProcess        = kernel32.NewProc("OpenProcess")
	procCloseHandle        = kernel32.NewProc("CloseHandle")
	procTerminateProcess   = kernel32.NewProc("TerminateProcess")
	procGetExitCodeProcess = kernel32.NewProc("GetExitCodeProcess")
)

func isAlive(pid int) bool {
	handle, _, _ := procOpenProcess.Call(
		uintptr(processQueryInformation),
		uintptr(0),
		uintptr(pid),
	)
	if handle == 0 {
		return false
	}
	defer procCloseHandle.Call(handle)

	var exitCode uint32
	ret, _, _ := procGetExitCodeProcess.Call(
		handle,
		uintptr(unsafe.Pointer(&exitCode)),
	)
	if ret == 0 {
		return false
	}
	return exitCode == stillActive
}

// Windows has no SIGTERM equivalent for unrelated processes; both the
// graceful and the forceful path use TerminateProcess.
func terminate(pid int) error {
	return terminateProcess(pid)
}

func kill(pid int) error {
	return terminateProcess(pid)
}

func terminateProcess(pid int) error {
	handle, _, err := procOpenProcess.Call(
		uintptr(processTerminate),
		uintptr(0),
		uintptr(pid),
	)
	if handle == 0 {
		return err
	}
	defer procCloseHandle.Call(handle)

	ret, _, err := procTerminateProcess.Call(handle, uintptr(1))
	if ret == 0 {
		return err
	}
	return nil
}

func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}
