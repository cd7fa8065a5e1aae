//go:build linux || darwin

package toolchain

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

func decodeState(ps *os.ProcessState) Result {
	raw, ok := ps.Sys().(syscall.WaitStatus)
	if !ok {
		return Result{ExitCode: ps.ExitCode()}
	}
	ws := unix.WaitStatus(raw)
	if ws.Signaled() {
		sig := ws.Signal()
		return Result{ExitCode: -1, Signal: unix.SignalName(sig), SignalNum: int(sig)}
	}
	return Result{ExitCode: ws.ExitStatus()}
}
