//go:build !linux && !darwin

package toolchain

import "os"

func decodeState(ps *os.ProcessState) Result {
	return Result{ExitCode: ps.ExitCode()}
}
