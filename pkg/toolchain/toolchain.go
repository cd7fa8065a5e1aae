// Package toolchain turns generated assembly into a running process using
// the system C driver, which assembles and links against the C runtime.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// DefaultDriver is the C driver used when none is configured
const DefaultDriver = "cc"

// ErrNoDriver is returned when the configured C driver is not installed
var ErrNoDriver = errors.New("C driver not found")

// Toolchain builds and runs assembly programs
type Toolchain struct {
	Driver string // C driver used to assemble and link, "cc" when empty
}

// New returns a Toolchain for driver, falling back to DefaultDriver
func New(driver string) *Toolchain {
	if driver == "" {
		driver = DefaultDriver
	}
	return &Toolchain{Driver: driver}
}

// Available reports whether the C driver can be found in PATH
func (tc *Toolchain) Available() bool {
	_, err := exec.LookPath(tc.Driver)
	return err == nil
}

// Build writes asmText to dir and links it into an executable, returning
// the executable's path.
func (tc *Toolchain) Build(ctx context.Context, asmText, dir string) (string, error) {
	if !tc.Available() {
		return "", fmt.Errorf("%w: %s", ErrNoDriver, tc.Driver)
	}

	asmFile := filepath.Join(dir, "prog.s")
	exe := filepath.Join(dir, "prog")
	if err := os.WriteFile(asmFile, []byte(asmText), 0644); err != nil {
		return "", fmt.Errorf("writing assembly: %w", err)
	}

	cmd := exec.CommandContext(ctx, tc.Driver, "-o", exe, asmFile)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("%s failed: %w\n%s", tc.Driver, err, bytes.TrimSpace(output))
	}
	return exe, nil
}

// Result is the outcome of running a program
type Result struct {
	ExitCode  int    // exit status, -1 when killed by a signal
	Signal    string // e.g. "SIGFPE"; empty on normal exit
	SignalNum int
}

// Exited reports whether the program terminated normally
func (r Result) Exited() bool {
	return r.Signal == ""
}

// Status is the status a POSIX shell would report: the exit code, or 128
// plus the signal number.
func (r Result) Status() int {
	if r.Exited() {
		return r.ExitCode
	}
	return 128 + r.SignalNum
}

func (r Result) String() string {
	if r.Exited() {
		return fmt.Sprintf("exit status %d", r.ExitCode)
	}
	return "killed by " + r.Signal
}

// Run executes exe and reports how it terminated. A non-zero exit or a
// fatal signal is a Result, not an error; errors mean the program could
// not be run at all.
func (tc *Toolchain) Run(ctx context.Context, exe string) (Result, error) {
	cmd := exec.CommandContext(ctx, exe)
	err := cmd.Run()

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return decodeState(cmd.ProcessState), nil
}
