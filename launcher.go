package hdlcore

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/sh"
)

// Invocation is one external command run by a Launcher.
type Invocation struct {
	Command string
	Args    []string
	Dir     string            // Working directory
	Env     map[string]string // Added to the inherited environment
	Stdout  io.Writer         // nil discards
	Stderr  io.Writer         // nil discards
}

// CommandLine renders the command and its arguments separated by spaces.
func (inv Invocation) CommandLine() string {
	return strings.TrimSpace(inv.Command + " " + strings.Join(inv.Args, " "))
}

// Launcher runs external commands synchronously.
//
// Run returns only after the command has exited. A command that cannot be
// started or exits non-zero yields a *LaunchError. Launchers never retry.
type Launcher interface {
	Run(ctx context.Context, inv Invocation) error
}

// LaunchError describes a command that failed to start or exited non-zero.
type LaunchError struct {
	Command  string
	Args     []string
	Dir      string
	Ran      bool // False when the command could not be started
	ExitCode int
	Err      error
}

func (e *LaunchError) Error() string {
	cmdline := Invocation{Command: e.Command, Args: e.Args}.CommandLine()
	if !e.Ran {
		return fmt.Sprintf("running %q: %v", cmdline, e.Err)
	}
	return fmt.Sprintf("%q exited with code %d", cmdline, e.ExitCode)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Allows tests to substitute the process constructor.
var execCommandContext = exec.CommandContext

// ExecLauncher runs commands as child processes.
type ExecLauncher struct{}

// Run starts the command and waits for it to exit.
func (ExecLauncher) Run(ctx context.Context, inv Invocation) error {
	//nolint:gosec // Commands come from the toolchain table, not from user input
	cmd := execCommandContext(ctx, inv.Command, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr

	if len(inv.Env) > 0 {
		cmd.Env = cmd.Environ()
		for key, value := range inv.Env {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
		}
	}

	err := cmd.Run()
	if err == nil {
		return nil
	}

	return &LaunchError{
		Command:  inv.Command,
		Args:     append([]string{}, inv.Args...),
		Dir:      inv.Dir,
		Ran:      sh.CmdRan(err),
		ExitCode: sh.ExitStatus(err),
		Err:      err,
	}
}

// openAppendLog opens dir/name for appending, creating it if needed.
func openAppendLog(dir, name string) (*os.File, error) {
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	return f, nil
}
