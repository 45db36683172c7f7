package hdlcore

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
)

// RootResolver locates the Verilator runtime root, preferring configured
// when it is set. An empty result with a nil error is never returned.
type RootResolver func(ctx context.Context, configured string) (string, error)

// ResolveVerilatorRoot returns the first non-empty of:
//
//  1. configured (settings file or BuildConfig.VerilatorRoot)
//  2. the VERILATOR_ROOT environment variable
//  3. the output of "verilator --getenv VERILATOR_ROOT", when verilator is on PATH
//
// Otherwise the error wraps ErrVerilatorRootNotFound.
func ResolveVerilatorRoot(ctx context.Context, launcher Launcher, configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	if root := os.Getenv(EnvVerilatorRoot); root != "" {
		return root, nil
	}

	if _, err := execLookPath("verilator"); err != nil {
		return "", fmt.Errorf("%w: %s is unset and verilator is not in PATH", ErrVerilatorRootNotFound, EnvVerilatorRoot)
	}

	var stdout bytes.Buffer
	err := launcher.Run(ctx, Invocation{
		Command: "verilator",
		Args:    []string{"--getenv", EnvVerilatorRoot},
		Stdout:  &stdout,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrVerilatorRootNotFound, err)
	}

	root := strings.TrimSpace(stdout.String())
	if root == "" {
		return "", fmt.Errorf("%w: verilator reported an empty %s", ErrVerilatorRootNotFound, EnvVerilatorRoot)
	}
	return root, nil
}
