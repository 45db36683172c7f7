package hdlcore

import (
	"errors"
	"fmt"
	"strings"
)

// ErrVerilatorRootNotFound is returned when a toolchain needs the Verilator
// runtime headers and no runtime root could be resolved.
var ErrVerilatorRootNotFound = errors.New("verilator runtime root not found")

// UnsupportedSourceTypeError is returned for a source_type no toolchain accepts.
// It is raised before any compiler is invoked.
type UnsupportedSourceTypeError struct {
	SourceType string
}

func (e *UnsupportedSourceTypeError) Error() string {
	return fmt.Sprintf("unsupported source type %q", e.SourceType)
}

// StageError reports which stage of a build failed.
//
// Compiler diagnostics are not part of the message: they were already
// appended to LogFile in the scratch directory.
type StageError struct {
	Stage   string // "C compilation", "C++ compilation", "SystemC compilation" or "archive"
	File    string // Source file being compiled, empty for the archive stage
	LogFile string // Log receiving the command's diagnostics, if any
	Err     error
}

func (e *StageError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Stage)
	sb.WriteString(" failed")
	if e.File != "" {
		fmt.Fprintf(&sb, " for %s", e.File)
	}
	fmt.Fprintf(&sb, ": %v", e.Err)
	if e.LogFile != "" {
		fmt.Fprintf(&sb, " (see %s)", e.LogFile)
	}
	return sb.String()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// MissingToolsError lists required tools that are not on PATH.
type MissingToolsError struct {
	Tools []string // Tool names, with their purpose when known
}

func (e *MissingToolsError) Error() string {
	if len(e.Tools) == 1 {
		return fmt.Sprintf("%s not found in PATH", e.Tools[0])
	}
	return fmt.Sprintf("missing required tools: %s", strings.Join(e.Tools, ", "))
}
