package main

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"

	hdlcore "github.com/contriboss/hdl-core-go"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Commands accepted after the flags.
const (
	cmdDescribe       = "describe"
	cmdExport         = "export"
	cmdBuildVerilator = "build-verilator"
)

type options struct {
	Command      string
	CorePath     string
	SettingsPath string
	Verbose      bool
	SrcRoot      string // Defaults to the parent of the core file's directory
	ScratchDir   string
	DestDir      string
	LogFile      string
}

// parse processes command-line arguments. It returns the options, a boolean
// indicating if the program should exit cleanly, or an ExitError.
func parse(args []string, output io.Writer) (*options, bool, error) {
	flagSet := flag.NewFlagSet("hdlcore", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
hdlcore - inspect core files and build Verilator testbenches.

Usage:
  hdlcore [options] <command> <file.core>

Commands:
  describe          Print every recognized section of the core
  export            Copy the files the sections export into -dest/<core>
  build-verilator   Compile the [verilator] testbench sources into <core>.a

Options:
`)
		flagSet.PrintDefaults()
	}

	opts := &options{}
	flagSet.StringVar(&opts.SettingsPath, "settings", hdlcore.DefaultSettingsPath(), "Path to the TOML settings file.")
	flagSet.BoolVar(&opts.Verbose, "v", false, "Print working directories and command lines.")
	flagSet.StringVar(&opts.SrcRoot, "src-root", "", "Directory holding the package directories (default: parent of the core's directory).")
	flagSet.StringVar(&opts.ScratchDir, "scratch", "build", "Working directory for objects, logs and the archive.")
	flagSet.StringVar(&opts.DestDir, "dest", "export", "Destination root for export.")
	flagSet.StringVar(&opts.LogFile, "log-file", "", "Also write JSON logs to this rotating file.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() != 2 {
		return nil, false, &ExitError{Code: 2, Message: "expected a command and a core file"}
	}

	opts.Command = flagSet.Arg(0)
	switch opts.Command {
	case cmdDescribe, cmdExport, cmdBuildVerilator:
	default:
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", opts.Command)}
	}

	opts.CorePath = flagSet.Arg(1)
	if opts.SrcRoot == "" {
		opts.SrcRoot = filepath.Dir(filepath.Dir(opts.CorePath))
	}

	return opts, false, nil
}
