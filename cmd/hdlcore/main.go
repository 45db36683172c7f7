package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"

	hdlcore "github.com/contriboss/hdl-core-go"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdout, os.Args[1:]); err != nil {
		stop()
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the command logic for easier testing and error handling.
func run(ctx context.Context, out io.Writer, args []string) error {
	opts, shouldExit, err := parse(args, out)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	settings, err := hdlcore.LoadSettings(opts.SettingsPath)
	if err != nil {
		return err
	}
	if opts.Verbose {
		settings.Verbose = true
	}
	if opts.LogFile != "" {
		settings.LogFile = opts.LogFile
	}

	zl := hdlcore.NewLogger(hdlcore.LogOptions{Verbose: settings.Verbose, File: settings.LogFile})
	defer func() { _ = zl.Sync() }()
	log := hdlcore.ZapLogger(zl)

	core, err := hdlcore.LoadCoreFile(opts.CorePath)
	if err != nil {
		return err
	}

	switch opts.Command {
	case cmdDescribe:
		return describe(out, core, log)
	case cmdExport:
		return export(out, core, opts, log)
	default:
		return buildVerilator(ctx, out, core, settings, opts, log)
	}
}

func describe(out io.Writer, core *hdlcore.CoreFile, log hdlcore.Logger) error {
	for section := range hdlcore.DefaultRegistry().LoadAll(core, core.Name(), log) {
		fmt.Fprintf(out, "[%s]\n%s\n", section.Tag(), section.Describe())
	}
	return nil
}

func export(out io.Writer, core *hdlcore.CoreFile, opts *options, log hdlcore.Logger) error {
	var sections []hdlcore.Section
	for section := range hdlcore.DefaultRegistry().LoadAll(core, core.Name(), log) {
		sections = append(sections, section)
	}

	destDir := filepath.Join(opts.DestDir, core.Name())
	copied, err := hdlcore.ExportPackage(filepath.Dir(opts.CorePath), destDir, hdlcore.ExportFiles(sections...))
	if err != nil {
		return err
	}
	for _, f := range copied {
		fmt.Fprintln(out, filepath.Join(destDir, filepath.FromSlash(f)))
	}
	return nil
}

func buildVerilator(ctx context.Context, out io.Writer, core *hdlcore.CoreFile, settings *hdlcore.Settings, opts *options, log hdlcore.Logger) error {
	if !slices.Contains(core.SectionTags(), "verilator") {
		return &ExitError{Code: 1, Message: fmt.Sprintf("%s has no [verilator] section", opts.CorePath)}
	}
	section, err := hdlcore.DefaultRegistry().LoadSection(core, "verilator", core.Name(), log)
	if err != nil {
		return err
	}
	verilator := section.(*hdlcore.VerilatorSection)

	if err := os.MkdirAll(opts.ScratchDir, 0o755); err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	scratch, err := filepath.Abs(opts.ScratchDir)
	if err != nil {
		return err
	}
	srcRoot, err := filepath.Abs(opts.SrcRoot)
	if err != nil {
		return err
	}

	config := hdlcore.NewBuildConfig(settings, core.Name(), srcRoot, scratch)
	config.Stdout = out
	config.Stderr = os.Stderr

	builder := hdlcore.NewVerilatorBuilder(hdlcore.ExecLauncher{}, log)
	result, err := builder.Build(ctx, config, verilator)
	if err != nil {
		return hdlcore.BuildError("Verilator testbench", result.Output, err)
	}

	if result.Archive != "" {
		fmt.Fprintln(out, filepath.Join(scratch, result.Archive))
	}
	return nil
}
