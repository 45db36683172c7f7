package hdlcore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// VerilatorBuilder compiles the testbench sources of a verilator section and
// packs the objects into <package>.a in the scratch directory.
//
// Sources are compiled one at a time, in declared order, each invocation
// completing before the next starts. Compiler diagnostics are appended to the
// toolchain's log files; the first failing invocation stops the build.
//
// # Example
//
//	builder := hdlcore.NewVerilatorBuilder(hdlcore.ExecLauncher{}, log)
//	cfg := hdlcore.NewBuildConfig(settings, "uart", srcRoot, scratch)
//	result, err := builder.Build(ctx, cfg, section)
type VerilatorBuilder struct {
	Toolchains  *Toolchains
	Launcher    Launcher
	Logger      Logger
	ResolveRoot RootResolver // Defaults to ResolveVerilatorRoot through Launcher
}

// NewVerilatorBuilder creates a builder with the default toolchains.
func NewVerilatorBuilder(launcher Launcher, logger Logger) *VerilatorBuilder {
	if launcher == nil {
		launcher = ExecLauncher{}
	}
	if logger == nil {
		logger = NopLogger()
	}
	b := &VerilatorBuilder{
		Toolchains: NewToolchains(),
		Launcher:   launcher,
		Logger:     logger,
	}
	b.ResolveRoot = func(ctx context.Context, configured string) (string, error) {
		return ResolveVerilatorRoot(ctx, b.Launcher, configured)
	}
	return b
}

// Build runs the prepare, compile and archive steps for section.
//
// An unsupported source type, or a missing Verilator root for the C++ and
// SystemC toolchains, fails before any command is run. A failing command is
// reported as a *StageError wrapping the launcher's error.
func (b *VerilatorBuilder) Build(ctx context.Context, config *BuildConfig, section *VerilatorSection) (*BuildResult, error) {
	if section == nil {
		return nil, errors.New("no verilator section to build")
	}
	run := &verilatorRun{builder: b, section: section}
	return runBuildSteps(ctx, config, buildSteps{
		PrepareFunc: run.prepare,
		CompileFunc: run.compile,
		ArchiveFunc: run.archive,
	})
}

func (b *VerilatorBuilder) launcher() Launcher {
	if b.Launcher == nil {
		return ExecLauncher{}
	}
	return b.Launcher
}

func (b *VerilatorBuilder) logger() Logger {
	if b.Logger == nil {
		return NopLogger()
	}
	return b.Logger
}

// verilatorRun holds the state shared by the steps of one build.
type verilatorRun struct {
	builder   *VerilatorBuilder
	section   *VerilatorSection
	toolchain *Toolchain
	flags     []string
}

func (r *verilatorRun) prepare(ctx context.Context, config *BuildConfig, result *BuildResult) error {
	toolchains := r.builder.Toolchains
	if toolchains == nil {
		toolchains = NewToolchains()
	}
	tc, err := toolchains.ToolchainFor(r.section.SourceType)
	if err != nil {
		return err
	}
	r.toolchain = tc
	result.Toolchain = tc.Name

	var root string
	if tc.NeedsVerilatorRoot {
		root, err = r.resolveRoot(ctx, config)
		if err != nil {
			return err
		}
	}

	if config.CheckTools {
		if err := tc.CheckTools(); err != nil {
			return err
		}
	}

	r.flags = tc.Flags(FlagContext{Config: config, Section: r.section, VerilatorRoot: root})
	return nil
}

func (r *verilatorRun) resolveRoot(ctx context.Context, config *BuildConfig) (string, error) {
	resolve := r.builder.ResolveRoot
	if resolve == nil {
		resolve = func(ctx context.Context, configured string) (string, error) {
			return ResolveVerilatorRoot(ctx, r.builder.launcher(), configured)
		}
	}
	root, err := resolve(ctx, config.VerilatorRoot)
	if err != nil {
		return "", err
	}
	if root == "" {
		return "", ErrVerilatorRootNotFound
	}
	return root, nil
}

func (r *verilatorRun) compile(ctx context.Context, config *BuildConfig, result *BuildResult) error {
	for i, srcFile := range r.section.SrcFiles {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.compileOne(ctx, config, result, srcFile); err != nil {
			return err
		}
		result.Objects = append(result.Objects, r.section.ObjectFiles[i])
	}
	return nil
}

func (r *verilatorRun) compileOne(ctx context.Context, config *BuildConfig, result *BuildResult, srcFile string) error {
	tc := r.toolchain
	log := r.builder.logger()

	args := append(append([]string{}, r.flags...), filepath.Join(config.PackageDir(), srcFile))
	inv := Invocation{
		Command: tc.Compiler,
		Args:    args,
		Dir:     config.ScratchDir,
		Env:     config.Env,
		Stdout:  config.Stdout,
		Stderr:  config.Stderr,
	}

	log.Info("Compiling " + srcFile)
	if config.Verbose {
		log.Info(fmt.Sprintf("  %s working dir: %s", tc.Stage(), config.ScratchDir))
		log.Info(fmt.Sprintf("  %s command: %s", tc.Stage(), inv.CommandLine()))
	}
	result.Output = append(result.Output, inv.CommandLine())

	logFile := ""
	if tc.StdoutLog != "" {
		f, err := openAppendLog(config.ScratchDir, tc.StdoutLog)
		if err != nil {
			return err
		}
		defer f.Close()
		inv.Stdout = f
	}
	if tc.StderrLog != "" {
		f, err := openAppendLog(config.ScratchDir, tc.StderrLog)
		if err != nil {
			return err
		}
		defer f.Close()
		inv.Stderr = f
		logFile = filepath.Join(config.ScratchDir, tc.StderrLog)
	}

	if err := r.builder.launcher().Run(ctx, inv); err != nil {
		return &StageError{Stage: tc.Stage(), File: srcFile, LogFile: logFile, Err: err}
	}
	return nil
}

func (r *verilatorRun) archive(ctx context.Context, config *BuildConfig, result *BuildResult) error {
	if !r.section.Archive {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	args := append([]string{"rvs", config.ArchiveName()}, r.section.ObjectFiles...)
	inv := Invocation{
		Command: archiver,
		Args:    args,
		Dir:     config.ScratchDir,
		Env:     config.Env,
		Stdout:  config.Stdout,
		Stderr:  config.Stderr,
	}

	log := r.builder.logger()
	if config.Verbose {
		log.Info("  linker working dir: " + config.ScratchDir)
		log.Info("  linker command: " + inv.CommandLine())
	}
	result.Output = append(result.Output, inv.CommandLine())

	if err := r.builder.launcher().Run(ctx, inv); err != nil {
		return &StageError{Stage: "archive", Err: err}
	}
	result.Archive = config.ArchiveName()
	return nil
}
