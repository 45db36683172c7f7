package hdlcore

import (
	"context"
	"io"
	"path/filepath"
)

// ArchiveSuffix is the extension of the static library built from testbench objects.
const ArchiveSuffix = ".a"

// BuildResult contains the output and status of a section build.
//
// After a build completes, this structure provides:
//   - Success status indicating if every invocation completed without errors
//   - Output lines, one per command issued
//   - Objects compiled, in source order, and the archive built from them
//   - Error information if the build failed
type BuildResult struct {
	Success   bool     // True if build completed successfully
	Toolchain string   // Name of the toolchain selected by the source type
	Output    []string // Command lines issued, in order
	Objects   []string // Object files produced in the scratch directory
	Archive   string   // Archive file name, empty when nothing was archived
	Error     error    // Error if build failed, nil otherwise
}

// BuildConfig contains configuration for the build process.
//
// Source paths define where files are located:
//   - SrcRoot: Root directory holding exported packages
//   - Package: Package identifier; its sources live in SrcRoot/Package
//   - ScratchDir: Working directory receiving objects, logs and the archive
//
// Toolchain configuration:
//   - VerilatorRoot: Verilator runtime root; resolved automatically when empty
//   - SystemC: SystemC headers and extra flags for the SystemC toolchain
//   - Env: Environment variables set for every invocation
//
// Build behavior:
//   - Verbose: Log the working directory and command line of every invocation
//   - CheckTools: Verify compilers and archiver are on PATH before building
type BuildConfig struct {
	// Source paths
	SrcRoot    string // Root directory holding exported packages
	Package    string // Package identifier, also the archive base name
	ScratchDir string // Working directory for compilers and the archiver

	// Toolchain configuration
	VerilatorRoot string            // Verilator runtime root, resolved when empty
	SystemC       SystemCSettings   // SystemC include paths and flags
	Env           map[string]string // Environment variables for every invocation

	// Streams that are not redirected to a log file; nil discards
	Stdout io.Writer
	Stderr io.Writer

	// Build options
	Verbose    bool // Enable verbose output
	CheckTools bool // Check required tools before building
}

// NewBuildConfig derives a build configuration from the tool settings.
func NewBuildConfig(settings *Settings, pkg, srcRoot, scratchDir string) *BuildConfig {
	return &BuildConfig{
		SrcRoot:       srcRoot,
		Package:       pkg,
		ScratchDir:    scratchDir,
		VerilatorRoot: settings.VerilatorRoot,
		SystemC:       settings.SystemC,
		Verbose:       settings.Verbose,
		CheckTools:    settings.CheckTools,
	}
}

// PackageDir returns the directory holding the package sources.
func (c *BuildConfig) PackageDir() string {
	return filepath.Join(c.SrcRoot, c.Package)
}

// ArchiveName returns the file name of the static library built for the package.
func (c *BuildConfig) ArchiveName() string {
	return c.Package + ArchiveSuffix
}

// buildSteps defines the standard 3-step pattern of a section build.
//
//  1. Prepare: select the toolchain and compute everything the compile step needs
//  2. Compile: invoke the compiler once per source file
//  3. Archive: pack the objects into a static library
type buildSteps struct {
	PrepareFunc func(ctx context.Context, config *BuildConfig, result *BuildResult) error
	CompileFunc func(ctx context.Context, config *BuildConfig, result *BuildResult) error
	ArchiveFunc func(ctx context.Context, config *BuildConfig, result *BuildResult) error
}
