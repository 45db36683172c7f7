package hdlcore

import (
	"path/filepath"
	"slices"
	"strings"
)

// Source types accepted by the default toolchains.
const (
	SourceTypeC       = "C"
	SourceTypeCPP     = "CPP"
	SourceTypeSystemC = "systemC"
)

// Log files written to the scratch directory. They are opened for appending
// so that the diagnostics of every source file, and of earlier builds, are kept.
const (
	GccOutLog = "gcc.out.log"
	GccErrLog = "gcc.err.log"
	GxxErrLog = "g++.err.log"
)

const archiver = "ar"

// FlagContext is what a toolchain needs to compute its compiler flags.
type FlagContext struct {
	Config        *BuildConfig
	Section       *VerilatorSection
	VerilatorRoot string // Empty unless the toolchain needs the Verilator runtime
}

// Toolchain is one recipe for compiling testbench sources.
//
// # Example
//
//	fortran := &hdlcore.Toolchain{
//	    Name:        "Fortran",
//	    SourceTypes: []string{"F90"},
//	    Compiler:    "gfortran",
//	    StderrLog:   "gfortran.err.log",
//	    Flags: func(fc hdlcore.FlagContext) []string {
//	        return append([]string{"-c"}, hdlcore.IncludeFlags(fc.Config, fc.Section)...)
//	    },
//	}
type Toolchain struct {
	// Name is the human-readable toolchain name (e.g., "C", "C++").
	Name string

	// SourceTypes are the source_type values this toolchain compiles.
	SourceTypes []string

	// Compiler is the program invoked once per source file.
	Compiler string

	// StdoutLog and StderrLog name the append-only logs in the scratch
	// directory receiving the compiler's output. Empty leaves the stream
	// on BuildConfig.Stdout or BuildConfig.Stderr.
	StdoutLog string
	StderrLog string

	// NeedsVerilatorRoot is set when Flags refers to the Verilator runtime headers.
	NeedsVerilatorRoot bool

	// Flags returns the compiler arguments preceding the source file.
	Flags func(fc FlagContext) []string
}

// CanBuild reports whether the toolchain compiles the given source type.
func (t *Toolchain) CanBuild(sourceType string) bool {
	return slices.Contains(t.SourceTypes, sourceType)
}

// Stage names the compile stage in logs and errors.
func (t *Toolchain) Stage() string {
	return t.Name + " compilation"
}

// RequiredTools returns the compiler and the archiver.
func (t *Toolchain) RequiredTools() []ToolRequirement {
	return []ToolRequirement{
		{Name: t.Compiler, Purpose: t.Name + " compiler"},
		{Name: archiver, Purpose: "Static archiver"},
	}
}

// CheckTools verifies that the compiler and the archiver are available.
func (t *Toolchain) CheckTools() error {
	return CheckRequiredTools(t.RequiredTools())
}

// Toolchains selects a toolchain by source type.
//
// Toolchains are checked in the order they are registered; the first one
// accepting the source type wins.
//
// Not thread-safe for registration. Register all toolchains before concurrent use.
type Toolchains struct {
	toolchains []*Toolchain
}

// NewToolchains creates a set with the C, C++ and SystemC toolchains registered.
func NewToolchains() *Toolchains {
	set := &Toolchains{}
	set.Register(CToolchain())
	set.Register(CPPToolchain())
	set.Register(SystemCToolchain())
	return set
}

// Register adds a toolchain to the set.
func (s *Toolchains) Register(t *Toolchain) {
	s.toolchains = append(s.toolchains, t)
}

// List returns a copy of the registered toolchains.
func (s *Toolchains) List() []*Toolchain {
	return append([]*Toolchain{}, s.toolchains...)
}

// ToolchainFor returns the toolchain compiling sourceType, or an
// *UnsupportedSourceTypeError naming the value.
func (s *Toolchains) ToolchainFor(sourceType string) (*Toolchain, error) {
	for _, t := range s.toolchains {
		if t.CanBuild(sourceType) {
			return t, nil
		}
	}
	return nil, &UnsupportedSourceTypeError{SourceType: sourceType}
}

// CToolchain compiles C99 sources with gcc. An empty source type selects it.
func CToolchain() *Toolchain {
	return &Toolchain{
		Name:        "C",
		SourceTypes: []string{"", SourceTypeC},
		Compiler:    "gcc",
		StdoutLog:   GccOutLog,
		StderrLog:   GccErrLog,
		Flags: func(fc FlagContext) []string {
			args := []string{"-c", "-std=c99"}
			return append(args, IncludeFlags(fc.Config, fc.Section)...)
		},
	}
}

// CPPToolchain compiles C++ sources against the Verilator runtime headers.
func CPPToolchain() *Toolchain {
	return &Toolchain{
		Name:               "C++",
		SourceTypes:        []string{SourceTypeCPP},
		Compiler:           "g++",
		StderrLog:          GxxErrLog,
		NeedsVerilatorRoot: true,
		Flags: func(fc FlagContext) []string {
			args := []string{"-c"}
			args = append(args, IncludeFlags(fc.Config, fc.Section)...)
			return append(args, verilatorIncludeFlags(fc.VerilatorRoot)...)
		},
	}
}

// SystemCToolchain compiles SystemC sources against the Verilator runtime
// and the SystemC headers configured in BuildConfig.SystemC.
func SystemCToolchain() *Toolchain {
	return &Toolchain{
		Name:               "SystemC",
		SourceTypes:        []string{SourceTypeSystemC},
		Compiler:           "g++",
		StderrLog:          GxxErrLog,
		NeedsVerilatorRoot: true,
		Flags: func(fc FlagContext) []string {
			args := []string{"-I.", "-MMD"}
			args = append(args, IncludeFlags(fc.Config, fc.Section)...)
			args = append(args, "-Iobj_dir")
			args = append(args, verilatorIncludeFlags(fc.VerilatorRoot)...)
			args = append(args, "-DVL_PRINTF=printf", "-DVM_TRACE=1", "-DVM_COVERAGE=0")

			sc := fc.Config.SystemC
			if sc.Include != "" {
				args = append(args, "-I"+sc.Include)
			}
			if sc.Root != "" {
				args = append(args, "-I"+filepath.Join(sc.Root, "include"))
			}
			args = append(args, "-Wno-deprecated")
			args = append(args, strings.Fields(sc.CxxFlags)...)
			return append(args, "-c", "-g")
		},
	}
}

// IncludeFlags returns the include path shared by every toolchain: the
// source root followed by each include directory of the section, rooted at
// the package directory.
func IncludeFlags(config *BuildConfig, section *VerilatorSection) []string {
	flags := []string{"-I" + config.SrcRoot}
	for _, dir := range section.IncludeDirs {
		flags = append(flags, "-I"+filepath.Join(config.PackageDir(), dir))
	}
	return flags
}

func verilatorIncludeFlags(root string) []string {
	return []string{
		"-I" + filepath.Join(root, "include"),
		"-I" + filepath.Join(root, "include", "vltstd"),
	}
}
