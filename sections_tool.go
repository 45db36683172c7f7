package hdlcore

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ObjectSuffix is appended to the base name of every compiled testbench source.
const ObjectSuffix = ".o"

// ModelsimSection holds the Modelsim compile and simulation options of a core.
type ModelsimSection struct {
	sectionState
	ToolSection

	VlogOptions []string
	VsimOptions []string
}

var modelsimSchema = declareTool(NewSchema[ModelsimSection]("modelsim"),
	func(s *ModelsimSection) *ToolSection { return &s.ToolSection }).
	DeclareList("vlog_options", func(s *ModelsimSection) *[]string { return &s.VlogOptions }).
	DeclareList("vsim_options", func(s *ModelsimSection) *[]string { return &s.VsimOptions })

// NewModelsimSection returns a modelsim section with every field defaulted.
func NewModelsimSection() *ModelsimSection {
	s := &ModelsimSection{}
	modelsimSchema.Reset(s)
	return s
}

func (s *ModelsimSection) Tag() string      { return modelsimSchema.Tag() }
func (s *ModelsimSection) Fields() []Field  { return modelsimSchema.Fields() }
func (s *ModelsimSection) Describe() string { return modelsimSchema.Describe(s) }

// Load populates the section from raw stanza values.
func (s *ModelsimSection) Load(items map[string]string) error {
	return loadSection(modelsimSchema, s, &s.sectionState, items)
}

// IcarusSection holds the Icarus Verilog options of a core.
type IcarusSection struct {
	sectionState
	ToolSection

	IverilogOptions []string
}

var icarusSchema = declareTool(NewSchema[IcarusSection]("icarus"),
	func(s *IcarusSection) *ToolSection { return &s.ToolSection }).
	DeclareList("iverilog_options", func(s *IcarusSection) *[]string { return &s.IverilogOptions })

// NewIcarusSection returns an icarus section with every field defaulted.
func NewIcarusSection() *IcarusSection {
	s := &IcarusSection{}
	icarusSchema.Reset(s)
	return s
}

func (s *IcarusSection) Tag() string     { return icarusSchema.Tag() }
func (s *IcarusSection) Fields() []Field { return icarusSchema.Fields() }

// Load populates the section from raw stanza values.
func (s *IcarusSection) Load(items map[string]string) error {
	return loadSection(icarusSchema, s, &s.sectionState, items)
}

// Describe lists the Icarus-specific dependencies and compile options that are set.
func (s *IcarusSection) Describe() string {
	var sb strings.Builder
	if len(s.Depend) > 0 {
		fmt.Fprintf(&sb, "Icarus-specific dependencies : %s\n", strings.Join(s.Depend, " "))
	}
	if len(s.IverilogOptions) > 0 {
		fmt.Fprintf(&sb, "Icarus compile options : %s\n", strings.Join(s.IverilogOptions, " "))
	}
	return sb.String()
}

// VerilatorSection describes the testbench that is compiled alongside a
// Verilator model. It is the input of VerilatorBuilder.
type VerilatorSection struct {
	sectionState
	ToolSection

	VerilatorOptions []string
	SrcFiles         []string
	IncludeFiles     []string
	DefineFiles      []string
	Libs             []string

	TbToplevel string
	SourceType string
	TopModule  string

	// IncludeDirs are the distinct directories of IncludeFiles.
	IncludeDirs []string
	// ObjectFiles holds one object name per SrcFiles entry, in the same order.
	ObjectFiles []string
	// Archive is set when there are testbench sources to pack into a static library.
	Archive bool
}

var verilatorSchema = declareTool(NewSchema[VerilatorSection]("verilator"),
	func(s *VerilatorSection) *ToolSection { return &s.ToolSection }).
	DeclareList("verilator_options", func(s *VerilatorSection) *[]string { return &s.VerilatorOptions }).
	DeclareList("src_files", func(s *VerilatorSection) *[]string { return &s.SrcFiles }).
	DeclareList("include_files", func(s *VerilatorSection) *[]string { return &s.IncludeFiles }).
	DeclareList("define_files", func(s *VerilatorSection) *[]string { return &s.DefineFiles }).
	DeclareList("libs", func(s *VerilatorSection) *[]string { return &s.Libs }).
	DeclareString("tb_toplevel", func(s *VerilatorSection) *string { return &s.TbToplevel }).
	DeclareString("source_type", func(s *VerilatorSection) *string { return &s.SourceType }).
	DeclareString("top_module", func(s *VerilatorSection) *string { return &s.TopModule })

// NewVerilatorSection returns a verilator section with every field defaulted.
func NewVerilatorSection() *VerilatorSection {
	s := &VerilatorSection{IncludeDirs: []string{}, ObjectFiles: []string{}}
	verilatorSchema.Reset(s)
	return s
}

func (s *VerilatorSection) Tag() string     { return verilatorSchema.Tag() }
func (s *VerilatorSection) Fields() []Field { return verilatorSchema.Fields() }

// Load populates the section and derives the include directories, the
// object file names and the archive flag.
//
// Sources and headers are exported only when there are testbench sources.
func (s *VerilatorSection) Load(items map[string]string) error {
	if err := loadSection(verilatorSchema, s, &s.sectionState, items); err != nil {
		return err
	}

	s.IncludeDirs = includeDirs(s.IncludeFiles)
	s.ObjectFiles = objectFiles(s.SrcFiles)
	s.Archive = len(s.SrcFiles) > 0
	if s.Archive {
		s.exportFiles = concat(s.SrcFiles, s.IncludeFiles)
	}
	return nil
}

// Describe renders the testbench settings as an aligned table.
func (s *VerilatorSection) Describe() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Verilator options       : %s\n", strings.Join(s.VerilatorOptions, " "))
	fmt.Fprintf(&sb, "Testbench source files  : %s\n", strings.Join(s.SrcFiles, " "))
	fmt.Fprintf(&sb, "Testbench include files : %s\n", strings.Join(s.IncludeFiles, " "))
	fmt.Fprintf(&sb, "Testbench define files  : %s\n", strings.Join(s.DefineFiles, " "))
	fmt.Fprintf(&sb, "External libraries      : %s\n", strings.Join(s.Libs, " "))
	fmt.Fprintf(&sb, "Testbench top level     : %s\n", s.TbToplevel)
	fmt.Fprintf(&sb, "Testbench source type   : %s\n", s.SourceType)
	fmt.Fprintf(&sb, "Verilog top module      : %s\n", s.TopModule)
	return sb.String()
}

// objectFiles maps each source to its base name with the extension replaced by ObjectSuffix.
func objectFiles(srcFiles []string) []string {
	objs := make([]string, len(srcFiles))
	for i, src := range srcFiles {
		base := filepath.Base(src)
		objs[i] = strings.TrimSuffix(base, filepath.Ext(base)) + ObjectSuffix
	}
	return objs
}

// IseSection holds the Xilinx ISE project settings of a core.
type IseSection struct {
	sectionState
	ToolSection

	UcfFiles  []string
	TclFiles  []string
	Family    string
	Device    string
	Package   string
	Speed     string
	TopModule string
}

var iseSchema = declareTool(NewSchema[IseSection]("ise"),
	func(s *IseSection) *ToolSection { return &s.ToolSection }).
	DeclareList("ucf_files", func(s *IseSection) *[]string { return &s.UcfFiles }).
	DeclareList("tcl_files", func(s *IseSection) *[]string { return &s.TclFiles }).
	DeclareString("family", func(s *IseSection) *string { return &s.Family }).
	DeclareString("device", func(s *IseSection) *string { return &s.Device }).
	DeclareString("package", func(s *IseSection) *string { return &s.Package }).
	DeclareString("speed", func(s *IseSection) *string { return &s.Speed }).
	DeclareString("top_module", func(s *IseSection) *string { return &s.TopModule })

// NewIseSection returns an ise section with every field defaulted.
func NewIseSection() *IseSection {
	s := &IseSection{}
	iseSchema.Reset(s)
	return s
}

func (s *IseSection) Tag() string      { return iseSchema.Tag() }
func (s *IseSection) Fields() []Field  { return iseSchema.Fields() }
func (s *IseSection) Describe() string { return iseSchema.Describe(s) }

// Load populates the section and exports the constraint files.
func (s *IseSection) Load(items map[string]string) error {
	if err := loadSection(iseSchema, s, &s.sectionState, items); err != nil {
		return err
	}
	s.exportFiles = concat(s.UcfFiles)
	return nil
}

// QuartusSection holds the Altera Quartus project settings of a core.
type QuartusSection struct {
	sectionState
	ToolSection

	QsysFiles      []string
	SdcFiles       []string
	TclFiles       []string
	QuartusOptions string
	Family         string
	Device         string
	TopModule      string
}

var quartusSchema = declareTool(NewSchema[QuartusSection]("quartus"),
	func(s *QuartusSection) *ToolSection { return &s.ToolSection }).
	DeclareList("qsys_files", func(s *QuartusSection) *[]string { return &s.QsysFiles }).
	DeclareList("sdc_files", func(s *QuartusSection) *[]string { return &s.SdcFiles }).
	DeclareList("tcl_files", func(s *QuartusSection) *[]string { return &s.TclFiles }).
	DeclareString("quartus_options", func(s *QuartusSection) *string { return &s.QuartusOptions }).
	DeclareString("family", func(s *QuartusSection) *string { return &s.Family }).
	DeclareString("device", func(s *QuartusSection) *string { return &s.Device }).
	DeclareString("top_module", func(s *QuartusSection) *string { return &s.TopModule })

// NewQuartusSection returns a quartus section with every field defaulted.
func NewQuartusSection() *QuartusSection {
	s := &QuartusSection{}
	quartusSchema.Reset(s)
	return s
}

func (s *QuartusSection) Tag() string      { return quartusSchema.Tag() }
func (s *QuartusSection) Fields() []Field  { return quartusSchema.Fields() }
func (s *QuartusSection) Describe() string { return quartusSchema.Describe(s) }

// Load populates the section and exports the Qsys and timing constraint files.
func (s *QuartusSection) Load(items map[string]string) error {
	if err := loadSection(quartusSchema, s, &s.sectionState, items); err != nil {
		return err
	}
	s.exportFiles = concat(s.QsysFiles, s.SdcFiles)
	return nil
}
