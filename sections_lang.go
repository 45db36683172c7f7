package hdlcore

import (
	"fmt"
	"strings"
)

// MainSection holds the package-wide metadata of a core.
type MainSection struct {
	sectionState

	Description string
	Depend      []string
	Simulators  []string
}

var mainSchema = NewSchema[MainSection]("main").
	DeclareString("description", func(s *MainSection) *string { return &s.Description }).
	DeclareList("depend", func(s *MainSection) *[]string { return &s.Depend }).
	DeclareList("simulators", func(s *MainSection) *[]string { return &s.Simulators })

// NewMainSection returns a main section with every field defaulted.
func NewMainSection() *MainSection {
	s := &MainSection{}
	mainSchema.Reset(s)
	return s
}

func (s *MainSection) Tag() string      { return mainSchema.Tag() }
func (s *MainSection) Fields() []Field  { return mainSchema.Fields() }
func (s *MainSection) Describe() string { return mainSchema.Describe(s) }

// Load populates the section from raw stanza values.
func (s *MainSection) Load(items map[string]string) error {
	return loadSection(mainSchema, s, &s.sectionState, items)
}

// VhdlSection lists the VHDL sources of a core.
type VhdlSection struct {
	sectionState

	SrcFiles []string
}

var vhdlSchema = NewSchema[VhdlSection]("vhdl").
	DeclareList("src_files", func(s *VhdlSection) *[]string { return &s.SrcFiles })

// NewVhdlSection returns a vhdl section with every field defaulted.
func NewVhdlSection() *VhdlSection {
	s := &VhdlSection{}
	vhdlSchema.Reset(s)
	return s
}

func (s *VhdlSection) Tag() string      { return vhdlSchema.Tag() }
func (s *VhdlSection) Fields() []Field  { return vhdlSchema.Fields() }
func (s *VhdlSection) Describe() string { return vhdlSchema.Describe(s) }

// Load populates the section and exports every source file.
func (s *VhdlSection) Load(items map[string]string) error {
	if err := loadSection(vhdlSchema, s, &s.sectionState, items); err != nil {
		return err
	}
	s.exportFiles = concat(s.SrcFiles)
	return nil
}

// VerilogSection lists the RTL and testbench Verilog sources of a core.
type VerilogSection struct {
	sectionState

	SrcFiles          []string
	IncludeFiles      []string
	TbSrcFiles        []string
	TbPrivateSrcFiles []string
	TbIncludeFiles    []string

	// IncludeDirs are the distinct directories of IncludeFiles.
	IncludeDirs []string
	// TbIncludeDirs are the distinct directories of TbIncludeFiles.
	TbIncludeDirs []string
}

var verilogSchema = NewSchema[VerilogSection]("verilog").
	DeclareList("src_files", func(s *VerilogSection) *[]string { return &s.SrcFiles }).
	DeclareList("include_files", func(s *VerilogSection) *[]string { return &s.IncludeFiles }).
	DeclareList("tb_src_files", func(s *VerilogSection) *[]string { return &s.TbSrcFiles }).
	DeclareList("tb_private_src_files", func(s *VerilogSection) *[]string { return &s.TbPrivateSrcFiles }).
	DeclareList("tb_include_files", func(s *VerilogSection) *[]string { return &s.TbIncludeFiles })

// NewVerilogSection returns a verilog section with every field defaulted.
func NewVerilogSection() *VerilogSection {
	s := &VerilogSection{IncludeDirs: []string{}, TbIncludeDirs: []string{}}
	verilogSchema.Reset(s)
	return s
}

func (s *VerilogSection) Tag() string     { return verilogSchema.Tag() }
func (s *VerilogSection) Fields() []Field { return verilogSchema.Fields() }

// Load populates the section, derives the include directories and exports
// every RTL and testbench file.
func (s *VerilogSection) Load(items map[string]string) error {
	if err := loadSection(verilogSchema, s, &s.sectionState, items); err != nil {
		return err
	}
	s.IncludeDirs = includeDirs(s.IncludeFiles)
	s.TbIncludeDirs = includeDirs(s.TbIncludeFiles)
	s.exportFiles = concat(s.SrcFiles, s.IncludeFiles, s.TbSrcFiles, s.TbIncludeFiles, s.TbPrivateSrcFiles)
	return nil
}

// Describe groups RTL and testbench files under labelled blocks.
// Empty blocks are left out.
func (s *VerilogSection) Describe() string {
	blocks := []struct {
		label string
		files []string
	}{
		{"RTL source files", s.SrcFiles},
		{"RTL include files", s.IncludeFiles},
		{"RTL Include directories", s.IncludeDirs},
		{"Public testbench source files", s.TbSrcFiles},
		{"Private testbench source files", s.TbPrivateSrcFiles},
		{"Testbench include files", s.TbIncludeFiles},
		{"Testbench include directories", s.TbIncludeDirs},
	}

	var sb strings.Builder
	for _, b := range blocks {
		if len(b.files) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n%s :\n %s", b.label, strings.Join(b.files, "\n "))
	}
	return sb.String()
}

// VpiSection lists the C sources of a VPI module shipped with a core.
type VpiSection struct {
	sectionState

	SrcFiles     []string
	IncludeFiles []string
	Libs         []string

	// IncludeDirs are the distinct directories of IncludeFiles.
	IncludeDirs []string
}

var vpiSchema = NewSchema[VpiSection]("vpi").
	DeclareList("src_files", func(s *VpiSection) *[]string { return &s.SrcFiles }).
	DeclareList("include_files", func(s *VpiSection) *[]string { return &s.IncludeFiles }).
	DeclareList("libs", func(s *VpiSection) *[]string { return &s.Libs })

// NewVpiSection returns a vpi section with every field defaulted.
func NewVpiSection() *VpiSection {
	s := &VpiSection{IncludeDirs: []string{}}
	vpiSchema.Reset(s)
	return s
}

func (s *VpiSection) Tag() string      { return vpiSchema.Tag() }
func (s *VpiSection) Fields() []Field  { return vpiSchema.Fields() }
func (s *VpiSection) Describe() string { return vpiSchema.Describe(s) }

// Load populates the section, derives the include directories and exports
// sources and headers.
func (s *VpiSection) Load(items map[string]string) error {
	if err := loadSection(vpiSchema, s, &s.sectionState, items); err != nil {
		return err
	}
	s.IncludeDirs = includeDirs(s.IncludeFiles)
	s.exportFiles = concat(s.SrcFiles, s.IncludeFiles)
	return nil
}
