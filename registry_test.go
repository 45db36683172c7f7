package hdlcore

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryTags(t *testing.T) {
	reg := DefaultRegistry()
	require.Same(t, reg, DefaultRegistry(), "default registry must be built once")

	want := map[string]Section{
		"main":      &MainSection{},
		"vhdl":      &VhdlSection{},
		"verilog":   &VerilogSection{},
		"vpi":       &VpiSection{},
		"modelsim":  &ModelsimSection{},
		"icarus":    &IcarusSection{},
		"verilator": &VerilatorSection{},
		"ise":       &IseSection{},
		"quartus":   &QuartusSection{},
	}
	require.Len(t, reg.Tags(), len(want))

	for tag, typ := range want {
		sec, ok := reg.New(tag)
		require.True(t, ok, "tag %s", tag)
		assert.IsType(t, typ, sec)
		assert.Equal(t, tag, sec.Tag())
	}

	tags := reg.Tags()
	assert.True(t, slices.IsSorted(tags))
}

func TestRegistryUnknownTag(t *testing.T) {
	reg := DefaultRegistry()

	_, ok := reg.Lookup("ghdl")
	assert.False(t, ok)

	sec, ok := reg.New("ghdl")
	assert.False(t, ok)
	assert.Nil(t, sec)
}

func TestRegistryNewReturnsFreshSections(t *testing.T) {
	reg := DefaultRegistry()
	a, _ := reg.New("vhdl")
	b, _ := reg.New("vhdl")
	require.NoError(t, a.Load(map[string]string{"src_files": "a.vhd"}))
	require.NoError(t, b.Load(map[string]string{"src_files": "b.vhd"}))
	assert.Equal(t, []string{"a.vhd"}, a.ExportFiles())
}

func TestRegistryRegisterPanics(t *testing.T) {
	reg := NewRegistry()
	reg.Register("vhdl", func() Section { return NewVhdlSection() })

	assert.Panics(t, func() {
		reg.Register("vhdl", func() Section { return NewVhdlSection() })
	}, "duplicate tag")
	assert.Panics(t, func() {
		reg.Register("", func() Section { return NewVhdlSection() })
	}, "empty tag")
	assert.Panics(t, func() {
		reg.Register("verilog", nil)
	}, "nil factory")
	assert.Panics(t, func() {
		reg.Register("verilog", func() Section { return NewVhdlSection() })
	}, "tag mismatch")
}

func TestRegistryLoadSection(t *testing.T) {
	cfg := &MapProvider{Sections: map[string]map[string]string{
		"icarus": {"iverilog_options": "-g2012", "iverilog_opts": "typo"},
	}}
	log := &recordingLogger{}

	sec, err := DefaultRegistry().LoadSection(cfg, "icarus", "uart", log)
	require.NoError(t, err)
	require.IsType(t, &IcarusSection{}, sec)
	assert.Equal(t, []string{"-g2012"}, sec.(*IcarusSection).IverilogOptions)
	assert.Equal(t, []string{`Warning: Unknown item "iverilog_opts" in section "icarus" in uart`}, log.warns)

	// Absent stanza: the section is built from an empty map
	sec, err = DefaultRegistry().LoadSection(cfg, "modelsim", "uart", log)
	require.NoError(t, err)
	assert.Empty(t, sec.(*ModelsimSection).VlogOptions)

	// Unknown tag: nothing, and no error
	sec, err = DefaultRegistry().LoadSection(cfg, "ghdl", "uart", log)
	require.NoError(t, err)
	assert.Nil(t, sec)
}

func TestRegistryLoadAll(t *testing.T) {
	cfg := &MapProvider{
		Order: []string{"main", "ghdl", "verilog", "verilator"},
		Sections: map[string]map[string]string{
			"main":      {"description": "uart"},
			"ghdl":      {"analyze_options": "--std=08"},
			"verilog":   {"src_files": "rtl/uart.v"},
			"verilator": {"src_files": "bench/tb.c"},
		},
	}

	var tags []string
	for sec := range DefaultRegistry().LoadAll(cfg, "uart", &recordingLogger{}) {
		tags = append(tags, sec.Tag())
	}
	assert.Equal(t, []string{"main", "verilog", "verilator"}, tags)

	// Stopping early
	var first []string
	for sec := range DefaultRegistry().LoadAll(cfg, "uart", nil) {
		first = append(first, sec.Tag())
		break
	}
	assert.Equal(t, []string{"main"}, first)

	// Iterating again loads fresh sections
	var files [][]string
	for sec := range DefaultRegistry().LoadAll(cfg, "uart", nil) {
		files = append(files, sec.ExportFiles())
	}
	assert.Equal(t, [][]string{{}, {"rtl/uart.v"}, {"bench/tb.c"}}, files)
}
