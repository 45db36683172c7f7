package hdlcore

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func checkSchemaFields[T any](t *testing.T, schema *Schema[T]) {
	t.Helper()
	for _, b := range schema.bindings {
		var dst T
		switch b.Kind {
		case ListField:
			if w := schema.Load(&dst, map[string]string{b.Name: "a b  c"}); len(w) != 0 {
				t.Errorf("%s.%s: unexpected warnings %v", schema.Tag(), b.Name, w)
			}
			if diff := cmp.Diff([]string{"a", "b", "c"}, *b.list(&dst)); diff != "" {
				t.Errorf("%s.%s mismatch (-want +got):\n%s", schema.Tag(), b.Name, diff)
			}
		case StringField:
			schema.Load(&dst, map[string]string{b.Name: "x"})
			if got := *b.str(&dst); got != "x" {
				t.Errorf("%s.%s = %q, want %q", schema.Tag(), b.Name, got, "x")
			}
		}
	}
}

func TestSectionFieldKinds(t *testing.T) {
	checkSchemaFields(t, mainSchema)
	checkSchemaFields(t, vhdlSchema)
	checkSchemaFields(t, verilogSchema)
	checkSchemaFields(t, vpiSchema)
	checkSchemaFields(t, modelsimSchema)
	checkSchemaFields(t, icarusSchema)
	checkSchemaFields(t, verilatorSchema)
	checkSchemaFields(t, iseSchema)
	checkSchemaFields(t, quartusSchema)
}

func TestSectionUnknownKey(t *testing.T) {
	reg := DefaultRegistry()
	for _, tag := range reg.Tags() {
		t.Run(tag, func(t *testing.T) {
			sec, _ := reg.New(tag)
			if err := sec.Load(map[string]string{"unknown_key": "v"}); err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			warnings := sec.Warnings()
			if len(warnings) != 1 {
				t.Fatalf("Expected 1 warning, got %v", warnings)
			}
			if !strings.Contains(warnings[0], "unknown_key") || !strings.Contains(warnings[0], tag) {
				t.Errorf("Warning %q should name the key and the section", warnings[0])
			}
		})
	}
}

func TestSectionLoadTwice(t *testing.T) {
	sec := NewVhdlSection()
	if err := sec.Load(map[string]string{"src_files": "a.vhd"}); err != nil {
		t.Fatalf("first Load returned error: %v", err)
	}
	if err := sec.Load(map[string]string{"src_files": "b.vhd"}); !errors.Is(err, ErrSectionLoaded) {
		t.Fatalf("Expected ErrSectionLoaded, got %v", err)
	}
	if diff := cmp.Diff([]string{"a.vhd"}, sec.SrcFiles); diff != "" {
		t.Errorf("second Load changed the section (-want +got):\n%s", diff)
	}
}

func TestToolSectionsDeclareDepend(t *testing.T) {
	for _, tag := range []string{"modelsim", "icarus", "verilator", "ise", "quartus"} {
		sec, _ := DefaultRegistry().New(tag)
		found := false
		for _, f := range sec.Fields() {
			if f.Name == "depend" && f.Kind == ListField {
				found = true
			}
		}
		if !found {
			t.Errorf("%s: expected a depend list field", tag)
		}
	}
}

func TestVerilatorSectionDerived(t *testing.T) {
	sec := NewVerilatorSection()
	err := sec.Load(map[string]string{
		"src_files":     "bench/a.c b.cpp",
		"include_files": "inc/x.h inc/y.h top.h",
	})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if diff := cmp.Diff([]string{"a.o", "b.o"}, sec.ObjectFiles); diff != "" {
		t.Errorf("object files mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"", "inc"}, sec.IncludeDirs); diff != "" {
		t.Errorf("include dirs mismatch (-want +got):\n%s", diff)
	}
	if !sec.Archive {
		t.Error("Expected archive with src_files set")
	}
	want := []string{"bench/a.c", "b.cpp", "inc/x.h", "inc/y.h", "top.h"}
	if diff := cmp.Diff(want, sec.ExportFiles()); diff != "" {
		t.Errorf("export files mismatch (-want +got):\n%s", diff)
	}
}

func TestVerilatorSectionWithoutSources(t *testing.T) {
	sec := NewVerilatorSection()
	if err := sec.Load(map[string]string{"include_files": "inc/x.h"}); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if sec.Archive {
		t.Error("Expected no archive without src_files")
	}
	if len(sec.ObjectFiles) != 0 {
		t.Errorf("Expected no object files, got %v", sec.ObjectFiles)
	}
	if len(sec.ExportFiles()) != 0 {
		t.Errorf("Expected nothing exported, got %v", sec.ExportFiles())
	}
}

func TestVerilogIncludeDirs(t *testing.T) {
	for _, input := range []string{"a/x.vh b/y.vh", "b/y.vh a/x.vh", "a/x.vh b/y.vh a/z.vh b/y.vh"} {
		sec := NewVerilogSection()
		if err := sec.Load(map[string]string{"include_files": input}); err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if diff := cmp.Diff([]string{"a", "b"}, sec.IncludeDirs); diff != "" {
			t.Errorf("include dirs for %q mismatch (-want +got):\n%s", input, diff)
		}
	}
}

func TestSectionExportFiles(t *testing.T) {
	testCases := []struct {
		tag   string
		items map[string]string
		want  []string
	}{
		{"main", map[string]string{"description": "d", "depend": "x"}, []string{}},
		{"vhdl", map[string]string{"src_files": "a.vhd b.vhd"}, []string{"a.vhd", "b.vhd"}},
		{
			"verilog",
			map[string]string{
				"src_files":            "rtl/top.v",
				"include_files":        "rtl/defs.vh",
				"tb_src_files":         "bench/tb.v",
				"tb_private_src_files": "bench/priv.v",
				"tb_include_files":     "bench/tb.vh",
			},
			[]string{"rtl/top.v", "rtl/defs.vh", "bench/tb.v", "bench/tb.vh", "bench/priv.v"},
		},
		{"vpi", map[string]string{"src_files": "vpi.c", "include_files": "vpi.h", "libs": "-lm"}, []string{"vpi.c", "vpi.h"}},
		{"modelsim", map[string]string{"vlog_options": "+acc"}, []string{}},
		{"icarus", map[string]string{"iverilog_options": "-g2012"}, []string{}},
		{"ise", map[string]string{"ucf_files": "pins.ucf", "tcl_files": "run.tcl"}, []string{"pins.ucf"}},
		{"quartus", map[string]string{"qsys_files": "sys.qsys", "sdc_files": "t.sdc", "tcl_files": "p.tcl"}, []string{"sys.qsys", "t.sdc"}},
	}

	for _, tc := range testCases {
		t.Run(tc.tag, func(t *testing.T) {
			sec, ok := DefaultRegistry().New(tc.tag)
			if !ok {
				t.Fatalf("tag %s not registered", tc.tag)
			}
			if err := sec.Load(tc.items); err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if diff := cmp.Diff(tc.want, sec.ExportFiles()); diff != "" {
				t.Errorf("export files mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSectionDescribe(t *testing.T) {
	t.Run("main", func(t *testing.T) {
		sec := NewMainSection()
		_ = sec.Load(map[string]string{"description": "UART core", "depend": "wb_intercon", "simulators": "icarus verilator"})
		want := "depend : wb_intercon\nsimulators : icarus;verilator\ndescription : UART core\n"
		if got := sec.Describe(); got != want {
			t.Errorf("Describe() = %q, want %q", got, want)
		}
	})

	t.Run("verilog", func(t *testing.T) {
		sec := NewVerilogSection()
		_ = sec.Load(map[string]string{"src_files": "rtl/a.v rtl/b.v", "include_files": "rtl/defs.vh"})
		want := "\nRTL source files :\n rtl/a.v\n rtl/b.v" +
			"\nRTL include files :\n rtl/defs.vh" +
			"\nRTL Include directories :\n rtl"
		if got := sec.Describe(); got != want {
			t.Errorf("Describe() = %q, want %q", got, want)
		}
	})

	t.Run("icarus", func(t *testing.T) {
		sec := NewIcarusSection()
		_ = sec.Load(map[string]string{"iverilog_options": "-g2012 -Wall"})
		want := "Icarus compile options : -g2012 -Wall\n"
		if got := sec.Describe(); got != want {
			t.Errorf("Describe() = %q, want %q", got, want)
		}
	})

	t.Run("verilator", func(t *testing.T) {
		sec := NewVerilatorSection()
		_ = sec.Load(map[string]string{"src_files": "tb.c", "source_type": "C", "tb_toplevel": "tb.v"})
		got := sec.Describe()
		for _, line := range []string{
			"Testbench source files  : tb.c\n",
			"Testbench source type   : C\n",
			"Testbench top level     : tb.v\n",
		} {
			if !strings.Contains(got, line) {
				t.Errorf("Describe() missing %q:\n%s", line, got)
			}
		}
	})
}
