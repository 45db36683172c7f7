// Package hdlcore loads the sections of hardware-design core files and
// compiles Verilator testbench sources.
//
// A core file is an INI-style description of one source package. Each stanza
// is a section selected by its tag:
//
//	[main]
//	description = UART with a Wishbone interface
//
//	[verilog]
//	src_files = rtl/uart_top.v rtl/uart_tx.v
//	include_files = rtl/uart_defines.v
//
//	[verilator]
//	src_files = bench/tb.c
//	source_type = C
//
// # Basic Usage
//
// Load the core file and iterate over the sections the registry knows:
//
//	core, err := hdlcore.LoadCoreFile("uart.core")
//	if err != nil {
//	    return err
//	}
//
//	for sec := range hdlcore.DefaultRegistry().LoadAll(core, core.Name(), log) {
//	    fmt.Print(sec.Describe())
//	}
//
// Unknown stanzas are skipped. Unknown keys inside a known stanza are
// reported as warnings and loading continues.
//
// # Architecture
//
// Sections are plain structs filled through a static schema per type:
//
//	Registry
//	├── main, vhdl, verilog, vpi
//	└── modelsim, icarus, verilator, ise, quartus (tool sections)
//
// The verilator section is compiled by a VerilatorBuilder, which selects a
// toolchain by source type:
//
//	Toolchains
//	├── C (gcc, source_type "" or "C")
//	├── C++ (g++, source_type "CPP")
//	└── SystemC (g++, source_type "systemC")
//
// Each source file is compiled in the scratch directory, appending compiler
// output to gcc.out.log, gcc.err.log or g++.err.log, and the objects are
// archived into <package>.a with "ar rvs".
//
// # Requirements
//
// Requires Go 1.25 or later. Building needs gcc or g++ and ar on PATH; the
// C++ and SystemC toolchains also need a Verilator installation.
package hdlcore
