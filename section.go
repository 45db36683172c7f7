package hdlcore

import (
	"errors"
	"path/filepath"
	"sort"
)

// ErrSectionLoaded is returned when Load is called on a section that was already loaded.
var ErrSectionLoaded = errors.New("section already loaded")

// Section is a typed, schema-validated view of one stanza of a core file.
//
// # Lifecycle
//
//  1. The registry constructs the section; every declared field holds its default.
//  2. Load is called once with the raw key/value pairs of the stanza.
//  3. The section is treated as read-only configuration by later build steps.
//
// Unknown keys are never fatal. They are collected as warnings and the
// caller decides how to report them.
type Section interface {
	// Tag returns the stanza name this section parses, e.g. "verilator".
	Tag() string

	// Fields returns the declared fields in declaration order.
	Fields() []Field

	// Load populates the section from raw stanza values.
	//
	// Returns ErrSectionLoaded if the section was loaded before.
	Load(items map[string]string) error

	// ExportFiles returns the files this section contributes to a package export.
	ExportFiles() []string

	// Warnings returns one message per unrecognized key seen during Load.
	Warnings() []string

	// Describe renders the section for human-facing diagnostics.
	Describe() string
}

// sectionState carries the bookkeeping shared by every section type.
type sectionState struct {
	exportFiles []string
	warnings    []string
	loaded      bool
}

// begin marks the section as loaded, or fails if it already was.
func (s *sectionState) begin() error {
	if s.loaded {
		return ErrSectionLoaded
	}
	s.loaded = true
	return nil
}

// ExportFiles returns the files this section contributes to a package export.
func (s *sectionState) ExportFiles() []string {
	return append([]string{}, s.exportFiles...)
}

// Warnings returns the messages collected for unknown keys.
func (s *sectionState) Warnings() []string {
	return append([]string{}, s.warnings...)
}

// ToolSection is the common part of every per-tool section: a list of
// tool-specific extra dependencies.
type ToolSection struct {
	Depend []string
}

// declareTool adds the fields every tool section carries.
func declareTool[T any](s *Schema[T], tool func(*T) *ToolSection) *Schema[T] {
	return s.DeclareList("depend", func(t *T) *[]string { return &tool(t).Depend })
}

// loadSection runs the shared part of Load for a concrete section type.
func loadSection[T any](schema *Schema[T], dst *T, state *sectionState, items map[string]string) error {
	if err := state.begin(); err != nil {
		return err
	}
	state.warnings = schema.Load(dst, items)
	return nil
}

// concat joins file lists into a fresh slice.
func concat(lists ...[]string) []string {
	out := []string{}
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// includeDirs returns the distinct directory components of files, sorted.
func includeDirs(files []string) []string {
	dirs := []string{}
	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		dir := filepath.Dir(f)
		if dir == "." {
			dir = ""
		}
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}
