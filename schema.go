package hdlcore

import (
	"fmt"
	"strings"
)

// FieldKind is the shape of a value declared in a section schema.
type FieldKind int

const (
	// StringField values are taken verbatim from the core file.
	StringField FieldKind = iota

	// ListField values are split on whitespace.
	ListField
)

// String returns the kind name used in diagnostics.
func (k FieldKind) String() string {
	switch k {
	case StringField:
		return "string"
	case ListField:
		return "list"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// Field is one recognized key of a section.
type Field struct {
	Name string
	Kind FieldKind
}

// fieldBinding ties a declared field to its storage inside a concrete section struct.
type fieldBinding[T any] struct {
	Field
	str  func(*T) *string
	list func(*T) *[]string
}

// Schema is the static field table of one section type.
//
// Each concrete section builds its schema once, at package initialization,
// by declaring its fields in order:
//
//	var icarusSchema = NewSchema[IcarusSection]("icarus").
//	    DeclareList("depend", func(s *IcarusSection) *[]string { return &s.Depend }).
//	    DeclareList("iverilog_options", func(s *IcarusSection) *[]string { return &s.IverilogOptions })
//
// Load then becomes a lookup in the name index followed by an assignment
// through the bound accessor. No reflection is involved.
type Schema[T any] struct {
	tag      string
	bindings []fieldBinding[T]
	index    map[string]int
}

// NewSchema creates an empty schema for the section identified by tag.
func NewSchema[T any](tag string) *Schema[T] {
	return &Schema[T]{
		tag:   tag,
		index: make(map[string]int),
	}
}

// Tag returns the stanza name this schema parses.
func (s *Schema[T]) Tag() string {
	return s.tag
}

// DeclareString adds a string field. Its value defaults to the empty string.
//
// Declaring the same name twice panics; a field belongs to exactly one kind.
func (s *Schema[T]) DeclareString(name string, bind func(*T) *string) *Schema[T] {
	s.add(fieldBinding[T]{Field: Field{Name: name, Kind: StringField}, str: bind})
	return s
}

// DeclareList adds a list-of-strings field. Its value defaults to an empty list.
//
// Declaring the same name twice panics; a field belongs to exactly one kind.
func (s *Schema[T]) DeclareList(name string, bind func(*T) *[]string) *Schema[T] {
	s.add(fieldBinding[T]{Field: Field{Name: name, Kind: ListField}, list: bind})
	return s
}

func (s *Schema[T]) add(b fieldBinding[T]) {
	if b.Name == "" {
		panic(fmt.Sprintf("schema %q: empty field name", s.tag))
	}
	if _, exists := s.index[b.Name]; exists {
		panic(fmt.Sprintf("schema %q: field %q already declared", s.tag, b.Name))
	}
	s.index[b.Name] = len(s.bindings)
	s.bindings = append(s.bindings, b)
}

// Fields returns the declared fields in declaration order.
func (s *Schema[T]) Fields() []Field {
	fields := make([]Field, len(s.bindings))
	for i, b := range s.bindings {
		fields[i] = b.Field
	}
	return fields
}

// Lookup reports the declared field with the given name.
func (s *Schema[T]) Lookup(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.bindings[i].Field, true
}

// Reset puts every declared field of dst back to its default value.
func (s *Schema[T]) Reset(dst *T) {
	for _, b := range s.bindings {
		switch b.Kind {
		case StringField:
			*b.str(dst) = ""
		case ListField:
			*b.list(dst) = []string{}
		}
	}
}

// Load assigns the raw values in items to dst and returns one warning per
// key that is not a declared field.
//
// Declared fields missing from items keep their default value. Unknown keys
// never stop loading; they are reported in sorted key order.
func (s *Schema[T]) Load(dst *T, items map[string]string) []string {
	s.Reset(dst)

	var warnings []string
	for _, key := range sortedKeys(items) {
		i, ok := s.index[key]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("Unknown item %q in section %q", key, s.tag))
			continue
		}

		b := s.bindings[i]
		switch b.Kind {
		case ListField:
			*b.list(dst) = ParseList(items[key])
		case StringField:
			*b.str(dst) = items[key]
		}
	}

	return warnings
}

// Describe renders every field of dst, lists first, one "name : value" line each.
// List items are joined with semicolons.
func (s *Schema[T]) Describe(dst *T) string {
	var sb strings.Builder
	for _, b := range s.bindings {
		if b.Kind == ListField {
			fmt.Fprintf(&sb, "%s : %s\n", b.Name, strings.Join(*b.list(dst), ";"))
		}
	}
	for _, b := range s.bindings {
		if b.Kind == StringField {
			fmt.Fprintf(&sb, "%s : %s\n", b.Name, *b.str(dst))
		}
	}
	return sb.String()
}

// ParseList splits a raw list value on any run of whitespace.
// The result never contains empty items.
func ParseList(raw string) []string {
	items := strings.Fields(raw)
	if items == nil {
		return []string{}
	}
	return items
}
