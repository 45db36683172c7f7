package hdlcore

import (
	"fmt"
	"iter"
	"sync"
)

// SectionFactory constructs an empty section of one concrete type.
type SectionFactory func() Section

// Registry maps section tags to the section types that parse them.
//
// # Usage
//
// Most callers use the process-wide registry holding every built-in section:
//
//	reg := hdlcore.DefaultRegistry()
//	for section := range reg.LoadAll(core, core.Name(), logger) {
//	    fmt.Println(section.Tag())
//	}
//
// Or create an empty registry and register custom sections:
//
//	reg := hdlcore.NewRegistry()
//	reg.Register("mytool", func() hdlcore.Section { return NewMyToolSection() })
//
// # Thread Safety
//
// Registry is NOT thread-safe for registration.
// Register all sections before concurrent use.
// After registration, lookups and loads are safe.
type Registry struct {
	factories map[string]SectionFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]SectionFactory)}
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry with every built-in
// section registered. The registry is populated on first use, exactly once.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		RegisterBuiltins(defaultRegistry)
	})
	return defaultRegistry
}

// RegisterBuiltins registers the language sections and every tool section.
func RegisterBuiltins(r *Registry) {
	// Language and package sections
	r.Register("main", func() Section { return NewMainSection() })
	r.Register("vhdl", func() Section { return NewVhdlSection() })
	r.Register("verilog", func() Section { return NewVerilogSection() })
	r.Register("vpi", func() Section { return NewVpiSection() })

	// Tool sections
	r.Register("modelsim", func() Section { return NewModelsimSection() })
	r.Register("icarus", func() Section { return NewIcarusSection() })
	r.Register("verilator", func() Section { return NewVerilatorSection() })
	r.Register("ise", func() Section { return NewIseSection() })
	r.Register("quartus", func() Section { return NewQuartusSection() })
}

// Register binds a tag to a section factory.
//
// An empty tag or a tag registered twice is a programming error and panics.
// The tag must match the one the constructed section reports.
func (r *Registry) Register(tag string, factory SectionFactory) {
	if tag == "" || factory == nil {
		panic("hdlcore: section tag and factory required")
	}
	if _, exists := r.factories[tag]; exists {
		panic(fmt.Sprintf("hdlcore: section %q already registered", tag))
	}
	if got := factory().Tag(); got != tag {
		panic(fmt.Sprintf("hdlcore: section registered as %q reports tag %q", tag, got))
	}
	r.factories[tag] = factory
}

// Lookup returns the factory registered for tag.
//
// A missing tag is not an error: core files may contain stanzas that no
// installed tool understands.
func (r *Registry) Lookup(tag string) (SectionFactory, bool) {
	f, ok := r.factories[tag]
	return f, ok
}

// New constructs an empty section for tag, or reports false if the tag is unknown.
func (r *Registry) New(tag string) (Section, bool) {
	f, ok := r.Lookup(tag)
	if !ok {
		return nil, false
	}
	return f(), true
}

// Tags returns every registered tag, sorted.
func (r *Registry) Tags() []string {
	return sortedKeys(r.factories)
}

// LoadSection builds the section for tag from the stanza of the same name.
//
// Returns nil if the tag is not registered. Every unknown key in the stanza
// is reported through log as "Warning: <warning> in <name>".
func (r *Registry) LoadSection(cfg ConfigProvider, tag, name string, log Logger) (Section, error) {
	section, ok := r.New(tag)
	if !ok {
		return nil, nil
	}

	if err := section.Load(cfg.SectionMap(tag)); err != nil {
		return nil, fmt.Errorf("load section %q of %s: %w", tag, name, err)
	}

	if log != nil {
		for _, warning := range section.Warnings() {
			log.Warn(fmt.Sprintf("Warning: %s in %s", warning, name))
		}
	}

	return section, nil
}

// LoadAll yields one loaded section per recognized stanza of cfg, in the
// provider's stanza order. Unrecognized stanzas are skipped silently.
//
// Sections are loaded lazily as the sequence is consumed; ranging over the
// sequence again reloads them.
func (r *Registry) LoadAll(cfg ConfigProvider, name string, log Logger) iter.Seq[Section] {
	return func(yield func(Section) bool) {
		for _, tag := range cfg.SectionTags() {
			section, err := r.LoadSection(cfg, tag, name, log)
			if err != nil || section == nil {
				continue
			}
			if !yield(section) {
				return
			}
		}
	}
}
