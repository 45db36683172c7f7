package hdlcore

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
)

// CoreFileExt is the extension of core description files.
const CoreFileExt = ".core"

// ConfigProvider gives access to the raw stanzas of a core description.
type ConfigProvider interface {
	// SectionTags returns the stanza names in file order.
	SectionTags() []string

	// SectionMap returns the raw key/value pairs of a stanza.
	// An absent stanza yields an empty map.
	SectionMap(tag string) map[string]string
}

// CoreFile is a core description file parsed into raw stanzas.
//
// The format is INI with python-style continuation lines, so long file lists
// may be spread over several indented lines:
//
//	[verilator]
//	src_files =
//	  tb/main.cpp
//	  tb/uart.cpp
//	source_type = CPP
type CoreFile struct {
	name string
	file *ini.File
}

var coreLoadOptions = ini.LoadOptions{
	InsensitiveKeys:            true,
	AllowPythonMultilineValues: true,
	IgnoreInlineComment:        true,
}

// LoadCoreFile reads and parses the core description at path.
// The core name is the file name without the .core extension.
func LoadCoreFile(path string) (*CoreFile, error) {
	f, err := ini.LoadSources(coreLoadOptions, path)
	if err != nil {
		return nil, fmt.Errorf("parsing core file %s: %w", path, err)
	}
	return &CoreFile{
		name: strings.TrimSuffix(filepath.Base(path), CoreFileExt),
		file: f,
	}, nil
}

// ParseCoreFile parses a core description held in memory.
func ParseCoreFile(name string, data []byte) (*CoreFile, error) {
	f, err := ini.LoadSources(coreLoadOptions, data)
	if err != nil {
		return nil, fmt.Errorf("parsing core %s: %w", name, err)
	}
	return &CoreFile{name: name, file: f}, nil
}

// Name returns the core name.
func (c *CoreFile) Name() string {
	return c.name
}

// SectionTags returns the stanza names in file order.
// The implicit default stanza is listed only when it carries keys.
func (c *CoreFile) SectionTags() []string {
	var tags []string
	for _, name := range c.file.SectionStrings() {
		if name == ini.DefaultSection && len(c.file.Section(name).Keys()) == 0 {
			continue
		}
		tags = append(tags, name)
	}
	return tags
}

// SectionMap returns the raw key/value pairs of a stanza.
func (c *CoreFile) SectionMap(tag string) map[string]string {
	section, err := c.file.GetSection(tag)
	if err != nil {
		return map[string]string{}
	}
	return section.KeysHash()
}

// MapProvider is a ConfigProvider over in-memory stanzas.
// Tags are reported in the order given by Order, or sorted when Order is empty.
type MapProvider struct {
	Order    []string
	Sections map[string]map[string]string
}

// SectionTags returns the stanza names.
func (m *MapProvider) SectionTags() []string {
	if len(m.Order) > 0 {
		return append([]string{}, m.Order...)
	}
	return sortedKeys(m.Sections)
}

// SectionMap returns the raw key/value pairs of a stanza.
func (m *MapProvider) SectionMap(tag string) map[string]string {
	items, ok := m.Sections[tag]
	if !ok {
		return map[string]string{}
	}
	return items
}
