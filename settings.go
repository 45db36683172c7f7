package hdlcore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	toml "github.com/pelletier/go-toml/v2"
)

// Environment variables read by LoadSettings.
const (
	EnvVerilatorRoot   = "VERILATOR_ROOT"
	EnvSystemCInclude  = "SYSTEMC_INCLUDE"
	EnvSystemCRoot     = "SYSTEMC"
	EnvSystemCCxxFlags = "SYSTEMC_CXX_FLAGS"
)

// Settings is the tool-wide configuration shared by every build.
//
// Settings are read from a TOML file and then overridden by the environment:
//
//	verbose = true
//	verilator_root = "/opt/verilator/share/verilator"
//	log_file = "build/hdlcore.log"
//
//	[systemc]
//	include = "/opt/systemc/include"
//	cxx_flags = "-std=c++14"
type Settings struct {
	Verbose       bool            `toml:"verbose"`
	VerilatorRoot string          `toml:"verilator_root"`
	LogFile       string          `toml:"log_file"`
	CheckTools    bool            `toml:"check_tools"`
	SystemC       SystemCSettings `toml:"systemc"`
}

// SystemCSettings locates the SystemC headers and extra compile flags.
type SystemCSettings struct {
	Include  string `toml:"include"`   // Directory holding systemc.h
	Root     string `toml:"root"`      // Installation root; <root>/include is searched
	CxxFlags string `toml:"cxx_flags"` // Extra flags, split on whitespace
}

// DefaultSettingsPath returns $XDG_CONFIG_HOME/hdlcore/settings.toml,
// falling back to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultSettingsPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "hdlcore", "settings.toml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "hdlcore", "settings.toml")
	}
	return ""
}

// LoadSettings reads the settings file at path and applies environment overrides.
// A missing file is not an error; an empty path skips the file entirely.
func LoadSettings(path string) (*Settings, error) {
	s := &Settings{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading settings file: %w", err)
		default:
			if err := toml.Unmarshal(data, s); err != nil {
				return nil, fmt.Errorf("parsing settings file %s: %w", path, err)
			}
		}
	}

	s.applyEnv()
	return s, nil
}

// applyEnv lets the environment override the file values.
// MAGEFILE_VERBOSE turns verbose output on for builds driven from mage.
func (s *Settings) applyEnv() {
	if mg.Verbose() {
		s.Verbose = true
	}
	if v := os.Getenv(EnvVerilatorRoot); v != "" {
		s.VerilatorRoot = v
	}
	if v := os.Getenv(EnvSystemCInclude); v != "" {
		s.SystemC.Include = v
	}
	if v := os.Getenv(EnvSystemCRoot); v != "" {
		s.SystemC.Root = v
	}
	if v := os.Getenv(EnvSystemCCxxFlags); v != "" {
		s.SystemC.CxxFlags = v
	}
}

// Save writes the settings as TOML.
func (s *Settings) Save(path string) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}

	return nil
}
