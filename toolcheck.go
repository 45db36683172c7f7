package hdlcore

import (
	"fmt"
	"os/exec"
)

// Allows tests to substitute PATH lookups.
var execLookPath = exec.LookPath

// ToolRequirement describes an external program a toolchain depends on.
//
// Examples:
//
//	ToolRequirement{Name: "gcc", Purpose: "C compiler"}
//	ToolRequirement{Name: "ar", Alternatives: []string{"gcc-ar"}, Purpose: "Static archiver"}
type ToolRequirement struct {
	// Name is the primary binary name (e.g., "gcc", "ar").
	Name string

	// Alternatives can satisfy the requirement when Name is missing.
	Alternatives []string

	// Optional tools are checked but never reported as missing.
	Optional bool

	// Purpose is a human-readable description of why the tool is needed.
	Purpose string
}

// CheckToolAvailable checks if a tool is available in the system PATH.
func CheckToolAvailable(tool string) error {
	if _, err := execLookPath(tool); err != nil {
		return fmt.Errorf("%s not found in PATH", tool)
	}
	return nil
}

// CheckRequiredTools verifies all required tools are available.
//
// # Behavior
//
//   - Checks the primary tool name first
//   - If not found, tries each alternative tool in order
//   - Optional tools are checked but don't cause errors
//   - Returns all missing required tools in a single *MissingToolsError
func CheckRequiredTools(requirements []ToolRequirement) error {
	var missingTools []string

	for _, req := range requirements {
		// Try the primary tool
		found := CheckToolAvailable(req.Name) == nil

		// If not found, try alternatives
		for _, alt := range req.Alternatives {
			if found {
				break
			}
			found = CheckToolAvailable(alt) == nil
		}

		if !found && !req.Optional {
			if req.Purpose != "" {
				missingTools = append(missingTools, fmt.Sprintf("%s (%s)", req.Name, req.Purpose))
			} else {
				missingTools = append(missingTools, req.Name)
			}
		}
	}

	if len(missingTools) == 0 {
		return nil
	}
	return &MissingToolsError{Tools: missingTools}
}
