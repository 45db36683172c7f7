package hdlcore

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// BuildError creates a standardized build error with output context.
//
// The stage names what was being built (e.g., "Verilator testbench"); output
// holds the commands issued before the failure, one per line.
//
// # Format
//
// With error and output:
//
//	Verilator testbench build failed: C compilation failed for dut.c: ...
//
//	Commands issued:
//	gcc -c -std=c99 -I/src /src/uart/dut.c
//
// With error but no output:
//
//	Verilator testbench build failed: unsupported source type "bogus"
func BuildError(stage string, output []string, err error) error {
	var prefix string
	if err != nil {
		prefix = fmt.Sprintf("%s build failed: %v", stage, err)
	} else {
		prefix = fmt.Sprintf("%s build failed", stage)
	}

	if len(output) > 0 {
		return fmt.Errorf("%s\n\nCommands issued:\n%s", prefix, strings.Join(output, "\n"))
	}

	return fmt.Errorf("%s", prefix)
}

// uniqueStrings drops empty and repeated values, keeping first occurrences in order.
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{})
	result := []string{}

	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}

	return result
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
