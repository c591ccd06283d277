// Package invocation builds the argument vectors for the two cargo runs a
// resolution request needs: listing the tests a filter selects, and running
// the test binary in manifest mode so each test reports the artifacts it
// requires. Building an invocation cannot fail; it is pure data.
package invocation

import (
	"sort"
	"strings"
)

// Invocation is a fully assembled command line plus its environment
// overrides.
type Invocation struct {
	Program string            `json:"program" yaml:"program"`
	Args    []string          `json:"args" yaml:"args"`
	Env     map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
}

// String renders the invocation for display, environment first.
func (i Invocation) String() string {
	parts := make([]string, 0, len(i.Env)+1+len(i.Args))
	keys := make([]string, 0, len(i.Env))
	for k := range i.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+i.Env[k])
	}
	parts = append(parts, i.Program)
	parts = append(parts, i.Args...)
	return strings.Join(parts, " ")
}

// cargoCommand prefixes subcommand with a rustup toolchain selector when one
// is configured.
func cargoCommand(toolchain string, subcommand ...string) (string, []string) {
	if toolchain == "" {
		return "cargo", append([]string(nil), subcommand...)
	}
	args := []string{"run", toolchain, "cargo"}
	return "rustup", append(args, subcommand...)
}
