// Package build assembles the process environment for cargo and nextest
// invocations.
//
// Commands built by the invocation package carry only their own overrides
// (for example CARGO_INCREMENTAL=0 on CI backends). Env layers those on top
// of the variables cargo and rustup need to locate toolchains, so every
// caller that spawns cargo gets the same environment.
package build

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"artifactplan/internal/logging"
)

// essentialVars are copied from the current process when set.
var essentialVars = []string{
	"CARGO_HOME",
	"RUSTUP_HOME",
	"RUSTUP_TOOLCHAIN",
	"CARGO_TARGET_DIR",
	"HOME",         // Required on Unix
	"USERPROFILE",  // Required on Windows
	"LOCALAPPDATA", // rustup state on Windows
	"SYSTEMROOT",
	"TEMP",
	"TMP",
	"TMPDIR",
}

// Env returns the environment for a cargo or nextest command. It merges:
// 1. PATH and the essential toolchain variables of the current process
// 2. The allowed pass-through variables
// 3. The command's own overrides, which win over everything else
func Env(allowed []string, overrides map[string]string) []string {
	env := baseCargoEnv()

	for _, key := range allowed {
		if val := os.Getenv(key); val != "" {
			env = setEnvKey(env, key, val)
			logging.BuildDebug("Added pass-through env: %s", key)
		}
	}

	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		env = setEnvKey(env, key, overrides[key])
		logging.BuildDebug("Added override env: %s=%s", key, overrides[key])
	}

	logging.BuildDebug("Final cargo environment has %d vars", len(env))
	return env
}

func baseCargoEnv() []string {
	env := []string{}

	if path := os.Getenv("PATH"); path != "" {
		env = append(env, "PATH="+path)
	}

	for _, key := range essentialVars {
		if val := os.Getenv(key); val != "" {
			env = append(env, key+"="+val)
		}
	}

	// rustup proxies fail without a resolvable CARGO_HOME.
	if !hasEnvKey(env, "CARGO_HOME") {
		if home := deriveCargoHome(); home != "" {
			env = append(env, "CARGO_HOME="+home)
			logging.BuildDebug("Derived CARGO_HOME: %s", home)
		}
	}

	return env
}

// deriveCargoHome mirrors cargo's own default: ~/.cargo.
func deriveCargoHome() string {
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".cargo")
	}
	if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
		return filepath.Join(userProfile, ".cargo")
	}
	return ""
}

// hasEnvKey checks if an environment key is already set.
func hasEnvKey(env []string, key string) bool {
	_, ok := Lookup(env, key)
	return ok
}

// setEnvKey sets or updates an environment variable.
func setEnvKey(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = key + "=" + value
			return env
		}
	}
	return append(env, key+"="+value)
}

// Lookup returns the value of key in env.
func Lookup(env []string, key string) (string, bool) {
	prefix := key + "="
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, prefix); ok {
			return v, true
		}
	}
	return "", false
}
