package selection

import (
	"fmt"
	"strings"
)

// Platform is the operating system of the host that will run the tests.
// It is always passed in explicitly so one binary can plan for any host.
type Platform string

const (
	PlatformLinux   Platform = "linux"
	PlatformWindows Platform = "windows"
	PlatformMacOS   Platform = "macos"
)

// ParsePlatform accepts platform names and GOOS spellings.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linux":
		return PlatformLinux, nil
	case "windows":
		return PlatformWindows, nil
	case "macos", "darwin":
		return PlatformMacOS, nil
	default:
		return "", fmt.Errorf("unsupported host platform: %q (valid: linux, windows, macos)", s)
	}
}
