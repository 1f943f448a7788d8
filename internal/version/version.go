// Package version reports the themec build version.
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	// Set at build time via ldflags
	Version = "dev"
	Commit  = ""
)

// Get returns the release version, falling back to the module version
// recorded in the binary
func Get() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return Version
}

// String returns the version with an abbreviated commit, if known
func String() string {
	v := Get()
	if Commit == "" {
		return v
	}
	commit := Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (%s)", v, commit)
}
