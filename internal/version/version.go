// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

// Package version exposes the CLI's build identity.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Release builds inject these via -ldflags -X. Binaries from a plain
// go build or go install fall back to module build info below.
var (
	// Version is the semantic version, e.g. "0.1.0".
	Version = "dev"
	// Commit is the abbreviated git commit SHA.
	Commit = "none"
	// Date is the build date in RFC3339 format.
	Date = "unknown"
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == "none" && len(setting.Value) >= 7 {
				Commit = setting.Value[:7]
			}
		case "vcs.time":
			if Date == "unknown" {
				Date = setting.Value
			}
		}
	}
}

// Info returns the full one-line version report.
func Info() string {
	return fmt.Sprintf("declo %s (commit %s, built %s, %s)",
		Version, Commit, Date, runtime.Version())
}

// Short returns just the version string.
func Short() string {
	return Version
}
