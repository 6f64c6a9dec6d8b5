// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// 🚀 VersionInfo is the build identity reported by --version
type VersionInfo struct {
	Version   string
	Revision  string
	BuildTime string
	Dirty     bool
	GoVersion string
	Platform  string
}

// GetVersionInfo assembles the binary's identity from the embedded build
// info. Binaries built outside a source checkout report "dev" with no
// revision.
func GetVersionInfo() *VersionInfo {
	info := &VersionInfo{
		Version:   "dev",
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	build, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if build.Main.Version != "" {
		info.Version = build.Main.Version
	}
	for _, setting := range build.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.Revision = setting.Value
		case "vcs.time":
			info.BuildTime = setting.Value
		case "vcs.modified":
			info.Dirty = setting.Value == "true"
		}
	}
	return info
}

// FormatVersion renders the --version output
func FormatVersion() string {
	info := GetVersionInfo()

	revision := info.Revision
	if revision == "" {
		revision = "unknown"
	}
	if info.Dirty {
		revision += " (modified)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🚀 zipmerge version info:\n")
	fmt.Fprintf(&b, "Version:   %s\n", info.Version)
	fmt.Fprintf(&b, "Revision:  %s\n", revision)
	if info.BuildTime != "" {
		fmt.Fprintf(&b, "Built:     %s\n", info.BuildTime)
	}
	fmt.Fprintf(&b, "Go:        %s\n", info.GoVersion)
	fmt.Fprintf(&b, "Platform:  %s\n", info.Platform)
	return b.String()
}
