// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Application version string related functionality.
//
// Works for binaries built via "go build" with version injected through "ldflags" and for
// binaries installed via "go install", in which case debug.BuildInfo is consulted.

package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"
)

// Value injected during build with -ldflags="-X main.version={ver}".
var (
	version string
	vInfo   = readVersionInfo(version, debug.ReadBuildInfo)
)

// versionInfo is struct that includes relevant version information.
type versionInfo struct {
	time     time.Time
	version  string
	revision string
	modified bool
}

func readVersionInfo(injected string, read func() (*debug.BuildInfo, bool)) versionInfo {
	v := versionInfo{version: injected}

	bi, ok := read()
	if !ok {
		if v.version == "" {
			v.version = "(devel)"
		}
		return v
	}

	if v.version == "" {
		v.version = bi.Main.Version
	}
	if v.version == "" {
		v.version = "(devel)"
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			v.revision = s.Value
		case "vcs.time":
			v.time, _ = time.Parse(time.RFC3339, s.Value)
		case "vcs.modified":
			v.modified = s.Value == "true"
		}
	}
	return v
}

func (v versionInfo) String() string {
	s := "vqcompare " + v.version
	if v.revision == "" {
		return s
	}
	rev := v.revision
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if v.modified {
		rev += "-dirty"
	}
	if v.time.IsZero() {
		return fmt.Sprintf("%s (%s)", s, rev)
	}
	return fmt.Sprintf("%s (%s %s)", s, rev, v.time.UTC().Format(time.RFC3339))
}

func writeVersion(w io.Writer) {
	fmt.Fprintln(w, vInfo)
}

func printVersion() {
	writeVersion(os.Stdout)
}
