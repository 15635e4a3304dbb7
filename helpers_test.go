// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Reusable helpers and fixtures for tests.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/evolution-gaming/vqcompare/internal/tools"
	"github.com/stretchr/testify/require"
)

// Engine output used by default in fake engine.
const fixEngineOutput = `{
  "vmaf": {
    "mean": 92.5,
    "frames": [
      {"n": 1, "metrics": {"vmaf": 90.0}},
      {"n": 2, "metrics": {"vmaf": 95.0}}
    ]
  },
  "psnr": {"psnr_avg": 45.12345, "frames": [{"psnr_avg": 44.0}, {"psnr_avg": 46.0}]}
}`

// fakeTools holds call logs of fake executables.
type fakeTools struct {
	dir           string
	downloaderLog string
	engineLog     string
}

// downloaderCalls returns argument lines from each downloader invocation.
func (f fakeTools) downloaderCalls(t *testing.T) []string {
	return readCallLog(t, f.downloaderLog)
}

// engineCalls returns argument lines from each engine invocation.
func (f fakeTools) engineCalls(t *testing.T) []string {
	return readCallLog(t, f.engineLog)
}

func readCallLog(t *testing.T, f string) []string {
	t.Helper()
	b, err := os.ReadFile(f)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(b)), "\n")
}

// fixFakeTools fixture puts fake yt-dlp and ffmpeg-quality-metrics on PATH.
//
// Fake downloader creates file given after -o flag unless downloaderExit is
// non-zero. Fake engine prints engineOutput to stdout and exits with
// engineExit.
func fixFakeTools(t *testing.T, downloaderExit int, engineOutput string, engineExit int) fakeTools {
	t.Helper()
	// Environment overrides would bypass PATH lookup.
	t.Setenv(tools.DownloaderEnvVar, "")
	t.Setenv(tools.EngineEnvVar, "")

	ft := fakeTools{dir: t.TempDir()}
	ft.downloaderLog = path.Join(ft.dir, "downloader.log")
	ft.engineLog = path.Join(ft.dir, "engine.log")
	t.Setenv("PATH", fmt.Sprintf("%s:%s", ft.dir, os.Getenv("PATH")))

	downloader := fmt.Sprintf(`#!/bin/sh
echo "$@" >> %q
[ %d -ne 0 ] && exit %d
out=""
while [ $# -gt 0 ]; do
	[ "$1" = "-o" ] && out="$2"
	shift
done
[ -n "$out" ] && : > "$out"
exit 0
`, ft.downloaderLog, downloaderExit, downloaderExit)

	engine := fmt.Sprintf(`#!/bin/sh
echo "$@" >> %q
cat <<'JSON'
%s
JSON
echo "engine diagnostics" >&2
exit %d
`, ft.engineLog, engineOutput, engineExit)

	writeExecutable(t, path.Join(ft.dir, "yt-dlp"), downloader)
	writeExecutable(t, path.Join(ft.dir, "ffmpeg-quality-metrics"), engine)

	return ft
}

func writeExecutable(t *testing.T, fPath, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(fPath, []byte(contents), fs.FileMode(0o755)))
}

// fixVideos fixture creates reference and distorted "video" files.
func fixVideos(t *testing.T) (reference, distorted string) {
	t.Helper()
	dir := t.TempDir()
	reference = path.Join(dir, "reference.mp4")
	distorted = path.Join(dir, "distorted.mp4")
	require.NoError(t, os.WriteFile(reference, []byte("ref"), fs.FileMode(0o644)))
	require.NoError(t, os.WriteFile(distorted, []byte("dist"), fs.FileMode(0o644)))
	return reference, distorted
}

// fixConfigFile fixture writes configuration file with given extension.
func fixConfigFile(t *testing.T, ext string, payload string) (fPath string) {
	t.Helper()
	fPath = path.Join(t.TempDir(), "config."+ext)
	require.NoError(t, os.WriteFile(fPath, []byte(payload), fs.FileMode(0o644)))
	return fPath
}
