// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Locating and invoking external tools.
package tools

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Environment variables that take precedence over configured executables.
const (
	DownloaderEnvVar = "VQCOMPARE_DOWNLOADER"
	EngineEnvVar     = "VQCOMPARE_ENGINE"
)

var ErrToolNotFound = errors.New("tool not found")

// FindTool will find tool executable in $PATH with possibility to override it
// via environment variable.
//
// The exeName can also be a path (absolute or relative), in which case it is
// checked directly instead of being searched in $PATH.
func FindTool(exeName, overrideEnvVar string) (string, error) {
	// First check for executable in case it's overridden via env variable.
	if overrideEnvVar != "" {
		if p := os.Getenv(overrideEnvVar); p != "" {
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}
	}

	if exeName == "" {
		return "", fmt.Errorf("empty executable name: %w", ErrToolNotFound)
	}

	if p, err := exec.LookPath(exeName); err == nil {
		return p, nil
	}

	// So we did not find any traces of executable - error out!
	return "", fmt.Errorf("binary (%s): %w", exeName, ErrToolNotFound)
}
