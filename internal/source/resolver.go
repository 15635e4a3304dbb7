// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package source resolves the reference video to a local file, downloading it
// with an external downloader (yt-dlp) when a URL is given.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/evolution-gaming/vqcompare/internal/logging"
	"github.com/evolution-gaming/vqcompare/internal/tools"
)

const (
	DefaultDownloaderPath = "yt-dlp"
	// Template is split into arguments first and rendered per argument, so
	// placeholders must not contain spaces.
	DefaultDownloaderTemplate = `-f "bestvideo[ext=mp4]+bestaudio[ext=m4a]/mp4" {{.URL}} -o {{.OutputFile}}`
	defaultDownloadName       = "youtube_download.mp4"
)

var (
	ErrDownloaderNotFound = errors.New("downloader not found")
	ErrDownloaderFailed   = errors.New("downloader failed")
)

// DefaultDownloadPath returns location used for downloads when none is given.
func DefaultDownloadPath() string {
	return filepath.Join(os.TempDir(), defaultDownloadName)
}

// Spec describes where the reference video comes from: either a local Path or
// a remote URL with optional Output path.
type Spec struct {
	Path   string
	URL    string
	Output string
}

// IsRemote reports whether video has to be downloaded.
func (s Spec) IsRemote() bool {
	return s.URL != ""
}

// Config exposes parameters for Resolver creation.
type Config struct {
	// Downloader executable name or path
	DownloaderPath string
	// Downloader arguments template with {{.URL}} and {{.OutputFile}} placeholders
	DownloaderTemplate string
	// Output path when Spec does not specify one
	DownloadPath string
}

// Resolver turns Spec into a local file path.
type Resolver struct {
	cfg Config
	// Downloader's output goes here, keep it off the report's stdout.
	Stdout io.Writer
	Stderr io.Writer
}

// NewResolver creates Resolver, unset Config fields get defaults.
func NewResolver(cfg Config) *Resolver {
	if cfg.DownloaderPath == "" {
		cfg.DownloaderPath = DefaultDownloaderPath
	}
	if cfg.DownloaderTemplate == "" {
		cfg.DownloaderTemplate = DefaultDownloaderTemplate
	}
	if cfg.DownloadPath == "" {
		cfg.DownloadPath = DefaultDownloadPath()
	}
	return &Resolver{cfg: cfg, Stdout: io.Discard, Stderr: io.Discard}
}

// Resolve returns local path for reference video.
//
// Local paths are passed through without any side effects. Remote videos are
// downloaded synchronously and the path downloader was instructed to write to
// is returned: whether file actually materialized is for the caller to check.
func (r *Resolver) Resolve(s Spec) (string, error) {
	if !s.IsRemote() {
		return s.Path, nil
	}

	out := s.Output
	if out == "" {
		out = r.cfg.DownloadPath
	}
	if err := r.download(s.URL, out); err != nil {
		return "", err
	}
	return out, nil
}

func (r *Resolver) download(url, outputFile string) error {
	exePath, err := tools.FindTool(r.cfg.DownloaderPath, tools.DownloaderEnvVar)
	if err != nil {
		return fmt.Errorf("%w: %s (install it with: pip install yt-dlp)", ErrDownloaderNotFound, err)
	}

	// Template requires a struct with exported fields.
	tplContext := struct {
		URL        string
		OutputFile string
	}{
		URL:        url,
		OutputFile: outputFile,
	}
	args, err := tools.RenderArgs(r.cfg.DownloaderTemplate, tplContext)
	if err != nil {
		return fmt.Errorf("prepare downloader command: %w", err)
	}

	logging.Infof("Downloading YouTube video from: %s", url)
	logging.Infof("Saving to: %s", outputFile)

	cmd := exec.Command(exePath, args...) //#nosec G204
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	logging.Debugf("Downloader command: %v", cmd.Args)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s", ErrDownloaderFailed, err)
	}

	return nil
}
