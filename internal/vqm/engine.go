// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Contains implementation of VQM tool that shells out to an external metrics
// engine (ffmpeg-quality-metrics) along with related data structures.

package vqm

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"

	"github.com/evolution-gaming/vqcompare/internal/logging"
	"github.com/evolution-gaming/vqcompare/internal/lw"
	"github.com/evolution-gaming/vqcompare/internal/tools"
)

const (
	DefaultEnginePath = "ffmpeg-quality-metrics"
	// Per-frame JSON of a long video is large, but it has to be parsed in full.
	stdoutBufferSize = 512 * 1024 * 1024
	// Stderr is only diagnostics (and progress bars), keep the head of it.
	stderrBufferSize = 5 * 1024 * 1024
)

var (
	ErrEngineNotFound    = errors.New("metrics engine not found")
	ErrEngineFailed      = errors.New("metrics engine failed")
	ErrUnparseableOutput = errors.New("metrics engine output is not valid JSON")
)

// EngineConfig exposes parameters for Engine creation.
type EngineConfig struct {
	// Engine executable name or path
	EnginePath string
	// Additional engine arguments appended after metric selection, split with
	// shell quoting rules
	ExtraArgs string
}

// Engine runs the external metrics engine for a pair of videos.
type Engine struct {
	// Path to engine executable
	exePath   string
	extraArgs []string
}

// NewEngine locates engine executable and prepares Engine.
func NewEngine(cfg *EngineConfig) (*Engine, error) {
	name := cfg.EnginePath
	if name == "" {
		name = DefaultEnginePath
	}
	exePath, err := tools.FindTool(name, tools.EngineEnvVar)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEngineNotFound, err)
	}

	extra, err := tools.SplitArgs(cfg.ExtraArgs)
	if err != nil {
		return nil, fmt.Errorf("NewEngine() extra arguments: %w", err)
	}

	return &Engine{exePath: exePath, extraArgs: extra}, nil
}

// Args returns engine command line arguments for given inputs.
func (e *Engine) Args(reference, distorted string, metrics []MetricName) []string {
	args := make([]string, 0, 3+len(metrics)+len(e.extraArgs))
	args = append(args, reference, distorted, "--metrics")
	for _, m := range metrics {
		args = append(args, string(m))
	}
	return append(args, e.extraArgs...)
}

// Compare runs the engine and parses its output. It blocks until engine exits.
func (e *Engine) Compare(reference, distorted string, metrics []MetricName) (Result, error) {
	var stdout, stderr bytes.Buffer
	stderrWriter := lw.TruncateWriter(&stderr, stderrBufferSize)

	cmd := exec.Command(e.exePath, e.Args(reference, distorted, metrics)...) //#nosec G204
	cmd.Stdout = lw.LimitWriter(&stdout, stdoutBufferSize)
	cmd.Stderr = stderrWriter

	logging.Infof("Running comparison between:")
	logging.Infof("Reference:  %s", reference)
	logging.Infof("Distorted:  %s", distorted)
	logging.Infof("Using metrics: %s", joinMetrics(metrics, " "))
	logging.Debugf("Metrics engine command: %v", cmd.Args)

	if err := cmd.Run(); err != nil {
		if stderrWriter.Truncated() {
			logging.Debugf("Metrics engine stderr truncated to %d bytes", stderrBufferSize)
		}
		return Result{}, fmt.Errorf("%w: %s\nCommand output: %s", ErrEngineFailed, err, stderr.Bytes())
	}
	logging.Debugf("Metrics engine stderr:\n%s", stderr.Bytes())

	res, err := ParseResult(stdout.Bytes())
	if err != nil {
		logging.Debugf("Parsing engine output: %s", err)
		return Result{}, fmt.Errorf("%w. Raw output: %s", ErrUnparseableOutput, stdout.Bytes())
	}

	return res, nil
}
