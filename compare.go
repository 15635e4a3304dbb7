// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// vqcompare default command: compare reference and distorted videos.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/evolution-gaming/vqcompare/internal/analysis"
	"github.com/evolution-gaming/vqcompare/internal/logging"
	"github.com/evolution-gaming/vqcompare/internal/report"
	"github.com/evolution-gaming/vqcompare/internal/source"
	"github.com/evolution-gaming/vqcompare/internal/vqm"
	"github.com/spf13/pflag"
)

// CreateCompareCommand will create Commander instance from CompareApp.
func CreateCompareCommand() *CompareApp {
	longHelp := `Compare quality of distorted video against reference video. Reference is either a
local file (--reference) or a YouTube video downloaded with yt-dlp (--youtube).
Metrics are calculated by ffmpeg-quality-metrics and report is printed to stdout.

Examples:

  vqcompare --reference ref.mp4 --distorted dist.mp4
  vqcompare --youtube https://youtu.be/xyz --distorted dist.mp4 --metrics vmaf,psnr,ssim
  vqcompare --reference ref.mp4 --distorted dist.mp4 --metrics vmaf psnr --plot vmaf.png`

	app := &CompareApp{
		fs:     pflag.NewFlagSet("vqcompare", pflag.ContinueOnError),
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	// Keep flags in help in definition order.
	app.fs.SortFlags = false
	app.fs.StringVar(&app.flReference, "reference", "", "Path to reference video file")
	app.fs.StringVar(&app.flYoutube, "youtube", "", "YouTube URL to download reference video from")
	app.fs.StringVar(&app.flDistorted, "distorted", "", "Path to distorted video file (mandatory)")
	app.fs.StringVar(&app.flYoutubeOutput, "youtube-output", "",
		fmt.Sprintf("Where to save downloaded YouTube video (default %s)", source.DefaultDownloadPath()))
	app.fs.StringSliceVar(&app.flMetrics, "metrics", nil, "Metrics to calculate: vmaf, psnr, ssim (default vmaf)")
	app.fs.StringVar(&app.flPlot, "plot", "", "Save per-frame VMAF plot to PNG file (optional)")
	app.fs.StringVar(&app.flFramesCSV, "frames-csv", "", "Save per-frame metrics to CSV file (optional)")
	app.gf.Register(app.fs)
	app.fs.Usage = func() {
		printSubCommandUsage(app.errOut, longHelp, app.fs)
	}

	return app
}

// Make sure CompareApp implements Commander interface.
var _ Commander = (*CompareApp)(nil)

// CompareApp is command application context that implements Commander interface.
type CompareApp struct {
	// Report destination
	out io.Writer
	// Usage and downloader output destination
	errOut io.Writer
	// FlagSet instance
	fs *pflag.FlagSet
	gf globalFlags
	// Effective configuration, available after init
	cfg     Config
	metrics []vqm.MetricName

	flReference     string
	flYoutube       string
	flDistorted     string
	flYoutubeOutput string
	flMetrics       []string
	flPlot          string
	flFramesCSV     string
}

func (a *CompareApp) Name() string {
	return a.fs.Name()
}

func (a *CompareApp) Help() {
	a.fs.Usage()
}

// usageError prints help and returns AppError with usage exit code.
func (a *CompareApp) usageError(format string, v ...any) error {
	a.Help()
	return &AppError{exitCode: 2, msg: fmt.Sprintf(format, v...)}
}

// init will do App state initialization.
func (a *CompareApp) init(args []string) error {
	if err := parseFlags(a.fs, args); err != nil {
		return err
	}

	if a.gf.Debug {
		logging.EnableDebugLogger()
	}

	// Exactly one reference source.
	switch {
	case a.flReference != "" && a.flYoutube != "":
		return a.usageError("options --reference and --youtube are mutually exclusive")
	case a.flReference == "" && a.flYoutube == "":
		return a.usageError("one of --reference or --youtube is required")
	}

	if a.flDistorted == "" {
		return a.usageError("mandatory option --distorted is missing")
	}

	if a.flYoutubeOutput != "" && a.flYoutube == "" {
		logging.Infof("Option --youtube-output ignored without --youtube: %s", a.flYoutubeOutput)
	}

	metrics, err := vqm.ParseMetrics(metricArgs(a.flMetrics, a.fs.Args()))
	if err != nil {
		return a.usageError("invalid --metrics: %s", err)
	}
	a.metrics = metrics

	cfg, err := LoadConfig(a.gf.ConfFile)
	if err != nil {
		return failure(err)
	}
	if err := cfg.Verify(); err != nil {
		return failure(err)
	}
	a.cfg = cfg
	logging.Debugf("Effective configuration: %+v", a.cfg.SourceConfig())

	return nil
}

// Run is main entry point into App execution.
func (a *CompareApp) Run(args []string) error {
	if err := a.init(args); err != nil {
		return err
	}

	resolver := source.NewResolver(a.cfg.SourceConfig())
	resolver.Stdout = a.errOut
	resolver.Stderr = a.errOut
	reference, err := resolver.Resolve(source.Spec{
		Path:   a.flReference,
		URL:    a.flYoutube,
		Output: a.flYoutubeOutput,
	})
	if err != nil {
		return failure(err)
	}

	for _, f := range []string{reference, a.flDistorted} {
		if !fileExists(f) {
			return &AppError{exitCode: 1, msg: fmt.Sprintf("Video file not found: %s", f)}
		}
	}

	engine, err := vqm.NewEngine(a.cfg.EngineConfig())
	if err != nil {
		return failure(err)
	}

	result, err := engine.Compare(reference, a.flDistorted, a.metrics)
	if err != nil {
		return failure(err)
	}

	if err := report.New(a.out).Write(result); err != nil {
		return failure(err)
	}

	if a.flPlot != "" {
		if err := a.savePlot(result); err != nil {
			return failure(err)
		}
	}

	if a.flFramesCSV != "" {
		if err := analysis.SaveFrameMetricsCSV(a.flFramesCSV, vqm.FrameMetricsFromResult(result)); err != nil {
			return failure(fmt.Errorf("frames CSV: %w", err))
		}
		logging.Infof("Per-frame metrics saved to: %s", a.flFramesCSV)
	}

	return nil
}

// metricArgs joins --metrics values with positional arguments: names following
// --metrics end up as the latter. Result never shares memory with inputs.
func metricArgs(flagged, positional []string) []string {
	names := make([]string, 0, len(flagged)+len(positional))
	names = append(names, flagged...)
	return append(names, positional...)
}

// savePlot creates per-frame VMAF plot, skipping when there is nothing to plot.
func (a *CompareApp) savePlot(result vqm.Result) error {
	raw, ok := result.Get(string(vqm.VMAF))
	if !ok {
		logging.Info("No VMAF result, plot skipped")
		return nil
	}
	vmaf, err := vqm.DecodeVMAF(raw)
	if err != nil || len(vmaf.Frames) == 0 {
		logging.Info("No per-frame VMAF values, plot skipped")
		return nil
	}

	values, _ := vqm.FrameValues(vmaf.Frames, vqm.VMAF)
	title := filepath.Base(a.flDistorted)
	if err := analysis.MultiPlotVqm(values, vqm.VMAF, title, a.flPlot); err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	logging.Infof("VMAF plot saved to: %s", a.flPlot)

	return nil
}
