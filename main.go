// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Main entrypoint for vqcompare application

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/evolution-gaming/vqcompare/internal/logging"
)

const usage = `vqcompare - Video Quality Comparison

Compares two videos with ffmpeg-quality-metrics (VMAF, PSNR, SSIM). The reference
video can also be downloaded from YouTube with yt-dlp.

Usage:

    vqcompare (--reference <path> | --youtube <url>) --distorted <path> [flags]
    vqcompare <command> [arguments] [-h|--help]

The commands are:

    dump-conf   output actual application configuration
    version     print vqcompare version and exit

Use "vqcompare --help" for comparison flags and "vqcompare <command> --help" for
more information about command.`

// root represents top level of vqcompare command, including dispatching to subcommands.
func root(args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, usage)
		return &AppError{msg: "please, specify reference and distorted videos", exitCode: 2}
	}

	switch args[0] {
	case "dump-conf", "dump":
		return CreateDumpConfCommand().Run(args[1:])
	case "version":
		printVersion()
		return nil
	case "help", "?":
		fmt.Fprintln(os.Stderr, usage)
		return nil
	default:
		// Comparison is the default action, anything else is its flags.
		return CreateCompareCommand().Run(args)
	}
}

func main() {
	// Enable info logger by default and early enough.
	logging.EnableInfoLogger()

	if err := root(os.Args[1:]); err != nil {
		var e *AppError
		if errors.As(err, &e) {
			if e.Error() != "" {
				fmt.Fprintf(os.Stderr, "Error: %v\n", e)
			}
			os.Exit(e.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}
