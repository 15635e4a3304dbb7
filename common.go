// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Reusable parts of vqcompare application and subcommand infrastructure.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

// Commander interface should be implemented by commands and sub-commands.
type Commander interface {
	Run([]string) error
	Name() string
	Help()
}

// AppError a custom error returned from CLI application.
//
// AppError is handy error type envisioned to be used in CLI's main.
// ExitCode() should be used as argument for os.Exit().
type AppError struct {
	msg      string
	exitCode int
	// Underlying cause, if any
	err error
}

// Error implements error interface for AppError.
func (e *AppError) Error() string {
	return e.msg
}

// ExitCode returns CLI application's exit code.
func (e *AppError) ExitCode() int {
	return e.exitCode
}

// Unwrap allows errors.Is/As to reach the cause.
func (e *AppError) Unwrap() error {
	return e.err
}

// failure wraps a runtime error into AppError with exit code 1.
func failure(err error) *AppError {
	return &AppError{msg: err.Error(), exitCode: 1, err: err}
}

// parseFlags parses subcommand flags and maps errors to usage AppError.
//
// A request for help is not a failure, it results in AppError with exit code 0.
func parseFlags(fs *pflag.FlagSet, args []string) error {
	err := fs.Parse(args)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pflag.ErrHelp):
		return &AppError{exitCode: 0}
	default:
		return &AppError{
			exitCode: 2,
			msg:      fmt.Sprintf("%s usage error: %s", fs.Name(), err),
			err:      err,
		}
	}
}

// printSubCommandUsage helper to format and print subcommand's usage.
func printSubCommandUsage(out io.Writer, longHelp string, fs *pflag.FlagSet) {
	fmt.Fprintf(out, "Usage of %s:\n\n", fs.Name())
	fmt.Fprintf(out, "%s\n\n", longHelp)
	fmt.Fprint(out, fs.FlagUsages())
}

// fileExists reports whether anything exists at path.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
