// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Application configuration structures.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/evolution-gaming/vqcompare/internal/logging"
	"github.com/evolution-gaming/vqcompare/internal/source"
	"github.com/evolution-gaming/vqcompare/internal/tools"
	"github.com/evolution-gaming/vqcompare/internal/vqm"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config represent application configuration.
type Config struct {
	DownloaderPath     ConfigVal[string] `json:"downloader_path,omitempty" yaml:"downloader_path,omitempty"`
	DownloaderTemplate ConfigVal[string] `json:"downloader_args_template,omitempty" yaml:"downloader_args_template,omitempty"`
	DownloadPath       ConfigVal[string] `json:"download_path,omitempty" yaml:"download_path,omitempty"`
	EnginePath         ConfigVal[string] `json:"engine_path,omitempty" yaml:"engine_path,omitempty"`
	EngineExtraArgs    ConfigVal[string] `json:"engine_extra_args,omitempty" yaml:"engine_extra_args,omitempty"`
}

// Verify will check that configuration is valid.
//
// Only the shape of options is checked here. Whether executables can be
// located is up to the stage that needs them: downloader is only required for
// remote reference videos.
func (c *Config) Verify() error {
	msgs := []string{}
	if c.DownloaderPath.Value() == "" {
		msgs = append(msgs, "empty downloader path")
	}
	// Template should render with all placeholders known.
	tplCheck := struct{ URL, OutputFile string }{"https://example.com/v", "out.mp4"}
	if _, err := tools.RenderArgs(c.DownloaderTemplate.Value(), tplCheck); err != nil || c.DownloaderTemplate.Value() == "" {
		msgs = append(msgs, "invalid downloader arguments template")
	}
	if c.DownloadPath.Value() == "" {
		msgs = append(msgs, "empty download path")
	}
	if c.EnginePath.Value() == "" {
		msgs = append(msgs, "empty metrics engine path")
	}
	if _, err := tools.SplitArgs(c.EngineExtraArgs.Value()); err != nil {
		msgs = append(msgs, "invalid metrics engine extra arguments")
	}

	if len(msgs) != 0 {
		return fmt.Errorf("%s: %w", strings.Join(msgs, ", "), ErrInvalidConfig)
	}
	return nil
}

// OverrideFrom will overwrite fields from given Config object.
//
// Only fields that are "not-nil" (as per IsNil() method) in src Config object will be
// overwritten.
func (c *Config) OverrideFrom(src Config) {
	// TODO: some way to iterate over fields and set them (reflection?) otherwise need to
	// remember to update this method when new  fields are added.
	if !src.DownloaderPath.IsNil() {
		c.DownloaderPath = src.DownloaderPath
	}
	if !src.DownloaderTemplate.IsNil() {
		c.DownloaderTemplate = src.DownloaderTemplate
	}
	if !src.DownloadPath.IsNil() {
		c.DownloadPath = src.DownloadPath
	}
	if !src.EnginePath.IsNil() {
		c.EnginePath = src.EnginePath
	}
	if !src.EngineExtraArgs.IsNil() {
		c.EngineExtraArgs = src.EngineExtraArgs
	}
}

// SourceConfig returns configuration for source.Resolver.
func (c *Config) SourceConfig() source.Config {
	return source.Config{
		DownloaderPath:     c.DownloaderPath.Value(),
		DownloaderTemplate: c.DownloaderTemplate.Value(),
		DownloadPath:       c.DownloadPath.Value(),
	}
}

// EngineConfig returns configuration for vqm.Engine.
func (c *Config) EngineConfig() *vqm.EngineConfig {
	return &vqm.EngineConfig{
		EnginePath: c.EnginePath.Value(),
		ExtraArgs:  c.EngineExtraArgs.Value(),
	}
}

// loadDefaultConfig will create a default configuration.
func loadDefaultConfig() Config {
	return Config{
		DownloaderPath:     NewConfigVal(source.DefaultDownloaderPath),
		DownloaderTemplate: NewConfigVal(source.DefaultDownloaderTemplate),
		DownloadPath:       NewConfigVal(source.DefaultDownloadPath()),
		EnginePath:         NewConfigVal(vqm.DefaultEnginePath),
		EngineExtraArgs:    NewConfigVal(""),
	}
}

// loadConfigFromFile will load configuration from file.
//
// Format is picked by file extension: JSON or YAML.
func loadConfigFromFile(f string) (cfg Config, err error) {
	fileExt := strings.ToLower(filepath.Ext(f))
	switch fileExt {
	case ".json":
		return loadJSON(f)
	case ".yaml", ".yml":
		return loadYAML(f)
	default:
		return cfg, fmt.Errorf("unknown config format: %s", fileExt)
	}
}

// LoadConfig will return merged default config and config from file. This is main
// function to use for config loading. Configuration file is optional e.g. can be "".
func LoadConfig(configFile string) (cfg Config, err error) {
	cfg = loadDefaultConfig()

	// Load configuration from file and override default configuration options.
	if configFile != "" {
		c, err := loadConfigFromFile(configFile)
		if err != nil {
			return cfg, err
		}
		// Configuration file can specify full set or partial set of configuration
		// options. So we only want to override those options that have been specified in
		// config file, rest will remain as per default config.
		cfg.OverrideFrom(c)
	}

	return cfg, nil
}

func readConfigFile(f string) ([]byte, error) {
	b, err := os.ReadFile(f)
	if err != nil {
		return nil, fmt.Errorf("config from file: %w", err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("config file is empty: %w", ErrInvalidConfig)
	}
	return b, nil
}

func loadJSON(f string) (cfg Config, err error) {
	b, err := readConfigFile(f)
	if err != nil {
		return cfg, err
	}

	if err = json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config from JSON document: %w", err)
	}

	return cfg, nil
}

func loadYAML(f string) (cfg Config, err error) {
	b, err := readConfigFile(f)
	if err != nil {
		return cfg, err
	}

	if err = yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config from YAML document: %w", err)
	}

	return cfg, nil
}

// In order to support Config overriding we have to implement wrapper type for Config
// fields. Otherwise it is hard to distinguish skipped fields, for instance when loading
// partial configuration from file: in that case it would be impossible to  distinguish
// between say string fields zero value and empty string values as explicitly specified in
// configuration file.

// NewConfigVal is constructor for ConfigVal. It will wrap its argument into ConfigVal.
func NewConfigVal[T any](v T) ConfigVal[T] {
	return ConfigVal[T]{v: &v}
}

// ConfigVal is a wrapper for Config field value.
type ConfigVal[T any] struct {
	// Store wrapped value as pointer in order to have ability to distinguish between
	// unspecified ConfigVal and a value that is the same as zero value for wrapped type.
	// In this case a zero value for pointer is nil.
	//
	// For example a zero value for string is "" which is impossible to distinguish from
	// explicit empty string "".
	v *T
}

// Value will return wrapped value.
//
// In case field has not been defined e.g. is zero value, then appropriate zero value of
// wrapped type will be returned.
func (o *ConfigVal[T]) Value() T {
	if o.IsNil() {
		var v T
		return v
	}
	return *o.v
}

// IsNil check if wrapped value is nil.
func (o *ConfigVal[T]) IsNil() bool {
	// Zero value for pointer type is nil.
	return o.v == nil
}

// UnmarshalJSON implements json.Unmarshaler interface for ConfigVal.
func (o *ConfigVal[T]) UnmarshalJSON(b []byte) error {
	var val T
	err := json.Unmarshal(b, &val)
	if err != nil {
		return err
	}
	o.v = &val
	return nil
}

// MarshalJSON implements json.Marshaler interface for ConfigVal.
func (o ConfigVal[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value())
}

// UnmarshalYAML implements yaml.Unmarshaler interface for ConfigVal.
func (o *ConfigVal[T]) UnmarshalYAML(node *yaml.Node) error {
	var val T
	if err := node.Decode(&val); err != nil {
		return err
	}
	o.v = &val
	return nil
}

// MarshalYAML implements yaml.Marshaler interface for ConfigVal.
func (o ConfigVal[T]) MarshalYAML() (interface{}, error) {
	return o.Value(), nil
}

// IsZero lets YAML omitempty skip unspecified values.
func (o ConfigVal[T]) IsZero() bool {
	return o.v == nil
}

func CreateDumpConfCommand() *DumpConfApp {
	longHelp := `Command "dump-conf" will print actual application configuration taking into account
configuration file provided and default configuration values.

Examples:

	vqcompare dump-conf
	vqcompare dump-conf --conf path/to/config.yaml --format yaml`

	app := &DumpConfApp{
		fs:     pflag.NewFlagSet("dump-conf", pflag.ContinueOnError),
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	app.gf.Register(app.fs)
	app.fs.StringVar(&app.flFormat, "format", "json", "Output format: json or yaml")
	app.fs.Usage = func() {
		printSubCommandUsage(app.errOut, longHelp, app.fs)
	}

	return app
}

// Also define command "dump-conf" here.

// Make sure App implements Commander interface.
var _ Commander = (*DumpConfApp)(nil)

// DumpConfApp is subcommand application context that implements Commander interface.
// Although this is very simple application, but for consistency sake is is implemented in
// similar style as other subcommands.
type DumpConfApp struct {
	out      io.Writer
	errOut   io.Writer
	fs       *pflag.FlagSet
	gf       globalFlags
	flFormat string
}

func (d *DumpConfApp) Name() string {
	return d.fs.Name()
}

func (d *DumpConfApp) Help() {
	d.fs.Usage()
}

// Run is main entry point into DumpConfApp execution.
func (d *DumpConfApp) Run(args []string) error {
	if err := parseFlags(d.fs, args); err != nil {
		return err
	}

	if d.gf.Debug {
		logging.EnableDebugLogger()
	}

	// Load application configuration.
	cfg, err := LoadConfig(d.gf.ConfFile)
	if err != nil {
		return failure(err)
	}

	switch strings.ToLower(d.flFormat) {
	case "json":
		enc := json.NewEncoder(d.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			return failure(err)
		}
	case "yaml", "yml":
		enc := yaml.NewEncoder(d.out)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return failure(err)
		}
		if err := enc.Close(); err != nil {
			return failure(err)
		}
	default:
		d.Help()
		return &AppError{exitCode: 2, msg: fmt.Sprintf("unknown format %q", d.flFormat)}
	}

	// Also, report if configuration is valid.
	if err := cfg.Verify(); err != nil {
		return &AppError{exitCode: 1, msg: fmt.Sprintf("configuration validation: %s", err), err: err}
	}

	return nil
}
