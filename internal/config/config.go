// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads the lzhamdec settings from the command line, the
// environment and an optional TOML file.
package config

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lzham-go/fastlzham/compress/lzham"
)

const (
	EnvVarPrefix = "LZHAMDEC"

	ModeStream = "stream"
	ModeMemory = "memory"

	DefaultDictSizeLog2 = 26
	DefaultMode         = ModeStream
	DefaultInChunkSize  = 64 * 1024
	DefaultOutChunkSize = 256 * 1024
	DefaultLogLevel     = "info"

	MinChunkSize = 1
	MaxChunkSize = 64 * 1024 * 1024
	MaxOutput    = 1 << 31
)

var (
	// VERSION gets set during build
	VERSION = "0.0.0"

	validModes = map[string]struct{}{
		ModeStream: {},
		ModeMemory: {},
	}
)

type Config struct {
	CLI  *CLI
	TOML *TOML
}

type TOML struct {
	Config  *TOMLConfig  `toml:"config"`
	Decoder *TOMLDecoder `toml:"decoder"`
	IO      *TOMLIO      `toml:"io"`
}

type TOMLConfig struct {
	LogLevel string `toml:"log_level"`
}

type TOMLDecoder struct {
	DictSizeLog2           uint32 `toml:"dict_size_log2"`
	UpdateRate             uint32 `toml:"update_rate"`
	MaxUpdateInterval      uint32 `toml:"max_update_interval"`
	UpdateIntervalSlowRate uint32 `toml:"update_interval_slow_rate"`
	Adler32                bool   `toml:"adler32"`
	Zlib                   bool   `toml:"zlib"`
	SeedFile               string `toml:"seed_file"`
}

type TOMLIO struct {
	Mode         string `toml:"mode"`
	InChunkSize  int    `toml:"in_chunk_size"`
	OutChunkSize int    `toml:"out_chunk_size"`
	// OutputSize is the destination capacity in memory mode; zero lets the
	// output grow.
	OutputSize int `toml:"output_size"`
}

type CLI struct {
	ConfigFile string `kong:"help='Path to the TOML config file',type='path',short='c'"`
	File       string `kong:"help='Input file, stdin when empty',short='f'"`
	Output     string `kong:"help='Output file, stdout when empty',short='o'"`

	DictSizeLog2 uint32 `kong:"help='Log2 of the dictionary size',short='w'"`
	UpdateRate   uint32 `kong:"help='Table update rate class (1-20)',short='u'"`
	Adler32      bool   `kong:"help='Verify the Adler-32 trailer',short='a'"`
	Zlib         bool   `kong:"help='Expect a zlib header',short='z'"`
	SeedFile     string `kong:"help='File holding the seed dictionary',short='s'"`

	Mode         string `kong:"help='Decode mode: stream or memory',short='m'"`
	InChunkSize  int    `kong:"help='Input chunk size in stream mode'"`
	OutChunkSize int    `kong:"help='Output chunk size in stream mode'"`
	OutputSize   int    `kong:"help='Output capacity in memory mode'"`

	Debug   bool             `kong:"help='Enable debug output',short='d'"`
	Quiet   bool             `kong:"help='Disable showing config output',short='q'"`
	Version kong.VersionFlag `help:"Show version and exit" short:"v" env:"-"`

	// Internal bits
	Ctx *kong.Context `kong:"-"`
}

// NewConfig reads the configuration of the running process.
func NewConfig() (*Config, error) {
	// Attempt to load .env
	_ = godotenv.Load(".env")

	return New(os.Args[1:])
}

// New builds the configuration from args, the environment and the TOML file
// args may name. Command line values override the file.
func New(args []string) (*Config, error) {
	cli, err := readCLIArgs(args)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing CLI args")
	}

	tomlConfig := &TOML{}
	if cli.ConfigFile != "" {
		tomlConfig, err = readTOML(cli.ConfigFile)
		if err != nil {
			return nil, errors.Wrap(err, "error reading config file")
		}
	}

	applyCLI(cli, tomlConfig)

	if err := setTOMLDefaults(tomlConfig); err != nil {
		return nil, errors.Wrap(err, "error setting TOML defaults")
	}

	if err := validateTOML(tomlConfig); err != nil {
		return nil, errors.Wrap(err, "error validating TOML config")
	}

	return &Config{
		CLI:  cli,
		TOML: tomlConfig,
	}, nil
}

// Params returns the decoder parameters, with the seed file loaded.
func (c *Config) Params() (*lzham.Params, error) {
	d := c.TOML.Decoder
	p := &lzham.Params{
		DictSizeLog2:           d.DictSizeLog2,
		UpdateRate:             lzham.TableUpdateRate(d.UpdateRate),
		MaxUpdateInterval:      d.MaxUpdateInterval,
		UpdateIntervalSlowRate: d.UpdateIntervalSlowRate,
	}
	if d.Adler32 {
		p.Flags |= lzham.ComputeAdler32
	}
	if d.Zlib {
		p.Flags |= lzham.ReadZlibStream
	}
	if d.SeedFile != "" {
		seed, err := os.ReadFile(d.SeedFile)
		if err != nil {
			return nil, errors.Wrap(err, "error reading seed file")
		}
		p.SeedBytes = seed
	}
	return p, nil
}

// LogLevel returns the logrus level to run at.
func (c *Config) LogLevel() logrus.Level {
	if c.CLI.Debug {
		return logrus.DebugLevel
	}
	level, err := logrus.ParseLevel(c.TOML.Config.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func applyCLI(cli *CLI, t *TOML) {
	if t.Decoder == nil {
		t.Decoder = &TOMLDecoder{}
	}

	if t.IO == nil {
		t.IO = &TOMLIO{}
	}

	if cli.DictSizeLog2 != 0 {
		t.Decoder.DictSizeLog2 = cli.DictSizeLog2
	}

	if cli.UpdateRate != 0 {
		t.Decoder.UpdateRate = cli.UpdateRate
	}

	if cli.Adler32 {
		t.Decoder.Adler32 = true
	}

	if cli.Zlib {
		t.Decoder.Zlib = true
	}

	if cli.SeedFile != "" {
		t.Decoder.SeedFile = cli.SeedFile
	}

	if cli.Mode != "" {
		t.IO.Mode = cli.Mode
	}

	if cli.InChunkSize != 0 {
		t.IO.InChunkSize = cli.InChunkSize
	}

	if cli.OutChunkSize != 0 {
		t.IO.OutChunkSize = cli.OutChunkSize
	}

	if cli.OutputSize != 0 {
		t.IO.OutputSize = cli.OutputSize
	}
}

func setTOMLDefaults(t *TOML) error {
	if t == nil {
		return errors.New("toml config cannot be nil")
	}

	if t.Config == nil {
		t.Config = &TOMLConfig{}
	}

	if t.Decoder == nil {
		t.Decoder = &TOMLDecoder{}
	}

	if t.IO == nil {
		t.IO = &TOMLIO{}
	}

	if t.Config.LogLevel == "" {
		t.Config.LogLevel = DefaultLogLevel
	}

	// Set defaults for [decoder]
	if t.Decoder.DictSizeLog2 == 0 {
		t.Decoder.DictSizeLog2 = DefaultDictSizeLog2
	}

	// Set defaults for [io]
	if t.IO.Mode == "" {
		t.IO.Mode = DefaultMode
	}

	if t.IO.InChunkSize == 0 {
		t.IO.InChunkSize = DefaultInChunkSize
	}

	if t.IO.OutChunkSize == 0 {
		t.IO.OutChunkSize = DefaultOutChunkSize
	}

	return nil
}

func validateTOML(t *TOML) error {
	if t == nil {
		return errors.New("toml config cannot be nil")
	}

	// Validate [config]
	if err := validateTOMLConfig(t.Config); err != nil {
		return errors.Wrap(err, "config error(s)")
	}

	// Validate [decoder]
	if err := validateTOMLDecoder(t.Decoder); err != nil {
		return errors.Wrap(err, "decoder error(s)")
	}

	// Validate [io]
	if err := validateTOMLIO(t.IO); err != nil {
		return errors.Wrap(err, "io error(s)")
	}

	return nil
}

func validateTOMLConfig(c *TOMLConfig) error {
	if c == nil {
		return errors.New("config cannot be empty")
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Errorf("config.log_level %s is invalid", c.LogLevel)
	}

	return nil
}

func validateTOMLDecoder(d *TOMLDecoder) error {
	if d == nil {
		return errors.New("decoder cannot be empty")
	}

	p := &lzham.Params{
		DictSizeLog2:           d.DictSizeLog2,
		UpdateRate:             lzham.TableUpdateRate(d.UpdateRate),
		MaxUpdateInterval:      d.MaxUpdateInterval,
		UpdateIntervalSlowRate: d.UpdateIntervalSlowRate,
	}
	if err := p.Validate(); err != nil {
		return errors.Wrap(err, "decoder parameters are invalid")
	}

	if d.SeedFile == "" {
		return nil
	}

	// Check if .SeedFile exists
	info, err := os.Stat(d.SeedFile)
	if os.IsNotExist(err) {
		return errors.Errorf("decoder.seed_file %s does not exist", d.SeedFile)
	}

	if err != nil {
		return errors.Wrap(err, "error checking decoder.seed_file")
	}

	if info.IsDir() {
		return errors.Errorf("decoder.seed_file %s is a directory", d.SeedFile)
	}

	return nil
}

func validateTOMLIO(c *TOMLIO) error {
	if c == nil {
		return errors.New("io cannot be empty")
	}

	if _, ok := validModes[c.Mode]; !ok {
		return errors.Errorf("io.mode %s is invalid", c.Mode)
	}

	if c.InChunkSize < MinChunkSize || c.InChunkSize > MaxChunkSize {
		return errors.Errorf("io.in_chunk_size must be between %d and %d", MinChunkSize, MaxChunkSize)
	}

	if c.OutChunkSize < MinChunkSize || c.OutChunkSize > MaxChunkSize {
		return errors.Errorf("io.out_chunk_size must be between %d and %d", MinChunkSize, MaxChunkSize)
	}

	if c.OutputSize < 0 || c.OutputSize > MaxOutput {
		return errors.Errorf("io.output_size must be between 0 and %d", MaxOutput)
	}

	return nil
}

func readCLIArgs(args []string) (*CLI, error) {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("lzhamdec"),
		kong.Description("Streaming LZHAM decompressor"),
		kong.UsageOnError(),
		kong.DefaultEnvars(EnvVarPrefix),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		kong.Vars{
			"version": VERSION,
		})
	if err != nil {
		return nil, errors.Wrap(err, "error building CLI parser")
	}

	cli.Ctx, err = parser.Parse(args)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing args")
	}

	if err := validateCLIArgs(cli); err != nil {
		return nil, errors.Wrap(err, "error validating args")
	}

	return cli, nil
}

func readTOML(file string) (*TOML, error) {
	// Attempt to load file
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(err, "error reading file")
	}

	tomlConfig := &TOML{}

	if err := toml.Unmarshal(data, tomlConfig); err != nil {
		return nil, errors.Wrap(err, "error parsing TOML config")
	}

	return tomlConfig, nil
}

func validateCLIArgs(cli *CLI) error {
	if cli == nil {
		return errors.New("config cannot be nil")
	}

	if cli.File != "" && cli.File == cli.Output {
		return errors.New("input and output must be different files")
	}

	return nil
}
