// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lzham-go/fastlzham/compress/lzham"
	"github.com/lzham-go/fastlzham/internal/config"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Println("ERROR: ", err)
		os.Exit(1)
	}

	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(cfg.LogLevel())
	if cfg.CLI.Debug {
		logrus.Info("debug mode enabled")
	}

	if !cfg.CLI.Quiet {
		displayConfig(cfg)
	}

	if err := run(cfg); err != nil {
		logrus.Errorf("unable to decompress: %s", err)
		os.Exit(1)
	}
}

func displayConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}

	logrus.Info("lzhamdec settings:")
	logrus.Info("  [CLI]")
	logrus.Infof("  version: %s", config.VERSION)
	logrus.Infof("  lzham version: %#x", lzham.Version())
	logrus.Infof("  debug: %v", cfg.CLI.Debug)
	logrus.Infof("  config file: %s", cfg.CLI.ConfigFile)
	logrus.Infof("  input: %s", nameOr(cfg.CLI.File, "stdin"))
	logrus.Infof("  output: %s", nameOr(cfg.CLI.Output, "stdout"))
	logrus.Info("")
	logrus.Info("  [DECODER]")
	logrus.Infof("  decoder.dict_size_log2: %d", cfg.TOML.Decoder.DictSizeLog2)
	logrus.Infof("  decoder.update_rate: %d", cfg.TOML.Decoder.UpdateRate)
	logrus.Infof("  decoder.max_update_interval: %d", cfg.TOML.Decoder.MaxUpdateInterval)
	logrus.Infof("  decoder.update_interval_slow_rate: %d", cfg.TOML.Decoder.UpdateIntervalSlowRate)
	logrus.Infof("  decoder.adler32: %v", cfg.TOML.Decoder.Adler32)
	logrus.Infof("  decoder.zlib: %v", cfg.TOML.Decoder.Zlib)
	logrus.Infof("  decoder.seed_file: %s", cfg.TOML.Decoder.SeedFile)
	logrus.Info("")
	logrus.Info("  [IO]")
	logrus.Infof("  io.mode: %s", cfg.TOML.IO.Mode)
	logrus.Infof("  io.in_chunk_size: %d", cfg.TOML.IO.InChunkSize)
	logrus.Infof("  io.out_chunk_size: %d", cfg.TOML.IO.OutChunkSize)
	logrus.Infof("  io.output_size: %d", cfg.TOML.IO.OutputSize)
}

func nameOr(name, def string) string {
	if name == "" {
		return def
	}
	return name
}

func run(cfg *config.Config) error {
	params, err := cfg.Params()
	if err != nil {
		return err
	}

	input, output, err := initInputOutput(cfg.CLI.File, cfg.CLI.Output)
	if err != nil {
		return err
	}
	defer input.Close()

	start := time.Now()

	var res *result
	switch cfg.TOML.IO.Mode {
	case config.ModeStream:
		res, err = decodeStream(input, output, params, cfg.TOML.IO.InChunkSize, cfg.TOML.IO.OutChunkSize)
	case config.ModeMemory:
		res, err = decodeMemory(input, output, params, cfg.TOML.IO.OutputSize)
	default:
		err = errors.Errorf("unknown mode %s", cfg.TOML.IO.Mode)
	}

	if cerr := output.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return err
	}

	res.log(time.Since(start))
	return nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func initInputOutput(in, out string) (input io.ReadCloser, output io.WriteCloser, err error) {
	if in == "" {
		input = io.NopCloser(os.Stdin)
	} else {
		input, err = os.Open(in)
		if err != nil {
			return nil, nil, errors.Wrap(err, "unable to open input")
		}
	}
	if out == "" {
		output = nopWriteCloser{os.Stdout}
	} else {
		output, err = os.Create(out)
		if err != nil {
			input.Close()
			return nil, nil, errors.Wrap(err, "unable to create output")
		}
	}
	return input, output, nil
}
