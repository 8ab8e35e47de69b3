// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	ConfigFileName      = ".fqbench"
	ConfigFileExtension = ".yaml"
	envPrefix           = "FQBENCH"
)

// app holds the state shared by all commands.
type app struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer
	logger *slog.Logger

	cfgFile string
}

func newApp(out, errOut io.Writer) *app {
	return &app{v: viper.New(), out: out, errOut: errOut, logger: slog.Default()}
}

func (a *app) root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fqbench",
		Short: "Summarize FASTQ parser benchmarks",
		Long: `fqbench reads hyperfine results of FASTQ parser benchmarks and
reports them as grids, scaling and throughput tables, charts and a
stored history of batches.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initConfig(cmd); err != nil {
				return err
			}
			return a.initLogger()
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)

	f := cmd.PersistentFlags()
	f.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/"+ConfigFileName+ConfigFileExtension+")")
	f.String("results", "results", "results `directory` holding one subdirectory per batch")
	f.String("batch", "", "batch `directory` to read (default is the latest batch)")
	f.String("data", "test-data", "`directory` of input fixtures, used to find file sizes")
	f.String("log-level", "info", "log `level`: debug, info, warn or error")
	f.String("log-format", "text", "log `format`: text or json")
	f.String("format", "text", "output `format`: text, csv, json or yaml")
	f.String("db", "fqbench.db", "history database `DSN`")
	f.String("db-driver", "sqlite3", "history database driver: sqlite3 or mysql")
	f.String("server", "", "history server `URL` for save and history list")

	cmd.AddCommand(
		a.gridCmd(),
		a.scalingCmd(),
		a.throughputCmd(),
		a.compareCmd(),
		a.chartsCmd(),
		a.saveCmd(),
		a.historyCmd(),
		a.serveCmd(),
	)
	return cmd
}

// initConfig merges flags, FQBENCH_ environment variables and the
// config file into a.v, in that order of precedence.
func (a *app) initConfig(cmd *cobra.Command) error {
	v := a.v
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
		return nil
	}
	home, err := homedir.Dir()
	if err != nil {
		// No home directory means no default config.
		return nil
	}
	v.SetConfigType(strings.TrimPrefix(ConfigFileExtension, "."))
	v.SetConfigName(ConfigFileName)
	v.AddConfigPath(home)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", filepath.Join(home, ConfigFileName+ConfigFileExtension), err)
	}
	return nil
}

func (a *app) initLogger() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.v.GetString("log-level"))); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch format := a.v.GetString("log-format"); format {
	case "text":
		h = slog.NewTextHandler(a.errOut, opts)
	case "json":
		h = slog.NewJSONHandler(a.errOut, opts)
	default:
		return fmt.Errorf("--log-format: unknown format %q", format)
	}
	a.logger = slog.New(h)
	return nil
}
