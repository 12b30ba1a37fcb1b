// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/srcpatch/cmd/srcpatch/commands"
	"github.com/walteh/srcpatch/cmd/srcpatch/opts"
	"github.com/walteh/srcpatch/pkg/config"
	"github.com/walteh/srcpatch/pkg/log"
)

// Environment variables read when the matching flag is not set
const (
	envRoot   = "SRCPATCH_ROOT"
	envConfig = "SRCPATCH_CONFIG"
	envDebug  = "SRCPATCH_DEBUG"
)

// 🚩 rootFlags holds the persistent flags shared by every command
type rootFlags struct {
	root       string
	exts       []string
	exclude    []string
	ignore     []string
	rules      []string
	configFile string
	report     string
	dryRun     bool
	backup     bool
	debug      bool
	noColor    bool
	strict     bool
}

func (f *rootFlags) add(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.root, "root", "r", "", "directory to patch (default \"src\")")
	pf.StringSliceVarP(&f.exts, "ext", "e", nil, "file extension to patch, repeatable (default .ts,.tsx)")
	pf.StringSliceVar(&f.exclude, "exclude", nil, "extra directory name to skip, repeatable")
	pf.StringSliceVar(&f.ignore, "ignore", nil, "glob relative to the root to skip, repeatable")
	pf.StringSliceVar(&f.rules, "rules", nil, "builtin rule set to apply, repeatable (default imports,null-safety)")
	pf.StringVarP(&f.configFile, "config", "c", "", "YAML, HCL or JSON config file with custom rules")
	pf.StringVar(&f.report, "report", "", "write a JSON run report to this file")
	pf.BoolVarP(&f.dryRun, "dry-run", "n", false, "show what would change without writing")
	pf.BoolVar(&f.backup, "backup", false, "keep a .bak copy of every rewritten file")
	pf.BoolVarP(&f.debug, "debug", "d", false, "enable debug logging")
	pf.BoolVar(&f.noColor, "no-color", false, "disable colored output")
	pf.BoolVar(&f.strict, "strict", false, "exit non-zero when any file fails")
}

// applyEnv fills flags the user did not set from the environment
func (f *rootFlags) applyEnv(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if v := os.Getenv(envRoot); v != "" && !flags.Changed("root") {
		f.root = v
	}
	if v := os.Getenv(envConfig); v != "" && !flags.Changed("config") {
		f.configFile = v
	}
	if v := os.Getenv(envDebug); v != "" && !flags.Changed("debug") {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Errorf("parsing %s: %w", envDebug, err)
		}
		f.debug = debug
	}
	return nil
}

// loadConfig resolves the config file (if any) and applies flag overrides
func (f *rootFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	ctx := cmd.Context()

	cfg := config.Default()
	if f.configFile != "" {
		loaded, err := config.Load(ctx, f.configFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if f.root != "" {
		cfg.Root = f.root
	}
	if flags.Changed("ext") {
		cfg.Extensions = f.exts
	}
	if flags.Changed("rules") {
		cfg.Builtins = f.rules
	}
	cfg.Exclude = append(cfg.Exclude, f.exclude...)
	cfg.Ignore = append(cfg.Ignore, f.ignore...)
	if f.backup {
		cfg.Backup = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func setupLogging(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// 🌳 newRootCmd builds the srcpatch command tree. User facing output goes to
// stdout, structured records to stderr.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{}
	rootOpts := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "srcpatch",
		Short: "Apply ordered text substitution rules to a TypeScript source tree",
		Long: `srcpatch scans a source tree for .ts and .tsx files and applies an ordered
list of literal, regular expression and conditional insertion rules to each
file. Files are rewritten only when a rule matched, so running it twice
changes nothing the second time.

Running srcpatch without a subcommand is the same as srcpatch run.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.applyEnv(cmd); err != nil {
				return err
			}

			if flags.noColor {
				color.NoColor = true
				pterm.DisableStyling()
			}

			zlog := setupLogging(cmd.ErrOrStderr(), flags.debug)
			cmd.SetContext(zlog.WithContext(cmd.Context()))

			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}
			zlog.Debug().Str("config", cfg.String()).Msg("resolved configuration")

			*rootOpts = opts.RootOpts{
				Config:     cfg,
				Logger:     log.New(cmd.OutOrStdout(), zlog),
				DryRun:     flags.dryRun,
				Strict:     flags.strict,
				ReportPath: flags.report,
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.Run(cmd.Context(), rootOpts)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags.add(cmd)

	cmd.AddCommand(
		commands.NewRunCmd(rootOpts),
		commands.NewRulesCmd(rootOpts),
		newVersionCmd(),
	)

	return cmd
}
