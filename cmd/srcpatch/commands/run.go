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

package commands

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/srcpatch/cmd/srcpatch/opts"
	"github.com/walteh/srcpatch/pkg/log"
	"github.com/walteh/srcpatch/pkg/operation"
	"github.com/walteh/srcpatch/pkg/report"
	"github.com/walteh/srcpatch/pkg/rule"
	"github.com/walteh/srcpatch/pkg/scan"
	"github.com/walteh/srcpatch/pkg/status"
)

// ErrFilesFailed is returned in strict mode when at least one file could not be patched
var ErrFilesFailed = errors.Base("files failed")

func NewRunCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Patch source files in place",
		Long: `Run scans the root directory for source files and applies every rule,
in order, to each file. A file is rewritten only when a rule matched.
It will:
1. List files under the root by extension, skipping excluded directories
2. Apply the builtin rule sets, then the custom rules
3. Write changed files atomically (or show a diff with --dry-run)
4. Print a summary of scanned, modified, unchanged and failed files`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), opts)
		},
	}

	return cmd
}

// 🚀 Run executes one patch run described by opts
func Run(ctx context.Context, opts *opts.RootOpts) error {
	ctx = zerolog.Ctx(ctx).With().Str("command", "run").Logger().WithContext(ctx)
	ctx = log.NewContext(ctx, opts.Logger)

	rules, err := opts.Config.CompileRules()
	if err != nil {
		return errors.Errorf("compiling rules: %w", err)
	}

	scanner, err := scan.New(opts.Config.Root, opts.Config.ScanOptions()...)
	if err != nil {
		return errors.Errorf("creating scanner: %w", err)
	}

	run, err := operation.New(operation.Options{
		Scanner: scanner,
		Engine:  rule.NewEngine(rules...),
		DryRun:  opts.DryRun,
		Backup:  opts.Config.Backup,
	})
	if err != nil {
		return errors.Errorf("creating run: %w", err)
	}

	opts.Logger.Header("patching source files")

	started := time.Now()
	result, err := run.Execute(ctx)
	if err != nil {
		return errors.Errorf("patching files: %w", err)
	}

	opts.Logger.LogNewline()
	switch sum := result.Summary; {
	case sum.Failed > 0 && opts.Strict:
		opts.Logger.Errorf("%d of %d files could not be patched", sum.Failed, sum.Scanned)
	case sum.Failed > 0:
		opts.Logger.Warningf("%d of %d files could not be patched", sum.Failed, sum.Scanned)
	case sum.DryRun:
		opts.Logger.Infof("dry run: %d files would change", sum.Modified)
	default:
		opts.Logger.Successf("patched %d of %d files", sum.Modified, sum.Scanned)
	}

	if opts.ReportPath != "" {
		names := make([]string, 0, len(rules))
		for _, r := range rules {
			names = append(names, r.Name())
		}
		rep := report.New(scanner.Root(), names, started, time.Now(), result.Files, result.Summary)
		if err := rep.Write(ctx, status.NewManager(), opts.ReportPath); err != nil {
			return err
		}
		zerolog.Ctx(ctx).Debug().Str("path", opts.ReportPath).Msg("wrote report")
	}

	if opts.Strict && result.Summary.Failed > 0 {
		return errors.Errorf("%w: %d of %d", ErrFilesFailed, result.Summary.Failed, result.Summary.Scanned)
	}
	return nil
}
