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

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/srcpatch/pkg/diff"
	"github.com/walteh/srcpatch/pkg/log"
	"github.com/walteh/srcpatch/pkg/rule"
	"github.com/walteh/srcpatch/pkg/status"
)

// 🔍 Scanner lists the files a run visits
type Scanner interface {
	// Root is the absolute directory being scanned
	Root() string
	// Rel returns path relative to Root with forward slashes
	Rel(path string) string
	// Scan returns absolute file paths in a stable order
	Scan(ctx context.Context) ([]string, error)
}

// 🔧 Options contains configuration for a run
type Options struct {
	// Scanner discovers candidate files
	Scanner Scanner
	// Engine holds the ordered rules
	Engine *rule.Engine
	// Files reads and writes file content, defaults to status.NewManager()
	Files status.FileManager
	// Status tracks per file outcomes, defaults to status.NewTracker(DryRun)
	Status status.StatusReporter
	// Logger reports to the user, defaults to the logger carried by the
	// context passed to Execute
	Logger *log.Logger
	// DryRun leaves every file untouched and logs diffs instead
	DryRun bool
	// Backup copies a file to <name>.bak before rewriting it
	Backup bool
}

// 📄 FileRecord is the working state of one file during a run
type FileRecord struct {
	Path    string   // Absolute path
	RelPath string   // Path relative to the scan root
	Content string   // Current content
	Dirty   bool     // At least one rule matched
	Matched []string // Matched rule names, in order
}

// 📊 Result is the outcome of Execute
type Result struct {
	Summary status.Summary
	Files   []status.FileInfo
}

// 🎮 Run is a configured patch run
type Run struct {
	scanner Scanner
	engine  *rule.Engine
	files   status.FileManager
	status  status.StatusReporter
	logger  *log.Logger
	dryRun  bool
	backup  bool
}

// 🏭 New creates a run with the given options
func New(opts Options) (*Run, error) {
	if opts.Scanner == nil {
		return nil, errors.Errorf("scanner is required")
	}
	if opts.Engine == nil {
		return nil, errors.Errorf("rule engine is required")
	}
	if opts.Files == nil {
		opts.Files = status.NewManager()
	}
	if opts.Status == nil {
		opts.Status = status.NewTracker(opts.DryRun)
	}
	return &Run{
		scanner: opts.Scanner,
		engine:  opts.Engine,
		files:   opts.Files,
		status:  opts.Status,
		logger:  opts.Logger,
		dryRun:  opts.DryRun,
		backup:  opts.Backup,
	}, nil
}

// 🚀 Execute scans the tree and patches every file in scan order.
// Only scan failures and cancellation return an error; per file failures
// are reported and counted in the result.
func (r *Run) Execute(ctx context.Context) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	reporter := r.logger
	if reporter == nil {
		reporter = log.FromContext(ctx)
	}
	ctx = log.NewContext(ctx, reporter)

	reporter.StartRun(ctx, log.RunOperation{
		Root:   r.scanner.Root(),
		Rules:  len(r.engine.Rules()),
		DryRun: r.dryRun,
	})

	paths, err := r.scanner.Scan(ctx)
	if err != nil {
		return nil, errors.Errorf("scanning %s: %w", r.scanner.Root(), err)
	}
	logger.Debug().Int("files", len(paths)).Msg("processing files")

	r.status.StartOperation(ctx, len(paths))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			summary := r.status.FinishOperation(ctx)
			reporter.EndRun(ctx, summary)
			return &Result{Summary: summary, Files: r.status.ListFiles(ctx)}, errors.Errorf("run cancelled: %w", err)
		}

		r.status.TrackFile(ctx, r.processFile(ctx, path))
		r.status.UpdateProgress(ctx, i+1)
	}

	summary := r.status.FinishOperation(ctx)
	reporter.EndRun(ctx, summary)

	return &Result{Summary: summary, Files: r.status.ListFiles(ctx)}, nil
}

// processFile never returns an error; failures land in the FileInfo
func (r *Run) processFile(ctx context.Context, path string) status.FileInfo {
	rec := &FileRecord{
		Path:    path,
		RelPath: r.scanner.Rel(path),
	}
	info := status.FileInfo{
		Path:    rec.Path,
		RelPath: rec.RelPath,
	}

	reporter := log.FromContext(ctx)

	fail := func(err error) status.FileInfo {
		info.Status = status.StatusFailed
		info.Error = err
		reporter.LogFileError(ctx, rec.RelPath, err)
		return info
	}

	raw, err := r.files.ReadFile(ctx, path)
	if err != nil {
		return fail(err)
	}
	rec.Content = string(raw)
	info.ChecksumBefore = status.Checksum(raw)

	res := r.engine.Apply(rec.RelPath, rec.Content)
	rec.Dirty = res.Dirty
	rec.Matched = res.Matched
	info.Rules = res.Matched

	if !rec.Dirty {
		info.Status = status.StatusUnchanged
		info.ChecksumAfter = info.ChecksumBefore
		zerolog.Ctx(ctx).Trace().Str("file", rec.RelPath).Msg("no rule matched")
		return info
	}

	before := rec.Content
	rec.Content = res.Content
	info.ChecksumAfter = status.Checksum([]byte(rec.Content))

	if r.dryRun {
		info.Status = status.StatusPreview
		reporter.LogFileOperation(ctx, log.FileOperation{
			Path:      rec.RelPath,
			Status:    "WOULD PATCH",
			Rules:     rec.Matched,
			IsPreview: true,
		})
		reporter.LogDiff(ctx, diff.Unified(rec.RelPath, before, rec.Content))
		return info
	}

	if r.backup {
		if err := r.files.BackupFile(ctx, path); err != nil {
			return fail(err)
		}
	}

	if err := r.files.WriteFileAtomic(ctx, path, []byte(rec.Content)); err != nil {
		return fail(err)
	}

	info.Status = status.StatusModified
	reporter.LogFileOperation(ctx, log.FileOperation{
		Path:       rec.RelPath,
		Status:     "PATCHED",
		Rules:      rec.Matched,
		IsModified: true,
	})
	return info
}
