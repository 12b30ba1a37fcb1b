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

package log

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/srcpatch/pkg/status"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	statusWidth = 15 // Width for status text
)

// 🎯 FileOperation is the outcome of one file, as shown to the user
type FileOperation struct {
	Path       string   // Path relative to the scan root
	Status     string   // Operation status
	Rules      []string // Matched rules, in order
	IsModified bool     // File was rewritten
	IsPreview  bool     // File would be rewritten (dry run)
	IsFailed   bool     // Reading or writing failed
}

// 📦 RunOperation describes the run being reported
type RunOperation struct {
	Root   string // Absolute scan root
	Rules  int    // Number of rules in the engine
	DryRun bool   // Whether files are left untouched
}

// 🎯 Logger reports a run to the console and to zerolog.
// It never influences the outcome of a run.
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	mu        sync.Mutex
	currentOp *RunOperation
}

// 🏭 New creates a new logger writing user facing lines to console and
// structured records to zlog
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context. Without one it returns a
// logger that discards everything.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(contextKey{}).(*Logger); ok && logger != nil {
		return logger
	}
	return New(io.Discard, zerolog.Nop())
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.IsFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.IsModified:
		symbol = '⟳'
		symbolColor = color.FgBlue
	case op.IsPreview:
		symbol = '~'
		symbolColor = color.FgYellow
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		fmt.Sprintf("%-*s", statusWidth, op.Status),
		color.New(color.Faint).Sprint(strings.Join(op.Rules, ", ")))
}

// 📝 LogFileOperation prints a file line and records one structured
// entry per matched rule
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatFileOperation(op))

	for _, r := range op.Rules {
		l.zlog.Info().
			Str("file", op.Path).
			Str("rule", r).
			Bool("dry_run", op.IsPreview).
			Msg("rule matched")
	}
}

// 📝 LogFileError reports a file that was skipped because of an I/O error
func (l *Logger) LogFileError(ctx context.Context, path string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatFileOperation(FileOperation{
		Path:     path,
		Status:   "FAILED",
		IsFailed: true,
	}))
	fmt.Fprintf(l.console, "%s%s\n", strings.Repeat(" ", fileIndent+2), color.New(color.FgRed).Sprint(err.Error()))

	l.zlog.Error().Str("file", path).Err(err).Msg("file skipped")
}

// 📝 LogDiff prints a unified diff, coloring added and removed lines
func (l *Logger) LogDiff(ctx context.Context, diff string) {
	if diff == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, line := range strings.Split(strings.TrimSuffix(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			line = color.New(color.Bold).Sprint(line)
		case strings.HasPrefix(line, "@@"):
			line = color.New(color.FgCyan).Sprint(line)
		case strings.HasPrefix(line, "+"):
			line = color.New(color.FgGreen).Sprint(line)
		case strings.HasPrefix(line, "-"):
			line = color.New(color.FgRed).Sprint(line)
		}
		fmt.Fprintf(l.console, "%s%s\n", strings.Repeat(" ", fileIndent+2), line)
	}
}

// 📝 StartRun prints the run header
func (l *Logger) StartRun(ctx context.Context, op RunOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op

	mode := "write"
	if op.DryRun {
		mode = "dry run"
	}

	fmt.Fprintf(l.console, "[patching %s]\n", color.New(color.FgCyan).Sprint(op.Root))
	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprintf("%d rules", op.Rules),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(mode))

	l.zlog.Info().
		Str("root", op.Root).
		Int("rules", op.Rules).
		Bool("dry_run", op.DryRun).
		Msg("starting run")
}

// 📝 EndRun prints the summary table and records the final counts
func (l *Logger) EndRun(ctx context.Context, s status.Summary) {
	l.mu.Lock()
	defer l.mu.Unlock()

	modified := "modified"
	if s.DryRun {
		modified = "would modify"
	}

	data := pterm.TableData{
		{"scanned", modified, "unchanged", "failed"},
		{strconv.Itoa(s.Scanned), strconv.Itoa(s.Modified), strconv.Itoa(s.Unchanged), strconv.Itoa(s.Failed)},
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		table = fmt.Sprintf("scanned %d, %s %d, unchanged %d, failed %d", s.Scanned, modified, s.Modified, s.Unchanged, s.Failed)
	}
	fmt.Fprintf(l.console, "\n%s\n", table)

	root := ""
	if l.currentOp != nil {
		root = l.currentOp.Root
	}
	l.zlog.Info().
		Str("root", root).
		Int("scanned", s.Scanned).
		Int("modified", s.Modified).
		Int("unchanged", s.Unchanged).
		Int("failed", s.Failed).
		Bool("dry_run", s.DryRun).
		Msg("run complete")

	l.currentOp = nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("srcpatch")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
