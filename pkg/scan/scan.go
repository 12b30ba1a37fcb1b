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

// Package scan finds the source files a run will patch.
package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	// DefaultExtensions are the file suffixes scanned when none are configured
	DefaultExtensions = []string{".ts", ".tsx"}

	// DefaultExcludedDirs are directory names never descended into
	DefaultExcludedDirs = []string{"node_modules", ".git", "dist", "build", ".next", "coverage"}
)

// 🚫 RootError reports a scan root that is missing, not a directory or unreadable
type RootError struct {
	Root string
	Err  error
}

func (e *RootError) Error() string {
	return "scan root " + e.Root + ": " + e.Err.Error()
}

func (e *RootError) Unwrap() error { return e.Err }

// Option configures a Scanner
type Option func(*Scanner)

// WithExtensions replaces the scanned file suffixes
func WithExtensions(exts ...string) Option {
	return func(s *Scanner) {
		s.exts = append([]string(nil), exts...)
	}
}

// WithExcludedDirs replaces the directory names that are skipped
func WithExcludedDirs(names ...string) Option {
	return func(s *Scanner) {
		s.exclude = make(map[string]struct{}, len(names))
		for _, n := range names {
			s.exclude[n] = struct{}{}
		}
	}
}

// WithIgnore adds doublestar globs, relative to the root, for files and directories to skip
func WithIgnore(globs ...string) Option {
	return func(s *Scanner) {
		s.ignore = append(s.ignore, globs...)
	}
}

// 🔎 Scanner enumerates files under a root directory by extension
type Scanner struct {
	root    string
	exts    []string
	exclude map[string]struct{}
	ignore  []string
}

// 🏭 New creates a scanner for root. The root is made absolute but not checked
// until Scan runs.
func New(root string, opts ...Option) (*Scanner, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("getting absolute path of %s: %w", root, err)
	}

	s := &Scanner{root: abs}
	WithExtensions(DefaultExtensions...)(s)
	WithExcludedDirs(DefaultExcludedDirs...)(s)
	for _, opt := range opts {
		opt(s)
	}

	for _, g := range s.ignore {
		if !doublestar.ValidatePattern(g) {
			return nil, errors.Errorf("invalid ignore pattern %q", g)
		}
	}
	if len(s.exts) == 0 {
		return nil, errors.Errorf("at least one extension is required")
	}

	return s, nil
}

// Root returns the absolute root directory
func (s *Scanner) Root() string {
	return s.root
}

// Rel returns path relative to the root with forward slashes
func (s *Scanner) Rel(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// 📂 Scan returns the absolute paths of matching regular files, in lexical
// walk order. Any traversal failure is fatal for the caller.
func (s *Scanner) Scan(ctx context.Context) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	info, err := os.Stat(s.root)
	if err != nil {
		return nil, &RootError{Root: s.root, Err: err}
	}
	if !info.IsDir() {
		return nil, &RootError{Root: s.root, Err: errors.New("not a directory")}
	}

	// WalkDir does not follow a symlinked root; walk its target and report
	// paths under the root as given
	walkRoot, err := filepath.EvalSymlinks(s.root)
	if err != nil {
		return nil, &RootError{Root: s.root, Err: err}
	}

	var files []string
	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if walkRoot != s.root {
			rel, relErr := filepath.Rel(walkRoot, path)
			if relErr != nil {
				return errors.Errorf("walking %s: %w", path, relErr)
			}
			path = filepath.Join(s.root, rel)
		}
		if err != nil {
			if path == s.root {
				return &RootError{Root: s.root, Err: err}
			}
			return errors.Errorf("walking %s: %w", path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path == s.root {
				return nil
			}
			if _, ok := s.exclude[d.Name()]; ok {
				logger.Trace().Str("dir", path).Msg("skipping excluded directory")
				return filepath.SkipDir
			}
			if s.ignored(path) {
				logger.Trace().Str("dir", path).Msg("skipping ignored directory")
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !s.hasExtension(d.Name()) {
			return nil
		}
		if s.ignored(path) {
			logger.Trace().Str("file", path).Msg("skipping ignored file")
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("root", s.root).Int("files", len(files)).Msg("scan complete")
	return files, nil
}

func (s *Scanner) hasExtension(name string) bool {
	for _, ext := range s.exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func (s *Scanner) ignored(path string) bool {
	if len(s.ignore) == 0 {
		return false
	}
	rel := s.Rel(path)
	for _, g := range s.ignore {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
	}
	return false
}
