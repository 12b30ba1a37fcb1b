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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/srcpatch/pkg/rule"
	"github.com/walteh/srcpatch/pkg/scan"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📦 Config is a run configuration: where to look and which rules to apply.
// Unset fields fall back to the defaults when the config is validated.
type Config struct {
	Root       string            `json:"root,omitempty" yaml:"root,omitempty"`             // Directory to scan
	Extensions []string          `json:"extensions,omitempty" yaml:"extensions,omitempty"` // File suffixes to patch
	Exclude    []string          `json:"exclude,omitempty" yaml:"exclude,omitempty"`       // Directory names to skip
	Ignore     []string          `json:"ignore,omitempty" yaml:"ignore,omitempty"`         // Doublestar globs to skip
	Builtins   []string          `json:"builtins,omitempty" yaml:"builtins,omitempty"`     // Builtin rule sets, run first
	Rules      []rule.Definition `json:"rules,omitempty" yaml:"rules,omitempty"`           // Custom rules, run after builtins
	Backup     bool              `json:"backup,omitempty" yaml:"backup,omitempty"`         // Keep a .bak copy of rewritten files
}

// 🏭 Default returns the configuration used when no config file is given
func Default() *Config {
	return &Config{
		Root:       "src",
		Extensions: append([]string(nil), scan.DefaultExtensions...),
		Exclude:    append([]string(nil), scan.DefaultExcludedDirs...),
		Builtins:   rule.BuiltinNames(),
	}
}

// 📥 Load reads and validates the config file at path.
// Files named .srcpatch carry no extension and are tried as YAML, then HCL.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	var cfg *Config
	if filepath.Base(path) == ".srcpatch" {
		cfg, err = parseAny(ctx, data, "config.yaml", "config.hcl")
	} else {
		p := GetParser(path)
		if p == nil {
			return nil, errors.Errorf("no parser found for file: %s", path)
		}
		cfg, err = p.Parse(ctx, data)
	}
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().
		Str("root", cfg.Root).
		Strs("builtins", cfg.Builtins).
		Int("rules", len(cfg.Rules)).
		Msg("configuration loaded")
	return cfg, nil
}

func parseAny(ctx context.Context, data []byte, names ...string) (*Config, error) {
	var errs []string
	for _, name := range names {
		cfg, err := GetParser(name).Parse(ctx, data)
		if err == nil {
			return cfg, nil
		}
		errs = append(errs, err.Error())
	}
	return nil, errors.Errorf("not valid as any known format: %s", strings.Join(errs, "; "))
}

// ✅ Validate fills defaults, normalizes paths and extensions, and checks
// that every glob, rule set and rule is usable
func (cfg *Config) Validate() error {
	def := Default()

	if cfg.Root == "" {
		cfg.Root = def.Root
	}
	cfg.Root = filepath.Clean(cfg.Root)

	if cfg.Extensions == nil {
		cfg.Extensions = def.Extensions
	}
	if len(cfg.Extensions) == 0 {
		return errors.Errorf("at least one extension is required")
	}
	for i, ext := range cfg.Extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" || ext == "." {
			return errors.Errorf("extension %d is empty", i)
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.Extensions[i] = ext
	}

	if cfg.Exclude == nil {
		cfg.Exclude = def.Exclude
	}
	if cfg.Builtins == nil {
		cfg.Builtins = def.Builtins
	}

	for _, g := range cfg.Ignore {
		if !doublestar.ValidatePattern(g) {
			return errors.Errorf("invalid ignore pattern %q", g)
		}
	}

	if _, err := cfg.CompileRules(); err != nil {
		return err
	}
	return nil
}

// 📚 Definitions returns the builtin rule definitions followed by the custom ones
func (cfg *Config) Definitions() ([]rule.Definition, error) {
	var defs []rule.Definition
	for _, name := range cfg.Builtins {
		set, err := rule.Builtin(name)
		if err != nil {
			return nil, err
		}
		defs = append(defs, set...)
	}
	return append(defs, cfg.Rules...), nil
}

// ⚙️ CompileRules compiles every rule in application order
func (cfg *Config) CompileRules() ([]rule.Rule, error) {
	defs, err := cfg.Definitions()
	if err != nil {
		return nil, err
	}
	rules, err := rule.Compile(defs)
	if err != nil {
		return nil, errors.Errorf("compiling rules: %w", err)
	}
	return rules, nil
}

// ScanOptions returns the scanner options described by the config
func (cfg *Config) ScanOptions() []scan.Option {
	opts := []scan.Option{
		scan.WithExtensions(cfg.Extensions...),
		scan.WithExcludedDirs(cfg.Exclude...),
	}
	if len(cfg.Ignore) > 0 {
		opts = append(opts, scan.WithIgnore(cfg.Ignore...))
	}
	return opts
}

func (cfg *Config) String() string {
	return fmt.Sprintf("%s [%s] rule sets [%s] + %d custom rules",
		cfg.Root, strings.Join(cfg.Extensions, ","), strings.Join(cfg.Builtins, ","), len(cfg.Rules))
}
