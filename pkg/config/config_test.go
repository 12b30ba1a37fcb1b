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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/srcpatch/pkg/rule"
)

func ruleNames(rules []rule.Rule) []string {
	var names []string
	for _, r := range rules {
		names = append(names, r.Name())
	}
	return names
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "src", cfg.Root)
	assert.Equal(t, []string{".ts", ".tsx"}, cfg.Extensions)
	assert.Contains(t, cfg.Exclude, "node_modules")
	assert.Equal(t, []string{rule.SetImports, rule.SetNullSafety}, cfg.Builtins)

	rules, err := cfg.CompileRules()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"default-component-imports",
		"motorcycle-to-bike",
		"motorcycle-value-to-bike",
		"toast-import",
		"collection-fallback",
		"optional-user-name",
	}, ruleNames(rules))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *Config
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "empty_config_gets_defaults",
			cfg:  &Config{},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name: "extensions_are_normalized",
			cfg:  &Config{Extensions: []string{"js", " .jsx "}},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{".js", ".jsx"}, cfg.Extensions)
			},
		},
		{
			name: "root_is_cleaned",
			cfg:  &Config{Root: "./app/src/"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "app/src", cfg.Root)
			},
		},
		{
			name: "explicit_empty_builtins_disable_them",
			cfg: &Config{
				Builtins: []string{},
				Rules:    []rule.Definition{{Name: "only", Kind: rule.KindLiteral, Old: "a", New: "b"}},
			},
			check: func(t *testing.T, cfg *Config) {
				rules, err := cfg.CompileRules()
				require.NoError(t, err)
				assert.Equal(t, []string{"only"}, ruleNames(rules))
			},
		},
		{
			name:        "empty_extension_list",
			cfg:         &Config{Extensions: []string{}},
			errContains: "at least one extension is required",
		},
		{
			name:        "blank_extension",
			cfg:         &Config{Extensions: []string{".ts", ""}},
			errContains: "extension 1 is empty",
		},
		{
			name:        "invalid_ignore_glob",
			cfg:         &Config{Ignore: []string{"[abc"}},
			errContains: `invalid ignore pattern "[abc"`,
		},
		{
			name:        "unknown_builtin",
			cfg:         &Config{Builtins: []string{"imports", "lint"}},
			errContains: `unknown rule set "lint"`,
		},
		{
			name: "custom_rule_shadows_builtin",
			cfg: &Config{
				Rules: []rule.Definition{{Name: "motorcycle-to-bike", Kind: rule.KindLiteral, Old: "a"}},
			},
			errContains: `duplicate name "motorcycle-to-bike"`,
		},
		{
			name: "invalid_custom_rule",
			cfg: &Config{
				Builtins: []string{},
				Rules:    []rule.Definition{{Name: "broken", Kind: rule.KindPattern, Pattern: "("}},
			},
			errContains: `rule "broken": compiling pattern`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, tt.cfg)
			}
		})
	}
}

func TestCompileRules_BuiltinsFirst(t *testing.T) {
	cfg := &Config{
		Builtins: []string{rule.SetNullSafety},
		Rules: []rule.Definition{
			{Name: "legacy-host", Kind: rule.KindLiteral, Old: "old.example.com", New: "example.com"},
		},
	}
	require.NoError(t, cfg.Validate())

	rules, err := cfg.CompileRules()
	require.NoError(t, err)
	assert.Equal(t, []string{"collection-fallback", "optional-user-name", "legacy-host"}, ruleNames(rules))
}

func TestScanOptions(t *testing.T) {
	cfg := &Config{Ignore: []string{"**/*.test.ts"}}
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.ScanOptions(), 3)

	cfg = Default()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.ScanOptions(), 2)
}
