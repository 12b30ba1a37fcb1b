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
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/srcpatch/pkg/rule"
	"github.com/walteh/srcpatch/pkg/scan"
)

const yamlConfig = `
root: app/src
extensions: [".ts"]
ignore: ["**/*.test.ts"]
builtins: [imports]
backup: true
rules:
  - name: legacy-host
    kind: literal
    old: api.old.example.com
    new: api.example.com
  - name: toast-options
    kind: pattern
    files: "components/**"
    pattern: 'useToast\((\w+)\)'
    new: "useToast($1, {})"
  - name: cn-import
    kind: insert
    trigger: "cn("
    marker: import
    text: "import { cn } from '@/lib/utils';\n"
`

const hclConfigText = `
root       = "app/src"
extensions = [".ts"]
ignore     = ["**/*.test.ts"]
builtins   = ["imports"]
backup     = true

rule "legacy-host" {
  kind = "literal"
  old  = "api.old.example.com"
  new  = "api.example.com"
}

rule "toast-options" {
  kind    = "pattern"
  files   = "components/**"
  pattern = "useToast\\((\\w+)\\)"
  new     = "useToast($1, {})"
}

rule "cn-import" {
  kind    = "insert"
  trigger = "cn("
  marker  = "import"
  text    = "import { cn } from '@/lib/utils';\n"
}
`

const jsonConfig = `{
  "root": "app/src",
  "extensions": [".ts"],
  "ignore": ["**/*.test.ts"],
  "builtins": ["imports"],
  "backup": true,
  "rules": [
    {"name": "legacy-host", "kind": "literal", "old": "api.old.example.com", "new": "api.example.com"},
    {"name": "toast-options", "kind": "pattern", "files": "components/**", "pattern": "useToast\\((\\w+)\\)", "new": "useToast($1, {})"},
    {"name": "cn-import", "kind": "insert", "trigger": "cn(", "marker": "import", "text": "import { cn } from '@/lib/utils';\n"}
  ]
}`

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.TestWriter{T: t}).Level(zerolog.DebugLevel).WithContext(context.Background())
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func wantConfig() *Config {
	return &Config{
		Root:       "app/src",
		Extensions: []string{".ts"},
		Exclude:    append([]string(nil), scan.DefaultExcludedDirs...),
		Ignore:     []string{"**/*.test.ts"},
		Builtins:   []string{"imports"},
		Backup:     true,
		Rules: []rule.Definition{
			{Name: "legacy-host", Kind: rule.KindLiteral, Old: "api.old.example.com", New: "api.example.com"},
			{Name: "toast-options", Kind: rule.KindPattern, Files: "components/**", Pattern: `useToast\((\w+)\)`, New: "useToast($1, {})"},
			{Name: "cn-import", Kind: rule.KindInsert, Trigger: "cn(", Marker: "import", Text: "import { cn } from '@/lib/utils';\n"},
		},
	}
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
	}{
		{name: "yaml", filename: "srcpatch.yaml", content: yamlConfig},
		{name: "yml", filename: "srcpatch.yml", content: yamlConfig},
		{name: "hcl", filename: "srcpatch.hcl", content: hclConfigText},
		{name: "json", filename: "srcpatch.json", content: jsonConfig},
		{name: "dotfile_yaml", filename: ".srcpatch", content: yamlConfig},
		{name: "dotfile_hcl", filename: ".srcpatch", content: hclConfigText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(testContext(t), writeConfig(t, tt.filename, tt.content))
			require.NoError(t, err)
			assert.Equal(t, wantConfig(), cfg)

			rules, err := cfg.CompileRules()
			require.NoError(t, err)
			assert.Len(t, rules, 7, "four builtin imports rules and three custom rules")
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		content     string
		errContains string
	}{
		{
			name:        "unsupported_extension",
			filename:    "srcpatch.toml",
			content:     `root = "src"`,
			errContains: "no parser found",
		},
		{
			name:        "yaml_unknown_field",
			filename:    "srcpatch.yaml",
			content:     "root: src\ndestination: out\n",
			errContains: "parsing YAML",
		},
		{
			name:        "json_unknown_field",
			filename:    "srcpatch.json",
			content:     `{"root": "src", "destination": "out"}`,
			errContains: "parsing JSON",
		},
		{
			name:        "hcl_unknown_attribute",
			filename:    "srcpatch.hcl",
			content:     `destination = "out"`,
			errContains: "decoding HCL",
		},
		{
			name:        "hcl_syntax",
			filename:    "srcpatch.hcl",
			content:     `rule "x" {`,
			errContains: "parsing HCL",
		},
		{
			name:        "yaml_rule_field_unknown",
			filename:    "srcpatch.yaml",
			content:     "rules:\n  - name: x\n    kind: literal\n    from: a\n",
			errContains: "parsing YAML",
		},
		{
			name:        "invalid_rule",
			filename:    "srcpatch.yaml",
			content:     "rules:\n  - name: x\n    kind: insert\n    text: y\n",
			errContains: `rule "x": trigger is required`,
		},
		{
			name:        "dotfile_garbage",
			filename:    ".srcpatch",
			content:     "{{{",
			errContains: "not valid as any known format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(testContext(t), writeConfig(t, tt.filename, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(testContext(t), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestHCL_Defaults(t *testing.T) {
	cfg, err := Load(testContext(t), writeConfig(t, "srcpatch.hcl", `
root       = defaults.root
extensions = defaults.extensions
builtins   = []
`))
	require.NoError(t, err)

	assert.Equal(t, "src", cfg.Root)
	assert.Equal(t, scan.DefaultExtensions, cfg.Extensions)
	assert.Empty(t, cfg.Builtins)
}

func TestGetParser(t *testing.T) {
	tests := []struct {
		filename string
		want     Parser
	}{
		{filename: "a.yaml", want: &YAMLParser{}},
		{filename: "a.yml", want: &YAMLParser{}},
		{filename: "a.hcl", want: &HCLParser{}},
		{filename: "A.JSON", want: &JSONParser{}},
		{filename: "a.toml", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got := GetParser(tt.filename)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.IsType(t, tt.want, got)
		})
	}
}
