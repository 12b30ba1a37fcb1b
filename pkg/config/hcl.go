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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/srcpatch/pkg/rule"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files.
// Rules are written as labelled blocks:
//
//	rule "motorcycle-to-bike" {
//	  kind = "literal"
//	  old  = "Motorcycle"
//	  new  = "Bike"
//	}
//
// Replacement templates that use ${name} must be escaped as $${name}.
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

type hclRule struct {
	Name    string `hcl:"name,label"`
	Kind    string `hcl:"kind"`
	Files   string `hcl:"files,optional"`
	Old     string `hcl:"old,optional"`
	Pattern string `hcl:"pattern,optional"`
	New     string `hcl:"new,optional"`
	Trigger string `hcl:"trigger,optional"`
	Guard   string `hcl:"guard,optional"`
	Marker  string `hcl:"marker,optional"`
	Text    string `hcl:"text,optional"`
}

type hclConfig struct {
	Root       string    `hcl:"root,optional"`
	Extensions []string  `hcl:"extensions,optional"`
	Exclude    []string  `hcl:"exclude,optional"`
	Ignore     []string  `hcl:"ignore,optional"`
	Builtins   []string  `hcl:"builtins,optional"`
	Backup     bool      `hcl:"backup,optional"`
	Rules      []hclRule `hcl:"rule,block"`
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(), &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Root:       hclCfg.Root,
		Extensions: hclCfg.Extensions,
		Exclude:    hclCfg.Exclude,
		Ignore:     hclCfg.Ignore,
		Builtins:   hclCfg.Builtins,
		Backup:     hclCfg.Backup,
	}
	for _, r := range hclCfg.Rules {
		cfg.Rules = append(cfg.Rules, rule.Definition{
			Name:    r.Name,
			Kind:    rule.Kind(r.Kind),
			Files:   r.Files,
			Old:     r.Old,
			Pattern: r.Pattern,
			New:     r.New,
			Trigger: r.Trigger,
			Guard:   r.Guard,
			Marker:  r.Marker,
			Text:    r.Text,
		})
	}

	return cfg, nil
}

// evalContext exposes the defaults as the defaults object, so a config can
// say extensions = defaults.extensions
func evalContext() *hcl.EvalContext {
	def := Default()
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"defaults": cty.ObjectVal(map[string]cty.Value{
				"root":       cty.StringVal(def.Root),
				"extensions": stringList(def.Extensions),
				"exclude":    stringList(def.Exclude),
				"builtins":   stringList(def.Builtins),
			}),
		},
	}
}

func stringList(ss []string) cty.Value {
	if len(ss) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, 0, len(ss))
	for _, s := range ss {
		vals = append(vals, cty.StringVal(s))
	}
	return cty.ListVal(vals)
}
