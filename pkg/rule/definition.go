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

package rule

import (
	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 📋 Definition is the declarative form of a rule, as read from config files.
// Which fields are used depends on Kind.
type Definition struct {
	Name  string `json:"name" yaml:"name"`
	Kind  Kind   `json:"kind" yaml:"kind"`
	Files string `json:"files,omitempty" yaml:"files,omitempty"` // optional doublestar glob over the relative path

	// literal
	Old string `json:"old,omitempty" yaml:"old,omitempty"`
	// pattern
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	// literal and pattern
	New string `json:"new,omitempty" yaml:"new,omitempty"`

	// insert
	Trigger string `json:"trigger,omitempty" yaml:"trigger,omitempty"`
	Guard   string `json:"guard,omitempty" yaml:"guard,omitempty"`
	Marker  string `json:"marker,omitempty" yaml:"marker,omitempty"`
	Text    string `json:"text,omitempty" yaml:"text,omitempty"`
}

// 🏗️ Compile turns a definition into an executable rule
func (d Definition) Compile() (Rule, error) {
	if d.Name == "" {
		return nil, errors.Errorf("name is required")
	}
	if d.Files != "" && !doublestar.ValidatePattern(d.Files) {
		return nil, errors.Errorf("rule %q: invalid files glob %q", d.Name, d.Files)
	}
	b := base{name: d.Name, files: d.Files}

	switch d.Kind {
	case KindLiteral:
		if d.Old == "" {
			return nil, errors.Errorf("rule %q: old is required", d.Name)
		}
		return &Literal{base: b, Old: d.Old, New: d.New}, nil
	case KindPattern:
		if d.Pattern == "" {
			return nil, errors.Errorf("rule %q: pattern is required", d.Name)
		}
		p, err := NewPattern(d.Name, d.Pattern, d.New)
		if err != nil {
			return nil, errors.Errorf("rule %q: compiling pattern: %w", d.Name, err)
		}
		p.base = b
		return p, nil
	case KindInsert:
		if d.Trigger == "" {
			return nil, errors.Errorf("rule %q: trigger is required", d.Name)
		}
		if d.Text == "" {
			return nil, errors.Errorf("rule %q: text is required", d.Name)
		}
		return &Insert{base: b, Trigger: d.Trigger, Guard: d.Guard, Marker: d.Marker, Text: d.Text}, nil
	case "":
		return nil, errors.Errorf("rule %q: kind is required", d.Name)
	default:
		return nil, errors.Errorf("rule %q: unknown kind %q", d.Name, d.Kind)
	}
}

// 🏗️ Compile compiles definitions in order. Rule names must be unique.
func Compile(defs []Definition) ([]Rule, error) {
	seen := make(map[string]int, len(defs))
	rules := make([]Rule, 0, len(defs))
	for i, d := range defs {
		if prev, ok := seen[d.Name]; ok && d.Name != "" {
			return nil, errors.Errorf("rule %d: duplicate name %q (first used by rule %d)", i, d.Name, prev)
		}
		seen[d.Name] = i

		r, err := d.Compile()
		if err != nil {
			return nil, errors.Errorf("rule %d: %w", i, err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}
