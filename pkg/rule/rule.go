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
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// 🏷️ Kind identifies how a rule transforms text
type Kind string

const (
	KindLiteral Kind = "literal" // replace every occurrence of a substring
	KindPattern Kind = "pattern" // replace every regular expression match
	KindInsert  Kind = "insert"  // insert text once when trigger present and guard absent
)

// 🔄 Rule is a single ordered text transform.
//
// Apply reports matched only when the returned content differs from the input.
type Rule interface {
	Name() string
	Kind() Kind
	// AppliesTo reports whether the rule should run on the given slash separated relative path
	AppliesTo(relPath string) bool
	Apply(content string) (string, bool)
}

type base struct {
	name  string
	files string
}

func (b base) Name() string { return b.name }

func (b base) AppliesTo(relPath string) bool {
	if b.files == "" {
		return true
	}
	// patterns are validated when the rule is compiled
	ok, _ := doublestar.Match(b.files, relPath)
	return ok
}

// 📝 Literal replaces every non-overlapping occurrence of Old with New
type Literal struct {
	base
	Old string
	New string
}

// NewLiteral creates a literal rule
func NewLiteral(name, old, replacement string) *Literal {
	return &Literal{base: base{name: name}, Old: old, New: replacement}
}

func (r *Literal) Kind() Kind { return KindLiteral }

func (r *Literal) Apply(content string) (string, bool) {
	if r.Old == "" || !strings.Contains(content, r.Old) {
		return content, false
	}
	out := strings.ReplaceAll(content, r.Old, r.New)
	return out, out != content
}

// 🔍 Pattern replaces every match of a regular expression.
// The replacement may reference capture groups as $1 or ${name}.
type Pattern struct {
	base
	re          *regexp.Regexp
	Replacement string
}

// NewPattern compiles expr into a pattern rule
func NewPattern(name, expr, replacement string) (*Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Pattern{base: base{name: name}, re: re, Replacement: replacement}, nil
}

func (r *Pattern) Kind() Kind { return KindPattern }

// Expr returns the source of the compiled expression
func (r *Pattern) Expr() string { return r.re.String() }

func (r *Pattern) Apply(content string) (string, bool) {
	if !r.re.MatchString(content) {
		return content, false
	}
	out := r.re.ReplaceAllString(content, r.Replacement)
	return out, out != content
}

// ➕ Insert adds Text once, right before the first occurrence of Marker,
// when Trigger is present and Guard is absent.
//
// A missing marker inserts at the start of the content. An empty guard
// means the inserted text itself is the guard.
type Insert struct {
	base
	Trigger string
	Guard   string
	Marker  string
	Text    string
}

// NewInsert creates a conditional insertion rule
func NewInsert(name, trigger, guard, marker, text string) *Insert {
	return &Insert{base: base{name: name}, Trigger: trigger, Guard: guard, Marker: marker, Text: text}
}

func (r *Insert) Kind() Kind { return KindInsert }

func (r *Insert) guard() string {
	if r.Guard == "" {
		return r.Text
	}
	return r.Guard
}

func (r *Insert) Apply(content string) (string, bool) {
	if r.Text == "" || !strings.Contains(content, r.Trigger) {
		return content, false
	}
	if strings.Contains(content, r.guard()) {
		return content, false
	}

	at := 0
	if r.Marker != "" {
		if i := strings.Index(content, r.Marker); i >= 0 {
			at = i
		}
	}
	return content[:at] + r.Text + content[at:], true
}
