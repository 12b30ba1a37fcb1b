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

// 📊 Result is the outcome of running every rule over one file
type Result struct {
	// Content is the text after the last rule ran
	Content string

	// Dirty is true when at least one rule matched
	Dirty bool

	// Matched lists the names of the rules that matched, in rule order
	Matched []string
}

// ⚙️ Engine applies an ordered rule list in a single top to bottom pass.
// Later rules see the output of earlier ones; there is no fixed point iteration.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine over rules, keeping their order
func NewEngine(rules ...Rule) *Engine {
	return &Engine{rules: append([]Rule(nil), rules...)}
}

// Rules returns the rules in application order
func (e *Engine) Rules() []Rule {
	return append([]Rule(nil), e.rules...)
}

// Apply runs every rule that applies to relPath over content
func (e *Engine) Apply(relPath, content string) Result {
	res := Result{Content: content}
	for _, r := range e.rules {
		if !r.AppliesTo(relPath) {
			continue
		}
		out, matched := r.Apply(res.Content)
		if !matched {
			continue
		}
		res.Content = out
		res.Dirty = true
		res.Matched = append(res.Matched, r.Name())
	}
	return res
}
