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
	"gitlab.com/tozd/go/errors"
)

const (
	SetImports    = "imports"
	SetNullSafety = "null-safety"
)

// builtinOrder is the order rule sets run in when all of them are enabled
var builtinOrder = []string{SetImports, SetNullSafety}

var builtins = map[string][]Definition{
	// post refactor import fixes for the dashboard components
	SetImports: {
		{
			Name:    "default-component-imports",
			Kind:    KindPattern,
			Pattern: `import \{ (Badge|Button|Card) \} from '([^']+)';`,
			New:     `import $1 from '$2';`,
		},
		{
			Name: "motorcycle-to-bike",
			Kind: KindLiteral,
			Old:  "Motorcycle",
			New:  "Bike",
		},
		{
			Name: "motorcycle-value-to-bike",
			Kind: KindLiteral,
			Old:  "'motorcycle'",
			New:  "'bike'",
		},
		{
			Name:    "toast-import",
			Kind:    KindInsert,
			Trigger: "toast(",
			Guard:   "import { toast }",
			Marker:  "import",
			Text:    "import { toast } from '@/hooks/use-toast';\n",
		},
	},
	// guards for collections that the mock hooks may leave undefined
	SetNullSafety: {
		// the receiver chain must start the expression: never after a call,
		// an index or another member access
		{
			Name:    "collection-fallback",
			Kind:    KindPattern,
			Pattern: `(^|[^\w.)\]?])((?:\w+\??\.)*(?:packages|clients|invoices))\.(map|filter|length)\b`,
			New:     `${1}(${2} ?? []).${3}`,
		},
		// reads only; an optional chain cannot be assigned to
		{
			Name:    "optional-user-name",
			Kind:    KindPattern,
			Pattern: `\buser\.name\b(\s*(?:==|[^\s=+\-*/]|[+\-*/][^=+\-]|$))`,
			New:     `user?.name${1}`,
		},
	},
}

// 📚 BuiltinNames returns the names of the builtin rule sets in run order
func BuiltinNames() []string {
	return append([]string(nil), builtinOrder...)
}

// 📚 Builtin returns a copy of the definitions of a builtin rule set
func Builtin(name string) ([]Definition, error) {
	defs, ok := builtins[name]
	if !ok {
		return nil, errors.Errorf("unknown rule set %q", name)
	}
	return append([]Definition(nil), defs...), nil
}
