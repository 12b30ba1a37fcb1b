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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builtinEngine(t *testing.T, sets ...string) *Engine {
	t.Helper()
	var defs []Definition
	for _, name := range sets {
		d, err := Builtin(name)
		require.NoError(t, err, "loading builtin set %s", name)
		defs = append(defs, d...)
	}
	rules, err := Compile(defs)
	require.NoError(t, err, "compiling builtin rules")
	return NewEngine(rules...)
}

func TestBuiltin_Imports(t *testing.T) {
	engine := builtinEngine(t, SetImports)

	tests := []struct {
		name    string
		content string
		want    string
		dirty   bool
	}{
		{
			name:    "default_badge_import",
			content: "import { Badge } from 'x';",
			want:    "import Badge from 'x';",
			dirty:   true,
		},
		{
			name:    "other_named_imports_untouched",
			content: "import { useState } from 'react';",
			want:    "import { useState } from 'react';",
			dirty:   false,
		},
		{
			name:    "motorcycle_inside_identifiers",
			content: "const MotorcycleIcon = getMotorcycle(); type Motorcycles = Motorcycle[];",
			want:    "const BikeIcon = getBike(); type Bikes = Bike[];",
			dirty:   true,
		},
		{
			name:    "motorcycle_value",
			content: "type Vehicle = 'car' | 'motorcycle';",
			want:    "type Vehicle = 'car' | 'bike';",
			dirty:   true,
		},
		{
			name:    "toast_import_added_once",
			content: "import React from 'react';\n\ntoast('saved');\ntoast('again');\n",
			want:    "import { toast } from '@/hooks/use-toast';\nimport React from 'react';\n\ntoast('saved');\ntoast('again');\n",
			dirty:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := engine.Apply("components/example.tsx", tt.content)
			assert.Equal(t, tt.want, res.Content)
			assert.Equal(t, tt.dirty, res.Dirty)
		})
	}
}

func TestBuiltin_NullSafety(t *testing.T) {
	engine := builtinEngine(t, SetNullSafety)

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "bare_collection",
			content: "packages.map((p) => p.id)",
			want:    "(packages ?? []).map((p) => p.id)",
		},
		{
			name:    "member_collection",
			content: "data.clients.length",
			want:    "(data.clients ?? []).length",
		},
		{
			name:    "optional_chain_receiver",
			content: "props?.invoices.filter(isPaid)",
			want:    "(props?.invoices ?? []).filter(isPaid)",
		},
		{
			name:    "user_name",
			content: "<span>{user.name}</span>",
			want:    "<span>{user?.name}</span>",
		},
		{
			name:    "unrelated_collection",
			content: "items.map((i) => i)",
			want:    "items.map((i) => i)",
		},
		{
			name:    "nested_in_call_argument",
			content: "render(data.packages.map(toRow), clients.length)",
			want:    "render((data.packages ?? []).map(toRow), (clients ?? []).length)",
		},
		{
			name:    "call_receiver_untouched",
			content: "getData().packages.map(f)",
			want:    "getData().packages.map(f)",
		},
		{
			name:    "index_receiver_untouched",
			content: "items[0].clients.length",
			want:    "items[0].clients.length",
		},
		{
			name:    "user_name_comparison",
			content: "if (user.name === 'admin') {}",
			want:    "if (user?.name === 'admin') {}",
		},
		{
			name:    "user_name_end_of_file",
			content: "const label = user.name",
			want:    "const label = user?.name",
		},
		{
			name:    "user_name_assignment_untouched",
			content: "user.name = 'guest';",
			want:    "user.name = 'guest';",
		},
		{
			name:    "user_name_compound_assignment_untouched",
			content: "user.name += ' (guest)';",
			want:    "user.name += ' (guest)';",
		},
		{
			name:    "user_namespace_untouched",
			content: "user.namespace",
			want:    "user.namespace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := engine.Apply("pages/dashboard.tsx", tt.content)
			assert.Equal(t, tt.want, res.Content)
		})
	}
}

func TestBuiltin_Idempotent(t *testing.T) {
	engine := builtinEngine(t, BuiltinNames()...)

	inputs := []string{
		"import { Badge } from '@/components/ui/badge';\nimport { Card } from '@/components/ui/card';\n",
		"import React from 'react';\nexport const Motorcycle = () => { toast('x'); return packages.map((p) => p); };\n",
		"const n = data.clients.length + props?.invoices.filter(Boolean).length;\n<span>{user.name}</span>\n",
		"no rules apply to this file\n",
	}

	for i, in := range inputs {
		first := engine.Apply("file.tsx", in)
		second := engine.Apply("file.tsx", first.Content)

		assert.False(t, second.Dirty, "input %d: second pass should not match any rule, matched %v", i, second.Matched)
		assert.Equal(t, first.Content, second.Content, "input %d: second pass should not change content", i)
	}
}

func TestBuiltin_Unknown(t *testing.T) {
	_, err := Builtin("does-not-exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown rule set "does-not-exist"`)
}

func TestBuiltin_ReturnsCopy(t *testing.T) {
	defs, err := Builtin(SetImports)
	require.NoError(t, err)
	defs[0].Name = "changed"

	again, err := Builtin(SetImports)
	require.NoError(t, err)
	assert.False(t, strings.EqualFold(again[0].Name, "changed"), "builtin definitions should not be shared")
}
