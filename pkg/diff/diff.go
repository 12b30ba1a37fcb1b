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

// Package diff renders line level unified diffs for dry run previews.
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ContextLines is the number of unchanged lines kept around each change
const ContextLines = 3

type lineOp struct {
	kind diffmatchpatch.Operation
	text string
}

// 🔀 Unified returns a unified diff of before and after labelled with path.
// Identical inputs produce an empty string.
func Unified(path, before, after string) string {
	if before == after {
		return ""
	}

	ops := lineOps(before, after)

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n", path)
	fmt.Fprintf(&b, "+++ b/%s\n", path)

	for _, h := range hunks(ops) {
		writeHunk(&b, ops, h)
	}
	return b.String()
}

func lineOps(before, after string) []lineOp {
	dmp := diffmatchpatch.New()
	chars1, chars2, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(chars1, chars2, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var ops []lineOp
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			ops = append(ops, lineOp{kind: d.Type, text: line})
		}
	}
	return ops
}

// splitLines splits text into lines, keeping a missing final newline visible
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

type hunk struct {
	start, end int // half open range over ops
}

func hunks(ops []lineOp) []hunk {
	var out []hunk
	for i, op := range ops {
		if op.kind == diffmatchpatch.DiffEqual {
			continue
		}
		start := max(i-ContextLines, 0)
		end := min(i+1+ContextLines, len(ops))
		if n := len(out); n > 0 && start <= out[n-1].end {
			out[n-1].end = max(out[n-1].end, end)
			continue
		}
		out = append(out, hunk{start: start, end: end})
	}
	return out
}

func writeHunk(b *strings.Builder, ops []lineOp, h hunk) {
	oldStart, newStart := 1, 1
	for _, op := range ops[:h.start] {
		if op.kind != diffmatchpatch.DiffInsert {
			oldStart++
		}
		if op.kind != diffmatchpatch.DiffDelete {
			newStart++
		}
	}

	oldCount, newCount := 0, 0
	for _, op := range ops[h.start:h.end] {
		if op.kind != diffmatchpatch.DiffInsert {
			oldCount++
		}
		if op.kind != diffmatchpatch.DiffDelete {
			newCount++
		}
	}
	if oldCount == 0 {
		oldStart--
	}
	if newCount == 0 {
		newStart--
	}

	fmt.Fprintf(b, "@@ -%s +%s @@\n", rangeHeader(oldStart, oldCount), rangeHeader(newStart, newCount))

	for _, op := range ops[h.start:h.end] {
		prefix := " "
		switch op.kind {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		b.WriteString(prefix)
		b.WriteString(op.text)
		if !strings.HasSuffix(op.text, "\n") {
			b.WriteString("\n\\ No newline at end of file\n")
		}
	}
}

func rangeHeader(start, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}
