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

// Package report writes a machine readable JSON record of a patch run.
package report

import (
	"context"
	"encoding/json"
	"time"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/srcpatch/pkg/status"
)

// 📄 File is the report entry for one scanned file
type File struct {
	Path           string   `json:"path"`
	Status         string   `json:"status"`
	Rules          []string `json:"rules,omitempty"`
	ChecksumBefore string   `json:"checksum_before,omitempty"`
	ChecksumAfter  string   `json:"checksum_after,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// 📄 Report is the JSON document written by --report
type Report struct {
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Root       string         `json:"root"`
	Rules      []string       `json:"rules"`
	Files      []File         `json:"files"`
	Summary    status.Summary `json:"summary"`
}

// 🏭 New builds a report from the tracked files of a finished run
func New(root string, rules []string, started, finished time.Time, files []status.FileInfo, summary status.Summary) *Report {
	r := &Report{
		StartedAt:  started.UTC(),
		FinishedAt: finished.UTC(),
		Root:       root,
		Rules:      append([]string{}, rules...),
		Files:      make([]File, 0, len(files)),
		Summary:    summary,
	}

	for _, f := range files {
		entry := File{
			Path:           f.RelPath,
			Status:         f.Status.String(),
			Rules:          f.Rules,
			ChecksumBefore: f.ChecksumBefore,
			ChecksumAfter:  f.ChecksumAfter,
		}
		if entry.Path == "" {
			entry.Path = f.Path
		}
		if f.Error != nil {
			entry.Error = f.Error.Error()
		}
		r.Files = append(r.Files, entry)
	}
	return r
}

// Marshal encodes the report as indented JSON with a trailing newline
func (r *Report) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, errors.Errorf("encoding report: %w", err)
	}
	return append(data, '\n'), nil
}

// 💾 Write stores the report at path through fm
func (r *Report) Write(ctx context.Context, fm status.FileManager, path string) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}
	if err := fm.WriteFileAtomic(ctx, path, data); err != nil {
		return errors.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
