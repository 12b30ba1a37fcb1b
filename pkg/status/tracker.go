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

package status

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// 📈 Summary is the final tally of a run
type Summary struct {
	Scanned   int  `json:"scanned"`
	Modified  int  `json:"modified"`
	Unchanged int  `json:"unchanged"`
	Failed    int  `json:"failed"`
	DryRun    bool `json:"dry_run"`
}

// 📈 StatusReporter tracks file outcomes and reports progress
type StatusReporter interface {
	// Status tracking
	TrackFile(ctx context.Context, info FileInfo)
	ListFiles(ctx context.Context) []FileInfo

	// Progress reporting
	StartOperation(ctx context.Context, total int)
	UpdateProgress(ctx context.Context, processed int)
	FinishOperation(ctx context.Context) Summary
}

// 🔧 Tracker is the in memory StatusReporter holding a run's counters
type Tracker struct {
	formatter FileFormatter
	dryRun    bool

	mu        sync.Mutex
	files     []FileInfo
	summary   Summary
	total     int
	processed int
}

var _ StatusReporter = (*Tracker)(nil)

// 🏭 NewTracker creates a tracker. dryRun is recorded in the summary.
func NewTracker(dryRun bool) *Tracker {
	return &Tracker{
		formatter: NewDefaultFileFormatter(),
		dryRun:    dryRun,
	}
}

func (t *Tracker) TrackFile(ctx context.Context, info FileInfo) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.files = append(t.files, info)
	t.summary.Scanned++
	switch info.Status {
	case StatusModified, StatusPreview:
		t.summary.Modified++
	case StatusFailed:
		t.summary.Failed++
	default:
		t.summary.Unchanged++
	}

	msg := t.formatter.FormatFile(info)
	if info.Error != nil {
		zerolog.Ctx(ctx).Debug().Str("path", info.Path).Str("reason", t.formatter.FormatError(info.Error)).Msg(msg)
		return
	}
	zerolog.Ctx(ctx).Debug().Str("path", info.Path).Strs("rules", info.Rules).Msg(msg)
}

// ListFiles returns every tracked file in the order it was tracked
func (t *Tracker) ListFiles(ctx context.Context) []FileInfo {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]FileInfo(nil), t.files...)
}

func (t *Tracker) StartOperation(ctx context.Context, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total = total
	t.processed = 0
	t.files = nil
	t.summary = Summary{DryRun: t.dryRun}
	zerolog.Ctx(ctx).Debug().Int("total", total).Msg(t.formatter.FormatProgress(0, total))
}

func (t *Tracker) UpdateProgress(ctx context.Context, processed int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.processed = processed
	zerolog.Ctx(ctx).Trace().
		Int("processed", processed).
		Int("total", t.total).
		Msg(t.formatter.FormatProgress(processed, t.total))
}

// FinishOperation returns the summary of everything tracked since StartOperation
func (t *Tracker) FinishOperation(ctx context.Context) Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	zerolog.Ctx(ctx).Debug().
		Int("processed", t.processed).
		Int("total", t.total).
		Msg(t.formatter.FormatProgress(t.processed, t.total))
	return t.summary
}
