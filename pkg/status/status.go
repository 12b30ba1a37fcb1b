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
	"encoding/hex"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"lukechampine.com/blake3"
)

// 📊 FileStatus is the outcome of processing one file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusUnchanged            // no rule matched, file left alone
	StatusModified             // rules matched and the file was rewritten
	StatusPreview              // rules matched but the run was a dry run
	StatusFailed               // reading or writing the file failed
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusModified:
		return "modified"
	case StatusPreview:
		return "would modify"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText lets FileStatus appear by name in JSON reports
func (s FileStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// 📄 FileInfo describes what happened to one file
type FileInfo struct {
	Path           string     // Absolute path
	RelPath        string     // Path relative to the scan root
	Status         FileStatus // Outcome
	Rules          []string   // Names of matched rules, in order
	ChecksumBefore string     // Content hash before rules ran
	ChecksumAfter  string     // Content hash after rules ran
	Error          error      // Read or write failure, if any
}

// 💾 FileManager handles every file system operation of a run
type FileManager interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFileAtomic(ctx context.Context, path string, content []byte) error
	BackupFile(ctx context.Context, path string) error
}

// 🔧 Manager is the os backed FileManager
type Manager struct {
	backupSuffix string
}

var _ FileManager = (*Manager)(nil)

// 🏭 NewManager creates a file manager. Backups are written next to the
// original with the ".bak" suffix.
func NewManager() *Manager {
	return &Manager{backupSuffix: ".bak"}
}

// 🔍 Checksum returns the hex BLAKE3 digest of content
func Checksum(content []byte) string {
	sum := blake3.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

// WriteFileAtomic replaces path with content through a temp file and rename.
// The original file mode is kept.
func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("setting file mode: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	zerolog.Ctx(ctx).Trace().Str("path", path).Int("bytes", len(content)).Msg("wrote file")
	return nil
}

// BackupFile copies path to path+".bak", overwriting an older backup
func (m *Manager) BackupFile(ctx context.Context, path string) error {
	backupPath := path + m.backupSuffix

	if err := copyFile(path, backupPath); err != nil {
		return errors.Errorf("creating backup: %w", err)
	}

	zerolog.Ctx(ctx).Trace().Str("path", path).Str("backup", backupPath).Msg("backed up file")
	return nil
}

func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return errors.Errorf("stat source file: %w", err)
	}

	destination, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}

	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		return errors.Errorf("copying file: %w", err)
	}

	return destination.Close()
}
