package status

import (
	"fmt"
	"strings"
)

// FileFormatter defines how file outcomes and progress are phrased in log records
type FileFormatter interface {
	// FormatFile formats the outcome of one file
	FormatFile(info FileInfo) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFile formats a file outcome with emojis
func (f *DefaultFileFormatter) FormatFile(info FileInfo) string {
	path := info.RelPath
	if path == "" {
		path = info.Path
	}

	switch info.Status {
	case StatusModified:
		return fmt.Sprintf("📝 Patched %s (%s)", path, strings.Join(info.Rules, ", "))
	case StatusPreview:
		return fmt.Sprintf("🔍 Would patch %s (%s)", path, strings.Join(info.Rules, ", "))
	case StatusFailed:
		return fmt.Sprintf("❌ Failed %s", path)
	default:
		return fmt.Sprintf("👍 Unchanged %s", path)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
