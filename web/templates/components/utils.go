package components

import (
	"html/template"
	"strings"
	"time"

	"github.com/ccoveille/go-safecast"
	"github.com/dustin/go-humanize"
	"github.com/mergestat/timediff"
)

// FormatRelativeTime formats a time.Time as a relative time string like "3 days ago"
func FormatRelativeTime(t time.Time) string {
	return timediff.TimeDiff(t)
}

// FormatTimestamp formats a time.Time as an absolute UTC timestamp, used as tooltip.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

// FormatFileSize formats a file size in bytes to a human-readable string
func FormatFileSize(bytes int64) string {
	size, err := safecast.ToUint64(bytes)
	if err != nil {
		return "0 B"
	}
	return humanize.Bytes(size)
}

// Lines splits multi-line recipe text into non-empty, trimmed lines.
func Lines(s string) []string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// FuncMap returns the helpers available in every page template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"relativeTime": FormatRelativeTime,
		"timestamp":    FormatTimestamp,
		"fileSize":     FormatFileSize,
		"lines":        Lines,
	}
}
