package components

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "0 B", FormatFileSize(0))
	assert.Equal(t, "2.0 kB", FormatFileSize(2000))
	assert.Equal(t, "0 B", FormatFileSize(-1))
}

func TestFormatRelativeTime(t *testing.T) {
	assert.Equal(t, "3 days ago", FormatRelativeTime(time.Now().Add(-72*time.Hour)))
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 5, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, "2024-03-01 11:30:05", FormatTimestamp(ts))
}

func TestLines(t *testing.T) {
	assert.Equal(t, []string{"2 eggs", "1 cup flour"}, Lines("2 eggs\r\n\n  1 cup flour  \n"))
	assert.Nil(t, Lines("   "))
}
