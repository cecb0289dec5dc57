package printer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := map[string]struct {
		bytes int64
		exp   string
	}{
		"Negative should be zero.": {bytes: -1, exp: "0 B"},
		"Zero.":                    {bytes: 0, exp: "0 B"},
		"Bytes.":                   {bytes: 512, exp: "512 B"},
		"Kilobytes.":               {bytes: 1536, exp: "1.5 KB"},
		"Megabytes.":               {bytes: 700 * 1024 * 1024, exp: "700.0 MB"},
		"Gigabytes.":               {bytes: 10 * 1024 * 1024 * 1024, exp: "10.0 GB"},
		"Terabytes are the limit.": {bytes: 2048 * 1024 * 1024 * 1024 * 1024, exp: "2048.0 TB"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, FormatBytes(test.bytes))
		})
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		t   time.Time
		exp string
	}{
		"Future.":     {t: now.Add(time.Minute), exp: "in the future"},
		"Now.":        {t: now, exp: "just now"},
		"One second.": {t: now.Add(-time.Second), exp: "1 second ago"},
		"Seconds.":    {t: now.Add(-42 * time.Second), exp: "42 seconds ago"},
		"One minute.": {t: now.Add(-90 * time.Second), exp: "1 minute ago"},
		"Hours.":      {t: now.Add(-5 * time.Hour), exp: "5 hours ago"},
		"Days.":       {t: now.Add(-72 * time.Hour), exp: "3 days ago"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, timeAgo(now, test.t))
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	ts := time.Date(2026, 1, 30, 11, 4, 5, 0, loc)
	assert.Equal(t, "2026-01-30 10:04:05 UTC", FormatTimestamp(ts))
}
