package printer

import (
	"fmt"
	"time"
)

var byteUnits = []string{"KB", "MB", "GB", "TB"}

// FormatBytes returns a human-readable byte size string.
// Examples: "0 B", "512 B", "1.5 KB", "700.0 MB".
func FormatBytes(bytes int64) string {
	if bytes < 1024 {
		return fmt.Sprintf("%d B", max(bytes, 0))
	}

	size := float64(bytes) / 1024
	unit := 0
	for size >= 1024 && unit < len(byteUnits)-1 {
		size /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", size, byteUnits[unit])
}

var agoUnits = []struct {
	d    time.Duration
	name string
}{
	{24 * time.Hour, "day"},
	{time.Hour, "hour"},
	{time.Minute, "minute"},
	{time.Second, "second"},
}

// TimeAgo returns a human-readable time relative to now.
// Examples: "just now", "2 minutes ago", "3 days ago".
func TimeAgo(t time.Time) string {
	return timeAgo(time.Now(), t)
}

func timeAgo(now, t time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		return "in the future"
	}

	for _, u := range agoUnits {
		n := int(diff / u.d)
		if n == 0 {
			continue
		}
		if n == 1 {
			return fmt.Sprintf("1 %s ago", u.name)
		}
		return fmt.Sprintf("%d %ss ago", n, u.name)
	}

	return "just now"
}

// FormatTimestamp returns a formatted timestamp string in UTC.
// Format: "2006-01-02 15:04:05 UTC".
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}

// FormatDuration returns the duration rounded to a readable precision.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(100 * time.Millisecond).String()
	}
}
