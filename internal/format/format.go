// Package format renders durations, timestamps and sizes for display.
package format

import (
	"fmt"
	"time"
)

// Timestamp formats a non-negative offset in seconds as MM:SS, or HH:MM:SS
// from one hour on. 45 -> "00:45", 125 -> "02:05", 3725 -> "01:02:05".
// Negative offsets are clamped to zero.
// Integer arithmetic keeps any int in range; the hour field grows as needed.
func Timestamp(seconds int) string {
	seconds = max(0, seconds)
	h, m, s := seconds/3600, seconds%3600/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// Duration formats a duration as HH:MM:SS or MM:SS, truncated to the second.
func Duration(d time.Duration) string {
	return Timestamp(int(d / time.Second))
}

// Elapsed formats a wall-clock duration for progress messages.
// Examples: "850ms", "12s", "2m5s", "1h3m".
func Elapsed(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d/time.Millisecond)
	case d < time.Minute:
		return fmt.Sprintf("%ds", d/time.Second)
	case d < time.Hour:
		m := d / time.Minute
		if s := (d % time.Minute) / time.Second; s > 0 {
			return fmt.Sprintf("%dm%ds", m, s)
		}
		return fmt.Sprintf("%dm", m)
	}
	h := d / time.Hour
	if m := (d % time.Hour) / time.Minute; m > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dh", h)
}

// Size formats a size in bytes for human display.
// Uses MB for sizes >= 1MB, KB otherwise.
func Size(bytes int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case bytes >= mb:
		return fmt.Sprintf("%d MB", bytes/mb)
	case bytes >= kb:
		return fmt.Sprintf("%d KB", bytes/kb)
	case bytes == 1:
		return "1 byte"
	}
	return fmt.Sprintf("%d bytes", bytes)
}
