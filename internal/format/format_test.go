package format_test

// Notes:
// - Negative values are clamped for Timestamp (model replies may carry them);
//   Elapsed and Size are called with measured values only.

import (
	"math"
	"testing"
	"time"

	"github.com/alnah/studynotes/internal/format"
)

// ---------------------------------------------------------------------------
// TestTimestamp - Seconds offset as MM:SS or HH:MM:SS
// ---------------------------------------------------------------------------

func TestTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input int
		want  string
	}{
		{name: "zero", input: 0, want: "00:00"},
		{name: "under a minute", input: 45, want: "00:45"},
		{name: "minutes and seconds", input: 125, want: "02:05"},
		{name: "boundary: 59:59", input: 3599, want: "59:59"},
		{name: "boundary: exactly 1 hour", input: 3600, want: "01:00:00"},
		{name: "hours minutes seconds", input: 3725, want: "01:02:05"},
		{name: "long lecture", input: 10*3600 + 5, want: "10:00:05"},
		{name: "negative clamped", input: -12, want: "00:00"},
		{name: "beyond time.Duration range", input: 10000000000, want: "2777777:46:40"},
		{name: "very large", input: 1 << 62, want: "1281023894007607:45:04"},
		{name: "max int", input: math.MaxInt, want: "2562047788015215:30:07"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := format.Timestamp(tt.input); got != tt.want {
				t.Errorf("Timestamp(%d) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestDuration - Formats duration as HH:MM:SS or MM:SS
// ---------------------------------------------------------------------------

func TestDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input time.Duration
		want  string
	}{
		{name: "zero", input: 0, want: "00:00"},
		{name: "boundary: 59 seconds", input: 59 * time.Second, want: "00:59"},
		{name: "sub-second truncated", input: 1500 * time.Millisecond, want: "00:01"},
		{name: "boundary: exactly 1 hour", input: time.Hour, want: "01:00:00"},
		{name: "large: 24 hours", input: 24 * time.Hour, want: "24:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := format.Duration(tt.input); got != tt.want {
				t.Errorf("Duration(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestElapsed - Wall-clock durations for progress messages
// ---------------------------------------------------------------------------

func TestElapsed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input time.Duration
		want  string
	}{
		{name: "zero", input: 0, want: "0ms"},
		{name: "milliseconds", input: 850 * time.Millisecond, want: "850ms"},
		{name: "boundary: 1 second", input: time.Second, want: "1s"},
		{name: "seconds truncate millis", input: 12*time.Second + 400*time.Millisecond, want: "12s"},
		{name: "exact minutes", input: 3 * time.Minute, want: "3m"},
		{name: "minutes and seconds", input: 2*time.Minute + 5*time.Second, want: "2m5s"},
		{name: "exact hour", input: time.Hour, want: "1h"},
		{name: "hours and minutes", input: time.Hour + 3*time.Minute + 9*time.Second, want: "1h3m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := format.Elapsed(tt.input); got != tt.want {
				t.Errorf("Elapsed(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestSize - Formats byte size for human display (MB, KB, bytes)
// ---------------------------------------------------------------------------

func TestSize(t *testing.T) {
	t.Parallel()

	const (
		kb = 1024
		mb = 1024 * kb
	)

	tests := []struct {
		name  string
		input int64
		want  string
	}{
		{name: "zero", input: 0, want: "0 bytes"},
		{name: "one byte", input: 1, want: "1 byte"},
		{name: "boundary: 1023 bytes", input: kb - 1, want: "1023 bytes"},
		{name: "boundary: exactly 1 KB", input: kb, want: "1 KB"},
		{name: "typical pdf", input: 180 * kb, want: "180 KB"},
		{name: "boundary: exactly 1 MB", input: mb, want: "1 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := format.Size(tt.input); got != tt.want {
				t.Errorf("Size(%d) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// FuzzTimestamp verifies Timestamp never panics and always returns non-empty.
func FuzzTimestamp(f *testing.F) {
	f.Add(0)
	f.Add(59)
	f.Add(3600)
	f.Add(-1)

	f.Fuzz(func(t *testing.T, seconds int) {
		if seconds > 1<<30 {
			t.Skip("offsets beyond decades are not meaningful")
		}
		if got := format.Timestamp(seconds); got == "" {
			t.Errorf("Timestamp(%d) returned empty string", seconds)
		}
	})
}
