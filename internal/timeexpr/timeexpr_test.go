package timeexpr

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domerrors "github.com/telcoinsight/keluhan-bot-go/internal/errors"
)

// Fixed reference time: Tuesday 2025-07-15 14:23 local.
var testNow = time.Date(2025, 7, 15, 14, 23, 0, 0, time.Local)

func resolve(t *testing.T, text string) Range {
	t.Helper()
	return NewResolver(nil).Resolve(context.Background(), text, testNow)
}

func TestHoursAgo(t *testing.T) {
	rng := resolve(t, "2 jam lalu")
	require.True(t, rng.Matched)
	assert.Equal(t, "hours_ago", rng.Pattern)
	// Bounds exactly the clock hour two hours before now.
	assert.Equal(t, "2025-07-15 12:00", rng.StartString())
	assert.Equal(t, "2025-07-15 12:59", rng.EndString())
}

func TestHoursAgoEnglishKeyword(t *testing.T) {
	rng := resolve(t, "3 hours lalu")
	assert.True(t, rng.Matched)
	assert.Equal(t, "2025-07-15 11:00", rng.StartString())
}

func TestMinutesAgo(t *testing.T) {
	rng := resolve(t, "30 menit yang lalu")
	require.True(t, rng.Matched)
	assert.Equal(t, "minutes_ago", rng.Pattern)
	assert.Equal(t, "2025-07-15 13:23", rng.StartString())
	assert.Equal(t, "2025-07-15 14:23", rng.EndString())
}

func TestSpecificHour(t *testing.T) {
	rng := resolve(t, "cek jam 10")
	require.True(t, rng.Matched)
	assert.Equal(t, "2025-07-15 09:30", rng.StartString())
	assert.Equal(t, "2025-07-15 10:30", rng.EndString())
}

func TestSpecificHourOutOfRange(t *testing.T) {
	rng := resolve(t, "jam 29")
	assert.NotEqual(t, "specific_hour", rng.Pattern)
}

func TestSpecificTime(t *testing.T) {
	rng := resolve(t, "sekitar 10:30")
	require.True(t, rng.Matched)
	assert.Equal(t, "specific_time", rng.Pattern)
	assert.Equal(t, "2025-07-15 10:00", rng.StartString())
	assert.Equal(t, "2025-07-15 11:00", rng.EndString())
}

func TestToday(t *testing.T) {
	rng := resolve(t, "keluhan hari ini")
	require.True(t, rng.Matched)
	assert.Equal(t, "2025-07-15 00:00", rng.StartString())
	assert.Equal(t, "2025-07-15 23:55", rng.EndString())
}

func TestYesterday(t *testing.T) {
	rng := resolve(t, "kemarin")
	require.True(t, rng.Matched)
	assert.Equal(t, "2025-07-14 00:00", rng.StartString())
	assert.Equal(t, "2025-07-14 23:55", rng.EndString())
}

func TestDaysAgo(t *testing.T) {
	rng := resolve(t, "5 hari lalu")
	require.True(t, rng.Matched)
	assert.Equal(t, "2025-07-10 00:00", rng.StartString())
	assert.Equal(t, "2025-07-10 23:55", rng.EndString())
}

func TestDayParts(t *testing.T) {
	tests := []struct {
		text       string
		start, end string
	}{
		{"pagi tadi", "2025-07-15 06:00", "2025-07-15 11:59"},
		{"siang ini", "2025-07-15 12:00", "2025-07-15 17:59"},
		{"sore tadi", "2025-07-15 18:00", "2025-07-15 22:59"},
		// Night wraps midnight: previous evening into this morning.
		{"malam tadi", "2025-07-14 23:00", "2025-07-15 05:59"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			rng := resolve(t, tt.text)
			require.True(t, rng.Matched)
			assert.Equal(t, tt.start, rng.StartString())
			assert.Equal(t, tt.end, rng.EndString())
		})
	}
}

func TestExplicitDate(t *testing.T) {
	rng := resolve(t, "tanggal 01/07/2025")
	require.True(t, rng.Matched)
	assert.Equal(t, "2025-07-01 00:00", rng.StartString())
	assert.Equal(t, "2025-07-01 23:55", rng.EndString())
}

func TestTwoDigitYear(t *testing.T) {
	rng := resolve(t, "15-8-25")
	require.True(t, rng.Matched)
	assert.Equal(t, "2025-08-15 00:00", rng.StartString())
}

func TestInvalidDateFallsThrough(t *testing.T) {
	rng := resolve(t, "31/2/2025")
	assert.False(t, rng.Matched)
}

func TestDefaultToday(t *testing.T) {
	rng := resolve(t, "ada apa dengan jaringan")
	assert.False(t, rng.Matched)
	assert.Equal(t, "default_today", rng.Pattern)
	assert.Equal(t, "2025-07-15 00:00", rng.StartString())
	assert.Equal(t, "2025-07-15 23:55", rng.EndString())
}

func TestPriorityHoursAgoBeatsSpecificHour(t *testing.T) {
	// "2 jam lalu" contains "jam 2"; the relative pattern must win.
	rng := resolve(t, "2 jam lalu")
	assert.Equal(t, "hours_ago", rng.Pattern)
}

type fakeExtractor struct {
	start, end time.Time
	ok         bool
	err        error
}

func (f fakeExtractor) ExtractDates(context.Context, string) (time.Time, time.Time, bool, error) {
	return f.start, f.end, f.ok, f.err
}

func TestLLMLastResort(t *testing.T) {
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2025, 7, 1, 23, 55, 0, 0, time.Local)
	r := NewResolver(fakeExtractor{start: start, end: end, ok: true})

	rng := r.Resolve(context.Background(), "satu juli dua ribu dua puluh lima", testNow)
	require.True(t, rng.Matched)
	assert.Equal(t, "llm", rng.Pattern)
	assert.Equal(t, start, rng.Start)
}

func TestLLMFailureFallsBack(t *testing.T) {
	r := NewResolver(fakeExtractor{err: errors.New("unavailable")})
	rng := r.Resolve(context.Background(), "satu juli", testNow)
	assert.False(t, rng.Matched)
	assert.Equal(t, "default_today", rng.Pattern)
}

func TestValidateRange(t *testing.T) {
	start := testNow.Add(-time.Hour)
	end := testNow

	assert.NoError(t, ValidateRange(start, end, testNow))

	err := ValidateRange(end, start, testNow)
	require.ErrorIs(t, err, domerrors.ErrInvalidTimeRange)
	assert.Contains(t, err.Error(), "before end")

	err = ValidateRange(testNow.Add(48*time.Hour), testNow.Add(50*time.Hour), testNow)
	require.ErrorIs(t, err, domerrors.ErrInvalidTimeRange)
	assert.Contains(t, err.Error(), "future")

	err = ValidateRange(testNow.Add(-40*24*time.Hour), testNow.Add(-35*24*time.Hour), testNow)
	require.ErrorIs(t, err, domerrors.ErrInvalidTimeRange)
	assert.Contains(t, err.Error(), "too old")
}

func TestValidateRangeRejectsEqual(t *testing.T) {
	err := ValidateRange(testNow, testNow, testNow)
	assert.ErrorIs(t, err, domerrors.ErrInvalidTimeRange)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "2 jam 30 menit", FormatDuration(2*time.Hour+30*time.Minute))
	assert.Equal(t, "45 menit", FormatDuration(45*time.Minute))
}
