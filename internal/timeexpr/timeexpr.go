// Package timeexpr resolves Indonesian natural-language time expressions
// into concrete start/end windows for the complaint pipeline and the
// SmartCare API. Patterns are tried as an ordered strategy list; an optional
// LLM date extractor is consulted last before defaulting to today.
package timeexpr

import (
	"context"
	"regexp"
	"strconv"
	"time"
)

// Layout is the timestamp format shared with the SmartCare API.
const Layout = "2006-01-02 15:04"

// Day ranges end at :55 rather than :59 to leave headroom before hourly
// boundaries. This convention is load-bearing for the upstream API.
const endOfDayMinute = 55

// Range is a resolved time window.
type Range struct {
	Start   time.Time
	End     time.Time
	Matched bool   // false when the default window was assumed
	Pattern string // name of the strategy that matched
}

// StartString returns the start timestamp in API format.
func (r Range) StartString() string { return r.Start.Format(Layout) }

// EndString returns the end timestamp in API format.
func (r Range) EndString() string { return r.End.Format(Layout) }

// DateExtractor is the optional LLM-assisted last resort for dates the
// pattern table cannot handle ("1 juli 2025", "tanggal 15 agustus").
type DateExtractor interface {
	ExtractDates(ctx context.Context, text string) (start, end time.Time, ok bool, err error)
}

// Resolver resolves time expressions. The zero value works without LLM
// assistance.
type Resolver struct {
	extractor DateExtractor
}

// NewResolver creates a resolver. extractor may be nil.
func NewResolver(extractor DateExtractor) *Resolver {
	return &Resolver{extractor: extractor}
}

var (
	hoursAgoRe     = regexp.MustCompile(`(\d+)\s*(?:jam|hour)s?\s*(?:yang\s+)?lalu`)
	minutesAgoRe   = regexp.MustCompile(`(\d+)\s*(?:menit|minute)s?\s*(?:yang\s+)?lalu`)
	specificHourRe = regexp.MustCompile(`jam\s*(\d{1,2})`)
	specificTimeRe = regexp.MustCompile(`(\d{1,2})[:.](\d{2})`)
	todayRe        = regexp.MustCompile(`hari\s+ini|today|sekarang`)
	yesterdayRe    = regexp.MustCompile(`kemarin|yesterday`)
	daysAgoRe      = regexp.MustCompile(`(\d+)\s*(?:hari|day)s?\s*(?:yang\s+)?lalu`)
	morningRe      = regexp.MustCompile(`pagi\s+(?:ini|tadi)|this\s+morning`)
	afternoonRe    = regexp.MustCompile(`siang\s+(?:ini|tadi)|this\s+afternoon`)
	eveningRe      = regexp.MustCompile(`sore\s+(?:ini|tadi)|this\s+evening`)
	lastNightRe    = regexp.MustCompile(`malam\s+tadi|last\s+night`)
	dateRe         = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})`)
)

type strategy struct {
	name string
	fn   func(text string, now time.Time) (Range, bool)
}

var strategies = []strategy{
	{"hours_ago", resolveHoursAgo},
	{"minutes_ago", resolveMinutesAgo},
	{"specific_hour", resolveSpecificHour},
	{"specific_time", resolveSpecificTime},
	{"today", resolveToday},
	{"yesterday", resolveYesterday},
	{"days_ago", resolveDaysAgo},
	{"morning", resolveMorning},
	{"afternoon", resolveAfternoon},
	{"evening", resolveEvening},
	{"last_night", resolveLastNight},
	{"date", resolveDate},
}

// Resolve tries each pattern in priority order, then the LLM extractor, then
// falls back to the full current day with Matched=false.
func (r *Resolver) Resolve(ctx context.Context, text string, now time.Time) Range {
	for _, s := range strategies {
		if rng, ok := s.fn(text, now); ok {
			rng.Matched = true
			rng.Pattern = s.name
			return rng
		}
	}

	if r != nil && r.extractor != nil {
		if start, end, ok, err := r.extractor.ExtractDates(ctx, text); err == nil && ok {
			return Range{Start: start, End: end, Matched: true, Pattern: "llm"}
		}
	}

	return Range{
		Start:   dayStart(now),
		End:     dayEnd(now),
		Matched: false,
		Pattern: "default_today",
	}
}

func resolveHoursAgo(text string, now time.Time) (Range, bool) {
	m := hoursAgoRe.FindStringSubmatch(text)
	if m == nil {
		return Range{}, false
	}
	hours, _ := strconv.Atoi(m[1])
	target := now.Add(-time.Duration(hours) * time.Hour)
	start := time.Date(target.Year(), target.Month(), target.Day(), target.Hour(), 0, 0, 0, target.Location())
	return Range{Start: start, End: start.Add(59 * time.Minute)}, true
}

func resolveMinutesAgo(text string, now time.Time) (Range, bool) {
	m := minutesAgoRe.FindStringSubmatch(text)
	if m == nil {
		return Range{}, false
	}
	minutes, _ := strconv.Atoi(m[1])
	target := now.Add(-time.Duration(minutes) * time.Minute)
	return Range{Start: target.Add(-30 * time.Minute), End: target.Add(30 * time.Minute)}, true
}

func resolveSpecificHour(text string, now time.Time) (Range, bool) {
	m := specificHourRe.FindStringSubmatch(text)
	if m == nil {
		return Range{}, false
	}
	hour, _ := strconv.Atoi(m[1])
	if hour > 23 {
		return Range{}, false
	}
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	return Range{Start: target.Add(-30 * time.Minute), End: target.Add(30 * time.Minute)}, true
}

func resolveSpecificTime(text string, now time.Time) (Range, bool) {
	m := specificTimeRe.FindStringSubmatch(text)
	if m == nil {
		return Range{}, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return Range{}, false
	}
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	return Range{Start: target.Add(-30 * time.Minute), End: target.Add(30 * time.Minute)}, true
}

func resolveToday(text string, now time.Time) (Range, bool) {
	if !todayRe.MatchString(text) {
		return Range{}, false
	}
	return Range{Start: dayStart(now), End: dayEnd(now)}, true
}

func resolveYesterday(text string, now time.Time) (Range, bool) {
	if !yesterdayRe.MatchString(text) {
		return Range{}, false
	}
	y := now.AddDate(0, 0, -1)
	return Range{Start: dayStart(y), End: dayEnd(y)}, true
}

func resolveDaysAgo(text string, now time.Time) (Range, bool) {
	m := daysAgoRe.FindStringSubmatch(text)
	if m == nil {
		return Range{}, false
	}
	days, _ := strconv.Atoi(m[1])
	target := now.AddDate(0, 0, -days)
	return Range{Start: dayStart(target), End: dayEnd(target)}, true
}

func resolveMorning(text string, now time.Time) (Range, bool) {
	if !morningRe.MatchString(text) {
		return Range{}, false
	}
	return dayPart(now, 6, 0, 11, 59), true
}

func resolveAfternoon(text string, now time.Time) (Range, bool) {
	if !afternoonRe.MatchString(text) {
		return Range{}, false
	}
	return dayPart(now, 12, 0, 17, 59), true
}

func resolveEvening(text string, now time.Time) (Range, bool) {
	if !eveningRe.MatchString(text) {
		return Range{}, false
	}
	return dayPart(now, 18, 0, 22, 59), true
}

// resolveLastNight covers 23:00 of the previous day through 05:59 of the
// current day. The night window is the only one that crosses midnight.
func resolveLastNight(text string, now time.Time) (Range, bool) {
	if !lastNightRe.MatchString(text) {
		return Range{}, false
	}
	y := now.AddDate(0, 0, -1)
	start := time.Date(y.Year(), y.Month(), y.Day(), 23, 0, 0, 0, now.Location())
	end := start.Add(6*time.Hour + 59*time.Minute)
	return Range{Start: start, End: end}, true
}

func resolveDate(text string, now time.Time) (Range, bool) {
	m := dateRe.FindStringSubmatch(text)
	if m == nil {
		return Range{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if len(m[3]) == 2 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return Range{}, false
	}
	target := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	// time.Date normalizes overflow (e.g. 31/2), reject silently shifted dates
	if target.Day() != day || target.Month() != time.Month(month) {
		return Range{}, false
	}
	return Range{Start: target, End: dayEnd(target)}, true
}

func dayPart(now time.Time, sh, sm, eh, em int) Range {
	return Range{
		Start: time.Date(now.Year(), now.Month(), now.Day(), sh, sm, 0, 0, now.Location()),
		End:   time.Date(now.Year(), now.Month(), now.Day(), eh, em, 0, 0, now.Location()),
	}
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, endOfDayMinute, 0, 0, t.Location())
}
