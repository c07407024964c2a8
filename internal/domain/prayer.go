package domain

import (
	"strconv"
	"strings"
	"time"
)

// PrayerID is the language-neutral identifier of one daily timing.
type PrayerID int

const (
	Fajr PrayerID = iota
	Sunrise
	Dhuhr
	Asr
	Maghrib
	Isha
)

// PrayerOrder is the canonical order used for scanning and display.
var PrayerOrder = [...]PrayerID{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

func (p PrayerID) String() string {
	switch p {
	case Fajr:
		return "Fajr"
	case Sunrise:
		return "Sunrise"
	case Dhuhr:
		return "Dhuhr"
	case Asr:
		return "Asr"
	case Maghrib:
		return "Maghrib"
	case Isha:
		return "Isha"
	default:
		return "unknown"
	}
}

// ParsePrayerID maps a provider timing key ("Fajr", "Isha", ...) to its ID.
func ParsePrayerID(s string) (PrayerID, bool) {
	for _, p := range PrayerOrder {
		if strings.EqualFold(p.String(), s) {
			return p, true
		}
	}
	return 0, false
}

// RawTimings holds the provider's "HH:MM" strings keyed by prayer.
type RawTimings map[PrayerID]string

// TimingSet is the six absolute instants of a single calendar day.
// The instants are expected to be non-decreasing in PrayerOrder; this is
// trusted, not checked.
type TimingSet struct {
	times [len(PrayerOrder)]time.Time
}

// At returns the instant of the given prayer.
func (ts TimingSet) At(p PrayerID) time.Time {
	return ts.times[p]
}

// Parse anchors each raw "HH:MM" value to the calendar date of reference.
// Seconds and sub-seconds are zeroed and the location of reference is kept.
func Parse(raw RawTimings, reference time.Time) (TimingSet, error) {
	var ts TimingSet
	year, month, day := reference.Date()
	for _, p := range PrayerOrder {
		value, ok := raw[p]
		if !ok {
			return TimingSet{}, &ParseError{Field: p.String(), Err: ErrMissingTime}
		}
		hour, minute, err := parseClock(value)
		if err != nil {
			return TimingSet{}, &ParseError{Field: p.String(), Value: value, Err: err}
		}
		ts.times[p] = time.Date(year, month, day, hour, minute, 0, 0, reference.Location())
	}
	return ts, nil
}

// parseClock accepts "H:MM" or "HH:MM", optionally followed by a
// whitespace-separated suffix such as "(+03)".
func parseClock(s string) (int, int, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, 0, ErrInvalidTime
	}
	hh, mm, ok := strings.Cut(fields[0], ":")
	if !ok || len(hh) < 1 || len(hh) > 2 || len(mm) != 2 || !digits(hh) || !digits(mm) {
		return 0, 0, ErrInvalidTime
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, ErrInvalidTime
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, ErrInvalidTime
	}
	return hour, minute, nil
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
