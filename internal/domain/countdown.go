package domain

import (
	"fmt"
	"time"
)

// FastingMonth is the lunar month in which the secondary countdown is shown.
const FastingMonth = 9

// Target is a labelled instant the countdown runs towards.
type Target struct {
	Label LabelKey
	At    time.Time
}

// ResolvedCountdown is the per-tick result of Resolve. Secondary is nil
// outside the fasting month.
type ResolvedCountdown struct {
	Next      PrayerID
	Primary   Target
	Secondary *Target
}

// Resolve selects the next prayer after now and, during the fasting month,
// the fasting boundary (suhoor or iftar) the day is heading to.
//
// A timing equal to now counts as passed. When every timing has passed the
// countdown wraps to Fajr of the following day. The scan relies on ts being
// non-decreasing; out-of-order data yields an answer that may be wrong.
func Resolve(ts TimingSet, now time.Time, lunarMonth int) ResolvedCountdown {
	rc := ResolvedCountdown{
		Next:    Fajr,
		Primary: Target{Label: PrayerLabel(Fajr), At: ts.At(Fajr).AddDate(0, 0, 1)},
	}
	for _, p := range PrayerOrder {
		if ts.At(p).After(now) {
			rc.Next = p
			rc.Primary = Target{Label: PrayerLabel(p), At: ts.At(p)}
			break
		}
	}

	if lunarMonth != FastingMonth {
		return rc
	}

	var sec Target
	switch {
	case !now.Before(ts.At(Maghrib)):
		sec = Target{Label: LabelUntilSuhoor, At: ts.At(Fajr).AddDate(0, 0, 1)}
	case !now.Before(ts.At(Fajr)):
		sec = Target{Label: LabelUntilIftar, At: ts.At(Maghrib)}
	default:
		sec = Target{Label: LabelUntilSuhoor, At: ts.At(Fajr)}
	}
	rc.Secondary = &sec
	return rc
}

// Remaining returns the whole seconds from now until target.
func Remaining(target, now time.Time) int64 {
	return int64(target.Sub(now) / time.Second)
}

// FormatDuration renders seconds as H:MM:SS. Hours are not padded and may
// exceed 23. Callers must pass a non-negative value; negatives render as 0:00:00.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}
