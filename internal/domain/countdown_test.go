package domain

import (
	"testing"
	"time"
)

func at(hour, minute, sec int) time.Time {
	return time.Date(2026, time.March, 1, hour, minute, sec, 0, testZone)
}

func sampleSet(t *testing.T) TimingSet {
	t.Helper()
	ts, err := Parse(sampleRaw(), at(0, 0, 0))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return ts
}

func TestResolvePrimary(t *testing.T) {
	ts := sampleSet(t)
	nextDayFajr := time.Date(2026, time.March, 2, 5, 30, 0, 0, testZone)

	tests := []struct {
		name   string
		now    time.Time
		next   PrayerID
		target time.Time
	}{
		{name: "after midnight", now: at(0, 10, 0), next: Fajr, target: at(5, 30, 0)},
		{name: "between fajr and sunrise", now: at(6, 0, 0), next: Sunrise, target: at(6, 50, 0)},
		{name: "afternoon", now: at(14, 0, 0), next: Asr, target: at(16, 40, 0)},
		{name: "evening before isha", now: at(20, 10, 0), next: Isha, target: at(21, 20, 0)},
		{name: "after isha", now: at(22, 0, 0), next: Fajr, target: nextDayFajr},
		{name: "just before midnight", now: at(23, 59, 59), next: Fajr, target: nextDayFajr},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rc := Resolve(ts, tc.now, 4)
			if rc.Next != tc.next {
				t.Fatalf("next mismatch: got %s want %s", rc.Next, tc.next)
			}
			if rc.Primary.Label != PrayerLabel(tc.next) {
				t.Fatalf("label mismatch: got %s", rc.Primary.Label)
			}
			if !rc.Primary.At.Equal(tc.target) {
				t.Fatalf("target mismatch: got %v want %v", rc.Primary.At, tc.target)
			}
			if rc.Secondary != nil {
				t.Fatalf("secondary must be absent outside the fasting month")
			}
		})
	}
}

func TestResolveBoundaryIsPassed(t *testing.T) {
	ts := sampleSet(t)
	for i, p := range PrayerOrder {
		rc := Resolve(ts, ts.At(p), 1)
		if i+1 < len(PrayerOrder) {
			want := PrayerOrder[i+1]
			if rc.Next != want || !rc.Primary.At.Equal(ts.At(want)) {
				t.Fatalf("at %s expected %s, got %s at %v", p, want, rc.Next, rc.Primary.At)
			}
			continue
		}
		if rc.Next != Fajr || !rc.Primary.At.Equal(ts.At(Fajr).AddDate(0, 0, 1)) {
			t.Fatalf("at Isha expected next-day Fajr, got %s at %v", rc.Next, rc.Primary.At)
		}
	}
}

func TestResolveFastingBranches(t *testing.T) {
	ts := sampleSet(t)
	nextDayFajr := ts.At(Fajr).AddDate(0, 0, 1)

	tests := []struct {
		name   string
		now    time.Time
		label  LabelKey
		target time.Time
	}{
		{name: "before fajr", now: at(5, 29, 59), label: LabelUntilSuhoor, target: ts.At(Fajr)},
		{name: "at fajr", now: at(5, 30, 0), label: LabelUntilIftar, target: ts.At(Maghrib)},
		{name: "midday", now: at(13, 0, 0), label: LabelUntilIftar, target: ts.At(Maghrib)},
		{name: "at maghrib", now: at(19, 55, 0), label: LabelUntilSuhoor, target: nextDayFajr},
		{name: "after maghrib", now: at(20, 10, 0), label: LabelUntilSuhoor, target: nextDayFajr},
		{name: "after isha", now: at(23, 0, 0), label: LabelUntilSuhoor, target: nextDayFajr},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rc := Resolve(ts, tc.now, FastingMonth)
			if rc.Secondary == nil {
				t.Fatal("secondary must be present in the fasting month")
			}
			if rc.Secondary.Label != tc.label {
				t.Fatalf("label mismatch: got %s want %s", rc.Secondary.Label, tc.label)
			}
			if !rc.Secondary.At.Equal(tc.target) {
				t.Fatalf("target mismatch: got %v want %v", rc.Secondary.At, tc.target)
			}
		})
	}
}

func TestResolveFastingEveningScenario(t *testing.T) {
	ts := sampleSet(t)
	nextDayFajr := time.Date(2026, time.March, 2, 5, 30, 0, 0, testZone)

	rc := Resolve(ts, at(21, 30, 0), FastingMonth)
	if rc.Next != Fajr || !rc.Primary.At.Equal(nextDayFajr) {
		t.Fatalf("primary mismatch: %s at %v", rc.Next, rc.Primary.At)
	}
	if rc.Secondary == nil || rc.Secondary.Label != LabelUntilSuhoor || !rc.Secondary.At.Equal(nextDayFajr) {
		t.Fatalf("secondary mismatch: %+v", rc.Secondary)
	}
}

func TestResolveNonFastingMonthsHaveNoSecondary(t *testing.T) {
	ts := sampleSet(t)
	for month := 1; month <= 12; month++ {
		if month == FastingMonth {
			continue
		}
		for _, now := range []time.Time{at(1, 0, 0), at(12, 0, 0), at(20, 0, 0), at(23, 0, 0)} {
			if rc := Resolve(ts, now, month); rc.Secondary != nil {
				t.Fatalf("month %d at %v: unexpected secondary %+v", month, now, rc.Secondary)
			}
		}
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	ts := sampleSet(t)
	now := at(19, 0, 0)
	a := Resolve(ts, now, FastingMonth)
	b := Resolve(ts, now, FastingMonth)
	if a.Next != b.Next || !a.Primary.At.Equal(b.Primary.At) || a.Primary.Label != b.Primary.Label {
		t.Fatalf("primary differs: %+v vs %+v", a.Primary, b.Primary)
	}
	if *a.Secondary != *b.Secondary {
		t.Fatalf("secondary differs: %+v vs %+v", a.Secondary, b.Secondary)
	}
}

func TestResolveNonMonotonicStillAnswers(t *testing.T) {
	raw := sampleRaw()
	raw[Maghrib] = "12:00"
	ts, err := Parse(raw, at(0, 0, 0))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	rc := Resolve(ts, at(14, 0, 0), 1)
	if rc.Next != Asr {
		t.Fatalf("scan order must be canonical, got %s", rc.Next)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0:00:00"},
		{59, "0:00:59"},
		{60, "0:01:00"},
		{3599, "0:59:59"},
		{3600, "1:00:00"},
		{86399, "23:59:59"},
		{90000, "25:00:00"},
		{-5, "0:00:00"},
	}
	for _, tc := range tests {
		if got := FormatDuration(tc.seconds); got != tc.want {
			t.Fatalf("FormatDuration(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestRemainingTruncates(t *testing.T) {
	now := at(14, 0, 0).Add(400 * time.Millisecond)
	if got := Remaining(at(14, 1, 0), now); got != 59 {
		t.Fatalf("Remaining = %d, want 59", got)
	}
}
