package usecase

import (
	"sync"
	"time"

	"namaz-cli/internal/domain"
	"namaz-cli/internal/logging"
)

// Line is one countdown as shown to the user.
type Line struct {
	Label     string    `json:"label"`
	Remaining string    `json:"remaining"`
	Seconds   int64     `json:"seconds"`
	Target    time.Time `json:"target"`
}

// Row is one entry of the timings table. Time is the provider's raw string.
type Row struct {
	Prayer string `json:"prayer"`
	Label  string `json:"label"`
	Time   string `json:"time"`
}

// View is everything a renderer needs for one tick. Ready is false until
// the first successful refresh, or while the stored payload cannot be parsed.
type View struct {
	Ready     bool            `json:"ready"`
	Error     string          `json:"error,omitempty"`
	City      string          `json:"city"`
	Country   string          `json:"country"`
	Next      domain.PrayerID `json:"-"`
	NextName  string          `json:"next"`
	Primary   Line            `json:"primary"`
	Secondary *Line           `json:"secondary,omitempty"`
	Rows      []Row           `json:"timings"`
	Gregorian string          `json:"gregorian"`
	Hijri     string          `json:"hijri"`
	Fasting   bool            `json:"fasting"`
}

// CountdownUseCase turns the current snapshot into a View.
type CountdownUseCase interface {
	View(now time.Time) View
	// Tick is View plus announcing next-prayer changes to the publisher.
	Tick(now time.Time) View
}

type countdownInteractor struct {
	snapshot  *Snapshot
	publisher domain.Publisher
	language  string

	mu         sync.Mutex
	lastBad    time.Time
	lastPrayer domain.PrayerID
	lastTarget time.Time
	announced  bool
}

// NewCountdownUseCase builds the per-tick view. publisher may be nil.
func NewCountdownUseCase(snapshot *Snapshot, publisher domain.Publisher, language string) CountdownUseCase {
	if !domain.HasLanguage(language) {
		language = domain.DefaultLanguage
	}
	return &countdownInteractor{
		snapshot:  snapshot,
		publisher: publisher,
		language:  language,
	}
}

func (c *countdownInteractor) View(now time.Time) View {
	timings, ok := c.snapshot.Load()
	if !ok {
		return View{}
	}

	view := View{
		City:      timings.Location.City,
		Country:   timings.Location.Country,
		Gregorian: timings.Gregorian,
		Hijri:     timings.Hijri,
		Fasting:   timings.IsFastingMonth(),
		Rows:      make([]Row, 0, len(domain.PrayerOrder)),
	}
	for _, p := range domain.PrayerOrder {
		view.Rows = append(view.Rows, Row{
			Prayer: p.String(),
			Label:  domain.Label(c.language, domain.PrayerLabel(p)),
			Time:   timings.Raw[p],
		})
	}

	ts, err := domain.Parse(timings.Raw, now)
	if err != nil {
		c.reportBad(timings, err)
		view.Error = err.Error()
		return view
	}

	rc := domain.Resolve(ts, now, timings.LunarMonth)
	view.Ready = true
	view.Next = rc.Next
	view.NextName = rc.Next.String()
	view.Primary = c.line(rc.Primary, now)
	if rc.Secondary != nil {
		sec := c.line(*rc.Secondary, now)
		view.Secondary = &sec
	}
	return view
}

func (c *countdownInteractor) line(t domain.Target, now time.Time) Line {
	secs := domain.Remaining(t.At, now)
	return Line{
		Label:     domain.Label(c.language, t.Label),
		Remaining: domain.FormatDuration(secs),
		Seconds:   secs,
		Target:    t.At,
	}
}

// reportBad logs a parse failure once per stored payload.
func (c *countdownInteractor) reportBad(timings domain.DailyTimings, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastBad.Equal(timings.FetchedAt) && !c.lastBad.IsZero() {
		return
	}
	c.lastBad = timings.FetchedAt
	logging.Errorf("stored timings for %s are unusable: %v", timings.Gregorian, err)
}

func (c *countdownInteractor) Tick(now time.Time) View {
	view := c.View(now)
	if !view.Ready || c.publisher == nil {
		return view
	}

	c.mu.Lock()
	changed := !c.announced || c.lastPrayer != view.Next || !c.lastTarget.Equal(view.Primary.Target)
	if changed {
		c.announced = true
		c.lastPrayer = view.Next
		c.lastTarget = view.Primary.Target
	}
	c.mu.Unlock()

	if changed {
		err := c.publisher.PublishNext(domain.NextPrayerEvent{
			City:   view.City,
			Prayer: view.NextName,
			Label:  view.Primary.Label,
			At:     view.Primary.Target,
		})
		if err != nil {
			logging.Warnf("publish next prayer: %v", err)
		}
	}
	return view
}
