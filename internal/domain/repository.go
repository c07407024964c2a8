package domain

import (
	"context"
	"time"
)

// ConfigRepository is a secondary port that defines how settings are persisted.
// This interface is defined in the domain layer and implemented by adapters.
type ConfigRepository interface {
	Load() (Settings, error)
	Save(settings Settings) error
	Reset() error
}

// TimingsProvider is a secondary port returning today's timings for a location.
type TimingsProvider interface {
	Fetch(ctx context.Context, loc Location) (DailyTimings, error)
}

// TimingsCache keeps the last successful answers so a restart without
// network still has something to show.
type TimingsCache interface {
	Get(loc Location, date string) (DailyTimings, bool, error)
	Put(timings DailyTimings) error
	Close() error
}

// NextPrayerEvent is announced whenever the upcoming prayer changes.
type NextPrayerEvent struct {
	City   string    `json:"city"`
	Prayer string    `json:"prayer"`
	Label  string    `json:"label"`
	At     time.Time `json:"at"`
}

// Publisher is a secondary port that fans next-prayer changes out.
type Publisher interface {
	PublishNext(event NextPrayerEvent) error
	Close()
}
