package domain

import (
	"strings"
	"time"
)

// Location identifies what the timing provider is asked for.
type Location struct {
	City    string
	Country string
	Method  int
}

// DailyTimings is one successful provider answer for a single day.
// Raw strings are kept as received so they can be displayed unchanged.
type DailyTimings struct {
	Location   Location
	Raw        RawTimings
	LunarMonth int
	// Gregorian and Hijri are the provider's own date strings (DD-MM-YYYY).
	Gregorian string
	Hijri     string
	HijriName string
	FetchedAt time.Time
}

// DateLayout is the provider's Gregorian date format, used as cache key.
const DateLayout = "02-01-2006"

// IsFastingMonth reports whether the secondary countdown applies.
func (d DailyTimings) IsFastingMonth() bool {
	return d.LunarMonth == FastingMonth
}

// MQTTSettings configures the optional next-prayer publisher.
type MQTTSettings struct {
	Enabled     bool
	Broker      string
	TopicPrefix string
	ClientID    string
	Username    string
	Password    string
}

// Settings is the persisted user configuration.
type Settings struct {
	City            string
	Country         string
	Method          int
	Language        string
	Font            string
	Theme           string
	RefreshInterval time.Duration
	APIBaseURL      string
	CachePath       string
	MQTT            MQTTSettings
}

const (
	// DefaultMethod is the Diyanet calculation method of the timing provider.
	DefaultMethod = 13

	DefaultFont            = "big"
	DefaultTheme           = "default"
	DefaultRefreshInterval = time.Hour
	DefaultAPIBaseURL      = "https://api.aladhan.com/v1"
	DefaultTopicPrefix     = "namaz"
	DefaultBroker          = "tcp://localhost:1883"
)

// DefaultSettings returns the settings used before first-run setup.
func DefaultSettings() Settings {
	return Settings{
		Method:          DefaultMethod,
		Language:        DefaultLanguage,
		Font:            DefaultFont,
		Theme:           DefaultTheme,
		RefreshInterval: DefaultRefreshInterval,
		APIBaseURL:      DefaultAPIBaseURL,
		MQTT: MQTTSettings{
			Broker:      DefaultBroker,
			TopicPrefix: DefaultTopicPrefix,
		},
	}
}

// Configured reports whether first-run setup has been completed.
func (s Settings) Configured() bool {
	return strings.TrimSpace(s.City) != "" && strings.TrimSpace(s.Country) != ""
}

// Location returns what the provider should be queried for.
func (s Settings) Location() Location {
	return Location{
		City:    strings.TrimSpace(s.City),
		Country: strings.TrimSpace(s.Country),
		Method:  s.Method,
	}
}

// Validate checks values that the CLI or the environment may have set.
// Font and theme are checked by the renderer that owns them.
func (s Settings) Validate() error {
	if !s.Configured() {
		return ErrNotConfigured
	}
	if s.RefreshInterval < time.Minute {
		return ErrInvalidInterval
	}
	if !HasLanguage(s.Language) {
		return ErrUnknownLanguage
	}
	return nil
}
