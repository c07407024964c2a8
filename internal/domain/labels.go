package domain

import "strings"

// LabelKey identifies a display string independently of the language.
type LabelKey string

const (
	LabelFajr        LabelKey = "fajr"
	LabelSunrise     LabelKey = "sunrise"
	LabelDhuhr       LabelKey = "dhuhr"
	LabelAsr         LabelKey = "asr"
	LabelMaghrib     LabelKey = "maghrib"
	LabelIsha        LabelKey = "isha"
	LabelUntilSuhoor LabelKey = "until_suhoor"
	LabelUntilIftar  LabelKey = "until_iftar"
)

var prayerLabels = [...]LabelKey{
	Fajr:    LabelFajr,
	Sunrise: LabelSunrise,
	Dhuhr:   LabelDhuhr,
	Asr:     LabelAsr,
	Maghrib: LabelMaghrib,
	Isha:    LabelIsha,
}

// PrayerLabel returns the label key used for a prayer.
func PrayerLabel(p PrayerID) LabelKey {
	if p < 0 || int(p) >= len(prayerLabels) {
		return LabelKey(strings.ToLower(p.String()))
	}
	return prayerLabels[p]
}

// DefaultLanguage is used when no language is configured or the configured
// one has no table.
const DefaultLanguage = "tr"

var labelTables = map[string]map[LabelKey]string{
	"tr": {
		LabelFajr:        "İmsak",
		LabelSunrise:     "Güneş",
		LabelDhuhr:       "Öğle",
		LabelAsr:         "İkindi",
		LabelMaghrib:     "Akşam",
		LabelIsha:        "Yatsı",
		LabelUntilSuhoor: "Sahura Kalan",
		LabelUntilIftar:  "İftara Kalan",
	},
	"en": {
		LabelFajr:        "Fajr",
		LabelSunrise:     "Sunrise",
		LabelDhuhr:       "Dhuhr",
		LabelAsr:         "Asr",
		LabelMaghrib:     "Maghrib",
		LabelIsha:        "Isha",
		LabelUntilSuhoor: "Until Suhoor",
		LabelUntilIftar:  "Until Iftar",
	},
}

// Languages lists the languages that have a label table.
func Languages() []string {
	return []string{"tr", "en"}
}

// HasLanguage reports whether lang has a label table.
func HasLanguage(lang string) bool {
	_, ok := labelTables[strings.ToLower(lang)]
	return ok
}

// Label looks up key in the table for lang, falling back to the default
// language and finally to the key itself.
func Label(lang string, key LabelKey) string {
	if table, ok := labelTables[strings.ToLower(lang)]; ok {
		if s, ok := table[key]; ok {
			return s
		}
	}
	if s, ok := labelTables[DefaultLanguage][key]; ok {
		return s
	}
	return string(key)
}
