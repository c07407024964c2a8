package tui

import (
	"fmt"
	"sort"
	"strings"

	"namaz-cli/internal/domain"
)

// Fonts are the figlet fonts the countdown banner cycles through.
var Fonts = []string{
	"big", "shadow", "cricket", "graffiti", "slant", "banner3", "banner4",
	"basic", "doom", "nancyj-fancy", "invita", "small", "standard",
}

type rgb struct {
	r, g, b uint8
}

func (c rgb) lerp(to rgb, t float64) rgb {
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
	}
	return rgb{mix(c.r, to.r), mix(c.g, to.g), mix(c.b, to.b)}
}

// Theme controls the banner gradient. A theme without stops renders plain text.
type Theme struct {
	Name  string
	Stops []rgb
}

var themes = map[string]Theme{
	"default": {Name: "default", Stops: []rgb{{0x19, 0x80, 0xA9}, {0xF3, 0x8B, 0x94}}},
	"ocean":   {Name: "ocean", Stops: []rgb{{0x00, 0xC9, 0xFF}, {0x92, 0xFE, 0x9D}}},
	"mono":    {Name: "mono"},
}

// Themes lists the available theme names.
func Themes() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupTheme returns the named theme.
func LookupTheme(name string) (Theme, error) {
	t, ok := themes[strings.ToLower(name)]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %s (available: %s)", domain.ErrUnknownTheme, name, strings.Join(Themes(), ", "))
	}
	return t, nil
}

// FontIndex returns the position of name in Fonts, or 0 when unknown.
func FontIndex(name string) int {
	for i, f := range Fonts {
		if strings.EqualFold(f, name) {
			return i
		}
	}
	return 0
}

// gradient colors each column of lines from the first to the last stop.
func (t Theme) gradient(lines []string) []string {
	if len(t.Stops) < 2 {
		return lines
	}
	width := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > width {
			width = n
		}
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		var b strings.Builder
		for col, r := range []rune(l) {
			if r == ' ' {
				b.WriteRune(r)
				continue
			}
			pos := 0.0
			if width > 1 {
				pos = float64(col) / float64(width-1)
			}
			c := t.at(pos)
			fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm%c", c.r, c.g, c.b, r)
		}
		b.WriteString("\x1b[0m")
		out[i] = b.String()
	}
	return out
}

func (t Theme) at(pos float64) rgb {
	segments := len(t.Stops) - 1
	scaled := pos * float64(segments)
	idx := int(scaled)
	if idx >= segments {
		return t.Stops[segments]
	}
	return t.Stops[idx].lerp(t.Stops[idx+1], scaled-float64(idx))
}
