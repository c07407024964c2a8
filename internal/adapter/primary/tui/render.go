package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"

	"namaz-cli/internal/domain"
	"namaz-cli/internal/usecase"
)

const (
	cellWidth  = 18
	labelWidth = 7
)

var loadingText = map[string]string{
	"tr": "Veri yükleniyor veya ağ hatası. Lütfen bekleyin...",
	"en": "Loading prayer times or network error. Please wait...",
}

// Options selects the presentation. Zero values fall back to defaults.
type Options struct {
	Font     string
	Theme    string
	Language string
	// NoColor disables all escape sequences except cursor movement.
	NoColor bool
}

// Renderer draws countdown views to a terminal, redrawing in place.
type Renderer struct {
	w        io.Writer
	theme    Theme
	language string
	noColor  bool

	mu        sync.Mutex
	fontIndex int
	prevLines int
}

// NewRenderer validates opts and returns a renderer writing to w.
func NewRenderer(w io.Writer, opts Options) (*Renderer, error) {
	themeName := opts.Theme
	if themeName == "" {
		themeName = domain.DefaultTheme
	}
	theme, err := LookupTheme(themeName)
	if err != nil {
		return nil, err
	}
	lang := opts.Language
	if !domain.HasLanguage(lang) {
		lang = domain.DefaultLanguage
	}
	return &Renderer{
		w:         w,
		theme:     theme,
		language:  strings.ToLower(lang),
		noColor:   opts.NoColor || theme.Name == "mono",
		fontIndex: FontIndex(opts.Font),
	}, nil
}

// Font returns the current banner font.
func (r *Renderer) Font() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Fonts[r.fontIndex]
}

// NextFont switches to the following font and returns its name.
func (r *Renderer) NextFont() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fontIndex = (r.fontIndex + 1) % len(Fonts)
	return Fonts[r.fontIndex]
}

// Render replaces the previously drawn frame with view.
func (r *Renderer) Render(view usecase.View) error {
	frame := r.Frame(view)

	r.mu.Lock()
	prev := r.prevLines
	r.prevLines = strings.Count(frame, "\n")
	r.mu.Unlock()

	var b strings.Builder
	if prev > 0 {
		fmt.Fprintf(&b, "\x1b[%dA\x1b[J", prev)
	}
	b.WriteString(frame)
	_, err := io.WriteString(r.w, b.String())
	return err
}

// Frame builds the text of one frame without cursor movement.
func (r *Renderer) Frame(view usecase.View) string {
	var b strings.Builder
	b.WriteString("\n")

	if !view.Ready && view.Error == "" {
		b.WriteString(r.paint(loadingText[r.language], color.FgYellow))
		b.WriteString("\n")
		return b.String()
	}

	if view.Error != "" {
		b.WriteString(r.paint(view.Error, color.FgRed))
		b.WriteString("\n\n")
		b.WriteString(r.table(view.Rows))
		return b.String()
	}

	font := r.Font()
	header := fmt.Sprintf("%s - %s", capitalize(view.City), view.Primary.Label)
	b.WriteString(r.paint(header, color.Bold, color.FgHiBlack))
	b.WriteString(r.paint(fmt.Sprintf(" [Font: %s]", font), color.Faint))
	b.WriteString("\n")

	banner := strings.Split(strings.TrimRight(figure.NewFigure(view.Primary.Remaining, font, false).String(), "\n"), "\n")
	if !r.noColor {
		banner = r.theme.gradient(banner)
	}
	b.WriteString(strings.Join(banner, "\n"))
	b.WriteString("\n")

	if view.Secondary != nil {
		b.WriteString(r.paint(fmt.Sprintf("%s %s", view.Secondary.Label, view.Secondary.Remaining), color.FgHiBlack))
		b.WriteString("\n\n")
	} else {
		b.WriteString("\n\n")
	}

	b.WriteString(r.table(view.Rows))
	if view.Hijri != "" || view.Gregorian != "" {
		b.WriteString(r.paint(strings.TrimSpace(view.Gregorian+"  "+view.Hijri), color.Faint))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) paint(s string, attrs ...color.Attribute) string {
	if r.noColor {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

// table draws the six timings in a 3x2 grid.
func (r *Renderer) table(rows []usecase.Row) string {
	border := func(left, mid, right string) string {
		seg := strings.Repeat("─", cellWidth)
		return left + seg + mid + seg + mid + seg + right + "\n"
	}

	var b strings.Builder
	b.WriteString(border("┌", "┬", "┐"))
	for start := 0; start < len(rows); start += 3 {
		if start > 0 {
			b.WriteString(border("├", "┼", "┤"))
		}
		b.WriteString("│")
		for i := start; i < start+3; i++ {
			cell := ""
			plain := 0
			if i < len(rows) {
				label := padRight(rows[i].Label, labelWidth)
				cell = r.paint(label, color.FgHiBlack) + " " + r.paint(rows[i].Time, color.Bold, color.FgWhite)
				plain = utf8.RuneCountInString(label) + 1 + utf8.RuneCountInString(rows[i].Time)
			}
			pad := cellWidth - 2 - plain
			if pad < 0 {
				pad = 0
			}
			b.WriteString(" " + cell + strings.Repeat(" ", pad) + " │")
		}
		b.WriteString("\n")
	}
	b.WriteString(border("└", "┴", "┘"))
	return b.String()
}

func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
