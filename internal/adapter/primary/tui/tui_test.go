package tui

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"namaz-cli/internal/domain"
	"namaz-cli/internal/usecase"
)

func readyView() usecase.View {
	return usecase.View{
		Ready:    true,
		City:     "istanbul",
		NextName: "Asr",
		Primary:  usecase.Line{Label: "İkindi", Remaining: "2:40:00"},
		Rows: []usecase.Row{
			{Prayer: "Fajr", Label: "İmsak", Time: "05:30"},
			{Prayer: "Sunrise", Label: "Güneş", Time: "06:50"},
			{Prayer: "Dhuhr", Label: "Öğle", Time: "13:05"},
			{Prayer: "Asr", Label: "İkindi", Time: "16:40"},
			{Prayer: "Maghrib", Label: "Akşam", Time: "19:55"},
			{Prayer: "Isha", Label: "Yatsı", Time: "21:20"},
		},
		Gregorian: "01-03-2026",
		Hijri:     "11-09-1447",
	}
}

func newMono(t *testing.T, w *bytes.Buffer) *Renderer {
	t.Helper()
	r, err := NewRenderer(w, Options{Theme: "mono", Language: "tr"})
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestFrameReady(t *testing.T) {
	r := newMono(t, &bytes.Buffer{})
	frame := r.Frame(readyView())

	if !strings.Contains(frame, "Istanbul - İkindi [Font: big]") {
		t.Fatalf("header missing:\n%s", frame)
	}
	if strings.Contains(frame, "\x1b[") {
		t.Fatalf("mono theme must not emit escapes:\n%q", frame)
	}
	for _, want := range []string{"İmsak   05:30", "Yatsı   21:20", "11-09-1447"} {
		if !strings.Contains(frame, want) {
			t.Fatalf("frame missing %q:\n%s", want, frame)
		}
	}
}

func TestTableColumnsAlign(t *testing.T) {
	r := newMono(t, &bytes.Buffer{})
	table := r.table(readyView().Rows)
	lines := strings.Split(strings.TrimRight(table, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 table lines, got %d:\n%s", len(lines), table)
	}
	width := len([]rune(lines[0]))
	for _, l := range lines {
		if n := len([]rune(l)); n != width {
			t.Fatalf("line width %d != %d: %q", n, width, l)
		}
	}
}

func TestFrameSecondaryLine(t *testing.T) {
	r := newMono(t, &bytes.Buffer{})
	v := readyView()
	v.Secondary = &usecase.Line{Label: "İftara Kalan", Remaining: "5:55:00"}
	if frame := r.Frame(v); !strings.Contains(frame, "İftara Kalan 5:55:00") {
		t.Fatalf("secondary line missing:\n%s", frame)
	}
}

func TestFrameLoading(t *testing.T) {
	r, err := NewRenderer(&bytes.Buffer{}, Options{Theme: "mono", Language: "en"})
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if frame := r.Frame(usecase.View{}); !strings.Contains(frame, "Loading prayer times") {
		t.Fatalf("loading text missing: %q", frame)
	}
}

func TestRenderRedrawsInPlace(t *testing.T) {
	var buf bytes.Buffer
	r := newMono(t, &buf)
	if err := r.Render(usecase.View{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("first frame must not move the cursor: %q", buf.String())
	}
	lines := strings.Count(buf.String(), "\n")
	buf.Reset()
	if err := r.Render(readyView()); err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "\x1b[" + strconv.Itoa(lines) + "A\x1b[J"; !strings.HasPrefix(buf.String(), want) {
		t.Fatalf("expected %q prefix, got %q", want, buf.String())
	}
}

func TestGradientColorsNonSpaces(t *testing.T) {
	th, err := LookupTheme("default")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	out := th.gradient([]string{"a b"})
	if !strings.HasPrefix(out[0], "\x1b[38;2;25;128;169ma") {
		t.Fatalf("first column must use the first stop: %q", out[0])
	}
	if !strings.Contains(out[0], "\x1b[38;2;243;139;148mb") {
		t.Fatalf("last column must use the last stop: %q", out[0])
	}
}

func TestUnknownTheme(t *testing.T) {
	_, err := NewRenderer(&bytes.Buffer{}, Options{Theme: "neon"})
	if !errors.Is(err, domain.ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme, got %v", err)
	}
}

func TestKeyHandlerCyclesFontsAndQuits(t *testing.T) {
	r := newMono(t, &bytes.Buffer{})
	quit := false
	redraws := 0
	k := NewKeyHandler(r, func() { quit = true }, func() { redraws++ })

	k.Run(context.Background(), strings.NewReader("xfFq f"))

	if !quit {
		t.Fatal("q must quit")
	}
	if r.Font() != Fonts[2] || redraws != 2 {
		t.Fatalf("expected two font switches, font=%s redraws=%d", r.Font(), redraws)
	}
}

func TestFontCycleWraps(t *testing.T) {
	r, _ := NewRenderer(&bytes.Buffer{}, Options{Font: Fonts[len(Fonts)-1], Theme: "mono"})
	if got := r.NextFont(); got != Fonts[0] {
		t.Fatalf("expected wrap to %s, got %s", Fonts[0], got)
	}
}

func TestRawWriterTranslatesNewlines(t *testing.T) {
	var buf bytes.Buffer
	n, err := NewRawWriter(&buf).Write([]byte("a\nb\n"))
	if err != nil || n != 4 {
		t.Fatalf("write: n=%d err=%v", n, err)
	}
	if buf.String() != "a\r\nb\r\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
