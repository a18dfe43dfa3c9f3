package term

import (
	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Theme holds the precomputed styles for the viewer. The highlight
// backgrounds are blended from the base palette in Lab space so they
// stay perceptually related to it.
type Theme struct {
	Text      tcell.Style
	LineNo    tcell.Style
	Pair      tcell.Style
	Region    tcell.Style
	Status    tcell.Style
	StatusErr tcell.Style
}

// DefaultTheme derives the viewer styles from a dark base palette.
func DefaultTheme() Theme {
	fg := mustHex("#d8dee9")
	bg := mustHex("#2e3440")
	accent := mustHex("#88c0d0")
	alert := mustHex("#bf616a")

	pairBg := bg.BlendLab(accent, 0.45).Clamped()
	regionBg := bg.BlendLab(accent, 0.22).Clamped()
	gutterFg := fg.BlendLab(bg, 0.55).Clamped()
	statusBg := bg.BlendLab(fg, 0.14).Clamped()

	text := tcell.StyleDefault.Foreground(toTcell(fg)).Background(toTcell(bg))
	return Theme{
		Text:      text,
		LineNo:    tcell.StyleDefault.Foreground(toTcell(gutterFg)).Background(toTcell(bg)),
		Pair:      text.Background(toTcell(pairBg)).Bold(true),
		Region:    text.Background(toTcell(regionBg)),
		Status:    tcell.StyleDefault.Foreground(toTcell(fg)).Background(toTcell(statusBg)),
		StatusErr: tcell.StyleDefault.Foreground(toTcell(alert)).Background(toTcell(statusBg)).Bold(true),
	}
}

// mustHex parses a palette constant. The palette is fixed at compile
// time, so a parse failure is a programming error.
func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("term: bad palette color " + s)
	}
	return c
}

// toTcell converts a colorful color to a 24-bit tcell color.
func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
