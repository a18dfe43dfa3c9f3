package term

import (
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/matchkit/internal/textbuf"
)

// tabStop is the fixed rendering width of a tab.
const tabStop = 4

// draw renders the document, gutter, and status line, then shows the
// frame. Cell widths come from grapheme clusters so combining marks and
// wide runes land on the columns tcell will occupy.
func (u *UI) draw() {
	width, height := u.screen.Size()
	if width <= 0 || height <= 0 {
		return
	}
	viewHeight := height - 1

	buf := u.doc.Buffer
	curPt := buf.OffsetToPoint(u.doc.Cursor.Position())
	if curPt.Line < u.top {
		u.top = curPt.Line
	}
	if curPt.Line >= u.top+viewHeight {
		u.top = curPt.Line - viewHeight + 1
	}
	if u.top < 0 {
		u.top = 0
	}

	pair, hasPair := u.session.Counterpart(u.doc)
	gutter := len(strconv.Itoa(buf.LineCount())) + 1

	for row := 0; row < viewHeight; row++ {
		line := u.top + row
		if line >= buf.LineCount() {
			u.fillRow(row, 0, width, u.theme.Text)
			continue
		}
		u.drawLine(row, line, gutter, width, pair, hasPair)
	}

	u.drawStatus(height-1, width, curPt)
	u.showCursor(curPt, gutter, viewHeight)
	u.screen.Show()
}

func (u *UI) drawLine(row, line, gutter, width int, pair textbuf.Offset, hasPair bool) {
	// Right-aligned 1-based line number.
	no := strconv.Itoa(line + 1)
	x := 0
	for ; x < gutter-1-len(no); x++ {
		u.screen.SetContent(x, row, ' ', nil, u.theme.LineNo)
	}
	for _, r := range no {
		u.screen.SetContent(x, row, r, nil, u.theme.LineNo)
		x++
	}
	u.screen.SetContent(x, row, ' ', nil, u.theme.LineNo)
	x++

	start := u.doc.Buffer.LineStartOffset(line)
	gr := uniseg.NewGraphemes(u.doc.Buffer.LineText(line))
	for gr.Next() {
		if x >= width {
			break
		}
		from, to := gr.Positions()
		style := u.styleAt(start+textbuf.Offset(from), start+textbuf.Offset(to), pair, hasPair)
		runes := gr.Runes()
		if runes[0] == '\t' {
			pad := tabStop - (x-gutter)%tabStop
			for i := 0; i < pad && x < width; i++ {
				u.screen.SetContent(x, row, ' ', nil, style)
				x++
			}
			continue
		}
		u.screen.SetContent(x, row, runes[0], runes[1:], style)
		x += gr.Width()
	}
	u.fillRow(row, x, width, u.theme.Text)
}

// styleAt picks the style for the cluster covering [from, to). The
// counterpart highlight wins over the region highlight.
func (u *UI) styleAt(from, to, pair textbuf.Offset, hasPair bool) tcell.Style {
	if hasPair && pair >= from && pair < to {
		return u.theme.Pair
	}
	if u.hasRegion && from >= u.region.Start && from < u.region.End {
		return u.theme.Region
	}
	return u.theme.Text
}

func (u *UI) drawStatus(row, width int, curPt textbuf.Point) {
	style := u.theme.Status
	if u.statusErr {
		style = u.theme.StatusErr
	}

	left := fmt.Sprintf(" %s [%s] %d:%d", u.doc.Name, u.doc.Grammar, curPt.Line+1, curPt.Column+1)
	if u.count > 0 {
		left += fmt.Sprintf("  count %d", u.count)
	}
	if u.status != "" {
		left += "  " + u.status
	}

	x := u.print(0, row, left, style, width)
	u.fillRow(row, x, width, style)
}

// print writes s at (x, row) cluster by cluster and returns the next
// free column.
func (u *UI) print(x, row int, s string, style tcell.Style, width int) int {
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		if x >= width {
			break
		}
		runes := gr.Runes()
		u.screen.SetContent(x, row, runes[0], runes[1:], style)
		x += gr.Width()
	}
	return x
}

func (u *UI) fillRow(row, from, to int, style tcell.Style) {
	for x := from; x < to; x++ {
		u.screen.SetContent(x, row, ' ', nil, style)
	}
}

func (u *UI) showCursor(curPt textbuf.Point, gutter, viewHeight int) {
	row := curPt.Line - u.top
	if row < 0 || row >= viewHeight {
		u.screen.HideCursor()
		return
	}
	start := u.doc.Buffer.LineStartOffset(curPt.Line)
	prefix := u.doc.Buffer.TextRange(start, start+textbuf.Offset(curPt.Column))
	u.screen.ShowCursor(gutter+displayWidth(prefix), row)
}

// displayWidth measures the on-screen width of s, expanding tabs to the
// fixed tab stop.
func displayWidth(s string) int {
	w := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		if gr.Runes()[0] == '\t' {
			w += tabStop - w%tabStop
			continue
		}
		w += gr.Width()
	}
	return w
}
