package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/matchkit/internal/app"
	"github.com/dshills/matchkit/internal/match"
	"github.com/dshills/matchkit/internal/textbuf"
)

// maxCount caps the pending numeric argument so held-down digit keys
// cannot overflow it.
const maxCount = 1_000_000

// UI drives one document on a tcell screen. It is single-goroutine:
// Run polls events and handles them in place, which is also the calling
// discipline the engine expects.
type UI struct {
	screen  tcell.Screen
	session *app.Session
	doc     *app.Document
	theme   Theme

	shortcut rune
	top      int // first visible document line
	count    int // pending numeric argument, 0 when none

	region    match.Region
	hasRegion bool

	status    string
	statusErr bool
	quit      bool
}

// New wires a document to a screen. The screen must already be
// initialized; tests pass a simulation screen, main a real one.
func New(session *app.Session, doc *app.Document, screen tcell.Screen) *UI {
	shortcut := '%'
	if s := session.Config().Shortcut; s != "" {
		shortcut = []rune(s)[0]
	}
	return &UI{
		screen:   screen,
		session:  session,
		doc:      doc,
		theme:    DefaultTheme(),
		shortcut: shortcut,
	}
}

// Run draws and handles events until quit. The caller owns the screen
// lifetime and calls Fini afterwards.
func (u *UI) Run() {
	for !u.quit {
		u.draw()
		ev := u.screen.PollEvent()
		if ev == nil {
			return
		}
		u.handleEvent(ev)
	}
}

func (u *UI) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		u.screen.Sync()
	case *tcell.EventKey:
		u.handleKey(ev)
	}
}

func (u *UI) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		u.count = 0
		u.hasRegion = false
		u.setStatus("", false)
		return
	case tcell.KeyCtrlC:
		u.quit = true
		return
	case tcell.KeyLeft:
		u.moveHoriz(-u.takeCount())
		return
	case tcell.KeyRight:
		u.moveHoriz(u.takeCount())
		return
	case tcell.KeyUp:
		u.moveVert(-u.takeCount())
		return
	case tcell.KeyDown:
		u.moveVert(u.takeCount())
		return
	case tcell.KeyRune:
	default:
		return
	}

	r := ev.Rune()
	switch {
	case r == u.shortcut:
		u.runShortcut()
	case r >= '1' && r <= '9', r == '0' && u.count > 0:
		u.count = u.count*10 + int(r-'0')
		if u.count > maxCount {
			u.count = maxCount
		}
	case r == '0':
		u.doc.Cursor.SetPosition(u.doc.Buffer.LineStartAt(u.doc.Cursor.Position()))
	case r == '$':
		u.doc.Cursor.SetPosition(u.doc.Buffer.LineEndAt(u.doc.Cursor.Position()))
		u.count = 0
	case r == 'h':
		u.moveHoriz(-u.takeCount())
	case r == 'l':
		u.moveHoriz(u.takeCount())
	case r == 'j':
		u.moveVert(u.takeCount())
	case r == 'k':
		u.moveVert(-u.takeCount())
	case r == 'v':
		u.selectItem(false)
	case r == 'V':
		u.selectItem(true)
	case r == 'd':
		u.deleteItem(false)
	case r == 'D':
		u.deleteItem(true)
	case r == 'q':
		u.quit = true
	}
}

// takeCount consumes the pending count, defaulting to one.
func (u *UI) takeCount() int {
	c := u.count
	u.count = 0
	if c < 1 {
		c = 1
	}
	return c
}

// runShortcut fires the jump command. A pending count turns it into a
// percentage jump when that is enabled; the session decides.
func (u *UI) runShortcut() {
	count := u.count
	u.count = 0
	u.hasRegion = false

	res := u.session.Jump(u.doc, count)
	if res.Failed() {
		u.setStatus(res.Status.String(), true)
		return
	}
	u.setStatus("", false)
}

func (u *UI) selectItem(inner bool) {
	count := u.takeCount()

	res := u.session.Select(u.doc, count, inner)
	if res.Failed() {
		u.hasRegion = false
		u.setStatus(res.Status.String(), true)
		return
	}
	u.region = res.Region
	u.hasRegion = true
	u.setStatus(fmt.Sprintf("%d bytes", res.Region.Len()), false)
}

func (u *UI) deleteItem(inner bool) {
	count := u.takeCount()

	res := u.session.Delete(u.doc, count, inner)
	if res.Failed() {
		u.setStatus(res.Status.String(), true)
		return
	}
	u.hasRegion = false
	u.setStatus(fmt.Sprintf("deleted %d bytes", len(res.Deleted)), false)
}

// moveHoriz moves the cursor by whole runes. Moving past a line end
// continues onto the neighboring line.
func (u *UI) moveHoriz(delta int) {
	cur := u.doc.Cursor
	buf := u.doc.Buffer
	for ; delta < 0; delta++ {
		_, size := buf.RuneBefore(cur.Position())
		if size == 0 {
			break
		}
		cur.MoveBy(textbuf.Offset(-size))
	}
	for ; delta > 0; delta-- {
		_, size := buf.RuneAt(cur.Position())
		if size == 0 {
			break
		}
		cur.MoveBy(textbuf.Offset(size))
	}
}

// moveVert moves the cursor by whole lines, clamping the column to the
// target line's length.
func (u *UI) moveVert(delta int) {
	buf := u.doc.Buffer
	pt := buf.OffsetToPoint(u.doc.Cursor.Position())
	pt.Line += delta
	if pt.Line < 0 {
		pt.Line = 0
	}
	if last := buf.LineCount() - 1; pt.Line > last {
		pt.Line = last
	}
	u.doc.Cursor.SetPosition(buf.PointToOffset(pt))
}

func (u *UI) setStatus(msg string, isErr bool) {
	u.status = msg
	u.statusErr = isErr
}
