package textbuf

// Cursor is a mutable position bound to a buffer.
// Positions are always clamped into [0, buffer length], so a cursor can sit
// one past the final byte of the document.
type Cursor struct {
	buf *Buffer
	off Offset
}

// NewCursor creates a cursor at offset 0.
func NewCursor(buf *Buffer) *Cursor {
	return &Cursor{buf: buf}
}

// Position returns the cursor's byte offset.
func (c *Cursor) Position() Offset {
	return c.off
}

// SetPosition moves the cursor, clamping into the buffer.
func (c *Cursor) SetPosition(offset Offset) {
	c.off = clampOffset(offset, c.buf.Len())
}

// MoveBy shifts the cursor by delta bytes, clamping into the buffer.
func (c *Cursor) MoveBy(delta Offset) {
	c.SetPosition(c.off + delta)
}

// Clamp re-clamps the cursor after the buffer shrank.
func (c *Cursor) Clamp() {
	c.SetPosition(c.off)
}

// Point returns the cursor position as line/column.
func (c *Cursor) Point() Point {
	return c.buf.OffsetToPoint(c.off)
}
