// Package textbuf provides a line-indexed text buffer and the cursor that
// navigates it. It is the document layer the matching engine operates on.
//
// The buffer stores the full text as a contiguous string plus an index of
// line start offsets, rebuilt on every edit. That trades edit cost for very
// cheap offset/line lookups, which is the access pattern of a matcher: many
// reads per edit.
//
// Position Types:
//
//   - Offset: raw byte position in the buffer
//   - Point: line and column position (0-indexed, column in bytes)
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Read operations acquire a read lock,
// write operations an exclusive lock. Cursor is a small mutable handle and
// is not safe for concurrent use; callers own exactly one goroutine per
// cursor.
package textbuf
