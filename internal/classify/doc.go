// Package classify answers "what kind of text is at this offset" for a
// buffer: plain code, comment, or string. The matching engine uses those
// answers to keep delimiter scans from crossing comment and string
// boundaries.
//
// A Grammar describes how one language spells its comments and string
// literals. A Context binds a grammar to a buffer and lexes lines on
// demand, carrying state across line boundaries so block comments and
// multi-line strings classify correctly. Results are cached per line and
// invalidated when the buffer revision changes.
package classify
