// Package pack reads and writes rule pack documents: JSON objects
// mapping grammar ids to keyword rows. Packs let users replace the
// built-in rows for a grammar without recompiling.
package pack
