// Package term is the interactive terminal front end. It renders the
// active document with tcell, highlights the counterpart of the element
// under the cursor and the most recent selection, and binds the
// navigation commands to keys.
//
// Keys: h/j/k/l and the arrows move the cursor, digits accumulate a
// count, the configured shortcut symbol jumps (with a count it becomes
// a percentage jump when that is enabled), v and V select the outer or
// inner region, d and D delete it, Escape clears pending state, and q
// quits.
package term
