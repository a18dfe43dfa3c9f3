// Package luarule hosts user-written match rules in sandboxed Lua
// states. A script declares the grammars it serves with a `grammar`
// global and defines two functions:
//
//	function get_tag()          -- a tag value, or nil to decline
//	function jump(tag, count)   -- a 1-based destination, or nil on failure
//
// The buf module exposes the document of the current navigation call
// with 1-based byte offsets: len, char_at, line_start, line_end,
// text_range (inclusive), cursor, set_cursor, grammar, is_comment,
// is_string. Script errors are logged and reported as a declined tag or
// a failed jump; they never abort the host.
package luarule
