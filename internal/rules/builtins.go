package rules

import (
	"fmt"

	"github.com/dshills/matchkit/internal/match"
)

// BuiltinRows returns the default keyword rows per grammar id. Callers
// may mutate the result; each call builds a fresh copy.
func BuiltinRows() map[string][]Row {
	return map[string][]Row{
		"ruby": {
			{
				Open:   []string{"if", "unless", "case", "while", "until", "for", "begin", "def", "class", "module", "do"},
				Middle: []string{"elsif", "else", "when", "rescue", "ensure"},
				Close:  []string{"end"},
			},
		},
		"lua": {
			{
				Open:   []string{"function", "if", "do", "for", "while"},
				Middle: []string{"elseif", "else"},
				Close:  []string{"end"},
			},
			{
				Open:  []string{"repeat"},
				Close: []string{"until"},
			},
		},
		"sh": {
			{
				Open:   []string{"if"},
				Middle: []string{"elif", "else"},
				Close:  []string{"fi"},
			},
			{
				Open:  []string{"case"},
				Close: []string{"esac"},
			},
			{
				Open:   []string{"for", "while", "until"},
				Middle: []string{"do"},
				Close:  []string{"done"},
			},
		},
		"vim": {
			{
				Open:   []string{"if"},
				Middle: []string{"elseif", "else"},
				Close:  []string{"endif"},
			},
			{
				Open:  []string{"for"},
				Close: []string{"endfor"},
			},
			{
				Open:  []string{"while"},
				Close: []string{"endwhile"},
			},
			{
				Open:  []string{"function"},
				Close: []string{"endfunction"},
			},
			{
				Open:   []string{"try"},
				Middle: []string{"catch", "finally"},
				Close:  []string{"endtry"},
			},
		},
	}
}

// simpleOnlyGrammars are the grammars whose built-in list is just the
// simple rule.
var simpleOnlyGrammars = []string{"go", "c", "python", "lisp", "text"}

// RegisterBuiltins installs the default rule lists: the simple rule for
// every known grammar, keyword rules ahead of it where rows exist, and
// the markup tag rule ahead of it for html/xml.
func RegisterBuiltins(reg *match.Registry) error {
	simple := NewSimpleRule()

	for _, id := range simpleOnlyGrammars {
		reg.Register(id, []match.Rule{simple})
	}
	for id, rows := range BuiltinRows() {
		kw, err := NewKeywordRule(rows)
		if err != nil {
			return fmt.Errorf("register builtin rows for %s: %w", id, err)
		}
		reg.Register(id, []match.Rule{kw, simple})
	}
	reg.Register("html", []match.Rule{NewTagRule(), simple})
	return nil
}
