package pack

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/matchkit/internal/match"
	"github.com/dshills/matchkit/internal/rules"
)

// ErrInvalidPack reports a document that is not a JSON object of keyword
// row arrays.
var ErrInvalidPack = errors.New("invalid rule pack")

// Parse reads a rule pack document. The expected shape is
//
//	{"ruby": [{"open": [...], "middle": [...], "close": [...]}], ...}
//
// where middle may be omitted. Row validation happens at Apply time,
// when the rows are compiled.
func Parse(data []byte) (map[string][]rules.Row, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parse rule pack: %w", ErrInvalidPack)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("parse rule pack: root is not an object: %w", ErrInvalidPack)
	}

	out := make(map[string][]rules.Row)
	var badGrammar string
	doc.ForEach(func(key, value gjson.Result) bool {
		if !value.IsArray() {
			badGrammar = key.String()
			return false
		}
		var rows []rules.Row
		value.ForEach(func(_, row gjson.Result) bool {
			rows = append(rows, rules.Row{
				Open:   stringList(row.Get("open")),
				Middle: stringList(row.Get("middle")),
				Close:  stringList(row.Get("close")),
			})
			return true
		})
		out[key.String()] = rows
		return true
	})
	if badGrammar != "" {
		return nil, fmt.Errorf("parse rule pack: grammar %q is not a row array: %w", badGrammar, ErrInvalidPack)
	}
	return out, nil
}

// stringList flattens a JSON string array result.
func stringList(res gjson.Result) []string {
	if !res.Exists() {
		return nil
	}
	var words []string
	res.ForEach(func(_, v gjson.Result) bool {
		words = append(words, v.String())
		return true
	})
	return words
}

// Load reads and parses a rule pack file.
func Load(path string) (map[string][]rules.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load rule pack: %w", err)
	}
	rows, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load rule pack %s: %w", path, err)
	}
	return rows, nil
}

// Apply compiles the pack's rows and registers them, each grammar's
// list replacing whatever was registered before. The simple rule goes
// after the keyword rule, matching the built-in ordering.
func Apply(reg *match.Registry, rowsByGrammar map[string][]rules.Row) error {
	simple := rules.NewSimpleRule()
	for id, rows := range rowsByGrammar {
		kw, err := rules.NewKeywordRule(rows)
		if err != nil {
			return fmt.Errorf("apply rule pack for %s: %w", id, err)
		}
		reg.Register(id, []match.Rule{kw, simple})
	}
	return nil
}

// Export renders rows as a rule pack document, grammars in sorted order
// so the output is stable.
func Export(rowsByGrammar map[string][]rules.Row) ([]byte, error) {
	ids := make([]string, 0, len(rowsByGrammar))
	for id := range rowsByGrammar {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := []byte("{}")
	var err error
	for _, id := range ids {
		if out, err = sjson.SetRawBytes(out, id, []byte("[]")); err != nil {
			return nil, fmt.Errorf("export rule pack: %w", err)
		}
		for i, row := range rowsByGrammar[id] {
			entry := map[string]any{"open": row.Open, "close": row.Close}
			if len(row.Middle) > 0 {
				entry["middle"] = row.Middle
			}
			if out, err = sjson.SetBytes(out, fmt.Sprintf("%s.%d", id, i), entry); err != nil {
				return nil, fmt.Errorf("export rule pack: %w", err)
			}
		}
	}
	return out, nil
}
