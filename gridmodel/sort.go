package gridmodel

import (
	"cmp"
	"fmt"

	"github.com/npillmayer/rowtree/rows"
	"github.com/npillmayer/rowtree/tree"
	"github.com/npillmayer/rowtree/view"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortItem sorts by a single field.
type SortItem struct {
	Field string    `json:"field" yaml:"field" koanf:"field"`
	Sort  Direction `json:"sort" yaml:"sort" koanf:"sort"`
}

// SortModel is an ordered list of sort items. Later items break ties of
// earlier ones.
type SortModel []SortItem

// Comparator compiles the sort model. An empty model results in a nil
// comparator, i.e. no sorting. Text is collated for language tag lang;
// use language.Und for a root collation.
//
// Missing values sort before everything else. Two numbers compare
// numerically, two booleans false before true, everything else as text.
func (m SortModel) Comparator(lang language.Tag) (view.Comparator, error) {
	if len(m) == 0 {
		return nil, nil
	}
	for _, item := range m {
		if item.Sort != Asc && item.Sort != Desc {
			return nil, fmt.Errorf("sort model: field %q: unknown direction %q", item.Field, item.Sort)
		}
	}
	items := append(SortModel(nil), m...)
	col := collate.New(lang, collate.Numeric)
	tracer().Debugf("compiled sort model %v", items)
	return func(a, b *tree.Node) int {
		for _, item := range items {
			c := compareValues(col, value(a, item.Field), value(b, item.Field))
			if c != 0 {
				if item.Sort == Desc {
					return -c
				}
				return c
			}
		}
		return 0
	}, nil
}

func compareValues(col *collate.Collator, a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		}
		return 1
	}
	if x, ok := rows.Number(a); ok {
		if y, ok := rows.Number(b); ok {
			return cmp.Compare(x, y)
		}
	}
	if x, ok := a.(bool); ok {
		if y, ok := b.(bool); ok {
			return cmp.Compare(boolRank(x), boolRank(y))
		}
	}
	return col.CompareString(text(a), text(b))
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func text(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := rows.Key(v); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
