package gridmodel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/rowtree/rows"
	"github.com/npillmayer/rowtree/tree"
	"github.com/npillmayer/rowtree/view"
	"golang.org/x/text/cases"
)

// Operator is the operator of a filter condition.
type Operator string

// Text operators.
const (
	Contains   Operator = "contains"
	Equals     Operator = "equals"
	StartsWith Operator = "startsWith"
	EndsWith   Operator = "endsWith"
	IsEmpty    Operator = "isEmpty"
	IsNotEmpty Operator = "isNotEmpty"
	IsAnyOf    Operator = "isAnyOf"
)

// Numeric operators.
const (
	EQ Operator = "="
	NE Operator = "!="
	GT Operator = ">"
	GE Operator = ">="
	LT Operator = "<"
	LE Operator = "<="
)

// Link combines the conditions of a filter model.
type Link string

// Links of filter conditions.
const (
	And Link = "and"
	Or  Link = "or"
)

// FilterItem is a single condition.
type FilterItem struct {
	Field    string   `json:"field" yaml:"field" koanf:"field"`
	Operator Operator `json:"operator" yaml:"operator" koanf:"operator"`
	Value    any      `json:"value,omitempty" yaml:"value,omitempty" koanf:"value"`
}

// FilterModel is a list of conditions. The zero value filters nothing.
type FilterModel struct {
	Items []FilterItem `json:"items" yaml:"items" koanf:"items"`
	Link  Link         `json:"link,omitempty" yaml:"link,omitempty" koanf:"link"`
}

// UnknownOperatorError is returned when compiling a filter item with an
// operator this package does not know.
type UnknownOperatorError struct {
	Field    string
	Operator Operator
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("filter model: field %q: unknown operator %q", e.Field, e.Operator)
}

type condition func(n *tree.Node) bool

// Predicate compiles the filter model. Conditions without a value are
// inactive, except for IsEmpty and IsNotEmpty. If no condition is active,
// the predicate is nil, i.e. no filter.
func (m FilterModel) Predicate() (view.Predicate, error) {
	link := m.Link
	if link == "" {
		link = And
	}
	if link != And && link != Or {
		return nil, fmt.Errorf("filter model: unknown link %q", m.Link)
	}
	fold := cases.Fold()
	var conds []condition
	for _, item := range m.Items {
		c, err := compile(item, fold)
		if err != nil {
			return nil, err
		}
		if c != nil {
			conds = append(conds, c)
		}
	}
	if len(conds) == 0 {
		return nil, nil
	}
	tracer().Debugf("compiled filter model with %d active conditions, linked by %s", len(conds), link)
	if link == Or {
		return func(n *tree.Node) bool {
			for _, c := range conds {
				if c(n) {
					return true
				}
			}
			return false
		}, nil
	}
	return func(n *tree.Node) bool {
		for _, c := range conds {
			if !c(n) {
				return false
			}
		}
		return true
	}, nil
}

func compile(item FilterItem, fold cases.Caser) (condition, error) {
	field := item.Field
	switch item.Operator {
	case IsEmpty:
		return func(n *tree.Node) bool { return text(value(n, field)) == "" }, nil
	case IsNotEmpty:
		return func(n *tree.Node) bool { return text(value(n, field)) != "" }, nil
	case Contains, Equals, StartsWith, EndsWith:
		if item.Value == nil {
			return nil, nil
		}
		want := fold.String(text(item.Value))
		match := textMatcher(item.Operator)
		return func(n *tree.Node) bool {
			return match(fold.String(text(value(n, field))), want)
		}, nil
	case IsAnyOf:
		values, ok := item.Value.([]any)
		if !ok {
			if ss, isStrings := item.Value.([]string); isStrings {
				for _, s := range ss {
					values = append(values, s)
				}
			}
		}
		if len(values) == 0 {
			return nil, nil
		}
		set := make(map[string]bool, len(values))
		for _, v := range values {
			set[fold.String(text(v))] = true
		}
		return func(n *tree.Node) bool {
			return set[fold.String(text(value(n, field)))]
		}, nil
	case EQ, NE, GT, GE, LT, LE:
		if item.Value == nil {
			return nil, nil
		}
		want, ok := numeric(item.Value)
		if !ok {
			return nil, fmt.Errorf("filter model: field %q: %v is not a number", field, item.Value)
		}
		test := numericTest(item.Operator)
		return func(n *tree.Node) bool {
			v, ok := numeric(value(n, field))
			return ok && test(v, want)
		}, nil
	}
	return nil, &UnknownOperatorError{Field: field, Operator: item.Operator}
}

func textMatcher(op Operator) func(s, want string) bool {
	switch op {
	case Contains:
		return strings.Contains
	case StartsWith:
		return strings.HasPrefix
	case EndsWith:
		return strings.HasSuffix
	}
	return func(s, want string) bool { return s == want }
}

func numericTest(op Operator) func(v, want float64) bool {
	switch op {
	case NE:
		return func(v, want float64) bool { return v != want }
	case GT:
		return func(v, want float64) bool { return v > want }
	case GE:
		return func(v, want float64) bool { return v >= want }
	case LT:
		return func(v, want float64) bool { return v < want }
	case LE:
		return func(v, want float64) bool { return v <= want }
	}
	return func(v, want float64) bool { return v == want }
}

// numeric interprets numbers and numeric text.
func numeric(v any) (float64, bool) {
	if f, ok := rows.Number(v); ok {
		return f, true
	}
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	return 0, false
}
