package rows

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

// Row is a single user record. The engine treats it as read-only.
type Row map[string]any

// ID is the stable identity of a row, coerced to a string key.
type ID string

// IdentityFunc derives the identity of a row. It has to return a string
// or a number.
type IdentityFunc func(Row) any

// DefaultIDField is the field read by the default identity function.
const DefaultIDField = "id"

// ErrNoIdentity is returned if an identity function returns something
// which cannot be used as a row key.
var ErrNoIdentity = errors.New("row identity is neither a string nor a number")

// ByField returns an identity function reading the given field.
func ByField(field string) IdentityFunc {
	return func(r Row) any {
		return r[field]
	}
}

// Identify applies idOf to row r and coerces the result to an ID.
// If idOf is nil, the row's "id" field is used.
func Identify(idOf IdentityFunc, r Row) (ID, error) {
	if idOf == nil {
		idOf = ByField(DefaultIDField)
	}
	v := idOf(r)
	key, ok := Key(v)
	if !ok {
		return "", fmt.Errorf("%w: %#v", ErrNoIdentity, v)
	}
	return ID(key), nil
}

// Field returns the value of a field. Reading from a nil row is fine and
// reports a missing field.
func (r Row) Field(name string) (any, bool) {
	v, ok := r[name]
	return v, ok
}

// Text returns a field's value as display text. Missing fields and nil
// values result in the empty string.
func (r Row) Text(name string) string {
	v, ok := r[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := Key(v); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Clone returns a shallow copy of r.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// --- Keys and numbers ------------------------------------------------------

// number is implemented by json.Number and similar decimal string types.
type number interface {
	Float64() (float64, error)
	String() string
}

// Key coerces a primitive string or number to a stable string key.
// It reports false for every other kind of value, including nil and bool.
func Key(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case int:
		return strconv.Itoa(x), true
	case int8:
		return strconv.FormatInt(int64(x), 10), true
	case int16:
		return strconv.FormatInt(int64(x), 10), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint:
		return strconv.FormatUint(uint64(x), 10), true
	case uint8:
		return strconv.FormatUint(uint64(x), 10), true
	case uint16:
		return strconv.FormatUint(uint64(x), 10), true
	case uint32:
		return strconv.FormatUint(uint64(x), 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float32:
		return formatFloat(float64(x))
	case float64:
		return formatFloat(x)
	case number:
		if _, err := x.Float64(); err != nil {
			return "", false
		}
		return x.String(), true
	}
	return "", false
}

func formatFloat(f float64) (string, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}

// Number interprets v as a number. Strings are not converted.
func Number(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

// --- Decoding --------------------------------------------------------------

// Decode reads a JSON array of objects. Numbers are kept as json.Number to
// preserve the exact spelling of numeric identities.
func Decode(r io.Reader) ([]Row, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var objects []map[string]any
	if err := dec.Decode(&objects); err != nil {
		return nil, fmt.Errorf("decoding rows: %w", err)
	}
	rs := make([]Row, len(objects))
	for i, o := range objects {
		rs[i] = Row(o)
	}
	tracer().Debugf("decoded %d rows", len(rs))
	return rs, nil
}

// Encode writes rows as a JSON array.
func Encode(w io.Writer, rs []Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rs)
}
