package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"reflect"
	"strings"

	"github.com/npillmayer/rowtree/rows"
)

// PathFunc extracts the grouping path of a row. It should return a slice of
// strings or numbers, e.g. []string or []any.
type PathFunc func(rows.Row) any

// SplitField returns a path function splitting the text of a field at a
// separator, e.g. "A.B.C" → [A B C].
func SplitField(field, sep string) PathFunc {
	return func(r rows.Row) any {
		v, ok := r[field]
		if !ok {
			return nil
		}
		s, ok := rows.Key(v)
		if !ok {
			return v
		}
		return strings.Split(s, sep)
	}
}

// Normalize calls pathOf for row r and turns the result into a Path.
// It fails with an *InvalidPathError if the result is not a sequence, is
// empty, or contains a key which is neither a string nor a number.
func Normalize(pathOf PathFunc, r rows.Row) (Path, error) {
	if pathOf == nil {
		return nil, ErrNoPathFunc
	}
	v := pathOf(r)
	var path Path
	switch p := v.(type) {
	case []string:
		path = make(Path, len(p))
		copy(path, p)
	case Path:
		path = make(Path, len(p))
		copy(path, p)
	case []any:
		path = make(Path, len(p))
		for i, k := range p {
			key, ok := rows.Key(k)
			if !ok {
				return nil, &InvalidPathError{Value: v, Reason: "key is neither a string nor a number"}
			}
			path[i] = key
		}
	default:
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
			return nil, &InvalidPathError{Value: v, Reason: "not a sequence"}
		}
		path = make(Path, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			key, ok := rows.Key(rv.Index(i).Interface())
			if !ok {
				return nil, &InvalidPathError{Value: v, Reason: "key is neither a string nor a number"}
			}
			path[i] = key
		}
	}
	if len(path) == 0 {
		return nil, &InvalidPathError{Value: v, Reason: "empty path"}
	}
	return path, nil
}
