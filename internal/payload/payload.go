// Package payload reads the top-level keys of a JSON document that is to be
// mapped onto a table.
package payload

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// MalformedInputError reports JSON that cannot serve as a mapping source.
type MalformedInputError struct {
	Reason string
}

// Error implements the error interface.
func (e *MalformedInputError) Error() string {
	return "malformed JSON input: " + e.Reason
}

// Record returns the object whose keys are mapped. An array of objects is
// reduced to its first element.
func Record(data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, &MalformedInputError{Reason: "invalid JSON"}
	}

	res := gjson.ParseBytes(data)

	switch {
	case res.IsObject():
		return res, nil
	case res.IsArray():
		first := res.Get("0")
		if !first.Exists() {
			return gjson.Result{}, &MalformedInputError{Reason: "array is empty"}
		}

		if !first.IsObject() {
			return gjson.Result{}, &MalformedInputError{
				Reason: fmt.Sprintf("first array element is %s, not an object", describe(first)),
			}
		}

		return first, nil
	default:
		return gjson.Result{}, &MalformedInputError{
			Reason: fmt.Sprintf("expected an object or an array of objects, got %s", describe(res)),
		}
	}
}

// Keys returns the top-level keys of the record in document order.
// A key that appears twice keeps its first position.
func Keys(data []byte) ([]string, error) {
	rec, err := Record(data)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, 16)
	seen := make(map[string]bool)

	rec.ForEach(func(k, _ gjson.Result) bool {
		name := k.String()
		if !seen[name] {
			seen[name] = true
			keys = append(keys, name)
		}

		return true
	})

	return keys, nil
}

func describe(r gjson.Result) string {
	switch {
	case r.IsArray():
		return "an array"
	case r.IsObject():
		return "an object"
	}

	switch r.Type {
	case gjson.String:
		return "a string"
	case gjson.Number:
		return "a number"
	case gjson.True, gjson.False:
		return "a boolean"
	case gjson.Null:
		return "null"
	default:
		return "empty"
	}
}
