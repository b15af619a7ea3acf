package forms

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Answer is the value entered for one field: a scalar string for text-like,
// select, radio, date and file fields, or a list of strings for checkboxes.
// File answers carry an opaque reference produced by the upload collaborator.
type Answer struct {
	text  string
	items []string
	list  bool
}

// Scalar builds a single-value answer
func Scalar(s string) Answer {
	return Answer{text: s}
}

// Multi builds a list answer
func Multi(items ...string) Answer {
	return Answer{items: append([]string{}, items...), list: true}
}

// IsList reports whether the answer holds a list
func (a Answer) IsList() bool { return a.list }

// String returns the scalar value; lists return an empty string
func (a Answer) String() string {
	if a.list {
		return ""
	}
	return a.text
}

// Items returns a copy of the list value; scalars return nil
func (a Answer) Items() []string {
	if !a.list {
		return nil
	}
	return append([]string{}, a.items...)
}

// IsEmpty reports whether the answer counts as missing for the required check
func (a Answer) IsEmpty() bool {
	if a.list {
		return len(a.items) == 0
	}
	return a.text == ""
}

// MarshalJSON encodes scalars as JSON strings and lists as JSON arrays
func (a Answer) MarshalJSON() ([]byte, error) {
	if a.list {
		return json.Marshal(a.items)
	}
	return json.Marshal(a.text)
}

// UnmarshalJSON accepts a string, an array of strings or null
func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ErrInvalidAnswer
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
		}
		*a = Scalar(s)
	case '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
		}
		*a = Multi(items...)
	case 'n':
		if string(data) != "null" {
			return ErrInvalidAnswer
		}
		*a = Scalar("")
	default:
		return ErrInvalidAnswer
	}

	return nil
}

// Answers maps field id to the answer entered for it
type Answers map[string]Answer

// NewAnswers returns the initial answer map for a schema: empty strings for
// scalar fields and empty lists for checkbox fields
func NewAnswers(schema *FormSchema) Answers {
	answers := make(Answers, len(schema.Fields))
	for _, field := range schema.Fields {
		if field.Type.IsList() {
			answers[field.ID] = Multi()
		} else {
			answers[field.ID] = Scalar("")
		}
	}
	return answers
}

// Clone returns an independent copy of the map
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		if v.list {
			v = Multi(v.items...)
		}
		out[k] = v
	}
	return out
}

// ErrorMap maps field id to a single human-readable validation message
type ErrorMap map[string]string

// Empty reports whether there are no errors
func (e ErrorMap) Empty() bool { return len(e) == 0 }
