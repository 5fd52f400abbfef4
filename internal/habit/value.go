package habit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"habit-tracker/internal/engine"
)

// ValueKind tags which member of a value union is set.
type ValueKind uint8

const (
	KindNone ValueKind = iota
	KindInt
	KindString
	KindStrings
	KindBool
)

func (k ValueKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindStrings:
		return "string[]"
	case KindBool:
		return "bool"
	}
	return fmt.Sprintf("ValueKind(%d)", uint8(k))
}

// RuleValue is the threshold or comparand of a Rule: an integer, a string or
// an ordered list of strings. The zero value is absent.
type RuleValue struct {
	kind ValueKind
	i    int64
	s    string
	set  []string
}

func RuleInt(n int64) RuleValue { return RuleValue{kind: KindInt, i: n} }
func RuleString(s string) RuleValue { return RuleValue{kind: KindString, s: s} }
func RuleSet(items ...string) RuleValue {
	if items == nil {
		items = []string{}
	}
	return RuleValue{kind: KindStrings, set: slices.Clone(items)}
}

func (v RuleValue) Kind() ValueKind { return v.kind }
func (v RuleValue) IsSet() bool { return v.kind != KindNone }

func (v RuleValue) Int() (int64, bool) { return v.i, v.kind == KindInt }
func (v RuleValue) Text() (string, bool) { return v.s, v.kind == KindString }

// Strings returns a copy of the list member.
func (v RuleValue) Strings() ([]string, bool) {
	if v.kind != KindStrings {
		return nil, false
	}
	return slices.Clone(v.set), true
}

// Equal reports whether both values hold the same member with the same content.
func (v RuleValue) Equal(o RuleValue) bool {
	return v.kind == o.kind && v.i == o.i && v.s == o.s && slices.Equal(v.set, o.set)
}

// raw returns the value in the shape the validator sees for decoded JSON.
func (v RuleValue) raw() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindString:
		return v.s
	case KindStrings:
		return slices.Clone(v.set)
	}
	return nil
}

func (v RuleValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw())
}

func (v *RuleValue) UnmarshalJSON(data []byte) error {
	raw, err := decodeRaw(data)
	if err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = RuleValue{}
	case json.Number:
		n, ok := engine.AsInt64(x)
		if !ok {
			return fmt.Errorf("rule value %s is not an integer", x)
		}
		*v = RuleInt(n)
	case string:
		*v = RuleString(x)
	case []any:
		items := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("rule value list must contain only strings")
			}
			items = append(items, s)
		}
		*v = RuleSet(items...)
	default:
		return fmt.Errorf("rule value must be an integer, string or list of strings")
	}
	return nil
}

// EntryValue is the observation recorded by an Entry: a boolean, an integer
// or a string. The zero value is absent.
type EntryValue struct {
	kind ValueKind
	b    bool
	i    int64
	s    string
}

func EntryBool(b bool) EntryValue { return EntryValue{kind: KindBool, b: b} }
func EntryInt(n int64) EntryValue { return EntryValue{kind: KindInt, i: n} }
func EntryString(s string) EntryValue { return EntryValue{kind: KindString, s: s} }

func (v EntryValue) Kind() ValueKind { return v.kind }
func (v EntryValue) IsSet() bool { return v.kind != KindNone }

func (v EntryValue) Bool() (bool, bool) { return v.b, v.kind == KindBool }
func (v EntryValue) Int() (int64, bool) { return v.i, v.kind == KindInt }
func (v EntryValue) Text() (string, bool) { return v.s, v.kind == KindString }

func (v EntryValue) raw() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindString:
		return v.s
	}
	return nil
}

func (v EntryValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw())
}

func (v *EntryValue) UnmarshalJSON(data []byte) error {
	raw, err := decodeRaw(data)
	if err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = EntryValue{}
	case bool:
		*v = EntryBool(x)
	case json.Number:
		n, ok := engine.AsInt64(x)
		if !ok {
			return fmt.Errorf("entry value %s is not an integer", x)
		}
		*v = EntryInt(n)
	case string:
		*v = EntryString(x)
	default:
		return fmt.Errorf("entry value must be a boolean, integer or string")
	}
	return nil
}

func decodeRaw(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}
