package metadata

import "strings"

// Field types understood by the validator. A field may accept a union of them,
// written with "|" (e.g. "int|string|string[]").
const (
	TypeString  = "string"
	TypeInt     = "int"
	TypeBool    = "bool"
	TypeStrings = "string[]"
	TypeObject  = "object"
)

type Field struct {
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	Required bool              `json:"required,omitempty"`
	Enum     []string          `json:"enum,omitempty"`
	Aliases  map[string]string `json:"aliases,omitempty"` // accepted input -> enum value
	Schema   string            `json:"schema,omitempty"`  // nested schema for object fields
}

// Types returns the members of the field's type union.
func (f Field) Types() []string {
	parts := strings.Split(f.Type, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// Accepts returns true if t is one of the field's types.
func (f Field) Accepts(t string) bool {
	for _, ft := range f.Types() {
		if ft == t {
			return true
		}
	}
	return false
}

// IsEnum returns true if the field's value is restricted to a closed set.
func (f Field) IsEnum() bool {
	return len(f.Enum) > 0
}

// HasEnumValue returns true if v is one of the allowed enum values.
func (f Field) HasEnumValue(v string) bool {
	for _, e := range f.Enum {
		if e == v {
			return true
		}
	}
	return false
}

// Canonical maps an alias to its enum value. Unknown values are returned unchanged.
func (f Field) Canonical(v string) string {
	if canonical, ok := f.Aliases[v]; ok {
		return canonical
	}
	return v
}
