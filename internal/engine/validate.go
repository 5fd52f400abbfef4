package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"habit-tracker/internal/metadata"
)

// Validate checks a record against the named schema and returns a
// VALIDATION_FAILED AppError describing every violation, or nil.
// Enum aliases in the record are rewritten to their canonical values.
func Validate(reg *metadata.Registry, schemaName string, record map[string]any) error {
	if reg.GetSchema(schemaName) == nil {
		return UnknownSchemaError(schemaName)
	}
	if errs := ValidateRecord(reg, schemaName, record, ""); len(errs) > 0 {
		return ValidationError(errs)
	}
	return nil
}

// ValidateRecord runs field checks and then the schema's rules. Field names in
// the returned details are prefixed with prefix (e.g. "rule.").
func ValidateRecord(reg *metadata.Registry, schemaName string, record map[string]any, prefix string) []ErrorDetail {
	schema := reg.GetSchema(schemaName)
	if schema == nil {
		return []ErrorDetail{{Field: strings.TrimSuffix(prefix, "."), Message: fmt.Sprintf("unknown schema %s", schemaName)}}
	}

	errs := ValidateFields(reg, schema, record, prefix)
	return EvaluateRules(reg, schemaName, record, prefix, errs)
}

// ValidateFields checks presence, type and enum membership of every field the
// schema declares. Keys the schema does not declare are ignored.
func ValidateFields(reg *metadata.Registry, schema *metadata.Schema, record map[string]any, prefix string) []ErrorDetail {
	var errs []ErrorDetail

	for _, f := range schema.Fields {
		name := prefix + f.Name
		val, exists := record[f.Name]
		if !exists || val == nil {
			if f.Required {
				errs = append(errs, ErrorDetail{Field: name, Rule: "required", Message: fmt.Sprintf("%s is required", name)})
			}
			continue
		}

		matched := matchType(f, val)
		if matched == "" {
			errs = append(errs, ErrorDetail{
				Field:   name,
				Rule:    "type",
				Message: fmt.Sprintf("%s must be of type %s", name, strings.Join(f.Types(), " or ")),
			})
			continue
		}

		if matched == metadata.TypeObject {
			nested := val.(map[string]any)
			errs = append(errs, ValidateRecord(reg, f.Schema, nested, name+".")...)
			continue
		}

		if f.IsEnum() {
			s, ok := val.(string)
			if !ok {
				errs = append(errs, ErrorDetail{Field: name, Rule: "enum", Message: fmt.Sprintf("%s must be one of: %s", name, strings.Join(f.Enum, ", "))})
				continue
			}
			canonical := f.Canonical(s)
			if !f.HasEnumValue(canonical) {
				errs = append(errs, ErrorDetail{Field: name, Rule: "enum", Message: fmt.Sprintf("%s must be one of: %s", name, strings.Join(f.Enum, ", "))})
				continue
			}
			record[f.Name] = canonical
		}
	}

	return errs
}

// matchType returns the first member of the field's type union that val
// satisfies, or "" if none does. Values are never coerced between members.
func matchType(f metadata.Field, val any) string {
	for _, t := range f.Types() {
		switch t {
		case metadata.TypeString:
			if _, ok := val.(string); ok {
				return t
			}
		case metadata.TypeInt:
			if IsInt(val) {
				return t
			}
		case metadata.TypeBool:
			if _, ok := val.(bool); ok {
				return t
			}
		case metadata.TypeStrings:
			if isStringSlice(val) {
				return t
			}
		case metadata.TypeObject:
			if _, ok := val.(map[string]any); ok {
				return t
			}
		}
	}
	return ""
}

// IsInt reports whether v is an integer. JSON numbers count when they have no
// fractional part; booleans never do.
func IsInt(v any) bool {
	_, ok := AsInt64(v)
	return ok
}

// Whole float64 values below this magnitude are exact integers; from 2^53 on,
// neighbouring integers round to the same float.
const maxExactFloat = 1 << 53

// AsInt64 returns v as an int64 when IsInt holds. Whole numbers written as
// floats are only accepted below 2^53, where parsing cannot have rounded them.
func AsInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case float64:
		return wholeFloat(n)
	case float32:
		return wholeFloat(float64(n))
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return wholeFloat(f)
	}
	return 0, false
}

func wholeFloat(f float64) (int64, bool) {
	if f != math.Trunc(f) || math.Abs(f) >= maxExactFloat {
		return 0, false
	}
	return int64(f), true
}

func isStringSlice(v any) bool {
	switch items := v.(type) {
	case []string:
		return true
	case []any:
		for _, item := range items {
			if _, ok := item.(string); !ok {
				return false
			}
		}
		return true
	}
	return false
}

// LoadSchemas parses a definitions document, compiles its rules and returns a
// registry holding them.
func LoadSchemas(data []byte) (*metadata.Registry, error) {
	defs, err := metadata.ParseDefinitions(data)
	if err != nil {
		return nil, err
	}
	if err := CompileRules(defs.Rules); err != nil {
		return nil, fmt.Errorf("compile rules: %w", err)
	}
	reg := metadata.NewRegistry()
	defs.Apply(reg)
	return reg, nil
}
