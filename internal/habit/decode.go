package habit

import (
	"bytes"
	"encoding/json"
	"fmt"

	"habit-tracker/internal/engine"
)

// DecodeRule parses and validates a JSON rule.
func DecodeRule(data []byte) (Rule, error) {
	return decode[Rule](SchemaRule, data)
}

// DecodeHabit parses and validates a JSON habit, including its nested rule.
func DecodeHabit(data []byte) (Habit, error) {
	return decode[Habit](SchemaHabit, data)
}

// DecodeEntry parses and validates a JSON entry.
func DecodeEntry(data []byte) (Entry, error) {
	return decode[Entry](SchemaEntry, data)
}

// Decode validates a JSON record against the named schema and returns the
// typed record.
func Decode(schema string, data []byte) (any, error) {
	switch schema {
	case SchemaRule:
		return DecodeRule(data)
	case SchemaHabit:
		return DecodeHabit(data)
	case SchemaEntry:
		return DecodeEntry(data)
	default:
		return nil, engine.UnknownSchemaError(schema)
	}
}

// decode validates the raw document first so that every violation is
// reported in one error, then maps the normalized record onto T.
func decode[T any](schema string, data []byte) (T, error) {
	var zero T

	rec, err := decodeObject(data)
	if err != nil {
		return zero, err
	}
	if err := engine.Validate(Registry(), schema, rec); err != nil {
		return zero, err
	}

	normalized, err := json.Marshal(rec)
	if err != nil {
		return zero, fmt.Errorf("encode %s: %w", schema, err)
	}
	var out T
	if err := json.Unmarshal(normalized, &out); err != nil {
		return zero, fmt.Errorf("decode %s: %w", schema, err)
	}
	return out, nil
}

func decodeObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var rec map[string]any
	if err := dec.Decode(&rec); err != nil {
		return nil, engine.InvalidPayloadError("Invalid JSON body")
	}
	if rec == nil {
		return nil, engine.InvalidPayloadError("Request body must be a JSON object")
	}
	if dec.More() {
		return nil, engine.InvalidPayloadError("Invalid JSON body")
	}
	return rec, nil
}
