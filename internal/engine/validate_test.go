package engine

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"habit-tracker/internal/metadata"
)

const testDefinitions = `{
	"schemas": [
		{"name": "rule", "fields": [
			{"name": "type", "type": "string", "required": true,
			 "enum": ["is_done", ">=", "==", "in"],
			 "aliases": {"greater_equal": ">=", "equal": "==", "in_set": "in"}},
			{"name": "value", "type": "int|string|string[]"}
		]},
		{"name": "habit", "fields": [
			{"name": "id", "type": "string", "required": true},
			{"name": "name", "type": "string", "required": true},
			{"name": "rule", "type": "object", "schema": "rule", "required": true},
			{"name": "color", "type": "string"}
		]}
	],
	"rules": [
		{"id": "r1", "schema": "rule", "type": "expression", "definition": {
			"field": "value", "expression": "record.type != 'is_done' && record.value == nil",
			"message": "value is required for this rule type"}},
		{"id": "h1", "schema": "habit", "type": "field", "definition": {
			"field": "name", "operator": "min_length", "value": 1}}
	]
}`

func testRegistry(t *testing.T) *metadata.Registry {
	t.Helper()
	reg, err := LoadSchemas([]byte(testDefinitions))
	if err != nil {
		t.Fatalf("load schemas: %v", err)
	}
	return reg
}

func TestLoadSchemas_CompilesRules(t *testing.T) {
	reg := testRegistry(t)
	rules := reg.GetRules("rule")
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule for schema rule, got %d", len(rules))
	}
	if rules[0].Compiled == nil {
		t.Fatal("expected expression to be compiled at load time")
	}
}

func TestLoadSchemas_BadExpression(t *testing.T) {
	defs := `{"schemas": [{"name": "x", "fields": []}],
		"rules": [{"id": "bad", "schema": "x", "type": "expression", "definition": {"expression": "record.a =="}}]}`
	if _, err := LoadSchemas([]byte(defs)); err == nil {
		t.Fatal("expected error for expression that does not compile")
	}
}

func TestValidate_UnknownSchema(t *testing.T) {
	reg := testRegistry(t)
	err := Validate(reg, "streak", map[string]any{})
	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != CodeUnknownSchema || appErr.Status != 404 {
		t.Fatalf("expected UNKNOWN_SCHEMA/404, got %s/%d", appErr.Code, appErr.Status)
	}
}

func TestValidate_RuleValueRequired(t *testing.T) {
	reg := testRegistry(t)

	for _, typ := range []string{">=", "==", "in"} {
		err := Validate(reg, "rule", map[string]any{"type": typ})
		if !IsValidationError(err) {
			t.Fatalf("expected validation error for type=%s without value, got %v", typ, err)
		}
	}

	// is_done passes with or without a value
	if err := Validate(reg, "rule", map[string]any{"type": "is_done"}); err != nil {
		t.Fatalf("expected pass for is_done, got %v", err)
	}
	if err := Validate(reg, "rule", map[string]any{"type": "is_done", "value": "x"}); err != nil {
		t.Fatalf("expected pass for is_done with value, got %v", err)
	}
}

func TestValidate_ValueShapeNotCheckedAgainstType(t *testing.T) {
	reg := testRegistry(t)
	if err := Validate(reg, "rule", map[string]any{"type": ">=", "value": "ten"}); err != nil {
		t.Fatalf("expected string value to pass for >=, got %v", err)
	}
	if err := Validate(reg, "rule", map[string]any{"type": "in", "value": float64(3)}); err != nil {
		t.Fatalf("expected int value to pass for in, got %v", err)
	}
}

func TestValidate_AliasNormalized(t *testing.T) {
	reg := testRegistry(t)
	rec := map[string]any{"type": "greater_equal", "value": float64(10000)}
	if err := Validate(reg, "rule", rec); err != nil {
		t.Fatalf("expected alias to pass, got %v", err)
	}
	if rec["type"] != ">=" {
		t.Fatalf("expected type normalized to >=, got %v", rec["type"])
	}
}

func TestValidateFields_Enum(t *testing.T) {
	reg := testRegistry(t)
	err := Validate(reg, "rule", map[string]any{"type": "between", "value": float64(1)})
	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %v", err)
	}
	if len(appErr.Details) != 1 {
		t.Fatalf("expected 1 detail, got %v", appErr.Details)
	}
	if appErr.Details[0].Rule != "enum" || appErr.Details[0].Field != "type" {
		t.Fatalf("expected enum error on type, got %+v", appErr.Details[0])
	}
}

func TestValidateFields_TypeUnion(t *testing.T) {
	reg := testRegistry(t)
	schema := reg.GetSchema("rule")

	good := []any{float64(10000), json.Number("10000"), json.Number("10000.0"), int64(3), "x", []any{"a", "b"}, []string{"a"}, []any{}}
	for _, v := range good {
		if errs := ValidateFields(reg, schema, map[string]any{"type": ">=", "value": v}, ""); len(errs) != 0 {
			t.Fatalf("expected %#v to be accepted, got %v", v, errs)
		}
	}

	bad := []any{true, float64(1.5), json.Number("1.5"), []any{"a", float64(1)}, map[string]any{}}
	for _, v := range bad {
		errs := ValidateFields(reg, schema, map[string]any{"type": ">=", "value": v}, "")
		if len(errs) != 1 || errs[0].Rule != "type" {
			t.Fatalf("expected type error for %#v, got %v", v, errs)
		}
	}
}

func TestValidateFields_Required(t *testing.T) {
	reg := testRegistry(t)
	errs := ValidateRecord(reg, "habit", map[string]any{"name": nil, "color": nil}, "")

	got := map[string]string{}
	for _, d := range errs {
		got[d.Field] = d.Rule
	}
	for _, field := range []string{"id", "name", "rule"} {
		if got[field] != "required" {
			t.Fatalf("expected required error for %s, got %v", field, errs)
		}
	}
	if _, ok := got["color"]; ok {
		t.Fatal("optional color should accept null")
	}
}

func TestValidateRecord_Nested(t *testing.T) {
	reg := testRegistry(t)
	rec := map[string]any{
		"id":   "h3",
		"name": "",
		"rule": map[string]any{"type": ">="},
	}
	errs := ValidateRecord(reg, "habit", rec, "")
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if errs[0].Field != "rule.value" || errs[0].Rule != "expression" {
		t.Fatalf("expected nested rule.value error first, got %+v", errs[0])
	}
	if errs[1].Field != "name" || errs[1].Rule != "min_length" {
		t.Fatalf("expected name min_length error, got %+v", errs[1])
	}
}

func TestValidateRecord_IgnoresUnknownKeys(t *testing.T) {
	reg := testRegistry(t)
	rec := map[string]any{"type": "is_done", "streak": float64(12)}
	if errs := ValidateRecord(reg, "rule", rec, ""); len(errs) != 0 {
		t.Fatalf("expected extra keys to be ignored, got %v", errs)
	}
}

func TestIsInt(t *testing.T) {
	ints := []any{1, int64(-4), float64(2), json.Number("9007199254740993"), json.Number("-9223372036854775808"), json.Number("10000.0")}
	for _, v := range ints {
		if !IsInt(v) {
			t.Fatalf("expected %#v to be an int", v)
		}
	}
	notInts := []any{
		true, "1", float64(0.5), nil,
		float64(1e20), json.Number("1e20"), json.Number("9223372036854775808"), json.Number("1e400"),
	}
	for _, v := range notInts {
		if IsInt(v) {
			t.Fatalf("expected %#v not to be an int", v)
		}
	}
}

func TestAsInt64_Exact(t *testing.T) {
	cases := map[string]int64{
		"9223372036854775807": math.MaxInt64,
		"9007199254740991.0":  1<<53 - 1,
		"-12":                 -12,
	}
	for raw, want := range cases {
		got, ok := AsInt64(json.Number(raw))
		if !ok || got != want {
			t.Fatalf("expected %s -> %d, got %d (ok=%v)", raw, want, got, ok)
		}
	}

	// A whole float past 2^53 may already be rounded, so it is not taken as an int
	if _, ok := AsInt64(json.Number("9007199254740993.0")); ok {
		t.Fatal("expected inexact whole float to be rejected")
	}
}

func TestValidateFields_OutOfRangeInt(t *testing.T) {
	reg := testRegistry(t)
	schema := reg.GetSchema("rule")
	for _, raw := range []string{"9223372036854775808", "1e20"} {
		errs := ValidateFields(reg, schema, map[string]any{"type": ">=", "value": json.Number(raw)}, "")
		if len(errs) != 1 || errs[0].Field != "value" || errs[0].Rule != "type" {
			t.Fatalf("expected value type error for %s, got %v", raw, errs)
		}
	}
}

func TestAppError_Error(t *testing.T) {
	err := ValidationError([]ErrorDetail{
		{Field: "date", Rule: "pattern", Message: "date must match YYYY-MM-DD"},
		{Message: "broken"},
	})
	want := "Validation failed: date: date must match YYYY-MM-DD; broken"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
	if err.Status != 422 {
		t.Fatalf("expected 422, got %d", err.Status)
	}
}
