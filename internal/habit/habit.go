// Package habit holds the validated record types of the habit tracker:
// Rule, Habit and Entry. Every constructor and decoder runs the record through
// the schema engine and returns a VALIDATION_FAILED *engine.AppError on failure;
// a record that fails is never returned half built.
package habit

import (
	_ "embed"
	"fmt"
	"sync"

	"habit-tracker/internal/engine"
	"habit-tracker/internal/metadata"
)

// Schema names registered by this package.
const (
	SchemaRule  = "rule"
	SchemaHabit = "habit"
	SchemaEntry = "entry"
)

//go:embed schemas.json
var definitions []byte

var loadRegistry = sync.OnceValues(func() (*metadata.Registry, error) {
	return engine.LoadSchemas(definitions)
})

// Registry returns the registry holding the rule, habit and entry schemas.
// It panics if the embedded definitions are broken.
func Registry() *metadata.Registry {
	reg, err := loadRegistry()
	if err != nil {
		panic(fmt.Sprintf("habit: load embedded schemas: %v", err))
	}
	return reg
}

// RuleType selects how an entry value is compared to decide a day is done.
type RuleType string

const (
	RuleIsDone       RuleType = "is_done"
	RuleGreaterEqual RuleType = ">="
	RuleEqual        RuleType = "=="
	RuleInSet        RuleType = "in"
)

// IsValid checks whether a RuleType is one of the wire values the rule schema
// allows. Symbolic names are not valid until normalized by NewRule.
func (t RuleType) IsValid() bool {
	return enumField(SchemaRule, "type").HasEnumValue(string(t))
}

// HabitType is the kind of value entries for a habit carry.
type HabitType string

const (
	HabitBinary      HabitType = "binary"
	HabitNumeric     HabitType = "numeric"
	HabitCategorical HabitType = "categorical"
)

func (t HabitType) IsValid() bool {
	return enumField(SchemaHabit, "type").HasEnumValue(string(t))
}

func enumField(schema, field string) *metadata.Field {
	return Registry().GetSchema(schema).GetField(field)
}

// Rule is the completion condition of a habit. Value must be set unless
// Type is RuleIsDone; its shape is not checked against Type.
type Rule struct {
	Type  RuleType  `json:"type"`
	Value RuleValue `json:"value"`
}

type Habit struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Type     HabitType `json:"type"`
	Category *string   `json:"category"`
	Rule     Rule      `json:"rule"`
	Color    *string   `json:"color"`
}

// Entry is one day's observation for the habit named by HabitID. The habit
// is not looked up, and Value is not checked against the habit's type.
type Entry struct {
	ID      string     `json:"id"`
	HabitID string     `json:"habit_id"`
	Date    string     `json:"date"` // YYYY-MM-DD, not calendar checked
	Value   EntryValue `json:"value"`
}

// String returns a pointer to s, for the optional Habit fields.
func String(s string) *string {
	return &s
}

// NewRule builds a Rule. Symbolic type names ("greater_equal", "equal",
// "in_set") are accepted and normalized to the wire values.
func NewRule(typ RuleType, value RuleValue) (Rule, error) {
	r := Rule{Type: typ, Value: value}
	rec := r.record()
	if err := engine.Validate(Registry(), SchemaRule, rec); err != nil {
		return Rule{}, err
	}
	r.Type = RuleType(rec["type"].(string))
	return r, nil
}

// Validate checks the rule without normalizing it.
func (r Rule) Validate() error {
	return engine.Validate(Registry(), SchemaRule, r.record())
}

func (r Rule) record() map[string]any {
	return map[string]any{
		"type":  string(r.Type),
		"value": r.Value.raw(),
	}
}

// NewHabit validates h, including its rule, and returns it with the rule
// type normalized.
func NewHabit(h Habit) (Habit, error) {
	rec := h.record()
	if err := engine.Validate(Registry(), SchemaHabit, rec); err != nil {
		return Habit{}, err
	}
	h.Rule.Type = RuleType(rec["rule"].(map[string]any)["type"].(string))
	return h, nil
}

func (h Habit) Validate() error {
	return engine.Validate(Registry(), SchemaHabit, h.record())
}

func (h Habit) record() map[string]any {
	return map[string]any{
		"id":       h.ID,
		"name":     h.Name,
		"type":     string(h.Type),
		"category": optional(h.Category),
		"rule":     h.Rule.record(),
		"color":    optional(h.Color),
	}
}

// NewEntry validates e and returns it unchanged.
func NewEntry(e Entry) (Entry, error) {
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (e Entry) Validate() error {
	return engine.Validate(Registry(), SchemaEntry, e.record())
}

func (e Entry) record() map[string]any {
	return map[string]any{
		"id":       e.ID,
		"habit_id": e.HabitID,
		"date":     e.Date,
		"value":    e.Value.raw(),
	}
}

func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
