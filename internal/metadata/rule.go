package metadata

// Rule types.
const (
	RuleTypeField      = "field"
	RuleTypeExpression = "expression"
)

// Field rule operators.
const (
	OperatorMinLength = "min_length"
	OperatorPattern   = "pattern"
)

// RuleDefinition is the declarative content of a rule.
type RuleDefinition struct {
	// Field rules
	Field    string `json:"field,omitempty"`
	Operator string `json:"operator,omitempty"`
	Value    any    `json:"value,omitempty"`

	// Expression rules. The expression describes the violation: a true result fails.
	Expression string `json:"expression,omitempty"`

	Message string `json:"message,omitempty"`
}

// Rule is a validation rule attached to a schema.
type Rule struct {
	ID         string         `json:"id"`
	Schema     string         `json:"schema"`
	Type       string         `json:"type"` // "field" or "expression"
	Definition RuleDefinition `json:"definition"`
	Priority   int            `json:"priority"`

	// Compiled holds the compiled program or pattern (set at load time, not serialized).
	Compiled any `json:"-"`
}
