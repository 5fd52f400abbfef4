package engine

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"habit-tracker/internal/metadata"
)

// EvaluateRules runs the schema's rules against a record and appends any
// violations to errs, the errors already found by ValidateFields.
// Field rules always run; expression rules only run on a record with no errors.
func EvaluateRules(reg *metadata.Registry, schemaName string, record map[string]any, prefix string, errs []ErrorDetail) []ErrorDetail {
	rules := reg.GetRules(schemaName)
	if len(rules) == 0 {
		return errs
	}

	env := map[string]any{
		"record": record,
	}

	// 1. Field rules
	for _, r := range rules {
		if r.Type != metadata.RuleTypeField {
			continue
		}
		if detail := EvaluateFieldRule(r, record); detail != nil {
			detail.Field = prefix + detail.Field
			errs = append(errs, *detail)
		}
	}

	// If there are validation errors, don't run expression rules
	if len(errs) > 0 {
		return errs
	}

	// 2. Expression rules
	for _, r := range rules {
		if r.Type != metadata.RuleTypeExpression {
			continue
		}
		if detail := EvaluateExpressionRule(r, env); detail != nil {
			if detail.Field != "" {
				detail.Field = prefix + detail.Field
			}
			errs = append(errs, *detail)
		}
	}

	return errs
}

// EvaluateFieldRule evaluates a single field rule against a record.
// Returns nil if the rule passes, or an ErrorDetail if it fails.
func EvaluateFieldRule(rule *metadata.Rule, record map[string]any) *ErrorDetail {
	fieldName := rule.Definition.Field
	val, exists := record[fieldName]
	if !exists || val == nil {
		return nil // absent fields are not checked by field rules (use "required" for that)
	}

	op := rule.Definition.Operator
	msg := rule.Definition.Message
	if msg == "" {
		msg = fmt.Sprintf("field %s failed %s validation", fieldName, op)
	}

	switch op {
	case metadata.OperatorMinLength:
		s, ok := val.(string)
		if !ok {
			return nil
		}
		threshold, ok := AsInt64(rule.Definition.Value)
		if !ok {
			return nil
		}
		if int64(utf8.RuneCountInString(s)) < threshold {
			return &ErrorDetail{Field: fieldName, Rule: "min_length", Message: msg}
		}

	case metadata.OperatorPattern:
		s, ok := val.(string)
		if !ok {
			return nil
		}
		re, ok := rule.Compiled.(*regexp.Regexp)
		if !ok || re == nil {
			pattern, _ := rule.Definition.Value.(string)
			compiled, err := regexp.Compile(pattern)
			if err != nil {
				return &ErrorDetail{Field: fieldName, Rule: "pattern", Message: msg}
			}
			re = compiled
		}
		if !re.MatchString(s) {
			return &ErrorDetail{Field: fieldName, Rule: "pattern", Message: msg}
		}
	}

	return nil
}

// CompileExpression compiles an expression string into an expr-lang program.
func CompileExpression(expression string) (*vm.Program, error) {
	prog, err := expr.Compile(expression, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile expression: %w", err)
	}
	return prog, nil
}

// EvaluateExpressionRule evaluates an expression rule against an environment.
// The env should contain: record.
// Returns nil if the rule passes (expression is false), or an ErrorDetail if violated (expression is true).
func EvaluateExpressionRule(rule *metadata.Rule, env map[string]any) *ErrorDetail {
	prog, ok := rule.Compiled.(*vm.Program)
	if !ok || prog == nil {
		// Not compiled at load time; compile locally so the shared rule stays untouched.
		compiled, err := CompileExpression(rule.Definition.Expression)
		if err != nil {
			return &ErrorDetail{Field: rule.Definition.Field, Rule: "expression", Message: fmt.Sprintf("compile error: %v", err)}
		}
		prog = compiled
	}

	result, err := expr.Run(prog, env)
	if err != nil {
		return &ErrorDetail{Field: rule.Definition.Field, Rule: "expression", Message: fmt.Sprintf("rule evaluation error: %v", err)}
	}

	violated, ok := result.(bool)
	if !ok {
		return nil
	}

	if violated {
		msg := rule.Definition.Message
		if msg == "" {
			msg = "Expression rule violated"
		}
		return &ErrorDetail{Field: rule.Definition.Field, Rule: "expression", Message: msg}
	}

	return nil
}

// CompileRules compiles expression programs and patterns in place.
func CompileRules(rules []*metadata.Rule) error {
	for _, r := range rules {
		switch {
		case r.Type == metadata.RuleTypeExpression:
			prog, err := CompileExpression(r.Definition.Expression)
			if err != nil {
				return fmt.Errorf("rule %s: %w", r.ID, err)
			}
			r.Compiled = prog
		case r.Type == metadata.RuleTypeField && r.Definition.Operator == metadata.OperatorPattern:
			pattern, ok := r.Definition.Value.(string)
			if !ok {
				return fmt.Errorf("rule %s: pattern must be a string", r.ID)
			}
			re, err := regexp.Compile(pattern)
			if err != nil {
				return fmt.Errorf("rule %s: compile pattern: %w", r.ID, err)
			}
			r.Compiled = re
		}
	}
	return nil
}
