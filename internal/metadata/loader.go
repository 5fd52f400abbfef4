package metadata

import (
	"encoding/json"
	"fmt"
)

// Definitions is the document format for schema and rule definitions.
type Definitions struct {
	Schemas []*Schema `json:"schemas"`
	Rules   []*Rule   `json:"rules"`
}

// ParseDefinitions decodes a definitions document and checks that every rule
// and object field points at a known schema.
func ParseDefinitions(data []byte) (*Definitions, error) {
	var defs Definitions
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parse definitions: %w", err)
	}

	known := make(map[string]*Schema, len(defs.Schemas))
	for _, s := range defs.Schemas {
		if s.Name == "" {
			return nil, fmt.Errorf("schema without name")
		}
		known[s.Name] = s
	}

	for _, s := range defs.Schemas {
		for _, f := range s.Fields {
			if f.Accepts(TypeObject) && known[f.Schema] == nil {
				return nil, fmt.Errorf("schema %s: field %s references unknown schema %q", s.Name, f.Name, f.Schema)
			}
		}
	}

	for _, r := range defs.Rules {
		s := known[r.Schema]
		if s == nil {
			return nil, fmt.Errorf("rule %s: unknown schema %q", r.ID, r.Schema)
		}
		switch r.Type {
		case RuleTypeField:
			if !s.HasField(r.Definition.Field) {
				return nil, fmt.Errorf("rule %s: schema %s has no field %q", r.ID, r.Schema, r.Definition.Field)
			}
			switch r.Definition.Operator {
			case OperatorMinLength, OperatorPattern:
			default:
				return nil, fmt.Errorf("rule %s: unknown operator %q", r.ID, r.Definition.Operator)
			}
		case RuleTypeExpression:
			if r.Definition.Expression == "" {
				return nil, fmt.Errorf("rule %s: empty expression", r.ID)
			}
		default:
			return nil, fmt.Errorf("rule %s: unknown rule type %q", r.ID, r.Type)
		}
	}

	return &defs, nil
}

// Apply loads the definitions into the registry, replacing its contents.
func (d *Definitions) Apply(reg *Registry) {
	reg.Load(d.Schemas)
	reg.LoadRules(d.Rules)
}
