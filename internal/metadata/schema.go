package metadata

// Schema describes one record type: its fields in declaration order.
type Schema struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Fields      []Field `json:"fields"`
}

// GetField returns a pointer to the field with the given name, or nil.
func (s *Schema) GetField(name string) *Field {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// HasField returns true if the schema has a field with the given name.
func (s *Schema) HasField(name string) bool {
	return s.GetField(name) != nil
}

// FieldNames returns all field names.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// RequiredFields returns the fields that must be present and non-null.
func (s *Schema) RequiredFields() []Field {
	var fields []Field
	for _, f := range s.Fields {
		if f.Required {
			fields = append(fields, f)
		}
	}
	return fields
}
