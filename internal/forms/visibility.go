package forms

// Rule decides whether a field is rendered for a given answer snapshot
type Rule interface {
	Holds(answers Answers) bool
}

// Always is the rule of unconditional fields
type Always struct{}

// Holds implements Rule
func (Always) Holds(Answers) bool { return true }

// EqualsField holds while the referenced field has exactly Value as a scalar answer.
// List answers never match.
type EqualsField struct {
	FieldID string
	Value   string
}

// Holds implements Rule
func (r EqualsField) Holds(answers Answers) bool {
	answer, ok := answers[r.FieldID]
	if !ok || answer.IsList() {
		return false
	}
	return answer.String() == r.Value
}

// RuleFor converts a field's conditional block into a visibility rule
func RuleFor(field *FieldSchema) Rule {
	c := field.Conditional
	if c == nil || !c.Enabled {
		return Always{}
	}
	return EqualsField{FieldID: c.ShowWhen, Value: c.ShowWhenValue}
}

// ShouldShow reports whether the field is visible for the given answers.
// The result depends only on its arguments and must be recomputed after every edit.
func ShouldShow(field *FieldSchema, answers Answers) bool {
	return RuleFor(field).Holds(answers)
}

// VisibleFields returns the fields of the schema that are visible for answers, in render order.
// A field is visible only when its rule holds against the answers of fields
// already found visible, so hiding a field also hides everything that depends on it.
// Rules may only reference earlier fields, which makes one ordered pass enough.
func VisibleFields(schema *FormSchema, answers Answers) []*FieldSchema {
	visible := make([]*FieldSchema, 0, len(schema.Fields))
	shown := make(Answers, len(answers))
	for i := range schema.Fields {
		field := &schema.Fields[i]
		if !ShouldShow(field, shown) {
			continue
		}
		visible = append(visible, field)
		if answer, ok := answers[field.ID]; ok {
			shown[field.ID] = answer
		}
	}
	return visible
}

// PruneHidden returns a copy of answers restricted to fields of the schema that
// are visible for those answers. Stale answers of hidden fields, answers of
// fields behind a hidden field and keys that are not fields of the schema are dropped.
func PruneHidden(schema *FormSchema, answers Answers) Answers {
	pruned := make(Answers, len(answers))
	for _, field := range VisibleFields(schema, answers) {
		if answer, ok := answers[field.ID]; ok {
			if answer.IsList() {
				answer = Multi(answer.items...)
			}
			pruned[field.ID] = answer
		}
	}
	return pruned
}
