package forms

// FieldType identifies the input kind of a form field
type FieldType string

const (
	FieldText      FieldType = "text"
	FieldEmail     FieldType = "email"
	FieldPhone     FieldType = "phone"
	FieldIDNumber  FieldType = "idNumber"
	FieldTextarea  FieldType = "textarea"
	FieldParagraph FieldType = "paragraph"
	FieldSelect    FieldType = "select"
	FieldCheckbox  FieldType = "checkbox"
	FieldRadio     FieldType = "radio"
	FieldDate      FieldType = "date"
	FieldFile      FieldType = "file"
)

// FieldValidation holds optional per-field constraints set by the form author
type FieldValidation struct {
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
}

// Conditional makes a field visible only while another field has a given value
type Conditional struct {
	Enabled       bool   `json:"enabled"`
	ShowWhen      string `json:"showWhen"`
	ShowWhenValue string `json:"showWhenValue"`
}

// FieldSchema describes one input of a registration form
type FieldSchema struct {
	ID          string           `json:"id"`
	Type        FieldType        `json:"type"`
	Label       string           `json:"label"`
	Placeholder string           `json:"placeholder,omitempty"`
	Required    bool             `json:"required"`
	Options     []string         `json:"options,omitempty"`
	Validation  *FieldValidation `json:"validation,omitempty"`
	Conditional *Conditional     `json:"conditional,omitempty"`
}

// Known reports whether the field type has a registered kind
func (t FieldType) Known() bool {
	_, ok := fieldKinds[t]
	return ok
}

// HasOptions reports whether the field type renders a fixed option list
func (t FieldType) HasOptions() bool {
	kind, ok := fieldKinds[t]
	return ok && kind.options
}

// IsList reports whether answers to this field type are lists of strings
func (t FieldType) IsList() bool {
	kind, ok := fieldKinds[t]
	return ok && kind.shape == shapeList
}
