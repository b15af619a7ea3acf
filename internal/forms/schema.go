package forms

import (
	"fmt"
	"time"
)

// Colors are display-only theme values of a form
type Colors struct {
	Primary    string `json:"primary,omitempty"`
	Secondary  string `json:"secondary,omitempty"`
	Accent     string `json:"accent,omitempty"`
	ButtonText string `json:"buttonText,omitempty"`
}

// Settings control what happens around a submission
type Settings struct {
	AllowMultipleSubmissions bool   `json:"allowMultipleSubmissions"`
	RequireApproval          bool   `json:"requireApproval"`
	SendConfirmationEmail    bool   `json:"sendConfirmationEmail"`
	RedirectURL              string `json:"redirectUrl,omitempty"`
}

// FormSchema is an admin-authored registration form. Field order is render order.
type FormSchema struct {
	ID          string        `json:"id"`
	HackathonID string        `json:"hackathonId"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	CoverImage  string        `json:"coverImage,omitempty"`
	Colors      Colors        `json:"colors"`
	IsActive    bool          `json:"isActive"`
	Fields      []FieldSchema `json:"fields"`
	Settings    Settings      `json:"settings"`
	OpenAt      *time.Time    `json:"openAt,omitempty"`
	CloseAt     *time.Time    `json:"closeAt,omitempty"`
}

// Field returns the field with the given id
func (f *FormSchema) Field(id string) (*FieldSchema, bool) {
	for i := range f.Fields {
		if f.Fields[i].ID == id {
			return &f.Fields[i], true
		}
	}
	return nil, false
}

// Check verifies the structural invariants of the schema: unique non-empty ids,
// known types, options present where needed, and conditionals that only point
// at fields declared earlier in the list.
func (f *FormSchema) Check() error {
	seen := make(map[string]struct{}, len(f.Fields))

	for i, field := range f.Fields {
		if field.ID == "" {
			return fmt.Errorf("field #%d: %w", i, ErrEmptyFieldID)
		}
		if _, dup := seen[field.ID]; dup {
			return fmt.Errorf("field %q: %w", field.ID, ErrDuplicateFieldID)
		}
		if !field.Type.Known() {
			return fmt.Errorf("field %q: %w: %s", field.ID, ErrUnknownFieldType, field.Type)
		}
		if field.Type.HasOptions() && len(field.Options) == 0 {
			return fmt.Errorf("field %q: %w", field.ID, ErrMissingOptions)
		}
		if c := field.Conditional; c != nil && c.Enabled {
			if _, earlier := seen[c.ShowWhen]; !earlier {
				return fmt.Errorf("field %q depends on %q: %w", field.ID, c.ShowWhen, ErrForwardDependency)
			}
		}
		seen[field.ID] = struct{}{}
	}

	if f.OpenAt != nil && f.CloseAt != nil && !f.CloseAt.After(*f.OpenAt) {
		return ErrInvalidWindow
	}

	return nil
}
