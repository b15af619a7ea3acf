package forms

import "strings"

// RespondentKey identifies who filled in the answers, for duplicate detection.
// It is the normalised value of the first email field, falling back to the
// first idNumber field. An empty key means the respondent cannot be identified.
func RespondentKey(schema *FormSchema, answers Answers) string {
	for _, t := range []FieldType{FieldEmail, FieldIDNumber} {
		for i := range schema.Fields {
			field := &schema.Fields[i]
			if field.Type != t {
				continue
			}
			value := strings.TrimSpace(answers[field.ID].String())
			if value == "" {
				continue
			}
			if t == FieldEmail {
				return "email:" + strings.ToLower(value)
			}
			return "id:" + value
		}
	}
	return ""
}
