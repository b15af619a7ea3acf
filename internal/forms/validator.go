package forms

import (
	"fmt"
	"regexp"
	"slices"
	"time"
	"unicode/utf8"
)

type answerShape int

const (
	shapeScalar answerShape = iota
	shapeList
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern    = regexp.MustCompile(`^[\+]?[0-9\s\-\(\)]{10,}$`)
	idNumberPattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// formatCheck returns a message when value does not have the expected format
type formatCheck func(field *FieldSchema, value string) string

// fieldKind is the capability row of one field type
type fieldKind struct {
	shape   answerShape
	options bool
	format  formatCheck
}

var fieldKinds = map[FieldType]fieldKind{
	FieldText:      {shape: shapeScalar},
	FieldTextarea:  {shape: shapeScalar},
	FieldParagraph: {shape: shapeScalar},
	FieldFile:      {shape: shapeScalar},
	FieldEmail:     {shape: shapeScalar, format: regexpFormat(emailPattern, "البريد الإلكتروني غير صحيح")},
	FieldPhone:     {shape: shapeScalar, format: regexpFormat(phonePattern, "رقم الجوال غير صحيح")},
	FieldIDNumber:  {shape: shapeScalar, format: regexpFormat(idNumberPattern, "رقم الهوية يجب أن يتكون من 10 أرقام")},
	FieldDate:      {shape: shapeScalar, format: dateFormat},
	FieldSelect:    {shape: shapeScalar, options: true},
	FieldRadio:     {shape: shapeScalar, options: true},
	FieldCheckbox:  {shape: shapeList, options: true},
}

func regexpFormat(re *regexp.Regexp, message string) formatCheck {
	return func(_ *FieldSchema, value string) string {
		if !re.MatchString(value) {
			return message
		}
		return ""
	}
}

func dateFormat(field *FieldSchema, value string) string {
	if _, err := time.Parse(time.DateOnly, value); err != nil {
		return field.Label + " تاريخ غير صالح"
	}
	return ""
}

// Validate checks a single answer against its field and returns the first
// failing rule's message, or "" when the answer is acceptable.
// Rules run in order: required, shape, format, length, pattern, options.
func Validate(field *FieldSchema, answer Answer) string {
	if answer.IsEmpty() {
		if field.Required {
			return field.Label + " مطلوب"
		}
		return ""
	}

	kind, ok := fieldKinds[field.Type]
	if !ok {
		return field.Label + " غير صالح"
	}

	if (kind.shape == shapeList) != answer.IsList() {
		return field.Label + " غير صالح"
	}

	if kind.shape == shapeScalar {
		value := answer.String()

		if kind.format != nil {
			if msg := kind.format(field, value); msg != "" {
				return msg
			}
		}

		if msg := checkLength(field, value); msg != "" {
			return msg
		}

		if msg := checkPattern(field, value); msg != "" {
			return msg
		}
	}

	if kind.options {
		if msg := checkOptions(field, answer); msg != "" {
			return msg
		}
	}

	return ""
}

func checkLength(field *FieldSchema, value string) string {
	v := field.Validation
	if v == nil {
		return ""
	}

	n := utf8.RuneCountInString(value)
	if v.MinLength != nil && n < *v.MinLength {
		return fmt.Sprintf("%s يجب أن يكون %d أحرف على الأقل", field.Label, *v.MinLength)
	}
	if v.MaxLength != nil && n > *v.MaxLength {
		return fmt.Sprintf("%s يجب ألا يتجاوز %d حرفاً", field.Label, *v.MaxLength)
	}
	return ""
}

// checkPattern applies the author's pattern. A pattern that does not compile is ignored.
func checkPattern(field *FieldSchema, value string) string {
	if field.Validation == nil || field.Validation.Pattern == "" {
		return ""
	}

	re, err := compilePattern(field.Validation.Pattern)
	if err != nil {
		return ""
	}
	if !re.MatchString(value) {
		return field.Label + " غير صالح"
	}
	return ""
}

func checkOptions(field *FieldSchema, answer Answer) string {
	values := answer.Items()
	if !answer.IsList() {
		values = []string{answer.String()}
	}

	for _, v := range values {
		if !slices.Contains(field.Options, v) {
			return field.Label + ": خيار غير صالح"
		}
	}
	return ""
}

// ValidateVisible validates every field visible for answers and collects the
// failures keyed by field id. Hidden fields never produce errors.
func ValidateVisible(schema *FormSchema, answers Answers) ErrorMap {
	errs := make(ErrorMap)
	for _, field := range VisibleFields(schema, answers) {
		if msg := Validate(field, answers[field.ID]); msg != "" {
			errs[field.ID] = msg
		}
	}
	return errs
}
