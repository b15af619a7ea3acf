package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestValidate_Required(t *testing.T) {
	tests := []struct {
		name   string
		field  FieldSchema
		answer Answer
	}{
		{"empty text", FieldSchema{ID: "name", Type: FieldText, Label: "الاسم", Required: true}, Scalar("")},
		{"missing email", FieldSchema{ID: "email", Type: FieldEmail, Label: "البريد", Required: true}, Answer{}},
		{"empty checkbox", FieldSchema{ID: "tracks", Type: FieldCheckbox, Label: "المسارات", Required: true, Options: []string{"AI", "Web"}}, Multi()},
		{"empty select", FieldSchema{ID: "size", Type: FieldSelect, Label: "المقاس", Required: true, Options: []string{"S", "M"}}, Scalar("")},
		{"empty file", FieldSchema{ID: "cv", Type: FieldFile, Label: "السيرة", Required: true}, Scalar("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := Validate(&tt.field, tt.answer)
			assert.Equal(t, tt.field.Label+" مطلوب", msg)
			assert.Contains(t, msg, tt.field.Label)
		})
	}
}

func TestValidate_OptionalEmptySkipsFormat(t *testing.T) {
	field := FieldSchema{ID: "email", Type: FieldEmail, Label: "البريد"}
	assert.Empty(t, Validate(&field, Scalar("")))
}

func TestValidate_Email(t *testing.T) {
	field := FieldSchema{ID: "email", Type: FieldEmail, Label: "البريد", Required: true}

	assert.NotEmpty(t, Validate(&field, Scalar("user@x")))
	assert.NotEmpty(t, Validate(&field, Scalar("user example.com")))
	assert.NotEmpty(t, Validate(&field, Scalar("@example.com")))
	assert.Empty(t, Validate(&field, Scalar("user@example.com")))
}

func TestValidate_Phone(t *testing.T) {
	field := FieldSchema{ID: "phone", Type: FieldPhone, Label: "الجوال"}

	assert.Empty(t, Validate(&field, Scalar("+966 50 123 4567")))
	assert.Empty(t, Validate(&field, Scalar("(050) 123-4567")))
	assert.NotEmpty(t, Validate(&field, Scalar("12345")))
	assert.NotEmpty(t, Validate(&field, Scalar("050-abc-4567")))
}

func TestValidate_IDNumber(t *testing.T) {
	field := FieldSchema{ID: "nid", Type: FieldIDNumber, Label: "رقم الهوية", Required: true}

	for _, bad := range []string{"123456789", "12345678901", "12345abcde", " 1234567890", "١٢٣٤٥٦٧٨٩٠"} {
		assert.NotEmpty(t, Validate(&field, Scalar(bad)), bad)
	}
	assert.Empty(t, Validate(&field, Scalar("1234567890")))
}

func TestValidate_Date(t *testing.T) {
	field := FieldSchema{ID: "dob", Type: FieldDate, Label: "تاريخ الميلاد"}

	assert.Empty(t, Validate(&field, Scalar("2001-02-28")))
	assert.NotEmpty(t, Validate(&field, Scalar("28/02/2001")))
}

func TestValidate_LengthCountsRunes(t *testing.T) {
	field := FieldSchema{
		ID:         "bio",
		Type:       FieldTextarea,
		Label:      "نبذة",
		Validation: &FieldValidation{MinLength: intPtr(3), MaxLength: intPtr(5)},
	}

	assert.NotEmpty(t, Validate(&field, Scalar("أب")))
	assert.Empty(t, Validate(&field, Scalar("أبجد")))
	assert.NotEmpty(t, Validate(&field, Scalar("أبجدهوز")))
}

func TestValidate_FormatBeforeLength(t *testing.T) {
	field := FieldSchema{
		ID:         "email",
		Type:       FieldEmail,
		Label:      "البريد",
		Validation: &FieldValidation{MaxLength: intPtr(3)},
	}

	assert.Equal(t, "البريد الإلكتروني غير صحيح", Validate(&field, Scalar("not-an-email")))
}

func TestValidate_Pattern(t *testing.T) {
	field := FieldSchema{
		ID:         "team",
		Type:       FieldText,
		Label:      "اسم الفريق",
		Validation: &FieldValidation{Pattern: `^[a-z]+$`},
	}
	assert.Empty(t, Validate(&field, Scalar("rockets")))
	assert.NotEmpty(t, Validate(&field, Scalar("Rockets!")))

	broken := FieldSchema{ID: "x", Type: FieldText, Label: "x", Validation: &FieldValidation{Pattern: `([`}}
	assert.Empty(t, Validate(&broken, Scalar("anything")))
}

func TestValidate_OptionsAndShape(t *testing.T) {
	radio := FieldSchema{ID: "level", Type: FieldRadio, Label: "المستوى", Options: []string{"مبتدئ", "متقدم"}}
	assert.Empty(t, Validate(&radio, Scalar("مبتدئ")))
	assert.NotEmpty(t, Validate(&radio, Scalar("خبير")))
	assert.NotEmpty(t, Validate(&radio, Multi("مبتدئ")))

	checkbox := FieldSchema{ID: "tracks", Type: FieldCheckbox, Label: "المسارات", Options: []string{"AI", "Web", "IoT"}}
	assert.Empty(t, Validate(&checkbox, Multi("AI", "IoT")))
	assert.NotEmpty(t, Validate(&checkbox, Multi("AI", "Blockchain")))
	assert.NotEmpty(t, Validate(&checkbox, Scalar("AI")))
}

func TestValidateVisible_SkipsHiddenFields(t *testing.T) {
	schema := &FormSchema{
		Fields: []FieldSchema{
			{ID: "hasTeam", Type: FieldRadio, Label: "لديك فريق؟", Required: true, Options: []string{"نعم", "لا"}},
			{
				ID: "teamName", Type: FieldText, Label: "اسم الفريق", Required: true,
				Conditional: &Conditional{Enabled: true, ShowWhen: "hasTeam", ShowWhenValue: "نعم"},
			},
			{ID: "email", Type: FieldEmail, Label: "البريد", Required: true},
		},
	}

	errs := ValidateVisible(schema, Answers{
		"hasTeam":  Scalar("لا"),
		"teamName": Scalar(""),
		"email":    Scalar("user@x"),
	})
	assert.Len(t, errs, 1)
	assert.Contains(t, errs, "email")

	errs = ValidateVisible(schema, Answers{
		"hasTeam": Scalar("نعم"),
		"email":   Scalar("user@example.com"),
	})
	assert.Equal(t, ErrorMap{"teamName": "اسم الفريق مطلوب"}, errs)
}
