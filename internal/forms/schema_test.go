package forms

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormSchema_Check(t *testing.T) {
	open := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	before := open.Add(-time.Hour)

	tests := []struct {
		name    string
		schema  FormSchema
		wantErr error
	}{
		{
			name: "valid",
			schema: FormSchema{Fields: []FieldSchema{
				{ID: "a", Type: FieldRadio, Options: []string{"x", "y"}},
				{ID: "b", Type: FieldText, Conditional: &Conditional{Enabled: true, ShowWhen: "a", ShowWhenValue: "x"}},
			}},
		},
		{
			name:    "empty id",
			schema:  FormSchema{Fields: []FieldSchema{{Type: FieldText}}},
			wantErr: ErrEmptyFieldID,
		},
		{
			name: "duplicate id",
			schema: FormSchema{Fields: []FieldSchema{
				{ID: "a", Type: FieldText}, {ID: "a", Type: FieldEmail},
			}},
			wantErr: ErrDuplicateFieldID,
		},
		{
			name:    "unknown type",
			schema:  FormSchema{Fields: []FieldSchema{{ID: "a", Type: "rating"}}},
			wantErr: ErrUnknownFieldType,
		},
		{
			name:    "select without options",
			schema:  FormSchema{Fields: []FieldSchema{{ID: "a", Type: FieldSelect}}},
			wantErr: ErrMissingOptions,
		},
		{
			name: "forward dependency",
			schema: FormSchema{Fields: []FieldSchema{
				{ID: "b", Type: FieldText, Conditional: &Conditional{Enabled: true, ShowWhen: "a"}},
				{ID: "a", Type: FieldText},
			}},
			wantErr: ErrForwardDependency,
		},
		{
			name: "self dependency",
			schema: FormSchema{Fields: []FieldSchema{
				{ID: "a", Type: FieldText, Conditional: &Conditional{Enabled: true, ShowWhen: "a"}},
			}},
			wantErr: ErrForwardDependency,
		},
		{
			name: "disabled conditional is not checked",
			schema: FormSchema{Fields: []FieldSchema{
				{ID: "a", Type: FieldText, Conditional: &Conditional{Enabled: false, ShowWhen: "zzz"}},
			}},
		},
		{
			name:    "inverted window",
			schema:  FormSchema{OpenAt: &open, CloseAt: &before},
			wantErr: ErrInvalidWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Check()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFormSchema_DecodesWireFormat(t *testing.T) {
	payload := `{
		"id": "form-1",
		"hackathonId": "hack-7",
		"title": "التسجيل",
		"colors": {"primary": "#123456", "buttonText": "#fff"},
		"isActive": true,
		"fields": [
			{"id": "email", "type": "email", "label": "البريد", "required": true,
			 "validation": {"maxLength": 120}},
			{"id": "team", "type": "text", "label": "الفريق",
			 "conditional": {"enabled": true, "showWhen": "email", "showWhenValue": "x"}}
		],
		"settings": {"allowMultipleSubmissions": false, "requireApproval": true,
		             "sendConfirmationEmail": true, "redirectUrl": "https://example.com/done"},
		"openAt": "2026-03-01T09:00:00Z"
	}`

	var schema FormSchema
	require.NoError(t, json.Unmarshal([]byte(payload), &schema))

	assert.Equal(t, "hack-7", schema.HackathonID)
	assert.Equal(t, "#fff", schema.Colors.ButtonText)
	require.Len(t, schema.Fields, 2)
	assert.Equal(t, FieldEmail, schema.Fields[0].Type)
	assert.Equal(t, 120, *schema.Fields[0].Validation.MaxLength)
	assert.Nil(t, schema.Fields[0].Validation.MinLength)
	assert.Equal(t, "email", schema.Fields[1].Conditional.ShowWhen)
	assert.True(t, schema.Settings.RequireApproval)
	require.NotNil(t, schema.OpenAt)
	assert.Nil(t, schema.CloseAt)
	assert.NoError(t, schema.Check())

	field, ok := schema.Field("team")
	require.True(t, ok)
	assert.Equal(t, "الفريق", field.Label)
	_, ok = schema.Field("nope")
	assert.False(t, ok)
}

func TestAnswers_JSONShapes(t *testing.T) {
	var answers Answers
	require.NoError(t, json.Unmarshal([]byte(`{"a":"x","b":["1","2"],"c":[],"d":null}`), &answers))

	assert.Equal(t, Scalar("x"), answers["a"])
	assert.Equal(t, Multi("1", "2"), answers["b"])
	assert.True(t, answers["c"].IsList())
	assert.True(t, answers["c"].IsEmpty())
	assert.Equal(t, Scalar(""), answers["d"])

	out, err := json.Marshal(Answers{"b": Multi(), "a": Scalar("x")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"x","b":[]}`, string(out))
}

func TestAnswers_RejectsOtherJSONTypes(t *testing.T) {
	for _, payload := range []string{`{"a":1}`, `{"a":true}`, `{"a":{"b":"c"}}`, `{"a":[1,2]}`} {
		var answers Answers
		assert.ErrorIs(t, json.Unmarshal([]byte(payload), &answers), ErrInvalidAnswer, payload)
	}
}

func TestNewAnswers_Defaults(t *testing.T) {
	schema := &FormSchema{Fields: []FieldSchema{
		{ID: "name", Type: FieldText},
		{ID: "tracks", Type: FieldCheckbox, Options: []string{"AI"}},
	}}

	answers := NewAnswers(schema)
	assert.Equal(t, Answers{"name": Scalar(""), "tracks": Multi()}, answers)

	clone := answers.Clone()
	clone["name"] = Scalar("changed")
	assert.Equal(t, Scalar(""), answers["name"])
}
