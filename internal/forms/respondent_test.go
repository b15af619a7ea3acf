package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRespondentKey(t *testing.T) {
	schema := &FormSchema{Fields: []FieldSchema{
		{ID: "name", Type: FieldText, Label: "الاسم"},
		{ID: "nid", Type: FieldIDNumber, Label: "رقم الهوية"},
		{ID: "mail", Type: FieldEmail, Label: "البريد"},
	}}

	tests := []struct {
		name    string
		answers Answers
		want    string
	}{
		{
			name:    "email wins over id number",
			answers: Answers{"nid": Scalar("1234567890"), "mail": Scalar("  Sara@Example.COM ")},
			want:    "email:sara@example.com",
		},
		{
			name:    "falls back to id number",
			answers: Answers{"nid": Scalar("1234567890"), "mail": Scalar("")},
			want:    "id:1234567890",
		},
		{
			name:    "anonymous",
			answers: Answers{"name": Scalar("Sara")},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RespondentKey(schema, tt.answers))
		})
	}
}
