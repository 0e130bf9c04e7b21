package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyErrorsAttachesByName(t *testing.T) {
	fields := []Field{
		{Name: "name", Label: "Name", Kind: KindText},
		{Name: "email", Label: "Email", Kind: KindEmail},
	}

	out := ApplyErrors(fields, map[string]string{"email": "Enter a valid email address."})

	assert.Empty(t, out[0].Error)
	assert.Equal(t, "Enter a valid email address.", out[1].Error)
	assert.Empty(t, fields[1].Error, "input slice stays untouched")
}

func TestApplyErrorsNoErrorsReturnsSameFields(t *testing.T) {
	fields := []Field{{Name: "name"}}
	assert.Equal(t, fields, ApplyErrors(fields, nil))
}

func TestSelectOptionsMarksSelected(t *testing.T) {
	opts := SelectOptions([][2]string{{"SEA", "Sea"}, {"LAND", "Land"}}, "LAND")

	assert.False(t, opts[0].Selected)
	assert.True(t, opts[1].Selected)
	assert.Equal(t, "Sea", opts[0].Label)
}
