package validation

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rowSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"weapon": {"type": "string"},
		"level": {"type": "integer", "minimum": 0, "maximum": 4294967295}
	},
	"required": ["weapon"]
}`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"row.schema.json":    {Data: []byte(rowSchema)},
		"broken.schema.json": {Data: []byte(`{"type": `)},
	}
}

func TestSchemaValidator_ValidateBytes(t *testing.T) {
	validator := NewSchemaValidator(testFS())

	tests := []struct {
		name      string
		data      string
		wantError bool
		errorMsg  string
	}{
		{name: "valid row", data: `{"weapon": "Wand #1", "level": 30}`},
		{name: "optional attribute absent", data: `{"weapon": "Melee #2"}`},
		{name: "missing required field", data: `{"level": 25}`, wantError: true, errorMsg: "required"},
		{name: "wrong type for field", data: `{"weapon": "Wand #1", "level": "thirty"}`, wantError: true, errorMsg: "/level"},
		{name: "negative level", data: `{"weapon": "Wand #1", "level": -5}`, wantError: true, errorMsg: "minimum"},
		{name: "beyond uint32", data: `{"weapon": "Wand #1", "level": 4294967296}`, wantError: true, errorMsg: "maximum"},
		{name: "invalid JSON", data: `{"weapon": "Wand #1", "level": }`, wantError: true, errorMsg: ErrMsgParseDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateBytes([]byte(tt.data), "row.schema.json")

			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestSchemaValidator_Precompile(t *testing.T) {
	validator := NewSchemaValidator(testFS())

	assert.NoError(t, validator.Precompile("row.schema.json"))

	err := validator.Precompile("row.schema.json", "missing.schema.json", "broken.schema.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load schema missing.schema.json")
	assert.Contains(t, err.Error(), "failed to load schema broken.schema.json")
	assert.Contains(t, err.Error(), ErrMsgParseSchema)
}

func TestSchemaValidator_SchemaErrors(t *testing.T) {
	validator := NewSchemaValidator(testFS())

	err := validator.ValidateBytes([]byte(`{}`), "missing.schema.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load schema")

	err = validator.ValidateBytes([]byte(`{}`), "broken.schema.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgParseSchema)
}
