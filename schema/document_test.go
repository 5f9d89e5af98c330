package schema

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument(t *testing.T) {
	raw := []byte(`[
		{"name": "size", "type": "select", "label": "Beden", "required": true,
		 "options": [{"value": "S", "label": "Small"}, {"value": "M", "label": "Medium"}]},
		{"name": "weight", "type": "number", "label": "Ağırlık", "validation": {"min": 0}}
	]`)

	s, err := ParseDocument(raw)
	require.NoError(t, err)
	require.Len(t, s, 2)
	assert.Equal(t, KindSelect, s[0].Kind)
	assert.Equal(t, []string{"S", "M"}, s[0].OptionValues())
	require.NotNil(t, s[1].Constraints.Min)
	assert.Equal(t, 0.0, *s[1].Constraints.Min)
}

func TestParseDocumentRejectsShape(t *testing.T) {
	_, err := ParseDocument([]byte(`[{"name": "size", "type": "radio"}]`))
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.NotEmpty(t, se.Problems)

	_, err = ParseDocument([]byte(`{"name": "size"}`))
	require.Error(t, err)

	_, err = ParseDocument([]byte(`[{`))
	require.Error(t, err)
}

func TestParseDocumentRequiresSelectOptions(t *testing.T) {
	_, err := ParseDocument([]byte(`[{"name": "color", "type": "select", "label": "Renk"}]`))

	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Problems[0], "at least one option")
}

func TestParseDocumentRejectsDuplicates(t *testing.T) {
	_, err := ParseDocument([]byte(`[{"name": "a", "type": "text"}, {"name": "a", "type": "number"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate name")
}

func TestJSONSchemaExportValidates(t *testing.T) {
	s := Schema{
		{Name: "size", Kind: KindSelect, Required: true, Options: OptionsFromTags([]string{"S", "M"})},
		{Name: "weight", Kind: KindNumber, Constraints: Constraints{Max: floatPtr(10)}},
		{Name: "note", Kind: KindText, Required: true},
	}

	doc, err := json.Marshal(s.JSONSchema())
	require.NoError(t, err)

	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	require.NoError(t, c.AddResource("https://test.local/export.json", strings.NewReader(string(doc))))
	compiled, err := c.Compile("https://test.local/export.json")
	require.NoError(t, err)

	assert.NoError(t, compiled.Validate(map[string]any{"size": "S", "weight": 3.0, "note": "x"}))
	assert.Error(t, compiled.Validate(map[string]any{"size": "XL", "note": "x"}))
	assert.Error(t, compiled.Validate(map[string]any{"size": "S", "note": ""}))
	assert.Error(t, compiled.Validate(map[string]any{"size": "S", "weight": 11.0, "note": "x"}))
}

func TestValidateSchemaMatchesParseDocument(t *testing.T) {
	good := Schema{{Name: "size", Kind: KindSelect, Label: "Beden", Options: OptionsFromTags([]string{"S"})}}
	require.NoError(t, ValidateSchema(good))
	require.NoError(t, ValidateSchema(nil))

	for _, name := range []string{"renk seçimi", "attr.color", "1size"} {
		bad := Schema{{Name: name, Kind: KindText}}
		assert.NoError(t, CheckAuthoring(bad), name)

		err := ValidateSchema(bad)
		var se *SchemaError
		require.True(t, errors.As(err, &se), name)
		assert.Contains(t, se.Problems[0], "/0/name", name)

		raw, err := json.Marshal(bad)
		require.NoError(t, err)
		_, err = ParseDocument(raw)
		assert.Error(t, err, name)
	}
}
