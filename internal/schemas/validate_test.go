package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gapSchema = `{
	"type": "object",
	"required": ["gaps"],
	"properties": {
		"gaps": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["skill_name", "gap_type"],
				"properties": {
					"skill_name": {"type": "string"},
					"gap_type": {"enum": ["missing", "proficiency_low"]}
				}
			}
		}
	}
}`

func TestValidateJSONString_Valid(t *testing.T) {
	doc := `{"gaps": [{"skill_name": "Python", "gap_type": "missing"}]}`
	assert.NoError(t, ValidateJSONString(gapSchema, doc))
}

func TestValidateJSONString_InvalidEnum(t *testing.T) {
	doc := `{"gaps": [{"skill_name": "Python", "gap_type": "huge"}]}`

	err := ValidateJSONString(gapSchema, doc)
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.NotEmpty(t, validationErr.Errors)
}

func TestValidateJSONString_MissingRequired(t *testing.T) {
	err := ValidateJSONString(gapSchema, `{}`)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 42}`, `{}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestValidateJSON_MissingFiles(t *testing.T) {
	assert.Error(t, ValidateJSON("nope.schema.json", "nope.json"))
}

func TestResolveSchemaPath_NotFound(t *testing.T) {
	assert.Equal(t, "", ResolveSchemaPath("schemas/definitely_not_here.schema.json"))
}
