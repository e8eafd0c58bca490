package schemas

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validProfile = `{
  "name": "A",
  "title": "Engineer",
  "contact": {"email": "a@example.com", "location": "Madrid"},
  "profile": "text",
  "skills": {},
  "experience": [],
  "education": [],
  "languages": [],
  "certifications": []
}`

func TestProfileSchema_IsValidJSON(t *testing.T) {
	var v map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(ProfileSchema()), &v))
	assert.Equal(t, "object", v["type"])
}

func TestValidateProfile_Valid(t *testing.T) {
	assert.NoError(t, ValidateProfile([]byte(validProfile)))
}

func TestValidateProfile_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		json      string
		wantField string
	}{
		{
			name:      "missing name",
			json:      `{"title":"x","contact":{},"profile":"","skills":{},"experience":[],"education":[],"languages":[],"certifications":[]}`,
			wantField: "(root)",
		},
		{
			name:      "skills as array",
			json:      `{"name":"A","title":"x","contact":{},"profile":"","skills":[],"experience":[],"education":[],"languages":[],"certifications":[]}`,
			wantField: "skills",
		},
		{
			name:      "description not a list",
			json:      `{"name":"A","title":"x","contact":{},"profile":"","skills":{},"experience":[{"role":"r","company":"c","date":"d","description":"oops"}],"education":[],"languages":[],"certifications":[]}`,
			wantField: "experience.0.description",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProfile([]byte(tt.json))
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "error should be ValidationError type")
			fields := make([]string, 0, len(verr.Errors))
			for _, fe := range verr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestValidateProfile_Malformed(t *testing.T) {
	err := ValidateProfile([]byte("{ invalid json }"))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestValidateProfileFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "cv_es.json")
	require.NoError(t, os.WriteFile(good, []byte(validProfile), 0o644))

	assert.NoError(t, ValidateProfileFile(good))

	err := ValidateProfileFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type":"object","required":["id"],"properties":{"id":{"type":"string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"id":"x"}`))

	err := ValidateJSONString(schema, `{"id":1}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}
