package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProfileJSON = `{
  "name": "Ana Pérez",
  "title": "Backend Engineer",
  "contact": {
    "phone": "+34 600 000 000",
    "email": "ana@example.com",
    "linkedin": "https://linkedin.com/in/ana",
    "github": "https://github.com/ana",
    "credly": "",
    "portfolio": "",
    "location": "Madrid"
  },
  "profile": "Engineer focused on distributed systems.",
  "skills": {"Languages": "Go, Python", "Cloud": "AWS, GCP"},
  "experience": [
    {"role": "Engineer", "company": "Acme", "location": "Remote", "date": "2020 - 2024",
     "description": ["Backend:", "Built APIs"]}
  ],
  "education": [{"title": "BSc CS", "institution": "UPM", "location": "Madrid", "date": "2016"}],
  "languages": [{"language": "English", "level": "C1"}],
  "certifications": ["AWS SAA"]
}`

func TestProfileDocument_DecodeKeepsEveryField(t *testing.T) {
	var doc ProfileDocument
	require.NoError(t, json.Unmarshal([]byte(sampleProfileJSON), &doc))

	assert.Equal(t, "Ana Pérez", doc.Name)
	assert.Equal(t, "Backend Engineer", doc.Title)
	assert.Equal(t, "ana@example.com", doc.Contact.Email)
	assert.Equal(t, "Madrid", doc.Contact.Location)
	assert.Equal(t, "Go, Python", doc.Skills["Languages"])
	require.Len(t, doc.Experience, 1)
	assert.Equal(t, []string{"Backend:", "Built APIs"}, doc.Experience[0].Description)
	assert.Equal(t, "UPM", doc.Education[0].Institution)
	assert.Equal(t, "C1", doc.Languages[0].Level)
	assert.Equal(t, []string{"AWS SAA"}, doc.Certifications)
	assert.NoError(t, doc.Validate())
}

func TestFallbackProfile(t *testing.T) {
	fb := FallbackProfile()

	assert.Empty(t, fb.Name)
	assert.Empty(t, fb.Contact.Email)
	assert.Empty(t, fb.Contact.Phone)
	assert.NotNil(t, fb.Skills)
	assert.NotNil(t, fb.Experience)
	assert.NotNil(t, fb.Education)
	assert.NotNil(t, fb.Languages)
	assert.NotNil(t, fb.Certifications)

	// Each call returns an independent value.
	fb.Certifications = append(fb.Certifications, "x")
	assert.Empty(t, FallbackProfile().Certifications)
}

func TestProfileDocument_SortedSkills(t *testing.T) {
	doc := ProfileDocument{Skills: map[string]string{"b": "2", "a": "1", "c": "3"}}

	got := doc.SortedSkills()

	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Category)
	assert.Equal(t, "b", got[1].Category)
	assert.Equal(t, "c", got[2].Category)
}

func TestProfileDocument_CloneIsDeep(t *testing.T) {
	var doc ProfileDocument
	require.NoError(t, json.Unmarshal([]byte(sampleProfileJSON), &doc))

	clone := doc.Clone()
	clone.Skills["Languages"] = "Rust"
	clone.Experience[0].Description[0] = "changed"
	clone.Certifications[0] = "changed"

	assert.Equal(t, "Go, Python", doc.Skills["Languages"])
	assert.Equal(t, "Backend:", doc.Experience[0].Description[0])
	assert.Equal(t, "AWS SAA", doc.Certifications[0])
}

func TestProfileDocument_Normalize(t *testing.T) {
	doc := ProfileDocument{Name: "A", Experience: []Experience{{Role: "Dev"}}}
	doc.Normalize()

	assert.NotNil(t, doc.Skills)
	assert.NotNil(t, doc.Education)
	assert.NotNil(t, doc.Languages)
	assert.NotNil(t, doc.Certifications)
	assert.NotNil(t, doc.Experience[0].Description)
}

func TestProfileDocument_Validate(t *testing.T) {
	tests := []struct {
		name    string
		doc     ProfileDocument
		wantErr bool
	}{
		{name: "minimal", doc: ProfileDocument{Name: "A"}},
		{name: "missing name", doc: ProfileDocument{}, wantErr: true},
		{name: "bad email", doc: ProfileDocument{Name: "A", Contact: Contact{Email: "nope"}}, wantErr: true},
		{name: "experience without role", doc: ProfileDocument{Name: "A", Experience: []Experience{{Company: "X"}}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
