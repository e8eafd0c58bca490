package types

import "sort"

// ProfileDocument is the localized CV payload served by the profile API.
type ProfileDocument struct {
	Name           string            `json:"name" validate:"required"`
	Title          string            `json:"title"`
	Contact        Contact           `json:"contact"`
	Profile        string            `json:"profile"`
	Skills         map[string]string `json:"skills"`
	Experience     []Experience      `json:"experience" validate:"dive"`
	Education      []Education       `json:"education" validate:"dive"`
	Languages      []LanguageLevel   `json:"languages" validate:"dive"`
	Certifications []string          `json:"certifications"`
}

// Contact holds the contact channels shown in the profile header.
type Contact struct {
	Phone     string `json:"phone"`
	Email     string `json:"email" validate:"omitempty,email"`
	LinkedIn  string `json:"linkedin"`
	GitHub    string `json:"github"`
	Credly    string `json:"credly"`
	Portfolio string `json:"portfolio"`
	Location  string `json:"location"`
}

// Experience is a single work experience entry.
type Experience struct {
	Role        string   `json:"role" validate:"required"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Date        string   `json:"date"`
	Description []string `json:"description"`
}

// Education is a single education entry.
type Education struct {
	Title       string `json:"title" validate:"required"`
	Institution string `json:"institution"`
	Location    string `json:"location"`
	Date        string `json:"date"`
}

// LanguageLevel pairs a spoken language with a proficiency level.
type LanguageLevel struct {
	Language string `json:"language" validate:"required"`
	Level    string `json:"level"`
}

// SkillCategory is one entry of the skills map, used for ordered rendering.
type SkillCategory struct {
	Category string
	Skills   string
}

// FallbackProfile returns the document installed when the profile cannot be fetched.
// Every field is empty and every collection is non-nil, so renderers never see a
// missing document or a nil collection.
func FallbackProfile() *ProfileDocument {
	return &ProfileDocument{
		Skills:         map[string]string{},
		Experience:     []Experience{},
		Education:      []Education{},
		Languages:      []LanguageLevel{},
		Certifications: []string{},
	}
}

// SortedSkills returns the skills map as a slice ordered by category name.
func (d *ProfileDocument) SortedSkills() []SkillCategory {
	out := make([]SkillCategory, 0, len(d.Skills))
	for category, skills := range d.Skills {
		out = append(out, SkillCategory{Category: category, Skills: skills})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// Normalize replaces nil collections with empty ones.
func (d *ProfileDocument) Normalize() {
	if d.Skills == nil {
		d.Skills = map[string]string{}
	}
	if d.Experience == nil {
		d.Experience = []Experience{}
	}
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.Languages == nil {
		d.Languages = []LanguageLevel{}
	}
	if d.Certifications == nil {
		d.Certifications = []string{}
	}
	for i := range d.Experience {
		if d.Experience[i].Description == nil {
			d.Experience[i].Description = []string{}
		}
	}
}

// Clone returns a deep copy of the document.
func (d *ProfileDocument) Clone() *ProfileDocument {
	if d == nil {
		return nil
	}
	c := *d
	c.Skills = make(map[string]string, len(d.Skills))
	for k, v := range d.Skills {
		c.Skills[k] = v
	}
	c.Experience = make([]Experience, len(d.Experience))
	for i, e := range d.Experience {
		e.Description = append([]string{}, e.Description...)
		c.Experience[i] = e
	}
	c.Education = append([]Education{}, d.Education...)
	c.Languages = append([]LanguageLevel{}, d.Languages...)
	c.Certifications = append([]string{}, d.Certifications...)
	return &c
}
