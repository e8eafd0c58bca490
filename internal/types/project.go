package types

// GithubProject is a pinned repository summary shown on the projects page.
type GithubProject struct {
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	URL               string           `json:"url"`
	OpenGraphImageURL string           `json:"openGraphImageUrl"`
	PrimaryLanguage   *PrimaryLanguage `json:"primaryLanguage"`
}

// PrimaryLanguage is the repository's dominant language tag.
type PrimaryLanguage struct {
	Name string `json:"name"`
}

// LanguageName returns the primary language name or "" when unknown.
func (p GithubProject) LanguageName() string {
	if p.PrimaryLanguage == nil {
		return ""
	}
	return p.PrimaryLanguage.Name
}
