package types

import "time"

// BlogPost is a post summary (and, for detail pages, its content) as rendered by the blog views.
type BlogPost struct {
	ID       string   `json:"id"`
	Slug     string   `json:"slug,omitempty"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Summary  string   `json:"summary"`
	Date     string   `json:"date"`
	Image    string   `json:"image,omitempty"`
	Tags     []string `json:"tags"`
	ReadTime int      `json:"readTime"`
}

// Key returns the identifier used in post detail URLs.
func (p BlogPost) Key() string {
	if p.Slug != "" {
		return p.Slug
	}
	return p.ID
}

// PublishedAt parses Date, accepting both RFC 3339 timestamps and plain dates.
func (p BlogPost) PublishedAt() (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, p.Date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
