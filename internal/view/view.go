// Package view builds the view-models rendered by the page templates. Every view carries
// the visitor's language explicitly; nothing here reads global language state.
package view

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/portfolio/internal/i18n"
	"github.com/jonathan/portfolio/internal/profile"
	"github.com/jonathan/portfolio/internal/types"
)

// Navigation keys used for Page.Active.
const (
	NavProfile  = "profile"
	NavProjects = "projects"
	NavBlog     = "blog"
	NavContact  = "contact"
)

// headingMaxRunes bounds the length of short capitalized lines treated as headings.
const headingMaxRunes = 40

// Page is the layout data shared by every page.
type Page struct {
	Lang   types.Language
	Title  string
	Active string
	// Path is the current request path, used as the return target of the language toggle.
	Path      string
	Nav       []NavItem
	Languages []LanguageOption
	T         func(key string) string
}

// NavItem is one entry of the top navigation.
type NavItem struct {
	Key    string
	Href   string
	Label  string
	Active bool
}

// LanguageOption is one entry of the language toggle.
type LanguageOption struct {
	Code   types.Language
	Label  string
	Href   string
	Active bool
}

// NewPage builds the layout for a page in lang.
func NewPage(lang types.Language, active, path string) Page {
	t := i18n.Default().For(lang)
	p := Page{
		Lang:   lang,
		Title:  t("site.title"),
		Active: active,
		Path:   path,
		T:      t,
	}
	for _, item := range []struct{ key, href string }{
		{NavProfile, "/"},
		{NavProjects, "/projects"},
		{NavBlog, "/blog"},
		{NavContact, "/contact"},
	} {
		p.Nav = append(p.Nav, NavItem{
			Key:    item.key,
			Href:   item.href,
			Label:  t("nav." + item.key),
			Active: item.key == active,
		})
	}
	for _, code := range types.SupportedLanguages {
		p.Languages = append(p.Languages, LanguageOption{
			Code:   code,
			Label:  strings.ToUpper(code.String()),
			Href:   LanguageHref(code, path),
			Active: code == lang,
		})
	}
	return p
}

// LanguageHref returns the toggle URL switching to lang and coming back to path.
func LanguageHref(lang types.Language, path string) string {
	if path == "" || path == "/" {
		return "/lang/" + lang.String()
	}
	return "/lang/" + lang.String() + "?next=" + url.QueryEscape(path)
}

// ProfileView is the main CV page.
type ProfileView struct {
	Page
	State       string
	Loading     bool
	Unavailable bool
	RetryAt     time.Time
	Document    *types.ProfileDocument
	Skills      []types.SkillCategory
	Experience  []ExperienceView
}

// ExperienceView is an experience entry with its description lines classified.
type ExperienceView struct {
	types.Experience
	Lines []DescriptionLine
}

// DescriptionLine is one rendered line of an experience description.
type DescriptionLine struct {
	Text    string
	Heading bool
}

// NewProfile builds the profile page from a controller snapshot. While a reload is in
// flight the previously installed document is rendered; before the first completion
// there is none and the page shows the loading text.
func NewProfile(page Page, snap profile.Snapshot) ProfileView {
	v := ProfileView{
		Page:        page,
		State:       snap.State.String(),
		Loading:     snap.State == profile.StateLoading || snap.State == profile.StateIdle,
		Unavailable: snap.State == profile.StateErrored,
		RetryAt:     snap.NextRetry,
		Document:    snap.Document,
	}
	if snap.Document == nil {
		return v
	}
	v.Skills = snap.Document.SortedSkills()
	v.Experience = make([]ExperienceView, 0, len(snap.Document.Experience))
	for _, e := range snap.Document.Experience {
		v.Experience = append(v.Experience, ExperienceView{
			Experience: e,
			Lines:      DescriptionLines(e.Description),
		})
	}
	return v
}

// HasDocument reports whether there is a document to render.
func (v ProfileView) HasDocument() bool { return v.Document != nil }

// DescriptionLines classifies description lines, dropping blank ones.
func DescriptionLines(lines []string) []DescriptionLine {
	out := make([]DescriptionLine, 0, len(lines))
	for _, line := range lines {
		if dl, ok := ClassifyLine(line); ok {
			out = append(out, dl)
		}
	}
	return out
}

// ClassifyLine strips leading bullet characters from line and decides whether it is a
// heading: it ends with ':' or it is short and starts with an upper-case character.
// Headings lose their trailing colon. ok is false for blank lines.
func ClassifyLine(line string) (dl DescriptionLine, ok bool) {
	text := strings.TrimLeftFunc(strings.TrimSpace(line), func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune("*-•·", r)
	})
	if text == "" {
		return DescriptionLine{}, false
	}
	if strings.HasSuffix(text, ":") {
		return DescriptionLine{Text: strings.TrimSuffix(text, ":"), Heading: true}, true
	}
	first, _ := utf8.DecodeRuneInString(text)
	if utf8.RuneCountInString(text) < headingMaxRunes && unicode.ToUpper(first) == first {
		return DescriptionLine{Text: text, Heading: true}, true
	}
	return DescriptionLine{Text: text}, true
}

// ProjectsView is the projects page.
type ProjectsView struct {
	Page
	Projects []ProjectCard
	Error    string
}

// ProjectCard is one project on the projects page.
type ProjectCard struct {
	Name        string
	Description string
	URL         string
	Image       string
	Language    string
}

// NewProjects builds the projects page. A non-nil err renders the localized error
// message instead of the list.
func NewProjects(page Page, projects []types.GithubProject, err error) ProjectsView {
	v := ProjectsView{Page: page}
	if err != nil {
		v.Error = page.T("projects.error")
		return v
	}
	for _, p := range projects {
		desc := p.Description
		if desc == "" {
			desc = page.T("projects.no_description")
		}
		v.Projects = append(v.Projects, ProjectCard{
			Name:        p.Name,
			Description: desc,
			URL:         p.URL,
			Image:       p.OpenGraphImageURL,
			Language:    p.LanguageName(),
		})
	}
	return v
}

// BlogView is the post listing page.
type BlogView struct {
	Page
	Posts []PostCard
	Error string
}

// Empty reports whether the listing loaded but has no posts.
func (v BlogView) Empty() bool { return v.Error == "" && len(v.Posts) == 0 }

// PostCard is a post in the listing.
type PostCard struct {
	Href     string
	Title    string
	Summary  string
	Date     string
	Image    string
	Tags     []string
	ReadTime string
}

// NewBlog builds the listing page.
func NewBlog(page Page, posts []types.BlogPost, err error) BlogView {
	v := BlogView{Page: page}
	if err != nil {
		v.Error = page.T("blog.error")
		return v
	}
	for _, p := range posts {
		v.Posts = append(v.Posts, newPostCard(page, p))
	}
	return v
}

func newPostCard(page Page, p types.BlogPost) PostCard {
	return PostCard{
		Href:     "/blog/" + url.PathEscape(p.Key()),
		Title:    p.Title,
		Summary:  p.Summary,
		Date:     FormatDate(page.Lang, p),
		Image:    p.Image,
		Tags:     p.Tags,
		ReadTime: ReadTime(page, p.ReadTime),
	}
}

// PostView is the post detail page.
type PostView struct {
	Page
	Post     *PostCard
	Content  template.HTML
	NotFound bool
	Error    string
}

// NewPost builds the detail page. notFound selects the distinct "not found" message.
// The post content must already be sanitised.
func NewPost(page Page, post *types.BlogPost, notFound bool, err error) PostView {
	v := PostView{Page: page}
	switch {
	case notFound:
		v.NotFound = true
		v.Error = page.T("post.not_found")
	case err != nil:
		v.Error = page.T("post.error")
	case post == nil:
		v.NotFound = true
		v.Error = page.T("post.not_found")
	default:
		card := newPostCard(page, *post)
		v.Post = &card
		v.Title = post.Title
		v.Content = template.HTML(post.Content) //nolint:gosec // sanitised by the blog source
	}
	return v
}

// ContactView is the contact form page.
type ContactView struct {
	Page
	Form         types.ContactRequest
	Confirmation string
	Alert        string
	Invalid      []string
}

// NewContact builds an empty contact form.
func NewContact(page Page) ContactView {
	return ContactView{Page: page}
}

// Sent returns the view after a successful submission: the backend's message is shown
// and the inputs are cleared.
func (v ContactView) Sent(message string) ContactView {
	v.Form = types.ContactRequest{}
	v.Confirmation = message
	v.Alert = ""
	v.Invalid = nil
	return v
}

// Failed returns the view after a failed submission, keeping the submitted values.
func (v ContactView) Failed(form types.ContactRequest, alert string, invalid []string) ContactView {
	v.Form = form
	v.Confirmation = ""
	v.Alert = alert
	v.Invalid = invalid
	return v
}

// IsInvalid reports whether field failed validation.
func (v ContactView) IsInvalid(field string) bool {
	for _, f := range v.Invalid {
		if f == field {
			return true
		}
	}
	return false
}

// FormatDate formats the post date the way the visitor's locale writes short dates.
// Unparseable dates are returned as-is.
func FormatDate(lang types.Language, p types.BlogPost) string {
	t, ok := p.PublishedAt()
	if !ok {
		return p.Date
	}
	if lang == types.English {
		return t.Format("1/2/2006")
	}
	return t.Format("2/1/2006")
}

// ReadTime renders the read-time label, or "" when unknown.
func ReadTime(page Page, minutes int) string {
	if minutes <= 0 {
		return ""
	}
	return fmt.Sprintf("%d %s", minutes, page.T("blog.min_read"))
}

// ErrorView is the generic error page.
type ErrorView struct {
	Page
	Status  int
	Message string
}

// NewError builds an error page.
func NewError(page Page, status int, message string) ErrorView {
	return ErrorView{Page: page, Status: status, Message: message}
}
