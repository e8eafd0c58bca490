package view

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio/internal/profile"
	"github.com/jonathan/portfolio/internal/types"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    string
		heading bool
		ok      bool
	}{
		{"blank", "   ", "", false, false},
		{"bullets only", " - • ", "", false, false},
		{"trailing colon", "Logros principales:", "Logros principales", true, true},
		{"colon after bullet", "• Responsibilities:", "Responsibilities", true, true},
		{"short capitalized", "Backend Development", "Backend Development", true, true},
		{"short lower-case", "mantenimiento de APIs", "mantenimiento de APIs", false, true},
		{"long capitalized", "Designed and implemented a distributed cache for the pricing service", "Designed and implemented a distributed cache for the pricing service", false, true},
		{"bullet stripped", "* Migrated services to Kubernetes and reduced costs by 30 percent", "Migrated services to Kubernetes and reduced costs by 30 percent", false, true},
		{"accented capital", "Élite", "Élite", true, true},
		{"digit counts as capital", "2x faster builds", "2x faster builds", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dl, ok := ClassifyLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, dl.Text)
			assert.Equal(t, tt.heading, dl.Heading)
		})
	}
}

func TestDescriptionLines_DropsBlank(t *testing.T) {
	lines := DescriptionLines([]string{"Stack:", "", "built the billing pipeline in Go", "  "})
	require.Len(t, lines, 2)
	assert.True(t, lines[0].Heading)
	assert.Equal(t, "Stack", lines[0].Text)
	assert.False(t, lines[1].Heading)
}

func TestNewPage(t *testing.T) {
	page := NewPage(types.English, NavBlog, "/blog/hello")

	assert.Equal(t, types.English, page.Lang)
	assert.Equal(t, "Portfolio Web", page.Title)
	require.Len(t, page.Nav, 4)
	assert.Equal(t, "Blog", page.Nav[2].Label)
	assert.True(t, page.Nav[2].Active)
	assert.False(t, page.Nav[0].Active)

	require.Len(t, page.Languages, 2)
	assert.Equal(t, "ES", page.Languages[0].Label)
	assert.Equal(t, "/lang/es?next=%2Fblog%2Fhello", page.Languages[0].Href)
	assert.True(t, page.Languages[1].Active)

	es := NewPage(types.Spanish, NavProfile, "/")
	assert.Equal(t, "Perfil", es.Nav[0].Label)
	assert.Equal(t, "/lang/en", es.Languages[1].Href)
}

func TestNewProfile(t *testing.T) {
	page := NewPage(types.Spanish, NavProfile, "/")

	t.Run("before first completion", func(t *testing.T) {
		v := NewProfile(page, profile.Snapshot{State: profile.StateLoading, Language: types.Spanish})
		assert.True(t, v.Loading)
		assert.False(t, v.HasDocument())
	})

	t.Run("ready", func(t *testing.T) {
		doc := &types.ProfileDocument{
			Name:   "Jonathan",
			Skills: map[string]string{"Lenguajes": "Go", "Cloud": "AWS"},
			Experience: []types.Experience{
				{Role: "Backend Engineer", Description: []string{"Logros:", "reduced latency by half across the board"}},
			},
		}
		v := NewProfile(page, profile.Snapshot{State: profile.StateReady, Document: doc})
		assert.False(t, v.Loading)
		assert.False(t, v.Unavailable)
		require.Len(t, v.Skills, 2)
		assert.Equal(t, "Cloud", v.Skills[0].Category)
		require.Len(t, v.Experience, 1)
		assert.Equal(t, "Backend Engineer", v.Experience[0].Role)
		require.Len(t, v.Experience[0].Lines, 2)
		assert.True(t, v.Experience[0].Lines[0].Heading)
	})

	t.Run("errored shows fallback", func(t *testing.T) {
		retryAt := time.Date(2024, 1, 1, 12, 0, 5, 0, time.UTC)
		v := NewProfile(page, profile.Snapshot{
			State:     profile.StateErrored,
			Document:  types.FallbackProfile(),
			Err:       errors.New("boom"),
			NextRetry: retryAt,
		})
		assert.True(t, v.Unavailable)
		assert.True(t, v.HasDocument())
		assert.Empty(t, v.Document.Name)
		assert.Empty(t, v.Experience)
		assert.Equal(t, retryAt, v.RetryAt)
	})
}

func TestNewProjects(t *testing.T) {
	page := NewPage(types.English, NavProjects, "/projects")

	v := NewProjects(page, []types.GithubProject{
		{Name: "portfolio", URL: "https://github.com/j/portfolio", PrimaryLanguage: &types.PrimaryLanguage{Name: "Go"}},
		{Name: "notes", Description: "Markdown notes"},
	}, nil)
	require.Len(t, v.Projects, 2)
	assert.Equal(t, "No description", v.Projects[0].Description)
	assert.Equal(t, "Go", v.Projects[0].Language)
	assert.Equal(t, "Markdown notes", v.Projects[1].Description)
	assert.Empty(t, v.Projects[1].Language)

	failed := NewProjects(page, nil, errors.New("down"))
	assert.Empty(t, failed.Projects)
	assert.Equal(t, "Error loading projects. Please try again later.", failed.Error)
}

func TestNewBlog(t *testing.T) {
	page := NewPage(types.Spanish, NavBlog, "/blog")

	v := NewBlog(page, []types.BlogPost{
		{ID: "1", Slug: "hola mundo", Title: "Hola", Date: "2024-03-15", ReadTime: 4},
		{ID: "2", Title: "Sin slug", Date: "pronto"},
	}, nil)
	require.Len(t, v.Posts, 2)
	assert.Equal(t, "/blog/hola%20mundo", v.Posts[0].Href)
	assert.Equal(t, "15/3/2024", v.Posts[0].Date)
	assert.Equal(t, "4 min de lectura", v.Posts[0].ReadTime)
	assert.Equal(t, "/blog/2", v.Posts[1].Href)
	assert.Equal(t, "pronto", v.Posts[1].Date)
	assert.Empty(t, v.Posts[1].ReadTime)
	assert.False(t, v.Empty())

	empty := NewBlog(page, nil, nil)
	assert.True(t, empty.Empty())

	failed := NewBlog(page, nil, errors.New("down"))
	assert.False(t, failed.Empty())
	assert.Equal(t, "Error al cargar los posts. Por favor, intenta de nuevo más tarde.", failed.Error)
}

func TestNewPost(t *testing.T) {
	page := NewPage(types.English, NavBlog, "/blog/x")

	ok := NewPost(page, &types.BlogPost{ID: "x", Title: "Hello", Content: "<p>hi</p>", Date: "2024-03-15T10:00:00Z"}, false, nil)
	require.NotNil(t, ok.Post)
	assert.Equal(t, "Hello", ok.Title)
	assert.Equal(t, "3/15/2024", ok.Post.Date)
	assert.Equal(t, "<p>hi</p>", string(ok.Content))
	assert.Empty(t, ok.Error)

	missing := NewPost(page, nil, true, nil)
	assert.True(t, missing.NotFound)
	assert.Equal(t, "Post not found", missing.Error)

	failed := NewPost(page, nil, false, errors.New("down"))
	assert.False(t, failed.NotFound)
	assert.Equal(t, "Error loading post. Please try again later.", failed.Error)
}

func TestContactView(t *testing.T) {
	v := NewContact(NewPage(types.Spanish, NavContact, "/contact"))
	form := types.ContactRequest{Name: "Ana", Email: "bad", Message: "hola"}

	failed := v.Failed(form, "Revisa los campos del formulario.", []string{"email"})
	assert.Equal(t, form, failed.Form)
	assert.True(t, failed.IsInvalid("email"))
	assert.False(t, failed.IsInvalid("name"))

	sent := failed.Sent("¡Gracias!")
	assert.Equal(t, types.ContactRequest{}, sent.Form)
	assert.Equal(t, "¡Gracias!", sent.Confirmation)
	assert.Empty(t, sent.Alert)
	assert.Empty(t, sent.Invalid)
}
