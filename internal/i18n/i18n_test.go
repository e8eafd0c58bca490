package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio/internal/types"
)

func TestDefault_EmbeddedCatalogIsComplete(t *testing.T) {
	catalog, err := Parse(catalogYAML)
	require.NoError(t, err)
	require.NotEmpty(t, catalog)

	for key, entry := range catalog {
		for _, lang := range types.SupportedLanguages {
			assert.NotEmpty(t, entry[lang], "%s/%s", key, lang)
		}
	}
}

func TestT(t *testing.T) {
	tests := []struct {
		lang types.Language
		key  string
		want string
	}{
		{types.Spanish, "profile.skills", "Habilidades Técnicas"},
		{types.English, "profile.skills", "Technical Skills"},
		{types.Spanish, "projects.error", "Error al cargar los proyectos. Por favor, inténtalo de nuevo más tarde."},
		{types.English, "blog.error", "Error loading posts. Please try again later."},
		{types.English, "post.not_found", "Post not found"},
		{types.English, "no.such.key", "no.such.key"},
		{types.Language("fr"), "nav.profile", "Perfil"},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang)+"/"+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, T(tt.lang, tt.key))
		})
	}
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("greeting: [not, a, map]"))
	assert.Error(t, err)

	_, err = Parse([]byte("greeting:\n  es: hola\n"))
	assert.ErrorContains(t, err, `missing language "en"`)

	_, err = Parse([]byte("greeting:\n  es: hola\n  en: hi\n  fr: salut\n"))
	assert.Error(t, err)
}

func TestFor(t *testing.T) {
	tr := Default().For(types.English)
	assert.Equal(t, "Send Message", tr("contact.submit"))
}
