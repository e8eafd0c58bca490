package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio/internal/types"
)

const profileFixtureJSON = `{
  "name": "Ana",
  "title": "Backend Engineer",
  "contact": {"email": "ana@example.com", "location": "Madrid"},
  "profile": "Statement",
  "skills": {"Cloud": "AWS", "Languages": "Go"},
  "experience": [{"role": "Engineer", "company": "Acme", "location": "Remote", "date": "2020", "description": ["Built APIs"]}],
  "education": [{"title": "BSc", "institution": "UPM", "location": "Madrid", "date": "2016"}],
  "languages": [{"language": "English", "level": "C1"}],
  "certifications": ["CKA"]
}`

// resetFlags restores every flag to its default; cobra keeps flag state between runs.
func resetFlags() {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, sub := range rootCmd.Commands() {
		sub.Flags().VisitAll(reset)
	}
}

func execute(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/{lang}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("lang") != "en" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(profileFixtureJSON))
	})
	mux.HandleFunc("GET /api/blog/posts", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"1","slug":"hello","title":"Hello ` + r.URL.Query().Get("lang") + `","content":"<p>Hi there</p>","date":"2024-03-15"}]`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestValidateCommand_Success(t *testing.T) {
	path := writeFile(t, "profile.json", profileFixtureJSON)

	out, err := execute(t, nil, "validate", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Validation passed: Ana (1 experience, 1 education, 2 skills)")
}

func TestValidateCommand_SchemaFailure(t *testing.T) {
	path := writeFile(t, "profile.json", `{"title": "no name", "experience": "not a list"}`)

	out, err := execute(t, nil, "validate", "--file", path)
	require.Error(t, err)
	assert.Contains(t, out, "Validation failed:")
	assert.Contains(t, out, "name")
}

func TestValidateCommand_Stdin(t *testing.T) {
	out, err := execute(t, strings.NewReader(profileFixtureJSON), "validate", "--file", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Validation passed")
}

func TestValidateCommand_MissingFile(t *testing.T) {
	_, err := execute(t, nil, "validate", "--file", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read profile")
}

func TestProfileCommand(t *testing.T) {
	api := newAPI(t)

	out, err := execute(t, nil, "profile", "--api-url", api.URL, "--lang", "en")
	require.NoError(t, err)
	assert.Contains(t, out, "Name:     Ana")
	assert.Contains(t, out, "Cloud: AWS")

	out, err = execute(t, nil, "profile", "--api-url", api.URL, "--lang", "en", "--json")
	require.NoError(t, err)
	var doc types.ProfileDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Ana", doc.Name)
	assert.Equal(t, []string{"CKA"}, doc.Certifications)
}

func TestProfileCommand_Errors(t *testing.T) {
	api := newAPI(t)

	_, err := execute(t, nil, "profile", "--api-url", api.URL, "--lang", "es")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch profile")

	_, err = execute(t, nil, "profile", "--api-url", api.URL, "--lang", "fr")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported language")
}

func TestPostsCommand(t *testing.T) {
	api := newAPI(t)

	out, err := execute(t, nil, "posts", "--api-url", api.URL, "--lang", "en")
	require.NoError(t, err)
	assert.Contains(t, out, "Hello en")
}

func TestProjectsCommand(t *testing.T) {
	github := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/ana/portfolio" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"portfolio","full_name":"ana/portfolio","description":"My site","html_url":"https://github.com/ana/portfolio","language":"Go"}`))
	}))
	defer github.Close()

	t.Setenv("GITHUB_TOKEN", "")
	cfgPath := writeFile(t, "config.yaml", `
github:
  base_url: `+github.URL+`
  repos:
    - ana/portfolio
cache:
  backend: none
`)

	out, err := execute(t, nil, "projects", "--config", cfgPath, "--api-url", "http://localhost:3000")
	require.NoError(t, err)
	assert.Contains(t, out, "portfolio")
	assert.Contains(t, out, "PROJECTS (1)")
}

func TestNewServer_Wires(t *testing.T) {
	api := newAPI(t)
	cfgPath := writeFile(t, "config.yaml", "cache:\n  backend: memory\nexport:\n  disable_browser: true\n")

	// serve is not started; PersistentPreRunE runs through a cheap subcommand.
	_, err := execute(t, strings.NewReader(profileFixtureJSON), "validate", "--config", cfgPath, "--api-url", api.URL, "--file", "-")
	require.NoError(t, err)

	srv, cleanup, err := newServer(context.Background())
	require.NoError(t, err)
	require.NotNil(t, srv)
	cleanup()
}

func TestInvalidConfig(t *testing.T) {
	cfgPath := writeFile(t, "config.yaml", "logging:\n  format: xml\n")
	_, err := execute(t, nil, "validate", "--config", cfgPath, "--api-url", "http://localhost:3000", "--file", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
