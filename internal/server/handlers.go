package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jonathan/portfolio/internal/blog"
	"github.com/jonathan/portfolio/internal/contact"
	"github.com/jonathan/portfolio/internal/i18n"
	"github.com/jonathan/portfolio/internal/profile"
	"github.com/jonathan/portfolio/internal/projects"
	"github.com/jonathan/portfolio/internal/rendering"
	"github.com/jonathan/portfolio/internal/types"
	"github.com/jonathan/portfolio/internal/view"
)

// maxContactBody caps contact submissions; the message itself is limited to 5000 characters.
const maxContactBody = 64 << 10

// ProfileResponse is the JSON form of a session's profile state.
type ProfileResponse struct {
	State      string                 `json:"state"`
	Language   types.Language         `json:"language"`
	Generation uint64                 `json:"generation"`
	Failures   int                    `json:"failures"`
	NextRetry  *time.Time             `json:"next_retry,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Document   *types.ProfileDocument `json:"document"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

// awaitProfile waits up to RenderWait for an in-flight load to settle.
func (s *Server) awaitProfile(r *http.Request) profile.Snapshot {
	sess := sessionFrom(r)
	wait := s.cfg.RenderWait
	if wait <= 0 {
		return sess.Controller.Snapshot()
	}
	ctx, cancel := context.WithTimeout(r.Context(), wait)
	defer cancel()
	snap, _ := sess.Controller.Await(ctx)
	return snap
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	snap := s.awaitProfile(r)
	page := view.NewPage(sessionFrom(r).Language(), view.NavProfile, r.URL.Path)
	s.render(w, http.StatusOK, rendering.PageProfile, view.NewProfile(page, snap))
}

func (s *Server) handleAPIProfile(w http.ResponseWriter, r *http.Request) {
	snap := s.awaitProfile(r)
	resp := ProfileResponse{
		State:      snap.State.String(),
		Language:   snap.Language,
		Generation: snap.Generation,
		Failures:   snap.Failures,
		Document:   snap.Document,
	}
	if snap.RetryScheduled() {
		next := snap.NextRetry
		resp.NextRetry = &next
	}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleLanguage switches the session language and redirects back.
func (s *Server) handleLanguage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	code := chi.URLParam(r, "code")
	lang, err := types.ParseLanguage(code)
	if err != nil {
		s.renderError(w, sess.Language(), &ErrUnsupportedLanguage{Code: code}, "error.bad_language")
		return
	}

	if sess.SetLanguage(lang) {
		s.log.Debug("language switched", "session", sess.ID, "lang", lang)
	}
	http.Redirect(w, r, safeRedirect(r.URL.Query().Get("next")), http.StatusSeeOther)
}

// safeRedirect only allows local absolute paths.
func safeRedirect(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	lang := sessionFrom(r).Language()
	var (
		list []types.GithubProject
		err  = projects.ErrNoSource
	)
	if s.projects != nil {
		list, err = s.projects.Projects(r.Context())
	}
	if err != nil {
		s.log.Warn("loading projects", "error", err)
	}
	page := view.NewPage(lang, view.NavProjects, r.URL.Path)
	s.render(w, http.StatusOK, rendering.PageProjects, view.NewProjects(page, list, err))
}

func (s *Server) handleBlog(w http.ResponseWriter, r *http.Request) {
	lang := sessionFrom(r).Language()
	var (
		posts []types.BlogPost
		err   = errors.New("blog source not configured")
	)
	if s.blog != nil {
		posts, err = s.blog.Posts(r.Context(), lang)
	}
	if err != nil {
		s.log.Warn("loading posts", "lang", lang, "error", err)
	}
	page := view.NewPage(lang, view.NavBlog, r.URL.Path)
	s.render(w, http.StatusOK, rendering.PageBlog, view.NewBlog(page, posts, err))
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	lang := sessionFrom(r).Language()
	slug := chi.URLParam(r, "slug")
	page := view.NewPage(lang, view.NavBlog, r.URL.Path)

	var (
		post *types.BlogPost
		err  = errors.New("blog source not configured")
	)
	if s.blog != nil {
		post, err = s.blog.Post(r.Context(), lang, slug)
	}

	switch {
	case errors.Is(err, blog.ErrNotFound):
		s.render(w, http.StatusNotFound, rendering.PagePost, view.NewPost(page, nil, true, nil))
	case err != nil:
		s.log.Warn("loading post", "slug", slug, "lang", lang, "error", err)
		s.render(w, http.StatusOK, rendering.PagePost, view.NewPost(page, nil, false, err))
	default:
		s.render(w, http.StatusOK, rendering.PagePost, view.NewPost(page, post, false, nil))
	}
}

func (s *Server) handleContactForm(w http.ResponseWriter, r *http.Request) {
	page := view.NewPage(sessionFrom(r).Language(), view.NavContact, r.URL.Path)
	s.render(w, http.StatusOK, rendering.PageContact, view.NewContact(page))
}

// handleContactSubmit accepts the form post, or a JSON body answered with JSON.
func (s *Server) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	lang := sessionFrom(r).Language()
	r.Body = http.MaxBytesReader(w, r.Body, maxContactBody)

	if isJSON(r) {
		s.handleContactJSON(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.renderContactFailure(w, r, lang, http.StatusBadRequest, types.ContactRequest{}, i18n.T(lang, "contact.invalid"), nil)
		return
	}
	form := contactForm(r)

	resp, err := s.contact.Send(r.Context(), form)
	if err != nil {
		if fields := contact.InvalidFields(err); fields != nil {
			s.renderContactFailure(w, r, lang, http.StatusBadRequest, form, i18n.T(lang, "contact.invalid"), fields)
			return
		}
		s.log.Error("sending contact message", "error", err)
		s.renderContactFailure(w, r, lang, http.StatusBadGateway, form, i18n.T(lang, "contact.error"), nil)
		return
	}

	message := resp.Message
	if message == "" {
		message = i18n.T(lang, "contact.sent")
	}
	page := view.NewPage(lang, view.NavContact, r.URL.Path)
	s.render(w, http.StatusOK, rendering.PageContact, view.NewContact(page).Sent(message))
}

func (s *Server) handleContactJSON(w http.ResponseWriter, r *http.Request) {
	var req types.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		err = &ErrBadRequest{Message: err.Error()}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	resp, err := s.contact.Send(r.Context(), req)
	if err != nil {
		if fields := contact.InvalidFields(err); fields != nil {
			s.jsonResponse(w, HTTPStatus(err), map[string]any{"error": "invalid contact request", "fields": fields})
			return
		}
		s.log.Error("sending contact message", "error", err)
		s.errorResponse(w, HTTPStatus(err), "the message could not be sent")
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) renderContactFailure(w http.ResponseWriter, r *http.Request, lang types.Language, status int, form types.ContactRequest, alert string, fields []string) {
	page := view.NewPage(lang, view.NavContact, r.URL.Path)
	s.render(w, status, rendering.PageContact, view.NewContact(page).Failed(form, alert, fields))
}

// contactForm reads the submitted form values, if any.
func contactForm(r *http.Request) types.ContactRequest {
	if r.Form == nil {
		_ = r.ParseForm()
	}
	return types.ContactRequest{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Message: r.PostFormValue("message"),
	}
}

// handleCV serves the current profile as a PDF, or as HTML when printing is unavailable.
func (s *Server) handleCV(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	lang := sess.Language()
	snap := s.awaitProfile(r)
	if snap.State != profile.StateReady || snap.Document == nil {
		s.renderError(w, lang, &ErrProfileUnavailable{}, "error.cv_unavailable")
		return
	}

	page := view.NewPage(lang, view.NavProfile, "/")
	html, err := s.renderer.RenderString(rendering.PageProfile, view.NewProfile(page, snap))
	if err != nil {
		s.log.Error("rendering cv", "error", err)
		s.renderError(w, lang, err, "error.internal")
		return
	}

	doc, err := s.exporter.Export(r.Context(), lang, snap.Document.Name, html)
	if err != nil {
		s.log.Warn("exporting cv", "error", err)
		s.renderError(w, lang, err, "error.internal")
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	w.Header().Set("Content-Length", fmt.Sprint(len(doc.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Body)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	lang := types.DefaultLanguage
	if sess := sessionFrom(r); sess != nil {
		lang = sess.Language()
	}
	page := view.NewPage(lang, "", r.URL.Path)
	s.render(w, http.StatusNotFound, rendering.PageError, view.NewError(page, http.StatusNotFound, i18n.T(lang, "error.not_found")))
}

// renderError renders the error page with the status HTTPStatus assigns to err.
func (s *Server) renderError(w http.ResponseWriter, lang types.Language, err error, messageKey string) {
	status := HTTPStatus(err)
	page := view.NewPage(lang, "", "/")
	s.render(w, status, rendering.PageError, view.NewError(page, status, i18n.T(lang, messageKey)))
}

// render writes a page, falling back to a plain error when the template fails.
func (s *Server) render(w http.ResponseWriter, status int, page string, data any) {
	var sb strings.Builder
	if err := s.renderer.Render(&sb, page, data); err != nil {
		s.log.Error("rendering page", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, sb.String())
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

func wantsJSON(r *http.Request) bool {
	return isJSON(r) || strings.Contains(r.Header.Get("Accept"), "application/json")
}
