package blog

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/portfolio/internal/fetch"
	"github.com/jonathan/portfolio/internal/metrics"
	"github.com/jonathan/portfolio/internal/types"
)

// BackendSource reads localized posts from GET {base}/api/blog/posts?lang={lang}.
type BackendSource struct {
	baseURL string
	options *fetch.Options
}

// NewBackendSource creates a source for the backend rooted at baseURL.
func NewBackendSource(baseURL string, opts *fetch.Options) *BackendSource {
	if opts == nil {
		opts = fetch.DefaultOptions()
	}
	return &BackendSource{baseURL: strings.TrimRight(baseURL, "/"), options: opts}
}

// Posts implements Source.
func (s *BackendSource) Posts(ctx context.Context, lang types.Language) ([]types.BlogPost, error) {
	start := time.Now()
	defer func() {
		metrics.UpstreamLatency.WithLabelValues("blog").Observe(time.Since(start).Seconds())
	}()

	endpoint := s.baseURL + "/api/blog/posts?" + url.Values{"lang": {lang.String()}}.Encode()

	var posts []types.BlogPost
	if err := fetch.GetJSON(ctx, endpoint, s.options, &posts); err != nil {
		metrics.UpstreamRequests.WithLabelValues("blog", metrics.OutcomeError).Inc()
		return nil, err
	}
	metrics.UpstreamRequests.WithLabelValues("blog", metrics.OutcomeSuccess).Inc()

	if posts == nil {
		posts = []types.BlogPost{}
	}
	for i := range posts {
		prepare(&posts[i])
	}
	return posts, nil
}

// Post implements Source. The backend has no single-post endpoint, so the post is
// looked up in the language's listing by slug or id.
func (s *BackendSource) Post(ctx context.Context, lang types.Language, slug string) (*types.BlogPost, error) {
	posts, err := s.Posts(ctx, lang)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].Key() == slug || posts[i].ID == slug {
			return &posts[i], nil
		}
	}
	return nil, ErrNotFound
}
