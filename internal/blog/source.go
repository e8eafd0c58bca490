// Package blog loads blog posts from the portfolio backend or from a Hashnode publication.
package blog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jonathan/portfolio/internal/fetch"
	"github.com/jonathan/portfolio/internal/types"
)

// SummaryLength is the maximum length of a generated post summary.
const SummaryLength = 180

// ErrNotFound is returned when a post does not exist.
var ErrNotFound = errors.New("post not found")

// Source lists posts and loads single posts.
type Source interface {
	Posts(ctx context.Context, lang types.Language) ([]types.BlogPost, error)
	Post(ctx context.Context, lang types.Language, slug string) (*types.BlogPost, error)
}

// prepare sanitizes a post's HTML and fills in the summary and read time when the
// upstream left them empty.
func prepare(post *types.BlogPost) {
	if post.Content != "" {
		clean, err := fetch.Sanitize(post.Content)
		if err != nil {
			slog.Warn("dropping unparseable post content", "post", post.Key(), "error", err)
			clean = ""
		}
		post.Content = clean
	}

	if post.Summary == "" && post.Content != "" {
		if summary, err := fetch.Summarize(post.Content, SummaryLength); err == nil {
			post.Summary = summary
		}
	}

	if post.ReadTime <= 0 && post.Content != "" {
		if text, err := fetch.PlainText(post.Content); err == nil {
			post.ReadTime = fetch.ReadTimeMinutes(text)
		}
	}

	if post.Tags == nil {
		post.Tags = []string{}
	}
}
