package profile

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonathan/portfolio/internal/types"
)

// coalescingSource shares one in-flight upstream request between concurrent callers
// asking for the same language.
type coalescingSource struct {
	source  Source
	timeout time.Duration
	group   singleflight.Group
}

// Coalesce wraps source so concurrent fetches of the same language share a single call.
// The shared call is detached from any one caller's cancellation and bounded by timeout;
// each caller still returns early when its own context ends.
func Coalesce(source Source, timeout time.Duration) Source {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &coalescingSource{source: source, timeout: timeout}
}

// Fetch implements Source. Every caller receives its own copy of the document.
func (c *coalescingSource) Fetch(ctx context.Context, lang types.Language) (*types.ProfileDocument, error) {
	ch := c.group.DoChan(lang.String(), func() (interface{}, error) {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.source.Fetch(sharedCtx, lang)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		doc, _ := res.Val.(*types.ProfileDocument)
		return doc.Clone(), nil
	}
}
