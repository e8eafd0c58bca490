// Package projects loads the repositories shown on the projects page from GitHub.
package projects

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/portfolio/internal/metrics"
	"github.com/jonathan/portfolio/internal/types"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// PinnedLimit is how many pinned repositories are requested.
	PinnedLimit = 6

	// maxParallelRepos bounds concurrent REST lookups.
	maxParallelRepos = 4
)

const pinnedQuery = `query($login: String!, $first: Int!) {
  user(login: $login) {
    pinnedItems(first: $first, types: REPOSITORY) {
      nodes {
        ... on Repository {
          name
          description
          url
          openGraphImageUrl
          primaryLanguage { name }
        }
      }
    }
  }
}`

// Source returns the projects to show.
type Source interface {
	Projects(ctx context.Context) ([]types.GithubProject, error)
}

// Options configures a Client.
type Options struct {
	User  string
	Token string
	// Repos is a fixed owner/name list used when pinned items are unavailable.
	Repos             []string
	BaseURL           string
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// Client wraps the go-github client with the two lookup strategies.
type Client struct {
	gh          *gh.Client
	user        string
	repos       []string
	authed      bool
	rateLimiter *RateLimiter
}

// NewClient creates a GitHub client. With a token, requests are authenticated through
// an oauth2 static token source.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		if httpClient != nil {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		}
		httpClient = oauth2.NewClient(ctx, ts)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if httpClient.Timeout == 0 {
		httpClient.Timeout = DefaultTimeout
	}

	client := gh.NewClient(httpClient)
	if opts.BaseURL != "" {
		base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid github base URL: %w", err)
		}
		client.BaseURL = base
	}

	return &Client{
		gh:          client,
		user:        opts.User,
		repos:       opts.Repos,
		authed:      opts.Token != "",
		rateLimiter: NewRateLimiter(opts.RequestsPerSecond),
	}, nil
}

// Projects implements Source. Pinned repositories come from the GraphQL API, which
// requires a token; the fixed repository list is the fallback when that is not
// possible or yields nothing.
func (c *Client) Projects(ctx context.Context) ([]types.GithubProject, error) {
	start := time.Now()
	defer func() {
		metrics.UpstreamLatency.WithLabelValues("github").Observe(time.Since(start).Seconds())
	}()

	projects, err := c.projects(ctx)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("github", metrics.OutcomeError).Inc()
		return nil, err
	}
	metrics.UpstreamRequests.WithLabelValues("github", metrics.OutcomeSuccess).Inc()
	return projects, nil
}

func (c *Client) projects(ctx context.Context) ([]types.GithubProject, error) {
	if c.user == "" && len(c.repos) == 0 {
		return nil, ErrNoSource
	}

	var pinnedErr error
	if c.user != "" && c.authed {
		pinned, err := c.Pinned(ctx)
		if err == nil && len(pinned) > 0 {
			return pinned, nil
		}
		pinnedErr = err
		if len(c.repos) > 0 {
			slog.Warn("pinned repositories unavailable, using configured list", "user", c.user, "error", err)
		}
	}

	if len(c.repos) == 0 {
		if pinnedErr != nil {
			return nil, pinnedErr
		}
		if c.user != "" && !c.authed {
			return nil, errors.New("github: pinned repositories require a token")
		}
		return []types.GithubProject{}, nil
	}
	return c.Repositories(ctx, c.repos)
}

type pinnedResponse struct {
	Data *struct {
		User *struct {
			PinnedItems struct {
				Nodes []types.GithubProject `json:"nodes"`
			} `json:"pinnedItems"`
		} `json:"user"`
	} `json:"data"`
	Errors GraphQLErrors `json:"errors"`
}

// Pinned returns the user's pinned repositories through the GraphQL API.
func (c *Client) Pinned(ctx context.Context) ([]types.GithubProject, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	body := map[string]any{
		"query":     pinnedQuery,
		"variables": map[string]any{"login": c.user, "first": PinnedLimit},
	}
	req, err := c.gh.NewRequest(http.MethodPost, "graphql", body)
	if err != nil {
		return nil, fmt.Errorf("build graphql request: %w", err)
	}

	var out pinnedResponse
	resp, err := c.gh.Do(ctx, req, &out)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "pinned items")
	}

	if len(out.Errors) > 0 && (out.Data == nil || out.Data.User == nil) {
		return nil, out.Errors
	}
	if out.Data == nil || out.Data.User == nil {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "user not found: " + c.user, URL: req.URL.String()}
	}

	nodes := out.Data.User.PinnedItems.Nodes
	projects := make([]types.GithubProject, 0, len(nodes))
	for _, node := range nodes {
		if node.Name == "" {
			continue
		}
		projects = append(projects, node)
	}
	return projects, nil
}

// Repositories fetches each owner/name in parallel through the REST API, keeping the
// input order. Repositories that no longer exist are skipped.
func (c *Client) Repositories(ctx context.Context, names []string) ([]types.GithubProject, error) {
	results := make([]*types.GithubProject, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelRepos)
	for i, name := range names {
		owner, repo, ok := strings.Cut(name, "/")
		if !ok || owner == "" || repo == "" {
			return nil, fmt.Errorf("github: invalid repository %q, want owner/name", name)
		}
		g.Go(func() error {
			project, err := c.Repository(gctx, owner, repo)
			if IsNotFound(err) {
				slog.Warn("skipping missing repository", "repo", name)
				return nil
			}
			if err != nil {
				return err
			}
			results[i] = project
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	projects := make([]types.GithubProject, 0, len(results))
	for _, p := range results {
		if p != nil {
			projects = append(projects, *p)
		}
	}
	return projects, nil
}

// Repository fetches a single repository.
func (c *Client) Repository(ctx context.Context, owner, repo string) (*types.GithubProject, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	repository, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "get repo")
	}
	return toProject(repository), nil
}

func toProject(r *gh.Repository) *types.GithubProject {
	project := &types.GithubProject{
		Name:              r.GetName(),
		Description:       r.GetDescription(),
		URL:               r.GetHTMLURL(),
		OpenGraphImageURL: "https://opengraph.githubassets.com/1/" + r.GetFullName(),
	}
	if lang := r.GetLanguage(); lang != "" {
		project.PrimaryLanguage = &types.PrimaryLanguage{Name: lang}
	}
	return project
}

func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{StatusCode: ghErr.Response.StatusCode, Message: ghErr.Message}
		if ghErr.Response.Request != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		return apiErr
	}

	return fmt.Errorf("%s: %w", operation, err)
}
