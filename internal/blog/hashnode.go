package blog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/portfolio/internal/fetch"
	"github.com/jonathan/portfolio/internal/metrics"
	"github.com/jonathan/portfolio/internal/types"
)

// DefaultHashnodeEndpoint is Hashnode's public GraphQL API.
const DefaultHashnodeEndpoint = "https://gql.hashnode.com"

const postFields = `
        id
        slug
        title
        brief
        content { html }
        publishedAt
        coverImage { url }
        readTimeInMinutes
        tags { name slug }`

const postsQuery = `query GetPosts($host: String!, $first: Int!) {
  publication(host: $host) {
    posts(first: $first) {
      edges {
        node {` + postFields + `
        }
      }
    }
  }
}`

const postQuery = `query GetPost($host: String!, $slug: String!) {
  publication(host: $host) {
    post(slug: $slug) {` + postFields + `
    }
  }
}`

// HashnodeSource reads posts from a Hashnode publication. Hashnode posts are not
// localized, so the language argument is ignored.
type HashnodeSource struct {
	endpoint string
	host     string
	pageSize int
	options  *fetch.Options
}

// NewHashnodeSource creates a source for the publication at host.
func NewHashnodeSource(endpoint, host string, pageSize int, opts *fetch.Options) *HashnodeSource {
	if endpoint == "" {
		endpoint = DefaultHashnodeEndpoint
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if opts == nil {
		opts = fetch.DefaultOptions()
	}
	return &HashnodeSource{endpoint: endpoint, host: host, pageSize: pageSize, options: opts}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// GraphQLError is an error entry returned by a GraphQL API.
type GraphQLError struct {
	Message string `json:"message"`
}

// GraphQLErrors is returned when the response carries errors and no usable data.
type GraphQLErrors []GraphQLError

func (e GraphQLErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Message
	}
	return "graphql: " + strings.Join(msgs, "; ")
}

type hashnodePost struct {
	ID      string `json:"id"`
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Brief   string `json:"brief"`
	Content struct {
		HTML string `json:"html"`
	} `json:"content"`
	PublishedAt string `json:"publishedAt"`
	CoverImage  *struct {
		URL string `json:"url"`
	} `json:"coverImage"`
	ReadTimeInMinutes int `json:"readTimeInMinutes"`
	Tags              []struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	} `json:"tags"`
}

func (p *hashnodePost) toBlogPost() types.BlogPost {
	post := types.BlogPost{
		ID:       p.ID,
		Slug:     p.Slug,
		Title:    p.Title,
		Content:  p.Content.HTML,
		Summary:  p.Brief,
		Date:     p.PublishedAt,
		ReadTime: p.ReadTimeInMinutes,
		Tags:     make([]string, 0, len(p.Tags)),
	}
	if p.CoverImage != nil {
		post.Image = p.CoverImage.URL
	}
	for _, tag := range p.Tags {
		post.Tags = append(post.Tags, tag.Name)
	}
	prepare(&post)
	return post
}

type postsResponse struct {
	Data *struct {
		Publication *struct {
			Posts struct {
				Edges []struct {
					Node hashnodePost `json:"node"`
				} `json:"edges"`
			} `json:"posts"`
		} `json:"publication"`
	} `json:"data"`
	Errors GraphQLErrors `json:"errors"`
}

type postResponse struct {
	Data *struct {
		Publication *struct {
			Post *hashnodePost `json:"post"`
		} `json:"publication"`
	} `json:"data"`
	Errors GraphQLErrors `json:"errors"`
}

// Posts implements Source.
func (s *HashnodeSource) Posts(ctx context.Context, _ types.Language) ([]types.BlogPost, error) {
	var resp postsResponse
	err := s.query(ctx, postsQuery, map[string]any{"host": s.host, "first": s.pageSize}, &resp)
	if err == nil && len(resp.Errors) > 0 && resp.Data == nil {
		err = resp.Errors
	}
	if err == nil && (resp.Data == nil || resp.Data.Publication == nil) {
		err = fmt.Errorf("hashnode publication %q not found", s.host)
	}
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("hashnode", metrics.OutcomeError).Inc()
		return nil, err
	}
	metrics.UpstreamRequests.WithLabelValues("hashnode", metrics.OutcomeSuccess).Inc()

	edges := resp.Data.Publication.Posts.Edges
	posts := make([]types.BlogPost, 0, len(edges))
	for i := range edges {
		posts = append(posts, edges[i].Node.toBlogPost())
	}
	return posts, nil
}

// Post implements Source.
func (s *HashnodeSource) Post(ctx context.Context, _ types.Language, slug string) (*types.BlogPost, error) {
	var resp postResponse
	err := s.query(ctx, postQuery, map[string]any{"host": s.host, "slug": slug}, &resp)
	if err == nil && len(resp.Errors) > 0 && resp.Data == nil {
		err = resp.Errors
	}
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("hashnode", metrics.OutcomeError).Inc()
		return nil, err
	}
	metrics.UpstreamRequests.WithLabelValues("hashnode", metrics.OutcomeSuccess).Inc()

	if resp.Data == nil || resp.Data.Publication == nil || resp.Data.Publication.Post == nil {
		return nil, ErrNotFound
	}
	post := resp.Data.Publication.Post.toBlogPost()
	return &post, nil
}

func (s *HashnodeSource) query(ctx context.Context, query string, vars map[string]any, out any) error {
	start := time.Now()
	defer func() {
		metrics.UpstreamLatency.WithLabelValues("hashnode").Observe(time.Since(start).Seconds())
	}()
	return fetch.PostJSON(ctx, s.endpoint, graphQLRequest{Query: query, Variables: vars}, s.options, out)
}
