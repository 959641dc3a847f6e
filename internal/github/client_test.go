package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points the API client at a local test server.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("", 100, nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	c.client.BaseURL = base
	return c
}

func TestEnrich(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"full_name": "acme/widgets",
			"description": "widget factory",
			"default_branch": "main",
			"private": true,
			"stargazers_count": 12,
			"open_issues_count": 3
		}`)
	})
	mux.HandleFunc("/repos/acme/widgets/contributors", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Link", `<https://api.github.com/repos/acme/widgets/contributors?per_page=1&page=42>; rel="last"`)
		fmt.Fprint(w, `[{"login": "alice"}]`)
	})

	c := newTestClient(t, mux)

	enrichment, err := c.Enrich(context.Background(), "acme", "widgets")
	require.NoError(t, err)

	assert.Equal(t, "acme/widgets", enrichment.FullName)
	assert.Equal(t, "widget factory", enrichment.Description)
	assert.Equal(t, "main", enrichment.DefaultBranch)
	assert.True(t, enrichment.Private)
	assert.Equal(t, 12, enrichment.Stars)
	assert.Equal(t, 3, enrichment.OpenIssues)
	assert.Equal(t, 42, enrichment.Contributors)
}

func TestEnrichSinglePageContributors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"full_name": "acme/widgets", "default_branch": "main"}`)
	})
	mux.HandleFunc("/repos/acme/widgets/contributors", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"login": "alice"}, {"login": "bob"}]`)
	})

	c := newTestClient(t, mux)

	enrichment, err := c.Enrich(context.Background(), "acme", "widgets")
	require.NoError(t, err)
	assert.Equal(t, 2, enrichment.Contributors)
}

func TestEnrichPropagatesAPIErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	})

	c := newTestClient(t, mux)

	_, err := c.Enrich(context.Background(), "acme", "missing")
	assert.Error(t, err)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("", 0, nil)
	require.NotNil(t, c.limiter)
	assert.InDelta(t, 10.0, float64(c.limiter.Limit()), 0.001)
}
