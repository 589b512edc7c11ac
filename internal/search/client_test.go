package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(context.Background(), "test-key", "engine-1", nil,
		option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), "", "cx", nil)
	assert.Error(t, err)
	_, err = NewClient(context.Background(), "key", "", nil)
	assert.Error(t, err)
}

func TestClient_Search(t *testing.T) {
	var gotQuery map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{"q": q.Get("q"), "cx": q.Get("cx"), "num": q.Get("num")}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"title":"Go","snippet":"The Go programming language","link":"https://go.dev"},
			{"title":"Tour","snippet":"A tour of Go","link":"https://go.dev/tour"}
		]}`))
	})

	results, err := c.Search(context.Background(), "  golang  ", 25)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, Result{Title: "Go", Snippet: "The Go programming language", Link: "https://go.dev"}, results[0])
	assert.Equal(t, map[string]string{"q": "golang", "cx": "engine-1", "num": "10"}, gotQuery)
}

func TestClient_SearchNoItems(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	results, err := c.Search(context.Background(), "nothing", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestClient_SearchErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"quota"}}`))
	})

	_, err := c.Search(context.Background(), "   ", 3)
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = c.Search(context.Background(), "golang", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch search results")
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Format(nil))
	assert.Equal(t, "A: one\nB: two", Format([]Result{
		{Title: "A", Snippet: "one"},
		{Title: "B", Snippet: "two"},
	}))
}
