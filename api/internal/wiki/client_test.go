package wiki

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New("en", "wiki-bot-test/1.0")
	c.BaseURL = srv.URL
	return c
}

func apiHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("action") == "opensearch":
			if q.Get("search") == "no such thing" {
				w.Write([]byte(`["no such thing",[],[],[]]`))
				return
			}
			w.Write([]byte(`["test",["Test","Test cricket"],["",""],["https://en.wikipedia.org/wiki/Test"]]`))
		case q.Get("list") == "random":
			w.Write([]byte(`{"query":{"random":[{"id":42,"title":"Lake Vostok"}]}}`))
		case q.Get("titles") == "Nope":
			w.Write([]byte(`{"query":{"pages":{"-1":{"title":"Nope","missing":""}}}}`))
		default:
			w.Write([]byte(`{"query":{"pages":{"11089416":{"pageid":11089416,"title":"Test",
				"extract":"Test is a 1983 video game.",
				"links":[
					{"ns":0,"title":"Christmas"},
					{"ns":0,"title":"Test"},
					{"ns":0,"title":"Paris (disambiguation)"},
					{"ns":0,"title":"Doi (identifier)"},
					{"ns":0,"title":"Chocolate"}
				]}}}}`))
		}
	}
}

func TestSearchReturnsTopHit(t *testing.T) {
	c := newTestClient(t, apiHandler(t))

	title, err := c.Search(context.Background(), "test")
	require.NoError(t, err)
	require.Equal(t, "Test", title)
}

func TestSearchNotFound(t *testing.T) {
	c := newTestClient(t, apiHandler(t))

	_, err := c.Search(context.Background(), "no such thing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRandomPage(t *testing.T) {
	c := newTestClient(t, apiHandler(t))

	title, err := c.RandomPage(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Lake Vostok", title)
}

func TestGetPageFiltersLinks(t *testing.T) {
	c := newTestClient(t, apiHandler(t))

	page, err := c.GetPage(context.Background(), "Test")
	require.NoError(t, err)
	require.Equal(t, "Test", page.Title)
	require.Equal(t, "Test is a 1983 video game.", page.Summary)
	// self-link, disambiguation page and identifier stub are dropped,
	// the rest keeps API order
	require.Equal(t, []string{"Christmas", "Chocolate"}, page.Links)
}

func TestGetPageMissing(t *testing.T) {
	c := newTestClient(t, apiHandler(t))

	_, err := c.GetPage(context.Background(), "Nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolveIsIdempotent(t *testing.T) {
	c := newTestClient(t, apiHandler(t))

	first, err := c.Resolve(context.Background(), "test")
	require.NoError(t, err)
	second, err := c.Resolve(context.Background(), "test")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestResolveEmptyPicksRandom(t *testing.T) {
	c := newTestClient(t, apiHandler(t))

	title, err := c.Resolve(context.Background(), "  ")
	require.NoError(t, err)
	require.Equal(t, "Lake Vostok", title)
}
