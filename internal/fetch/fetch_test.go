package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "narrate-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>hi</body></html>"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5*time.Second, WithUserAgent("narrate-test"))
	page, err := f.Fetch(context.Background(), srv.URL+"/article")
	require.NoError(t, err)

	assert.Equal(t, "<html><body>hi</body></html>", string(page.Body))
	assert.Equal(t, "/article", page.URL.Path)
	assert.Contains(t, page.ContentType, "text/html")
}

func TestHTTPFetcher_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5 * time.Second)
	_, err := f.Fetch(context.Background(), srv.URL)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestHTTPFetcher_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	f := NewHTTPFetcher(50 * time.Millisecond)
	_, err := f.Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestHTTPFetcher_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 2048)))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5*time.Second, WithMaxBytes(1024))
	_, err := f.Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestHTTPFetcher_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := NewHTTPFetcher(5 * time.Second)
	_, err := f.Fetch(context.Background(), url)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestParseURL(t *testing.T) {
	for _, raw := range []string{"ftp://example.com/x", "example.com", "http://", "::bad"} {
		_, err := ParseURL(raw)
		assert.ErrorIs(t, err, ErrInvalidURL, raw)
	}

	u, err := ParseURL("  https://example.com/post?id=1 ")
	require.NoError(t, err)
	assert.Equal(t, "example.com", u.Host)
}
