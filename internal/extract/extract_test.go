package extract

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/narrate/internal/fetch"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Reading Aloud</title></head>
<body>
  <nav><a href="/">Home</a> <a href="/about">About</a></nav>
  <article>
    <h1>Reading Aloud</h1>
    <p>Listening to long articles while walking is a pleasant way to keep up with the news.
    A text to speech service can turn any readable page into an audio file in a few seconds.</p>
    <p>The extractor keeps the paragraphs of the story and throws away the navigation links,
    the advertisements and the comment threads that surround most articles on the web.</p>
    <p>Short paragraphs, long paragraphs and quotes are all kept so that the narration sounds
    like the original piece rather than a list of disconnected fragments.</p>
  </article>
  <footer>Copyright Example Media</footer>
</body>
</html>`

func page(t *testing.T, body string) *fetch.Page {
	t.Helper()

	u, err := url.Parse("https://example.com/posts/reading-aloud")
	require.NoError(t, err)
	return &fetch.Page{URL: u, Body: []byte(body), ContentType: "text/html"}
}

func TestReadability_Extract(t *testing.T) {
	text, err := NewReadability().Extract(context.Background(), page(t, articleHTML))
	require.NoError(t, err)

	assert.Contains(t, text, "Listening to long articles while walking")
	assert.Contains(t, text, "comment threads")
	assert.NotContains(t, text, "<p>")
}

func TestReadability_EmptyPage(t *testing.T) {
	_, err := NewReadability().Extract(context.Background(), page(t, "   "))
	assert.ErrorIs(t, err, ErrNoContent)

	_, err = NewReadability().Extract(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestReadability_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReadability().Extract(ctx, page(t, articleHTML))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalize(t *testing.T) {
	in := "  Title  \r\n\r\n\r\n   First   line\t\tof text \n\n\n\nSecond  "
	assert.Equal(t, "Title\n\nFirst line of text\n\nSecond", Normalize(in))
	assert.Equal(t, "", Normalize(strings.Repeat(" \n", 10)))
}
