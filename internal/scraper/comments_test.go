package scraper

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const commentsPage = `
<html><body>
<div class="entry">
	<a class="author">alice</a>
	<div class="md">Nice write-up</div>
	<span class="score">12 points</span>
	<time datetime="2024-05-01T12:00:00+00:00">1 hour ago</time>
</div>
<div class="entry">
	<a class="author">bob</a>
	<div class="md">Disagree with the premise</div>
	<span class="score">3 points</span>
	<time datetime="2024-05-01T12:30:00+00:00">30 minutes ago</time>
</div>
<div class="entry">
	<div class="md">Deleted user comment</div>
</div>
</body></html>`

func TestCommentFetcher_DepthCapSkipsNetwork(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(commentsPage))
	}))
	defer server.Close()

	fetcher := NewCommentFetcher(newTestFetcher())
	comments := fetcher.FetchComments(server.URL, 3, 10)

	assert.Empty(t, comments)
	assert.EqualValues(t, 0, atomic.LoadInt32(&hits), "depth beyond the cap must not touch the network")
}

func TestCommentFetcher_ExtractsInOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(commentsPage))
	}))
	defer server.Close()

	fetcher := NewCommentFetcher(newTestFetcher())
	comments := fetcher.FetchComments(server.URL, 1, 10)

	require.Len(t, comments, 3)
	assert.Equal(t, "alice", comments[0].Author)
	assert.Equal(t, "Nice write-up", comments[0].Text)
	assert.Equal(t, "12 points", comments[0].Score)
	assert.Equal(t, "2024-05-01T12:00:00+00:00", comments[0].Timestamp)
	assert.Equal(t, "bob", comments[1].Author)

	// Missing sub-elements fall back to defaults instead of dropping the comment.
	assert.Equal(t, "Unknown", comments[2].Author)
	assert.Equal(t, "0 points", comments[2].Score)
	assert.Empty(t, comments[2].Timestamp)
}

func TestCommentFetcher_RespectsMaxComments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(commentsPage))
	}))
	defer server.Close()

	fetcher := NewCommentFetcher(newTestFetcher())
	comments := fetcher.FetchComments(server.URL, 1, 2)

	require.Len(t, comments, 2)
	assert.Equal(t, "alice", comments[0].Author)
	assert.Equal(t, "bob", comments[1].Author)
}

func TestCommentFetcher_FetchFailureReturnsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	fetcher := NewCommentFetcher(newTestFetcher())
	comments := fetcher.FetchComments(server.URL, 1, 10)

	assert.Empty(t, comments)
}
