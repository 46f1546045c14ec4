package scraper

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPage = `
<html><body>
<div id="siteTable">
	<div class="thing self expando" id="thing_t3_abc1">
		<a class="title" href="/r/golang/comments/abc1/first_post/">First post</a>
		<div class="score unvoted" title="42">42</div>
		<a class="author">gopher_one</a>
		<span class="linkflairlabel">Discussion</span>
		<time datetime="2024-05-01T10:00:00+00:00">3 hours ago</time>
		<a class="comments" href="https://old.reddit.com/r/golang/comments/abc1/first_post/">2k comments</a>
		<div class="expando">Self post body text</div>
	</div>
	<div class="thing stickied" id="thing_t3_abc2">
		<a class="title" href="https://example.com/article">Second post</a>
		<div class="score unvoted" title="7">7</div>
		<a class="author">gopher_two</a>
		<time datetime="2024-05-01T11:00:00+00:00">2 hours ago</time>
		<a class="comments" href="https://old.reddit.com/r/golang/comments/abc2/second_post/">150 comments</a>
		<a class="thumbnail"><img src="thumb.jpg"/></a>
	</div>
	<div class="thing" id="thing_t3_abc3">
		<a class="title" href="/r/golang/comments/abc3/third_post/">Third post</a>
		<div class="score unvoted" title="3">3</div>
		<a class="author">gopher_one</a>
		<a class="comments" href="https://old.reddit.com/r/golang/comments/abc3/third_post/">5 comments</a>
	</div>
</div>
<span class="next-button"><a href="https://old.reddit.com/r/golang/?count=25&amp;after=t3_abc3">next</a></span>
</body></html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractPosts_DocumentOrder(t *testing.T) {
	posts, next := ExtractPosts(mustDoc(t, listingPage), 25)

	require.Len(t, posts, 3)
	assert.Equal(t, "t3_abc1", posts[0].ID)
	assert.Equal(t, "t3_abc2", posts[1].ID)
	assert.Equal(t, "t3_abc3", posts[2].ID)
	assert.Equal(t, "https://old.reddit.com/r/golang/?count=25&after=t3_abc3", next)
}

func TestExtractPosts_RespectsLimit(t *testing.T) {
	posts, _ := ExtractPosts(mustDoc(t, listingPage), 2)

	require.Len(t, posts, 2)
	assert.Equal(t, "First post", posts[0].Title)
	assert.Equal(t, "Second post", posts[1].Title)
}

func TestExtractPosts_Fields(t *testing.T) {
	posts, _ := ExtractPosts(mustDoc(t, listingPage), 25)
	require.Len(t, posts, 3)

	first := posts[0]
	assert.Equal(t, "First post", first.Title)
	assert.Equal(t, "gopher_one", first.Author)
	assert.Equal(t, "42", first.Score)
	assert.Equal(t, "2000", first.CommentsCount, "k suffix expanded textually")
	assert.Equal(t, "https://www.reddit.com/r/golang/comments/abc1/first_post/", first.PostURL)
	assert.Equal(t, "https://old.reddit.com/r/golang/comments/abc1/first_post/", first.CommentsURL)
	assert.Equal(t, "2024-05-01T10:00:00+00:00", first.Timestamp)
	assert.Equal(t, "Discussion", first.Flair)
	assert.True(t, first.IsSelfPost)
	assert.False(t, first.IsStickied)
	assert.False(t, first.HasMedia)
	assert.Equal(t, "Self post body text", first.Content)
	assert.NotEmpty(t, first.ScrapeTime)

	second := posts[1]
	assert.Equal(t, "150", second.CommentsCount, "plain counts pass through verbatim")
	assert.Equal(t, "https://example.com/article", second.PostURL, "absolute URLs left untouched")
	assert.True(t, second.IsStickied)
	assert.True(t, second.HasMedia)
	assert.False(t, second.IsSelfPost)
	assert.Empty(t, second.Content, "body only populated for expandable self posts")
	assert.Empty(t, second.Flair)
}

func TestExtractPosts_DefensiveDefaults(t *testing.T) {
	posts, next := ExtractPosts(mustDoc(t, `<div class="thing" id="thing_t3_bare"></div>`), 25)

	require.Len(t, posts, 1)
	post := posts[0]
	assert.Equal(t, "t3_bare", post.ID)
	assert.Equal(t, "No title", post.Title)
	assert.Equal(t, "Unknown", post.Author)
	assert.Equal(t, "0", post.Score)
	assert.Equal(t, "0", post.CommentsCount)
	assert.Empty(t, post.PostURL)
	assert.Empty(t, post.CommentsURL)
	assert.Empty(t, post.Timestamp)
	assert.Empty(t, post.Flair)
	assert.Empty(t, next, "no next button means end of pagination")
}

func TestExtractPosts_NilDocument(t *testing.T) {
	posts, next := ExtractPosts(nil, 25)
	assert.Empty(t, posts)
	assert.Empty(t, next)
}

func TestExtractPosts_ManyContainers(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, `<div class="thing" id="thing_t3_p%d"><a class="title" href="/r/test/comments/p%d/">Post %d</a></div>`, i, i, i)
	}

	posts, _ := ExtractPosts(mustDoc(t, b.String()), 25)
	require.Len(t, posts, 25)
	assert.Equal(t, "t3_p0", posts[0].ID)
	assert.Equal(t, "t3_p24", posts[24].ID)
}

func TestExpandThousands(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "k suffix expanded",
			input:    "2k",
			expected: "2000",
		},
		{
			name:     "plain number unchanged",
			input:    "150",
			expected: "150",
		},
		{
			name:     "decimal k is textual not arithmetic",
			input:    "2.5k",
			expected: "2.5000",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandThousands(tt.input))
		})
	}
}

func TestFieldHelpers_ReportDefaulting(t *testing.T) {
	doc := mustDoc(t, `<div class="thing"><a class="title">Hello</a></div>`)
	sel := doc.Find("div.thing")

	title, defaulted := fieldText(sel.Find("a.title"), "No title")
	assert.Equal(t, "Hello", title)
	assert.False(t, defaulted)

	author, defaulted := fieldText(sel.Find("a.author"), "Unknown")
	assert.Equal(t, "Unknown", author)
	assert.True(t, defaulted)

	_, defaulted = fieldAttr(sel.Find("a.title"), "href", "")
	assert.True(t, defaulted, "missing attribute falls back")
}
