package scraper

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/scraperworks/reddit-scraper/internal/models"
)

// maxCommentDepth is a hard recursion cap on comment fetching. Going
// deeper multiplies requests against the source site for little data, so
// the cap is a constant rather than configuration.
const maxCommentDepth = 2

// CommentFetcher retrieves the flat first-level comment list from a
// post's discussion page. Nested reply threads are not followed; the
// flattened extraction is a deliberate simplification.
type CommentFetcher struct {
	fetcher *Fetcher
}

// NewCommentFetcher creates a CommentFetcher sharing the given Fetcher,
// so comment requests observe the same pacing policy as page requests.
func NewCommentFetcher(fetcher *Fetcher) *CommentFetcher {
	return &CommentFetcher{fetcher: fetcher}
}

// FetchComments returns up to maxComments comment entries from the
// discussion page at url. A depth beyond maxCommentDepth returns an
// empty list without any network call. Fetch failures return whatever
// was accumulated, which on the first page is nothing.
func (c *CommentFetcher) FetchComments(url string, depth, maxComments int) []models.Comment {
	if depth > maxCommentDepth {
		return nil
	}

	var comments []models.Comment

	doc, _, err := c.fetcher.Fetch(url, defaultMaxAttempts)
	if err != nil {
		logrus.Errorf("Error extracting comments from %s: %v", url, err)
		return comments
	}

	doc.Find("div.entry").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(comments) >= maxComments {
			return false
		}
		comment, err := extractComment(sel)
		if err != nil {
			logrus.Warnf("Error extracting comment: %v", err)
			return true
		}
		comments = append(comments, comment)
		return true
	})

	return comments
}

// extractComment builds one comment entry with the same defensive
// per-field defaults as post extraction.
func extractComment(sel *goquery.Selection) (comment models.Comment, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("comment container: %v", r)
		}
	}()

	comment.Author, _ = fieldText(sel.Find("a.author"), defaultAuthor)
	comment.Text, _ = fieldText(sel.Find("div.md"), "")
	comment.Score, _ = fieldText(sel.Find("span.score"), defaultCommentScore)
	comment.Timestamp, _ = fieldAttr(sel.Find("time"), "datetime", "")
	return comment, nil
}
