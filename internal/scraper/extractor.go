package scraper

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/scraperworks/reddit-scraper/internal/models"
)

// siteOrigin is the base against which relative post URLs are resolved.
const siteOrigin = "https://www.reddit.com"

// Defaults applied when a sub-element is missing or malformed. Field
// extraction is defensive: a bad field never aborts the whole record.
const (
	defaultTitle        = "No title"
	defaultAuthor       = "Unknown"
	defaultScore        = "0"
	defaultCommentsText = "0 comments"
	defaultCommentScore = "0 points"
)

// ExtractPosts pulls up to limit post records out of a parsed listing
// page, in document order, together with the URL of the next page. An
// empty next URL means end of pagination.
func ExtractPosts(doc *goquery.Document, limit int) ([]models.Post, string) {
	var posts []models.Post
	if doc == nil {
		return posts, ""
	}

	doc.Find("div.thing").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(posts) >= limit {
			return false
		}
		post, err := extractPost(sel)
		if err != nil {
			logrus.Warnf("Error extracting post data: %v", err)
			return true
		}
		posts = append(posts, post)
		return true
	})

	nextURL, _ := fieldAttr(doc.Find("span.next-button a"), "href", "")
	return posts, nextURL
}

// extractPost builds one record from a post container. Individual fields
// fall back to documented defaults; only an unexpected parsing panic
// skips the record.
func extractPost(sel *goquery.Selection) (post models.Post, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("post container: %v", r)
		}
	}()

	id, _ := fieldAttr(sel, "id", "")
	post.ID = strings.TrimPrefix(id, "thing_")

	titleLink := sel.Find("a.title")
	post.Title, _ = fieldText(titleLink, defaultTitle)

	postURL, _ := fieldAttr(titleLink, "href", "")
	post.PostURL = absoluteURL(postURL)

	post.Score, _ = fieldAttr(sel.Find("div.score.unvoted"), "title", defaultScore)
	post.Author, _ = fieldText(sel.Find("a.author"), defaultAuthor)
	post.Flair, _ = fieldText(sel.Find("span.linkflairlabel"), "")
	post.Timestamp, _ = fieldAttr(sel.Find("time"), "datetime", "")

	commentsLink := sel.Find("a.comments")
	commentsText, _ := fieldText(commentsLink, defaultCommentsText)
	post.CommentsCount = expandThousands(firstToken(commentsText))
	post.CommentsURL, _ = fieldAttr(commentsLink, "href", "")

	post.IsSelfPost = sel.HasClass("self")
	post.IsStickied = sel.HasClass("stickied")
	post.HasMedia = sel.Find("a.thumbnail").Length() > 0 ||
		sel.Find("div.media-preview").Length() > 0

	// Body text only exists for self posts with expandable content.
	if post.IsSelfPost && sel.HasClass("expando") {
		post.Content, _ = fieldText(sel.Find("div.expando"), "")
	}

	post.ScrapeTime = time.Now().Format("2006-01-02 15:04:05")
	return post, nil
}

// fieldText returns the trimmed text of a selection, falling back when
// the selection matched nothing. The bool reports whether the fallback
// was used.
func fieldText(sel *goquery.Selection, fallback string) (string, bool) {
	if sel.Length() == 0 {
		return fallback, true
	}
	return strings.TrimSpace(sel.Text()), false
}

// fieldAttr returns an attribute of a selection's first node, falling
// back when the selection or the attribute is absent.
func fieldAttr(sel *goquery.Selection, attr, fallback string) (string, bool) {
	if sel.Length() == 0 {
		return fallback, true
	}
	value, ok := sel.Attr(attr)
	if !ok {
		return fallback, true
	}
	return value, false
}

// expandThousands rewrites a "k" comment-count abbreviation as a plain
// textual substitution: "2k" becomes "2000". This is not arithmetic, so
// values like "2.5k" become "2.5000"; callers must treat the result as a
// display string.
func expandThousands(count string) string {
	if strings.Contains(count, "k") {
		return strings.ReplaceAll(count, "k", "000")
	}
	return count
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func absoluteURL(href string) string {
	if strings.HasPrefix(href, "/") {
		return siteOrigin + href
	}
	return href
}
