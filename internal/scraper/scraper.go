package scraper

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/scraperworks/reddit-scraper/internal/models"
)

// maxCommentsPerPost bounds how many comments are attached to each post
// when comment scraping is enabled.
const maxCommentsPerPost = 10

// Scraper drives pagination across subreddit listing pages: fetch,
// extract, follow the next-page link, until the post limit, the page cap,
// or the end of pagination is reached. One Scraper serves exactly one
// job; it holds no state shared with other jobs.
type Scraper struct {
	cfg      models.ScrapeConfig
	fetcher  *Fetcher
	comments *CommentFetcher
	baseURL  string
}

// New creates a Scraper for one job using the production pacing policy
// derived from the job's delay bounds.
func New(cfg models.ScrapeConfig, requestTimeout time.Duration) *Scraper {
	fetcher := NewFetcher(NewRandomPacer(cfg.DelayMin, cfg.DelayMax), requestTimeout)
	return &Scraper{
		cfg:      cfg,
		fetcher:  fetcher,
		comments: NewCommentFetcher(fetcher),
		baseURL:  listingURL(cfg),
	}
}

// NewWithFetcher creates a Scraper with an explicit Fetcher. Used by
// tests to substitute deterministic pacing and local test servers.
func NewWithFetcher(cfg models.ScrapeConfig, fetcher *Fetcher, baseURL string) *Scraper {
	return &Scraper{
		cfg:      cfg,
		fetcher:  fetcher,
		comments: NewCommentFetcher(fetcher),
		baseURL:  baseURL,
	}
}

// listingURL builds the first-page URL for the configured subreddit and
// sort order. The time filter only applies to the "top" sort.
func listingURL(cfg models.ScrapeConfig) string {
	url := fmt.Sprintf("https://old.reddit.com/r/%s/%s/", cfg.Subreddit, cfg.SortBy)
	if cfg.SortBy == models.SortTop {
		url += fmt.Sprintf("?t=%s", cfg.TimeFilter)
	}
	return url
}

// Run executes the scrape and returns everything collected. A fetch
// failure mid-run ends the loop with partial results rather than an
// error; the distinction between "ran out of pages" and "hit the limit"
// is visible only in the logs.
func (s *Scraper) Run() []models.Post {
	logrus.Infof("Starting to scrape r/%s (sort: %s, pages: %d)", s.cfg.Subreddit, s.cfg.SortBy, s.cfg.Pages)

	var all []models.Post
	currentURL := s.baseURL

	for page := 1; page <= s.cfg.Pages && len(all) < s.cfg.PostLimit; page++ {
		logrus.Infof("Scraping page %d of r/%s", page, s.cfg.Subreddit)

		doc, _, err := s.fetcher.Fetch(currentURL, defaultMaxAttempts)
		if err != nil {
			logrus.Errorf("Giving up on page %d: %v", page, err)
			break
		}

		posts, nextURL := ExtractPosts(doc, s.cfg.PostLimit-len(all))

		if s.cfg.IncludeComments {
			for i := range posts {
				if posts[i].CommentsURL == "" {
					continue
				}
				posts[i].Comments = s.comments.FetchComments(posts[i].CommentsURL, 1, maxCommentsPerPost)
			}
		}

		all = append(all, posts...)
		logrus.Infof("Scraped %d posts from page %d", len(posts), page)

		if nextURL == "" || len(all) >= s.cfg.PostLimit {
			break
		}
		currentURL = nextURL
	}

	logrus.Infof("Finished scraping r/%s. Total posts: %d", s.cfg.Subreddit, len(all))
	return all
}
