package scraper

import (
	"bytes"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const (
	// defaultMaxAttempts is how many times a page fetch is tried before
	// the failure is reported to the caller.
	defaultMaxAttempts = 3

	// retryBackoffBase is multiplied by the attempt index to produce the
	// sleep between failed attempts: 2s, 4s, 6s, ...
	retryBackoffBase = 2 * time.Second
)

// Fetcher retrieves a single page and parses it into a goquery document.
// It applies the pacing policy before every attempt and retries transport
// failures with an increasing backoff. A Fetcher never panics; exhausted
// retries surface as an error alongside the originally requested URL.
type Fetcher struct {
	client *resty.Client
	pacer  Pacer

	// backoff can be zeroed in tests to avoid multi-second sleeps.
	backoff time.Duration
}

// NewFetcher creates a Fetcher with the given pacing policy and a
// per-request timeout. The timeout bounds one network request, never the
// job as a whole.
func NewFetcher(pacer Pacer, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: resty.New().
			SetTimeout(timeout).
			SetHeaders(map[string]string{
				"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
				"Accept-Language":           "en-US,en;q=0.5",
				"DNT":                       "1",
				"Connection":                "keep-alive",
				"Upgrade-Insecure-Requests": "1",
			}),
		pacer:   pacer,
		backoff: retryBackoffBase,
	}
}

// Fetch retrieves url, retrying up to maxAttempts times. It returns the
// parsed document and the final URL after redirects; on failure the
// originally requested URL is returned with the last error.
func (f *Fetcher) Fetch(url string, maxAttempts int) (*goquery.Document, string, error) {
	if maxAttempts < 1 {
		maxAttempts = defaultMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		// Rate pacing, not backoff: applies before the first attempt too.
		time.Sleep(f.pacer.Delay())

		logrus.Infof("Fetching %s (attempt %d/%d)", url, attempt, maxAttempts)

		resp, err := f.client.R().
			SetHeader("User-Agent", f.pacer.UserAgent()).
			Get(url)

		switch {
		case err != nil:
			lastErr = err
		case !resp.IsSuccess():
			lastErr = fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode(), url)
		default:
			doc, perr := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
			if perr != nil {
				lastErr = fmt.Errorf("parsing response body: %w", perr)
				break
			}
			finalURL := url
			if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
				finalURL = raw.Request.URL.String()
			}
			return doc, finalURL, nil
		}

		logrus.Errorf("Error fetching %s (attempt %d/%d): %v", url, attempt, maxAttempts, lastErr)
		if attempt < maxAttempts {
			time.Sleep(f.backoff * time.Duration(attempt))
		}
	}

	return nil, url, fmt.Errorf("fetch failed after %d attempts: %w", maxAttempts, lastErr)
}
