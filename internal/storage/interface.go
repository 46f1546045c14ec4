package storage

import "github.com/scraperworks/reddit-scraper/internal/models"

// Store defines the contract for persisting scrape results. SavePosts
// returns the concrete file path with a format-specific extension; an
// empty path with a nil error means there was nothing to write, which is
// a legitimate outcome, not a failure.
type Store interface {
	SavePosts(posts []models.Post, format models.OutputFormat, name string) (string, error)
	SaveAnalytics(summary *models.AnalyticsSummary, name string) (string, error)
	Path(filename string) string
	Remove(filename string) error
}
