package tasks

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scraperworks/reddit-scraper/internal/models"
	"github.com/scraperworks/reddit-scraper/internal/storage"
)

type stubScraper struct {
	posts []models.Post
}

func (s stubScraper) Run() []models.Post {
	return s.posts
}

func newTestRunner(t *testing.T, posts []models.Post) (*Runner, *Registry, *storage.LocalStore) {
	t.Helper()

	registry := NewRegistry()
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	runner := NewRunner(registry, store, time.Second)
	runner.newScraper = func(models.ScrapeConfig, time.Duration) PostScraper {
		return stubScraper{posts: posts}
	}
	return runner, registry, store
}

func TestRunner_CompletesTask(t *testing.T) {
	posts := []models.Post{
		{ID: "t3_a", Title: "A", Author: "alice", Score: "10"},
		{ID: "t3_b", Title: "B", Author: "bob", Score: "20"},
	}
	runner, registry, store := newTestRunner(t, posts)

	cfg := models.ScrapeConfig{Subreddit: "golang", PostLimit: 25, Pages: 1, SortBy: models.SortHot, OutputFormat: models.FormatJSON}
	task := registry.Create(cfg)

	runner.Run(task.ID)

	got, ok := registry.Get(task.ID)
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, 2, got.PostCount)
	assert.NotEmpty(t, got.OutputFile)
	assert.NotNil(t, got.CompletionTime)
	require.NotNil(t, got.Analytics)
	assert.Equal(t, 2, got.Analytics.TotalPosts)
	assert.Equal(t, 2, got.Analytics.UniqueAuthors)

	_, err := os.Stat(store.Path(got.OutputFile))
	assert.NoError(t, err, "artifact exists on disk")
}

func TestRunner_ZeroPostsFailsTask(t *testing.T) {
	runner, registry, _ := newTestRunner(t, nil)

	task := registry.Create(models.ScrapeConfig{Subreddit: "empty", PostLimit: 25, Pages: 1, OutputFormat: models.FormatJSON})
	runner.Run(task.ID)

	got, _ := registry.Get(task.ID)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, "no posts collected", got.Error)
	assert.Empty(t, got.OutputFile)
	assert.NotNil(t, got.CompletionTime)
}

func TestRunner_UnsupportedFormatFailsTask(t *testing.T) {
	runner, registry, _ := newTestRunner(t, []models.Post{{ID: "t3_a", Author: "a", Score: "1"}})

	task := registry.Create(models.ScrapeConfig{Subreddit: "golang", PostLimit: 25, Pages: 1, OutputFormat: models.OutputFormat("xml")})
	runner.Run(task.ID)

	got, _ := registry.Get(task.ID)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, "failed to save results", got.Error)
}

func TestRunner_UnknownTaskIsNoop(t *testing.T) {
	runner, _, _ := newTestRunner(t, nil)
	runner.Run("missing")
}
