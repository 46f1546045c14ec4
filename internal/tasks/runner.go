package tasks

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/scraperworks/reddit-scraper/internal/analytics"
	"github.com/scraperworks/reddit-scraper/internal/models"
	"github.com/scraperworks/reddit-scraper/internal/scraper"
	"github.com/scraperworks/reddit-scraper/internal/storage"
)

// Runner executes scrape tasks end to end: scrape, persist, summarize,
// and record the outcome in the registry. Each task runs in its own
// goroutine started by the HTTP handler; the runner is the single writer
// for that task's registry entry while it runs.
type Runner struct {
	registry       *Registry
	store          storage.Store
	requestTimeout time.Duration

	// newScraper is swappable in tests to avoid real network access.
	newScraper func(cfg models.ScrapeConfig, timeout time.Duration) PostScraper
}

// PostScraper is the slice of the scraper the runner needs.
type PostScraper interface {
	Run() []models.Post
}

// NewRunner creates a Runner backed by the given registry and store.
func NewRunner(registry *Registry, store storage.Store, requestTimeout time.Duration) *Runner {
	return &Runner{
		registry:       registry,
		store:          store,
		requestTimeout: requestTimeout,
		newScraper: func(cfg models.ScrapeConfig, timeout time.Duration) PostScraper {
			return scraper.New(cfg, timeout)
		},
	}
}

// Run executes the task with the given id to completion. It never
// returns an error: failure is recorded on the task itself.
func (r *Runner) Run(taskID string) {
	task, ok := r.registry.Get(taskID)
	if !ok {
		logrus.Errorf("Task %s not found in registry", taskID)
		return
	}

	r.registry.Update(taskID, func(t *Task) {
		t.Status = StatusRunning
	})

	cfg := task.Config
	posts := r.newScraper(cfg, r.requestTimeout).Run()

	if len(posts) == 0 {
		r.fail(taskID, "no posts collected")
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("%s_%s_%s_%s", cfg.Subreddit, cfg.SortBy, taskID, timestamp)

	savedPath, err := r.store.SavePosts(posts, cfg.OutputFormat, name)
	if err != nil || savedPath == "" {
		logrus.Errorf("Task %s: failed to save results: %v", taskID, err)
		r.fail(taskID, "failed to save results")
		return
	}

	summary := analytics.Summarize(posts)

	// Analytics persistence is best effort; its failure does not fail a
	// scrape that already produced records.
	analyticsName := fmt.Sprintf("%s_analytics_%s", cfg.Subreddit, timestamp)
	if _, err := r.store.SaveAnalytics(summary, analyticsName); err != nil {
		logrus.Errorf("Task %s: failed to save analytics: %v", taskID, err)
	}

	now := time.Now()
	r.registry.Update(taskID, func(t *Task) {
		t.Status = StatusCompleted
		t.CompletionTime = &now
		t.PostCount = summary.TotalPosts
		t.OutputFile = filepath.Base(savedPath)
		t.Analytics = summary
	})

	logrus.Infof("Task %s completed with %d posts", taskID, len(posts))
}

func (r *Runner) fail(taskID, message string) {
	now := time.Now()
	r.registry.Update(taskID, func(t *Task) {
		t.Status = StatusFailed
		t.CompletionTime = &now
		t.Error = message
	})
}
