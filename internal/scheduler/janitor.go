package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/scraperworks/reddit-scraper/internal/storage"
	"github.com/scraperworks/reddit-scraper/internal/tasks"
)

// Janitor periodically prunes finished tasks past their retention window
// and deletes their output artifacts.
type Janitor struct {
	registry  *tasks.Registry
	store     storage.Store
	retention time.Duration
	cron      *cron.Cron
}

// NewJanitor creates a Janitor with the given retention window.
func NewJanitor(registry *tasks.Registry, store storage.Store, retention time.Duration) *Janitor {
	return &Janitor{
		registry:  registry,
		store:     store,
		retention: retention,
		cron:      cron.New(),
	}
}

// Start schedules the hourly cleanup.
func (j *Janitor) Start() error {
	_, err := j.cron.AddFunc("@hourly", func() {
		pruned := j.Prune(time.Now())
		if pruned > 0 {
			logrus.Infof("Janitor pruned %d expired tasks", pruned)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	logrus.Infof("Janitor started with %v retention", j.retention)
	return nil
}

// Stop stops the scheduled cleanup.
func (j *Janitor) Stop() {
	if j.cron != nil {
		j.cron.Stop()
		logrus.Info("Janitor stopped")
	}
}

// Prune removes terminal tasks whose completion time is older than the
// retention window relative to now, and deletes their artifacts. It
// returns the number of tasks removed.
func (j *Janitor) Prune(now time.Time) int {
	pruned := 0

	for _, task := range j.registry.List() {
		if !task.Status.Terminal() || task.CompletionTime == nil {
			continue
		}
		if now.Sub(*task.CompletionTime) < j.retention {
			continue
		}

		if _, ok := j.registry.Delete(task.ID); !ok {
			continue
		}
		if task.OutputFile != "" {
			if err := j.store.Remove(task.OutputFile); err != nil {
				logrus.Errorf("Janitor failed to delete %s: %v", task.OutputFile, err)
			}
		}
		pruned++
	}

	return pruned
}
