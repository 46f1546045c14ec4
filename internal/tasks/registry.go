package tasks

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scraperworks/reddit-scraper/internal/models"
)

// Status is the lifecycle state of a scrape task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the task has finished, successfully or not.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Task tracks one scrape job from submission to completion.
type Task struct {
	ID             string                   `json:"task_id"`
	Status         Status                   `json:"status"`
	Subreddit      string                   `json:"subreddit"`
	StartTime      time.Time                `json:"start_time"`
	CompletionTime *time.Time               `json:"completion_time,omitempty"`
	PostCount      int                      `json:"post_count"`
	OutputFile     string                   `json:"output_file,omitempty"`
	Error          string                   `json:"error,omitempty"`
	Analytics      *models.AnalyticsSummary `json:"analytics,omitempty"`
	Config         models.ScrapeConfig      `json:"-"`
}

// Registry is the in-memory task store shared between the HTTP surface
// and the job runners. Reads return copies; writes go through Update so
// the mutex discipline stays in one place. The runner is the only writer
// for a running task's key.
type Registry struct {
	mu    sync.RWMutex
	tasks map[string]*Task
}

// NewRegistry creates an empty task registry.
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]*Task)}
}

// Create registers a new pending task for the given job config and
// returns a copy of it.
func (r *Registry) Create(cfg models.ScrapeConfig) Task {
	task := &Task{
		ID:        uuid.New().String(),
		Status:    StatusPending,
		Subreddit: cfg.Subreddit,
		StartTime: time.Now(),
		Config:    cfg,
	}

	r.mu.Lock()
	r.tasks[task.ID] = task
	r.mu.Unlock()

	return *task
}

// Get returns a copy of the task with the given id.
func (r *Registry) Get(id string) (Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *task, true
}

// List returns copies of all tasks, newest first.
func (r *Registry) List() []Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		list = append(list, *task)
	}
	sortByStartTime(list)
	return list
}

// Update applies fn to the stored task under the registry lock.
func (r *Registry) Update(id string, fn func(*Task)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return false
	}
	fn(task)
	return true
}

// Delete removes the task and returns its final state.
func (r *Registry) Delete(id string) (Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return Task{}, false
	}
	delete(r.tasks, id)
	return *task, true
}

func sortByStartTime(list []Task) {
	for i := 0; i < len(list)-1; i++ {
		for j := i + 1; j < len(list); j++ {
			if list[j].StartTime.After(list[i].StartTime) {
				list[i], list[j] = list[j], list[i]
			}
		}
	}
}
