package api

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/scraperworks/reddit-scraper/internal/models"
	"github.com/scraperworks/reddit-scraper/internal/storage"
	"github.com/scraperworks/reddit-scraper/internal/tasks"
)

// JobRunner starts a scrape task. It is an interface so handler tests
// can substitute a stub that does no network access.
type JobRunner interface {
	Run(taskID string)
}

// Server exposes the scrape job API: submit a job, poll its status,
// download the artifact, delete the task.
type Server struct {
	registry *tasks.Registry
	runner   JobRunner
	store    storage.Store
}

// NewServer wires the HTTP surface to the task registry, runner and
// result store.
func NewServer(registry *tasks.Registry, runner JobRunner, store storage.Store) *Server {
	return &Server{
		registry: registry,
		runner:   runner,
		store:    store,
	}
}

// Router builds the mux router with all endpoints and CORS enabled.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware)

	router.HandleFunc("/", s.handleRoot).Methods("GET")
	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/scrape", s.handleScrape).Methods("POST")
	router.HandleFunc("/tasks", s.handleListTasks).Methods("GET")
	router.HandleFunc("/tasks/{id}", s.handleGetTask).Methods("GET")
	router.HandleFunc("/tasks/{id}", s.handleDeleteTask).Methods("DELETE")
	router.HandleFunc("/download/{id}", s.handleDownload).Methods("GET")

	return router
}

type scrapeResponse struct {
	TaskID    string `json:"task_id"`
	Status    string `json:"status"`
	Subreddit string `json:"subreddit"`
	Message   string `json:"message"`
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var cfg models.ScrapeConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	task := s.registry.Create(cfg)
	go s.runner.Run(task.ID)

	logrus.Infof("Accepted scrape task %s for r/%s", task.ID, cfg.Subreddit)
	respondJSON(w, http.StatusAccepted, scrapeResponse{
		TaskID:    task.ID,
		Status:    string(task.Status),
		Subreddit: task.Subreddit,
		Message:   "Scraping task started",
	})
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	list := s.registry.List()
	for i := range list {
		list[i].Analytics = nil
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, ok := s.registry.Get(mux.Vars(r)["id"])
	if !ok {
		respondError(w, http.StatusNotFound, "task not found")
		return
	}

	includeAnalytics := r.URL.Query().Get("include_analytics") == "true"
	if !includeAnalytics || task.Status != tasks.StatusCompleted {
		task.Analytics = nil
	}

	respondJSON(w, http.StatusOK, task)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	task, ok := s.registry.Get(mux.Vars(r)["id"])
	if !ok {
		respondError(w, http.StatusNotFound, "task not found")
		return
	}
	if task.Status != tasks.StatusCompleted {
		respondError(w, http.StatusBadRequest, "task not completed")
		return
	}
	if task.OutputFile == "" {
		respondError(w, http.StatusNotFound, "output file not found")
		return
	}

	path := s.store.Path(task.OutputFile)
	if _, err := os.Stat(path); err != nil {
		respondError(w, http.StatusNotFound, "file not found")
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename="+task.OutputFile)
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeFile(w, r, path)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	task, ok := s.registry.Delete(mux.Vars(r)["id"])
	if !ok {
		respondError(w, http.StatusNotFound, "task not found")
		return
	}

	if task.OutputFile != "" {
		if err := s.store.Remove(task.OutputFile); err != nil {
			logrus.Errorf("Error deleting file %s: %v", task.OutputFile, err)
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"name":    "Reddit Scraper API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"/scrape":             "Start a new scraping task",
			"/tasks":              "Get all tasks",
			"/tasks/{task_id}":    "Get task status",
			"/download/{task_id}": "Download task results",
			"/health":             "Health check",
		},
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}

// corsMiddleware allows cross-origin access to the API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
