package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/fastpitchtools/fastpitch-events/internal/event"
	"github.com/fastpitchtools/fastpitch-events/internal/logger"
	"github.com/fastpitchtools/fastpitch-events/internal/storage"
)

// Runner produces a fresh snapshot. The aggregation controller satisfies it.
type Runner interface {
	Run(ctx context.Context) *event.Snapshot
}

// Server is the thin query service over the snapshot store. Reads serve the
// last persisted snapshot; the trigger endpoint kicks off a re-run in the
// background and responds immediately.
type Server struct {
	store    *storage.Store
	runner   Runner
	scraping atomic.Bool
}

// New creates a Server backed by the store and the aggregation runner.
func New(store *storage.Store, runner Runner) *Server {
	return &Server{store: store, runner: runner}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/scrape-now", s.handleScrapeNow)
	return mux
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	fmt.Fprintln(w, "Fastpitch events API is running.")
}

// handleEvents always answers with a well-formed snapshot, possibly empty.
// Internal fetch or parse problems never surface here.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot := s.store.Load()
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleScrapeNow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !s.scraping.CompareAndSwap(false, true) {
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "Scrape already in progress"})
		return
	}

	go func() {
		defer s.scraping.Store(false)
		s.refresh()
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "Scrape started"})
}

// refresh runs the pipeline and persists the result. A persistence failure is
// logged; the freshly scraped data simply waits for the next successful write.
func (s *Server) refresh() {
	start := time.Now()
	snapshot := s.runner.Run(context.Background())
	if err := s.store.Persist(snapshot); err != nil {
		logger.Error("persisting snapshot failed", logger.Fields{
			"events": snapshot.Count,
		}, err)
	}
	logger.Info("scheduled scrape finished", logger.Fields{
		"events":   snapshot.Count,
		"duration": time.Since(start).String(),
	})
}

// EnsureSnapshot runs the pipeline once when no snapshot file exists yet, so
// the first read after a fresh deploy is not empty by accident.
func (s *Server) EnsureSnapshot() {
	if s.store.HasSnapshot() {
		return
	}
	logger.Info("no data file found, running scrape to initialize", nil)
	s.refresh()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("encoding response failed", nil, err)
	}
}
