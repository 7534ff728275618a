package worker

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// HealthStatus represents the worker health status
type HealthStatus struct {
	WorkerID  string           `json:"worker_id"`
	TaskQueue string           `json:"task_queue"`
	Status    string           `json:"status"`
	Uptime    time.Duration    `json:"uptime"`
	StartedAt time.Time        `json:"started_at"`
	Temporal  ConnectionStatus `json:"temporal"`
	Storage   ConnectionStatus `json:"storage"`
	Gate      ConnectionStatus `json:"gate"`
}

// ConnectionStatus represents a connection status
type ConnectionStatus struct {
	Connected bool   `json:"connected"`
	Endpoint  string `json:"endpoint"`
	Error     string `json:"error,omitempty"`
}

// Health serves /health, /live and /ready for a running worker
type Health struct {
	mu     sync.RWMutex
	status HealthStatus
}

func NewHealth(workerID, taskQueue string) *Health {
	return &Health{status: HealthStatus{
		WorkerID:  workerID,
		TaskQueue: taskQueue,
		Status:    "starting",
		StartedAt: time.Now(),
	}}
}

// Update changes the status under lock
func (h *Health) Update(fn func(*HealthStatus)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(&h.status)
}

// Snapshot returns a copy of the current status
func (h *Health) Snapshot() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s := h.status
	s.Uptime = time.Since(s.StartedAt)
	return s
}

func (h *Health) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(h.Snapshot())
	})

	mux.HandleFunc("/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if h.Snapshot().Temporal.Connected {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("READY"))
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("NOT READY"))
		}
	})
	return mux
}

// Serve starts the health server in the background. The worker keeps running if it fails.
func (h *Health) Serve(addr string, logger *zap.Logger) *http.Server {
	srv := &http.Server{Addr: addr, Handler: h.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("health server stopped", zap.String("addr", addr), zap.Error(err))
		}
	}()
	return srv
}
