// Package statusapi exposes a minimal read-only HTTP surface over pools
// and loops: their current workload and running state. It is read-only by
// design — there is no remote way to submit work or interrupt a pool
// through this package.
package statusapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PoolStatus is the narrow view a pool or loop must provide to be exposed
// through the status API. SharedQueuePool, ShardedQueuePool, DeadlineLoop,
// and TimerLoop all satisfy it already.
type PoolStatus interface {
	Workload() int
	Running() bool
}

// poolStatus wraps Workload/Running into the JSON document served per
// named entry.
type poolStatus struct {
	Workload int  `json:"workload"`
	Running  bool `json:"running"`
}

// Server serves read-only status for a named set of pools/loops.
type Server struct {
	router *chi.Mux
	pools  map[string]PoolStatus
}

// NewServer constructs a Server with no registered pools. Register adds
// entries before mounting the returned http.Handler.
func NewServer() *Server {
	s := &Server{
		router: chi.NewRouter(),
		pools:  make(map[string]PoolStatus),
	}
	s.router.Get("/pools", s.handleList)
	s.router.Get("/pools/{name}", s.handleOne)
	return s
}

// Register adds a named pool or loop to the status surface.
func (s *Server) Register(name string, p PoolStatus) {
	s.pools[name] = p
}

// Handler returns the http.Handler to mount.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]poolStatus, len(s.pools))
	for name, p := range s.pools {
		out[name] = poolStatus{Workload: p.Workload(), Running: p.Running()}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (s *Server) handleOne(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, ok := s.pools[name]
	if !ok {
		http.Error(w, "pool not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(poolStatus{Workload: p.Workload(), Running: p.Running()})
}
