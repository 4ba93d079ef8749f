// Package inspector exposes the engine's read-only observability surface to
// external visualizers: per-tick node statuses, active paths and service
// countdowns, streamed as JSON. The engine itself has no rendering
// dependency; anything able to speak HTTP or websocket can draw the trees.
package inspector

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tickmind/tickmind/internal/core/bt"
	"github.com/tickmind/tickmind/internal/core/observability/log"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Frame is one push to a connected visualizer.
type Frame struct {
	Tick   uint64        `json:"tick"`
	Agents []bt.Snapshot `json:"agents"`
}

// Server serves snapshots of one manager. GET /snapshot returns the current
// frame; GET /ws upgrades and pushes a frame at the configured interval.
type Server struct {
	mgr      *bt.Manager
	interval time.Duration
	httpSrv  *http.Server
	log      *log.Logger
}

// New creates an inspector server on addr. interval is the websocket push
// cadence; it is wall-clock and only paces the feed, never the simulation.
func New(addr string, interval time.Duration, mgr *bt.Manager, logger *log.Logger) *Server {
	s := &Server{
		mgr:      mgr,
		interval: interval,
		log:      logger.With(zap.String("component", "inspector")),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	mux.HandleFunc("/ws", s.handleWS)
	s.httpSrv = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	go func() {
		s.log.Info("inspector listening", zap.String("addr", s.httpSrv.Addr))
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("inspector server failed", zap.Error(err))
		}
	}()
}

// Stop shuts the server down, waiting for in-flight requests.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler exposes the HTTP handler for embedding and tests.
func (s *Server) Handler() http.Handler { return s.httpSrv.Handler }

func (s *Server) frame() Frame {
	return Frame{Tick: s.mgr.Tick(), Agents: s.mgr.Snapshots()}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.frame()); err != nil {
		s.log.Error("encode snapshot", zap.Error(err))
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("ws upgrade", zap.Error(err))
		return
	}
	defer func() { _ = c.Close() }()

	// reader: drain control messages until the peer goes away
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			b, err := json.Marshal(s.frame())
			if err != nil {
				s.log.Error("encode frame", zap.Error(err))
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		}
	}
}
