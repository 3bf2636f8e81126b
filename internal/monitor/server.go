package monitor

import (
	"context"
	"net/http"
	"sync"

	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/config"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/model"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/pkg/apperrors"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/pkg/logger"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the optional read-only monitoring API that runs beside the
// simulation: round summaries so far, the shadow reputation snapshot,
// prometheus metrics and a websocket feed of completed rounds.
type Server struct {
	cfg    config.MonitorConfig
	shadow repository.ShadowStore

	mu     sync.RWMutex
	rounds []model.RoundSummary

	upgrader websocket.Upgrader
	subsMu   sync.Mutex
	subs     map[*websocket.Conn]struct{}

	srv *http.Server
}

func NewServer(cfg config.MonitorConfig, shadow repository.ShadowStore) *Server {
	return &Server{
		cfg:    cfg,
		shadow: shadow,
		upgrader: websocket.Upgrader{
			// local monitoring endpoint, no cross-origin concerns
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		subs: make(map[*websocket.Conn]struct{}),
	}
}

// RoundCompleted records a finished round and pushes it to websocket
// subscribers. Wired as the engine's round sink.
func (s *Server) RoundCompleted(summary model.RoundSummary) {
	s.mu.Lock()
	s.rounds = append(s.rounds, summary)
	s.mu.Unlock()

	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for conn := range s.subs {
		if err := conn.WriteJSON(summary); err != nil {
			conn.Close()
			delete(s.subs, conn)
		}
	}
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "reputrade-sim"})
	})

	path := s.cfg.Path
	if path == "" {
		path = "/metrics"
	}
	r.GET(path, gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		v1.GET("/rounds", s.handleRounds)
		v1.GET("/participants", s.handleParticipants)
		v1.GET("/stream", s.handleStream)
	}
	return r
}

func (s *Server) handleRounds(c *gin.Context) {
	s.mu.RLock()
	rounds := make([]model.RoundSummary, len(s.rounds))
	copy(rounds, s.rounds)
	s.mu.RUnlock()
	c.JSON(http.StatusOK, gin.H{"rounds": rounds})
}

func (s *Server) handleParticipants(c *gin.Context) {
	snapshot, err := s.shadow.Snapshot(c.Request.Context())
	if err != nil {
		appErr := apperrors.Wrap(err)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"participants": snapshot})
}

func (s *Server) handleStream(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	s.subsMu.Lock()
	s.subs[conn] = struct{}{}
	s.subsMu.Unlock()
}

func (s *Server) Start() {
	s.srv = &http.Server{
		Addr:    ":" + s.cfg.Port,
		Handler: s.router(),
	}
	go func() {
		logger.Info("monitor API started", "port", s.cfg.Port)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("monitor listen failed", "error", err.Error())
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	s.subsMu.Lock()
	for conn := range s.subs {
		conn.Close()
		delete(s.subs, conn)
	}
	s.subsMu.Unlock()

	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
