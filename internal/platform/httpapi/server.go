package httpapi

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/vovakirdan/tui-connect4/internal/config"
	"github.com/vovakirdan/tui-connect4/internal/games/connect4"
)

// Server represents the REST API server.
type Server struct {
	config   config.HTTPConfig
	sessions *Manager
	hub      *Hub
	router   *mux.Router
	logger   *log.Logger
}

// gameResponse is a session's game state as returned by the API.
type gameResponse struct {
	ID string `json:"id"`
	connect4.Snapshot
}

// gameSummary is one entry of the session list.
type gameSummary struct {
	ID        string          `json:"id"`
	Status    connect4.Status `json:"status"`
	Moves     int             `json:"moves"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewServer creates a new API server.
func NewServer(cfg config.HTTPConfig, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithPrefix("connect4-http")

	s := &Server{
		config:   cfg,
		sessions: NewManager(cfg.MaxSessions),
		hub:      NewHub(cfg, logger),
		router:   mux.NewRouter(),
		logger:   logger,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.Use(s.logRequests)

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/games", s.handleCreateGame).Methods(http.MethodPost)
	api.HandleFunc("/games", s.handleListGames).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", s.handleGetGame).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", s.handleDeleteGame).Methods(http.MethodDelete)
	api.HandleFunc("/games/{id}/drop", s.handleDrop).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/reset", s.handleReset).Methods(http.MethodPost)

	s.router.HandleFunc("/ws/games/{id}", s.handleWebSocket)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler. The REST routes work on their own;
// WebSocket clients only receive updates while Run (or Serve) is running.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run starts the background work of the server: the WebSocket hub and
// the expiry of idle sessions. It returns when ctx is done.
func (s *Server) Run(ctx context.Context) {
	go s.hub.Run(ctx)

	if s.config.SessionTTL <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(min(s.config.SessionTTL, time.Minute))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.expireSessions()
		}
	}
}

// expireSessions drops sessions idle for longer than the configured TTL.
func (s *Server) expireSessions() {
	for _, id := range s.sessions.CleanupExpired(s.config.SessionTTL) {
		s.hub.Broadcast(id, EventDeleted, nil)
		s.logger.Info("session expired", "session", id)
	}
}

// ListenAndServe serves HTTP on the configured address until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("httpapi: cannot listen on %s: %w", s.config.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.Run(ctx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "address", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("httpapi: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	return srv.Shutdown(shutdownCtx)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps an error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTooManySessions):
		return http.StatusServiceUnavailable
	case errors.Is(err, connect4.ErrInvalidColumn):
		return http.StatusBadRequest
	case errors.Is(err, connect4.ErrColumnFull), errors.Is(err, connect4.ErrGameOver):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// session looks up the {id} route variable, writing a 404 when unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	sess, err := s.sessions.Get(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return nil, false
	}
	return sess, true
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create()
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	s.logger.Info("session created", "session", sess.ID, "sessions", s.sessions.Len())
	respondJSON(w, http.StatusCreated, gameResponse{ID: sess.ID, Snapshot: sess.Snapshot()})
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	sessions := s.sessions.List()

	out := make([]gameSummary, 0, len(sessions))
	for _, sess := range sessions {
		snap := sess.Snapshot()
		out = append(out, gameSummary{
			ID:        sess.ID,
			Status:    snap.Status,
			Moves:     snap.Moves,
			CreatedAt: sess.CreatedAt,
		})
	}

	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, gameResponse{ID: sess.ID, Snapshot: sess.Snapshot()})
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.sessions.Delete(id); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	s.hub.Broadcast(id, EventDeleted, nil)
	s.logger.Info("session deleted", "session", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Column *int `json:"column"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Column == nil {
		respondError(w, http.StatusBadRequest, "column is required")
		return
	}

	snap, err := sess.Drop(*req.Column)
	if err != nil {
		s.logger.Debug("drop rejected", "session", sess.ID, "column", *req.Column, "error", err)
		respondError(w, statusFor(err), err.Error())
		return
	}

	s.hub.Broadcast(sess.ID, EventState, &snap)
	s.logger.Debug("drop", "session", sess.ID, "column", *req.Column, "status", snap.Status)
	respondJSON(w, http.StatusOK, gameResponse{ID: sess.ID, Snapshot: snap})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	snap := sess.Reset()
	s.hub.Broadcast(sess.ID, EventReset, &snap)
	respondJSON(w, http.StatusOK, gameResponse{ID: sess.ID, Snapshot: snap})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.hub.ServeWS(w, r, sess.ID, sess.Snapshot)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "healthy",
		"sessions": s.sessions.Len(),
	})
}

// statusRecorder captures the response code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack hands the connection over for the WebSocket upgrade.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("httpapi: response does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// logRequests logs every request with its status and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
