// Package server exposes the documentation assistant over HTTP: a REST API
// for asking questions and driving ingestion, and a WebSocket chat endpoint
// with streamed answers.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/docrag/docrag/internal/history"
	"github.com/docrag/docrag/internal/ingest"
	"github.com/docrag/docrag/internal/llm"
)

// Answerer runs the question flow. The boolean distinguishes a grounded
// answer from a policy rejection.
type Answerer interface {
	Answer(ctx context.Context, question string, hist []llm.Message, stream llm.StreamFunc) (bool, string, error)
}

// Ingester runs document ingestion and reports its progress.
type Ingester interface {
	Run(ctx context.Context, folder string) (*ingest.Result, error)
	Progress() float64
}

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Server serves the REST and WebSocket API.
type Server struct {
	cfg      Config
	answerer Answerer
	ingester Ingester
	sessions *history.Store

	mu        sync.Mutex
	ingesting bool

	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all dependencies. The history store may be nil;
// chat sessions are then kept only for the lifetime of each connection.
func New(cfg Config, answerer Answerer, ingester Ingester, sessions *history.Store) *Server {
	s := &Server{
		cfg:      cfg,
		answerer: answerer,
		ingester: ingester,
		sessions: sessions,
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/api/ask", s.handleAsk)
	r.Post("/api/ingest", s.handleIngest)
	r.Get("/api/ingest/progress", s.handleIngestProgress)
	r.Get("/api/sessions", s.handleListSessions)
	r.Delete("/api/sessions/{id}", s.handleDeleteSession)
	r.Get("/ws/chat", s.handleWebSocket)

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("docrag server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

type askRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

type askResponse struct {
	OK        bool   `json:"ok"`
	Answer    string `json:"answer"`
	SessionID string `json:"session_id,omitempty"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	hist, sessionID, err := s.loadHistory(req.SessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}

	ok, answer, err := s.answerer.Answer(r.Context(), req.Question, hist, nil)
	if err != nil {
		log.Printf("server: answer: %v", err)
		writeError(w, http.StatusInternalServerError, "answer generation failed")
		return
	}

	if ok && sessionID != "" {
		s.recordTurn(sessionID, req.Question, answer)
	}
	writeJSON(w, http.StatusOK, askResponse{OK: ok, Answer: answer, SessionID: sessionID})
}

type ingestRequest struct {
	Folder string `json:"folder"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Folder == "" {
		writeError(w, http.StatusBadRequest, "folder is required")
		return
	}

	s.mu.Lock()
	if s.ingesting {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "ingestion already running")
		return
	}
	s.ingesting = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.ingesting = false
			s.mu.Unlock()
		}()
		if _, err := s.ingester.Run(context.Background(), req.Folder); err != nil {
			log.Printf("server: ingestion failed: %v", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

func (s *Server) handleIngestProgress(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	running := s.ingesting
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"running":  running,
		"progress": s.ingester.Progress(),
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	if s.sessions == nil {
		writeJSON(w, http.StatusOK, []history.Session{})
		return
	}
	sessions, err := s.sessions.ListSessions()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "listing sessions failed")
		return
	}
	if sessions == nil {
		sessions = []history.Session{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		writeError(w, http.StatusNotFound, "sessions not configured")
		return
	}
	if err := s.sessions.DeleteSession(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "deleting session failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadHistory resolves the session's prior turns. An empty session ID means a
// stateless question.
func (s *Server) loadHistory(sessionID string) ([]llm.Message, string, error) {
	if sessionID == "" || s.sessions == nil {
		return nil, sessionID, nil
	}
	if _, err := s.sessions.GetSession(sessionID); err != nil {
		return nil, "", err
	}
	hist, err := s.sessions.Messages(sessionID)
	if err != nil {
		return nil, "", err
	}
	return hist, sessionID, nil
}

func (s *Server) recordTurn(sessionID, question, answer string) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.AppendMessage(sessionID, llm.Message{Role: llm.RoleUser, Content: question}); err != nil {
		log.Printf("server: recording question: %v", err)
		return
	}
	if err := s.sessions.AppendMessage(sessionID, llm.Message{Role: llm.RoleAssistant, Content: answer}); err != nil {
		log.Printf("server: recording answer: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
