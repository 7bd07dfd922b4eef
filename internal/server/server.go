// Package server exposes the agent over HTTP: a chat message endpoint plus
// resume upload and composed-document download.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/chandan/job-agent/internal/agent"
	"github.com/chandan/job-agent/internal/server/ratelimit"
)

// maxUploadBytes bounds a resume upload.
const maxUploadBytes = 10 << 20

// Config holds server configuration.
type Config struct {
	Port int
	// Burst and Rate bound one client's message throughput.
	Burst int
	Rate  float64
}

// Server is the HTTP front end of the agent.
type Server struct {
	httpServer *http.Server
	agent      *agent.Agent
	limiter    *ratelimit.Limiter
	validate   *validator.Validate
}

// New creates the server around an agent.
func New(cfg Config, ag *agent.Agent) *Server {
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}

	s := &Server{
		agent:    ag,
		limiter:  ratelimit.NewLimiter(cfg.Burst, cfg.Rate),
		validate: validator.New(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /message", s.handleMessage)
	mux.HandleFunc("POST /users/{id}/resume", s.handleResumeUpload)
	mux.HandleFunc("GET /users/{id}/document", s.handleDocument)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // searches and model calls can be slow
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[SERVER] listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[SERVER] error: %v", err)
		}
	}()

	<-stop
	log.Println("[SERVER] shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

type messageRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Text   string `json:"text" validate:"required,max=4096"`
}

type messageResponse struct {
	Reply       string `json:"reply"`
	DocumentURL string `json:"document_url,omitempty"`
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	if !s.limiter.Allow(req.UserID) {
		writeError(w, http.StatusTooManyRequests, "too many messages, slow down")
		return
	}

	reply, err := s.agent.HandleMessage(r.Context(), req.UserID, req.Text)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			writeError(w, http.StatusConflict, "superseded by a newer message")
			return
		}
		log.Printf("[SERVER] message handling failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := messageResponse{Reply: reply.Text}
	if reply.DocumentPath != "" {
		resp.DocumentURL = fmt.Sprintf("/users/%s/document", req.UserID)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResumeUpload(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if !s.limiter.Allow(userID) {
		writeError(w, http.StatusTooManyRequests, "too many requests, slow down")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected a multipart upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	reply, err := s.agent.UploadResume(r.Context(), userID, header.Filename, data)
	if err != nil {
		log.Printf("[SERVER] resume upload failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Reply: reply.Text})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	st := s.agent.Sessions.Peek(userID)
	if st.DocumentPath == "" {
		writeError(w, http.StatusNotFound, "no composed document yet, use /compose first")
		return
	}
	if _, err := os.Stat(st.DocumentPath); err != nil {
		writeError(w, http.StatusNotFound, "document no longer available")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, st.DocumentPath)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		w.Header().Set("X-Request-ID", requestID)
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[SERVER] %s %s %s (%s)", requestID[:8], r.Method, r.URL.Path, time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[SERVER] failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
