// Package server provides the voxhire HTTP API.
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agakshita/voxhire/internal/config"
	"github.com/agakshita/voxhire/internal/engine"
	"github.com/agakshita/voxhire/internal/history"
	"github.com/agakshita/voxhire/internal/interview"
	"github.com/agakshita/voxhire/internal/speech"
)

// Transcriber converts candidate audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Deps collects the server's collaborators.
type Deps struct {
	Store       *interview.Store
	Engine      *engine.Engine
	Transcriber Transcriber
	Audio       *speech.Dir
	Archive     *history.Archive
	Bus         *history.Bus
	Logger      *zap.Logger
}

// Server is the voxhire HTTP API server.
type Server struct {
	config      *config.Config
	store       *interview.Store
	engine      *engine.Engine
	transcriber Transcriber
	audio       *speech.Dir
	archive     *history.Archive
	bus         *history.Bus
	router      chi.Router
	logger      *zap.Logger
}

// New creates a new Server.
func New(cfg *config.Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		config:      cfg,
		store:       deps.Store,
		engine:      deps.Engine,
		transcriber: deps.Transcriber,
		audio:       deps.Audio,
		archive:     deps.Archive,
		bus:         deps.Bus,
		logger:      logger,
	}
	s.router = s.buildRouter()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start runs the HTTP server until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.config.Addr,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("voxhire server listening", zap.String("addr", s.config.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))

	r.Route("/agent", func(r chi.Router) {
		r.Post("/start-interview", s.handleStartInterview)
		r.Post("/process-audio", s.handleProcessAudio)
		r.Post("/next-question", s.handleNextQuestion)
		r.Get("/get-audio/{filename}", s.handleGetAudio)
		r.Get("/get-report/{roomId}", s.handleGetReport)
		r.Get("/rooms/{roomId}/events", s.handleRoomEvents)
	})

	// Health check.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	return r
}

// --- Request/Response types ---

type startInterviewRequest struct {
	RoomID        string `json:"room_id,omitempty"`
	CandidateName string `json:"candidate_name"`
}

type processAudioRequest struct {
	RoomID string `json:"room_id"`
	// Audio is the base64-encoded WAV recording of the candidate's turn.
	Audio string `json:"audio"`
}

type nextQuestionRequest struct {
	RoomID string `json:"room_id"`
}

type stepResponse struct {
	RoomID      string `json:"room_id"`
	Status      string `json:"status"`
	AudioFile   string `json:"audio_file,omitempty"`
	Transcript  string `json:"transcript,omitempty"`
	Rating      string `json:"rating,omitempty"`
	ReportReady bool   `json:"report_ready,omitempty"`
}

type reportResponse struct {
	RoomID string            `json:"room_id"`
	Status string            `json:"status"` // "completed", "in_progress", "no_data"
	Report *interview.Report `json:"report,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// --- Handlers ---

func (s *Server) handleStartInterview(w http.ResponseWriter, r *http.Request) {
	var req startInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CandidateName == "" {
		writeError(w, http.StatusBadRequest, "candidate_name is required")
		return
	}

	roomID := req.RoomID
	if roomID == "" {
		roomID = uuid.New().String()[:8]
	}

	result, err := s.engine.Start(r.Context(), roomID, req.CandidateName)
	if err != nil {
		s.writeStepError(w, roomID, err)
		return
	}

	writeJSON(w, http.StatusCreated, stepResponse{
		RoomID:    roomID,
		Status:    result.Status,
		AudioFile: result.AudioName,
	})
}

func (s *Server) handleProcessAudio(w http.ResponseWriter, r *http.Request) {
	var req processAudioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RoomID == "" {
		writeError(w, http.StatusBadRequest, "room_id is required")
		return
	}

	audio, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		writeError(w, http.StatusBadRequest, "audio must be base64-encoded")
		return
	}

	transcript, err := s.transcriber.Transcribe(r.Context(), audio)
	if err != nil {
		s.logger.Error("transcription failed",
			zap.String("room_id", req.RoomID),
			zap.Error(err))
		writeError(w, http.StatusBadGateway, "transcription failed")
		return
	}

	result, err := s.engine.HandleUtterance(r.Context(), req.RoomID, transcript)
	if err != nil {
		s.writeStepError(w, req.RoomID, err)
		return
	}

	writeJSON(w, http.StatusOK, stepResponse{
		RoomID:      req.RoomID,
		Status:      result.Status,
		AudioFile:   result.AudioName,
		Transcript:  transcript,
		Rating:      string(result.Rating),
		ReportReady: result.ReportReady,
	})
}

func (s *Server) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	var req nextQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RoomID == "" {
		writeError(w, http.StatusBadRequest, "room_id is required")
		return
	}

	result, err := s.engine.ForceNextQuestion(r.Context(), req.RoomID)
	if err != nil {
		s.writeStepError(w, req.RoomID, err)
		return
	}

	writeJSON(w, http.StatusOK, stepResponse{
		RoomID:      req.RoomID,
		Status:      result.Status,
		AudioFile:   result.AudioName,
		ReportReady: result.ReportReady,
	})
}

func (s *Server) handleGetAudio(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	path, err := s.audio.Path(filename)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid audio filename")
		return
	}
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "audio not found")
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	http.ServeFile(w, r, path)
}

// handleGetReport resolves a room's report. A live room answers from its
// session; finished rooms whose sessions are gone fall back to the archive.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")

	if sess, err := s.store.Get(roomID); err == nil {
		sess.Lock()
		report := sess.Report
		state := sess.State
		sess.Unlock()

		switch {
		case report != nil:
			writeJSON(w, http.StatusOK, reportResponse{RoomID: roomID, Status: "completed", Report: report})
		case state == interview.StateDone:
			writeJSON(w, http.StatusOK, reportResponse{RoomID: roomID, Status: "no_data"})
		default:
			writeJSON(w, http.StatusOK, reportResponse{RoomID: roomID, Status: "in_progress"})
		}
		return
	}

	report, err := s.archive.GetReport(roomID)
	if err != nil {
		if errors.Is(err, history.ErrReportNotFound) {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}
		s.logger.Error("loading archived report failed",
			zap.String("room_id", roomID),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}
	writeJSON(w, http.StatusOK, reportResponse{RoomID: roomID, Status: "completed", Report: report})
}

func (s *Server) handleRoomEvents(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")

	// Resuming clients pass the last event ID they saw as ?after=N.
	var after int64
	if v := r.URL.Query().Get("after"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "after must be a non-negative integer")
			return
		}
		after = n
	}

	events, err := s.archive.Events(roomID, after)
	if err != nil {
		s.logger.Error("loading room events failed",
			zap.String("room_id", roomID),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}

	// Set SSE headers.
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// Send historical events first.
	for _, e := range events {
		writeSSE(w, e)
	}
	flusher.Flush()

	// Subscribe to real-time events.
	ch := s.bus.Subscribe(roomID)
	defer s.bus.Unsubscribe(roomID, ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			writeSSE(w, event)
			flusher.Flush()
		}
	}
}

// --- Helpers ---

// writeStepError maps engine errors onto HTTP statuses. Collaborator
// failures are retryable bad gateways because the step did not mutate the
// session.
func (s *Server) writeStepError(w http.ResponseWriter, roomID string, err error) {
	var collab *engine.CollabError
	switch {
	case errors.Is(err, interview.ErrRoomNotFound):
		writeError(w, http.StatusNotFound, "room not found")
	case errors.As(err, &collab):
		s.logger.Error("collaborator failed",
			zap.String("room_id", roomID),
			zap.String("op", collab.Op),
			zap.Error(collab.Err))
		writeError(w, http.StatusBadGateway, collab.Op+" failed")
	default:
		s.logger.Error("interview step failed",
			zap.String("room_id", roomID),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeSSE(w http.ResponseWriter, event *history.Event) {
	data, _ := json.Marshal(event)
	fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", event.ID, event.Type, string(data))
}
