// Package audiobook exposes the novel extraction engine and its
// collaborators over HTTP.
package audiobook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akshat6745/audiobook-fullstack/config"
	"github.com/akshat6745/audiobook-fullstack/extract"
	"github.com/akshat6745/audiobook-fullstack/novel"
)

// NovelLister lists the available novel names.
type NovelLister interface {
	Novels(ctx context.Context) ([]string, error)
}

// ChapterExtractor is the extraction engine's public surface.
type ChapterExtractor interface {
	ListChapters(ctx context.Context, novelID string, page int) (*extract.ChapterListResult, error)
	ChapterContent(ctx context.Context, novelID string, chapterNumber int) (*extract.ChapterContent, error)
}

// Synthesizer converts text to an audio byte stream. An empty voice selects
// the synthesizer's default.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) (io.ReadCloser, error)
}

// APIServer represents the HTTP API server.
type APIServer struct {
	library NovelLister
	novels  ChapterExtractor
	tts     Synthesizer

	cors           config.CORSConfig
	metricsHandler http.Handler
	log            *slog.Logger
}

// NewAPIServer wires the API over its collaborators. metricsHandler may be
// nil, in which case /metrics is not served.
func NewAPIServer(lister NovelLister, extractor ChapterExtractor, synth Synthesizer, cors config.CORSConfig, metricsHandler http.Handler, log *slog.Logger) *APIServer {
	if log == nil {
		log = slog.Default()
	}
	return &APIServer{
		library:        lister,
		novels:         extractor,
		tts:            synth,
		cors:           cors,
		metricsHandler: metricsHandler,
		log:            log,
	}
}

// ErrorResponse is the error envelope for every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Handler returns the fully wired HTTP handler: routes, CORS, request
// logging.
func (s *APIServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/novels", s.HandleNovels)
	mux.HandleFunc("/chapters/", s.HandleChapters)
	mux.HandleFunc("/chapter", s.HandleChapter)
	mux.HandleFunc("/tts", s.HandleTTS)
	mux.HandleFunc("/healthz", s.HandleHealth)
	if s.metricsHandler != nil {
		mux.Handle("/metrics", s.metricsHandler)
	}

	return s.CORSMiddleware(s.loggingMiddleware(mux))
}

// HandleNovels handles GET /novels.
func (s *APIServer) HandleNovels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	novels, err := s.library.Novels(r.Context())
	if err != nil {
		s.log.Error("listing novels failed", slog.Any("error", err))
		s.writeError(w, http.StatusBadGateway, "listing_failed", "Could not fetch novel listing")
		return
	}
	if novels == nil {
		novels = []string{}
	}

	s.writeJSON(w, http.StatusOK, novels)
}

// HandleChapters handles GET /chapters/{novelName}?page=N.
func (s *APIServer) HandleChapters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	novelName := strings.Trim(strings.TrimPrefix(r.URL.Path, "/chapters/"), "/")
	if novelName == "" || strings.Contains(novelName, "/") {
		s.writeError(w, http.StatusBadRequest, "invalid_parameter", "Novel name is required")
		return
	}

	page := 1
	if pageParam := r.URL.Query().Get("page"); pageParam != "" {
		parsed, err := strconv.Atoi(pageParam)
		if err != nil || parsed < 1 {
			s.writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid page parameter")
			return
		}
		page = parsed
	}

	result, err := s.novels.ListChapters(r.Context(), novelName, page)
	if err != nil {
		s.writeExtractionError(w, err, "Could not extract chapter listing")
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// HandleChapter handles GET /chapter?novelName=X&chapterNumber=N.
func (s *APIServer) HandleChapter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	query := r.URL.Query()
	novelName := query.Get("novelName")
	if novelName == "" {
		s.writeError(w, http.StatusBadRequest, "invalid_parameter", "novelName is required")
		return
	}

	chapterNumber, err := strconv.Atoi(query.Get("chapterNumber"))
	if err != nil || chapterNumber < 1 {
		s.writeError(w, http.StatusBadRequest, "invalid_parameter", "chapterNumber must be a positive integer")
		return
	}

	content, err := s.novels.ChapterContent(r.Context(), novelName, chapterNumber)
	if err != nil {
		s.writeExtractionError(w, err, "Could not extract chapter content")
		return
	}

	s.writeJSON(w, http.StatusOK, content)
}

// TTSRequest is the POST /tts payload.
type TTSRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// HandleTTS handles POST /tts, streaming the synthesized audio back.
func (s *APIServer) HandleTTS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	var req TTSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeError(w, http.StatusBadRequest, "invalid_parameter", "text is required")
		return
	}

	audio, err := s.tts.Synthesize(r.Context(), req.Text, req.Voice)
	if err != nil {
		s.log.Error("synthesis failed", slog.Any("error", err))
		s.writeError(w, http.StatusBadGateway, "synthesis_failed", "Could not synthesize audio")
		return
	}
	defer audio.Close()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", "attachment; filename=speech.mp3")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, audio); err != nil {
		s.log.Warn("audio stream interrupted", slog.Any("error", err))
	}
}

// HandleHealth handles GET /healthz.
func (s *APIServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeExtractionError maps the extraction error taxonomy onto HTTP. Only
// generic signals reach the caller; per-attempt detail stays in the logs.
func (s *APIServer) writeExtractionError(w http.ResponseWriter, err error, message string) {
	var invalid *novel.InvalidInputError
	if errors.As(err, &invalid) {
		s.writeError(w, http.StatusBadRequest, "invalid_parameter", invalid.Error())
		return
	}

	var exhausted *novel.ExhaustedRetriesError
	if errors.As(err, &exhausted) {
		s.writeError(w, http.StatusBadGateway, "extraction_failed", message)
		return
	}

	s.log.Error("unexpected extraction error", slog.Any("error", err))
	s.writeError(w, http.StatusInternalServerError, "internal_error", message)
}

// writeJSON writes a JSON response.
func (s *APIServer) writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeError writes an error response envelope.
func (s *APIServer) writeError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// CORSMiddleware adds the configured CORS headers and answers preflight
// requests.
func (s *APIServer) CORSMiddleware(next http.Handler) http.Handler {
	origins := joinOrDefault(s.cors.Origins, "*")
	methods := joinOrDefault(s.cors.Methods, "GET, POST, OPTIONS")
	headers := joinOrDefault(s.cors.Headers, "Content-Type, Authorization")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origins)
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.Header().Set("Access-Control-Allow-Headers", headers)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func joinOrDefault(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}

// loggingMiddleware tags each request with an ID and logs its outcome.
func (s *APIServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(recorder, r)

		s.log.Info("request",
			slog.String("request_id", requestID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", recorder.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
