// Package api provides the HTTP handlers consuming the chat engine.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"datableed/pkg/catalog"
	"datableed/pkg/engine"
)

const (
	maxMessageLen   = 1000
	maxSessionIDLen = 100
	defaultSession  = "default"
)

type Handler struct {
	catalog *catalog.Catalog
	engine  *engine.Engine
}

func NewHandler(cat *catalog.Catalog, eng *engine.Engine) *Handler {
	return &Handler{catalog: cat, engine: eng}
}

// RegisterRoutes mounts the API endpoints on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/chat", h.Chat)
	r.Post("/api/reset", h.Reset)
	r.Get("/api/characters", h.Characters)
	r.Get("/api/health", h.Health)
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

type chatRequest struct {
	Message   string `json:"message"`
	Character string `json:"character"`
	SessionID string `json:"sessionId"`
}

type chatResponse struct {
	Reply      string `json:"reply"`
	TrustScore int    `json:"trust_score"`
	Persona    string `json:"persona"`
	Outcome    string `json:"outcome"`
	RequestID  string `json:"request_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Chat runs one exchange against the engine. Validation failures are client
// errors; any failure past validation still answers with a well-formed
// reply, because silence breaks the narrative loop.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	reqID := chiMiddleware.GetReqID(r.Context())

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	character := strings.ToLower(strings.TrimSpace(req.Character))
	message := strings.TrimSpace(req.Message)
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = defaultSession
	}

	if character == "" {
		Error(w, http.StatusBadRequest, "character is required")
		return
	}
	if _, ok := h.catalog.Get(character); !ok {
		Error(w, http.StatusBadRequest,
			"unknown character '"+character+"'. Available characters: "+strings.Join(h.catalog.IDs(), ", "))
		return
	}
	if message == "" {
		Error(w, http.StatusBadRequest, "message cannot be empty")
		return
	}
	if utf8.RuneCountInString(message) > maxMessageLen {
		Error(w, http.StatusBadRequest, "message too long (max 1000 characters)")
		return
	}

	slog.Info("Chat request",
		"request_id", reqID, "character", character,
		"session", sessionID, "message_length", len(message))

	res, err := h.engine.HandleChat(r.Context(), sessionID, character, message)
	if err != nil {
		slog.Error("Chat engine fault", "request_id", reqID, "error", err)
		JSON(w, http.StatusOK, chatResponse{
			Reply:      engine.LastResortReply,
			TrustScore: 0,
			Persona:    string(engine.PersonaGuardian),
			Outcome:    string(engine.OutcomeNeutral),
			RequestID:  reqID,
			Error:      "Technical difficulties",
		})
		return
	}

	JSON(w, http.StatusOK, chatResponse{
		Reply:      res.Reply,
		TrustScore: res.TrustScore,
		Persona:    string(res.Persona),
		Outcome:    string(res.Outcome),
		RequestID:  reqID,
	})
}

type resetResponse struct {
	OK             bool   `json:"ok"`
	SessionID      string `json:"session_id"`
	SessionExisted bool   `json:"session_existed"`
	RequestID      string `json:"request_id,omitempty"`
}

// Reset removes a session. Idempotent: resetting an unknown session simply
// reports session_existed=false.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	reqID := chiMiddleware.GetReqID(r.Context())

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		sessionID = defaultSession
	}
	if len(sessionID) > maxSessionIDLen {
		Error(w, http.StatusBadRequest, "invalid session ID")
		return
	}

	existed := h.engine.HandleReset(sessionID)
	slog.Info("Session reset", "request_id", reqID, "session", sessionID, "existed", existed)

	JSON(w, http.StatusOK, resetResponse{
		OK:             true,
		SessionID:      sessionID,
		SessionExisted: existed,
		RequestID:      reqID,
	})
}

// Characters lists the catalog ids; 503 when no catalog was loaded.
func (h *Handler) Characters(w http.ResponseWriter, r *http.Request) {
	if h.catalog.Len() == 0 {
		Error(w, http.StatusServiceUnavailable,
			"character configuration not loaded, check server configuration")
		return
	}
	ids := h.catalog.IDs()
	JSON(w, http.StatusOK, map[string]any{
		"characters": ids,
		"count":      len(ids),
		"request_id": chiMiddleware.GetReqID(r.Context()),
	})
}

// Health reports the degradation state rather than probing the model API;
// a missing credential or empty catalog degrades the service, it never
// takes it down.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	switch {
	case h.engine.DemoMode():
		status = "demo_mode"
	case h.catalog.Len() == 0:
		status = "no_characters"
	}

	JSON(w, http.StatusOK, map[string]any{
		"ok":               true,
		"status":           status,
		"model_configured": !h.engine.DemoMode(),
		"characters":       h.catalog.IDs(),
		"session_count":    h.engine.SessionCount(),
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	})
}
