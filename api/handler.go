package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
	"github.com/tanpawarit/Chative-Cycling-Trip-Planner/pkg/errx"
	logx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/pkg/logger"
)

type ChatRequest struct {
	ThreadID string `json:"thread_id,omitempty"`
	Message  string `json:"message"`
}

type ChatResponse struct {
	ThreadID string `json:"thread_id"`
	Message  string `json:"message"`
}

type errorResponse struct {
	Error    string `json:"error"`
	ThreadID string `json:"thread_id,omitempty"`
}

type Handler struct {
	chat        ChatService
	chatTimeout time.Duration
}

func NewHandler(chat ChatService, chatTimeout time.Duration) *Handler {
	if chatTimeout <= 0 {
		chatTimeout = defaultChatTimeout
	}
	return &Handler{chat: chat, chatTimeout: chatTimeout}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /chat", h.Chat)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /{$}", h.Root)
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		writeError(w, appErr, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.chatTimeout)
	defer cancel()

	reply, err := h.chat.HandleMessage(ctx, req.ThreadID, req.Message)
	if err != nil {
		appErr := errx.FromError(err)
		event := logx.Warn()
		if appErr.Status >= http.StatusInternalServerError {
			event = logx.Error()
		}
		event.Err(err).
			Str("thread_id", reply.ThreadID).
			Int("status", appErr.Status).
			Msg("chat request failed")
		writeError(w, appErr, reply.ThreadID)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{ThreadID: reply.ThreadID, Message: reply.Message})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hello World"})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) *errx.AppError {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			msg := fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)
			return errx.New(fmt.Errorf("%w: %s", contractx.ErrInvalidInput, msg), http.StatusRequestEntityTooLarge, msg)
		}
		return errx.New(fmt.Errorf("%w: %w", contractx.ErrInvalidInput, err), http.StatusBadRequest, "malformed request body")
	}
	return nil
}

func writeError(w http.ResponseWriter, appErr *errx.AppError, threadID string) {
	writeJSON(w, appErr.Status, errorResponse{Error: appErr.Message, ThreadID: threadID})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logx.Error().Err(err).Msg("failed to write response")
	}
}
