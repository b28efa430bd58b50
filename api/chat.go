package api

import (
	"log/slog"
	"net/http"

	"github.com/furisto/companion/chat"
)

type chatResponse struct {
	Response string `json:"response"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	if h.assistant == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Detail: "chat is not configured"})
		return
	}

	var req chat.ChatRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "message is required"})
		return
	}

	reply, err := h.assistant.Respond(r.Context(), &req)
	if err != nil {
		slog.ErrorContext(r.Context(), "chat turn failed",
			"error", err,
			"tasks", len(req.Tasks),
			"history", len(req.History),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "AI processing error"})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Response: reply})
}
