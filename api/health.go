package api

import "net/http"

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Chat     string `json:"chat"`
	Model    string `json:"model,omitempty"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Database: "ok", Chat: "ok", Model: h.modelName}

	if h.store == nil {
		resp.Database = "not configured"
	} else if err := h.store.Ping(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Database = "unreachable"
	}

	if h.assistant == nil {
		resp.Chat = "not configured"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
