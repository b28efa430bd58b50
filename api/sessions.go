package api

import (
	"net/http"

	"github.com/furisto/companion/memory"
)

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.ListPlanningSessions(r.Context(), r.URL.Query().Get("project_id"))
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.GetPlanningSession(r.Context(), r.PathValue("id"))
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var create memory.PlanningSessionCreate
	if err := readJSON(r, &create); err != nil {
		badRequest(w, err)
		return
	}
	if create.ProjectID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "projectId is required"})
		return
	}

	session, err := h.store.CreatePlanningSession(r.Context(), create)
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	var update memory.PlanningSessionUpdate
	if err := readJSON(r, &update); err != nil {
		badRequest(w, err)
		return
	}

	session, err := h.store.UpdatePlanningSession(r.Context(), r.PathValue("id"), update)
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeletePlanningSession(r.Context(), r.PathValue("id")); err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Planning session deleted successfully"})
}
