package api

import (
	"net/http"

	"github.com/furisto/companion/memory"
)

func (h *Handler) handleListMilestones(w http.ResponseWriter, r *http.Request) {
	milestones, err := h.store.ListMilestones(r.Context(), r.URL.Query().Get("project_id"))
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, milestones)
}

func (h *Handler) handleGetMilestone(w http.ResponseWriter, r *http.Request) {
	milestone, err := h.store.GetMilestone(r.Context(), r.PathValue("id"))
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, milestone)
}

func (h *Handler) handleCreateMilestone(w http.ResponseWriter, r *http.Request) {
	var create memory.MilestoneCreate
	if err := readJSON(r, &create); err != nil {
		badRequest(w, err)
		return
	}
	if create.ProjectID == "" || create.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "projectId and title are required"})
		return
	}

	milestone, err := h.store.CreateMilestone(r.Context(), create)
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, milestone)
}

func (h *Handler) handleUpdateMilestone(w http.ResponseWriter, r *http.Request) {
	var update memory.MilestoneUpdate
	if err := readJSON(r, &update); err != nil {
		badRequest(w, err)
		return
	}

	milestone, err := h.store.UpdateMilestone(r.Context(), r.PathValue("id"), update)
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, milestone)
}

func (h *Handler) handleDeleteMilestone(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteMilestone(r.Context(), r.PathValue("id")); err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Milestone deleted successfully"})
}
