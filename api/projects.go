package api

import (
	"net/http"

	"github.com/furisto/companion/memory"
)

func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.ListProjects(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *Handler) handleGetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.store.GetProject(r.Context(), r.PathValue("id"))
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *Handler) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var create memory.ProjectCreate
	if err := readJSON(r, &create); err != nil {
		badRequest(w, err)
		return
	}
	if create.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "title is required"})
		return
	}

	project, err := h.store.CreateProject(r.Context(), create)
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *Handler) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var update memory.ProjectUpdate
	if err := readJSON(r, &update); err != nil {
		badRequest(w, err)
		return
	}

	project, err := h.store.UpdateProject(r.Context(), r.PathValue("id"), update)
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *Handler) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteProject(r.Context(), r.PathValue("id")); err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Project deleted successfully"})
}
