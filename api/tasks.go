package api

import (
	"net/http"

	"github.com/furisto/companion/event"
	"github.com/furisto/companion/memory"
)

func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	filter := memory.TaskFilter{
		ProjectID:   r.URL.Query().Get("project_id"),
		MilestoneID: r.URL.Query().Get("milestone_id"),
		Status:      r.URL.Query().Get("status"),
	}
	tasks, err := h.store.ListTasks(r.Context(), filter)
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.store.GetTask(r.Context(), r.PathValue("id"))
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var create memory.TaskCreate
	if err := readJSON(r, &create); err != nil {
		badRequest(w, err)
		return
	}
	if create.ProjectID == "" || create.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "projectId and title are required"})
		return
	}

	task, err := h.store.CreateTask(r.Context(), create)
	if err != nil {
		apiError(w, err)
		return
	}
	h.publishTaskChange(task, "created")
	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var update memory.TaskUpdate
	if err := readJSON(r, &update); err != nil {
		badRequest(w, err)
		return
	}

	task, err := h.store.UpdateTask(r.Context(), r.PathValue("id"), update)
	if err != nil {
		apiError(w, err)
		return
	}
	h.publishTaskChange(task, "updated")
	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.DeleteTask(r.Context(), id); err != nil {
		apiError(w, err)
		return
	}
	if h.bus != nil {
		event.Publish(h.bus, event.TaskChangedEvent{TaskID: id, Change: "deleted"})
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}

func (h *Handler) publishTaskChange(task *memory.Task, change string) {
	if h.bus == nil {
		return
	}
	event.Publish(h.bus, event.TaskChangedEvent{
		TaskID:    task.ID,
		ProjectID: task.ProjectID,
		Change:    change,
	})
}
