package api

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/furisto/companion/chat"
	"github.com/furisto/companion/event"
	"github.com/furisto/companion/memory"
)

// ChatAssistant is the slice of the chat module the API needs. It is nil
// when no model credentials are configured; the task CRUD keeps working.
type ChatAssistant interface {
	Respond(ctx context.Context, req *chat.ChatRequest) (string, error)
}

type HandlerOptions struct {
	Store       *memory.Store
	Assistant   ChatAssistant
	Bus         *event.Bus
	Metrics     *prometheus.Registry
	CORSOrigins []string
	ModelName   string
}

type Handler struct {
	store     *memory.Store
	assistant ChatAssistant
	bus       *event.Bus
	modelName string
	mux       *http.ServeMux
}

func NewHandler(opts HandlerOptions) http.Handler {
	handler := &Handler{
		store:     opts.Store,
		assistant: opts.Assistant,
		bus:       opts.Bus,
		modelName: opts.ModelName,
		mux:       http.NewServeMux(),
	}

	handler.mux.HandleFunc("POST /api/chat", handler.handleChat)

	handler.mux.HandleFunc("GET /api/projects", handler.handleListProjects)
	handler.mux.HandleFunc("POST /api/projects", handler.handleCreateProject)
	handler.mux.HandleFunc("GET /api/projects/{id}", handler.handleGetProject)
	handler.mux.HandleFunc("PUT /api/projects/{id}", handler.handleUpdateProject)
	handler.mux.HandleFunc("DELETE /api/projects/{id}", handler.handleDeleteProject)

	handler.mux.HandleFunc("GET /api/milestones", handler.handleListMilestones)
	handler.mux.HandleFunc("POST /api/milestones", handler.handleCreateMilestone)
	handler.mux.HandleFunc("GET /api/milestones/{id}", handler.handleGetMilestone)
	handler.mux.HandleFunc("PUT /api/milestones/{id}", handler.handleUpdateMilestone)
	handler.mux.HandleFunc("DELETE /api/milestones/{id}", handler.handleDeleteMilestone)

	handler.mux.HandleFunc("GET /api/tasks", handler.handleListTasks)
	handler.mux.HandleFunc("POST /api/tasks", handler.handleCreateTask)
	handler.mux.HandleFunc("GET /api/tasks/{id}", handler.handleGetTask)
	handler.mux.HandleFunc("PUT /api/tasks/{id}", handler.handleUpdateTask)
	handler.mux.HandleFunc("DELETE /api/tasks/{id}", handler.handleDeleteTask)

	handler.mux.HandleFunc("GET /api/sessions", handler.handleListSessions)
	handler.mux.HandleFunc("POST /api/sessions", handler.handleCreateSession)
	handler.mux.HandleFunc("GET /api/sessions/{id}", handler.handleGetSession)
	handler.mux.HandleFunc("PUT /api/sessions/{id}", handler.handleUpdateSession)
	handler.mux.HandleFunc("DELETE /api/sessions/{id}", handler.handleDeleteSession)

	handler.mux.HandleFunc("GET /health", handler.handleHealth)

	if opts.Metrics != nil {
		handler.mux.Handle("GET /metrics", promhttp.HandlerFor(opts.Metrics, promhttp.HandlerOpts{}))
	}

	var h http.Handler = handler.mux
	h = corsMiddleware(opts.CORSOrigins, h)
	h = requestLogMiddleware(h)
	return h
}
