package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/furisto/companion/api"
	"github.com/furisto/companion/chat"
	"github.com/furisto/companion/memory"
)

type fakeAssistant struct {
	reply string
	err   error

	gotRequest *chat.ChatRequest
}

func (f *fakeAssistant) Respond(ctx context.Context, req *chat.ChatRequest) (string, error) {
	f.gotRequest = req
	return f.reply, f.err
}

func newTestServer(t *testing.T, assistant api.ChatAssistant) (*httptest.Server, *memory.Store) {
	t.Helper()
	store, err := memory.Open(filepath.Join(t.TempDir(), "companion.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	handler := api.NewHandler(api.HandlerOptions{
		Store:       store,
		Assistant:   assistant,
		CORSOrigins: []string{"http://localhost:5173"},
	})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, store
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestChatEndpoint(t *testing.T) {
	t.Parallel()

	assistant := &fakeAssistant{reply: "All done."}
	server, _ := newTestServer(t, assistant)

	resp := postJSON(t, server.URL+"/api/chat", map[string]any{
		"message": "add buy milk",
		"tasks": []map[string]string{
			{"id": "t1", "title": "walk dog", "status": "todo", "priority": "low"},
		},
		"history": []map[string]string{
			{"role": "user", "content": "hello"},
		},
	})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decode[map[string]string](t, resp)
	if body["response"] != "All done." {
		t.Errorf("unexpected response body: %v", body)
	}

	if assistant.gotRequest == nil || assistant.gotRequest.Message != "add buy milk" {
		t.Errorf("assistant received wrong request: %+v", assistant.gotRequest)
	}
	if len(assistant.gotRequest.Tasks) != 1 || len(assistant.gotRequest.History) != 1 {
		t.Errorf("tasks/history not forwarded: %+v", assistant.gotRequest)
	}
}

func TestChatEndpoint_GenericErrorOnFailure(t *testing.T) {
	t.Parallel()

	assistant := &fakeAssistant{err: errors.New("provider exploded: secret details")}
	server, _ := newTestServer(t, assistant)

	resp := postJSON(t, server.URL+"/api/chat", map[string]any{"message": "hi"})

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	body := decode[map[string]string](t, resp)
	if body["detail"] != "AI processing error" {
		t.Errorf("error detail must be generic, got %q", body["detail"])
	}
}

func TestChatEndpoint_UnavailableWithoutAssistant(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, nil)

	resp := postJSON(t, server.URL+"/api/chat", map[string]any{"message": "hi"})
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", resp.StatusCode)
	}
}

func TestChatEndpoint_RequiresMessage(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, &fakeAssistant{reply: "ok"})

	resp := postJSON(t, server.URL+"/api/chat", map[string]any{"message": ""})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestProjectCRUD(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, nil)

	resp := postJSON(t, server.URL+"/api/projects", map[string]any{
		"title": "learn piano",
		"tags":  []string{"music"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create: expected 200, got %d", resp.StatusCode)
	}
	project := decode[memory.Project](t, resp)
	if project.ID == "" || project.Title != "learn piano" {
		t.Fatalf("unexpected project: %+v", project)
	}

	getResp, err := http.Get(server.URL + "/api/projects/" + project.ID)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", getResp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodDelete, server.URL+"/api/projects/"+project.ID, nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete project: %v", err)
	}
	defer delResp.Body.Close()
	if delResp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", delResp.StatusCode)
	}

	missing, err := http.Get(server.URL + "/api/projects/" + project.ID)
	if err != nil {
		t.Fatalf("get deleted project: %v", err)
	}
	defer missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", missing.StatusCode)
	}
}

func TestTaskEndpointValidation(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, nil)

	resp := postJSON(t, server.URL+"/api/tasks", map[string]any{"title": "no project"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for task without project, got %d", resp.StatusCode)
	}
}

func TestTaskStatusRoundTrip(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, nil)

	projectResp := postJSON(t, server.URL+"/api/projects", map[string]any{"title": "p"})
	project := decode[memory.Project](t, projectResp)

	taskResp := postJSON(t, server.URL+"/api/tasks", map[string]any{
		"projectId": project.ID,
		"title":     "practice",
	})
	if taskResp.StatusCode != http.StatusOK {
		t.Fatalf("create task: expected 200, got %d", taskResp.StatusCode)
	}
	task := decode[memory.Task](t, taskResp)

	data, _ := json.Marshal(map[string]string{"status": "done"})
	req, _ := http.NewRequest(http.MethodPut, server.URL+"/api/tasks/"+task.ID, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	updateResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("update task: %v", err)
	}
	defer updateResp.Body.Close()

	updated := decode[memory.Task](t, updateResp)
	if updated.Status != "done" || updated.CompletedAt == nil {
		t.Errorf("expected completed task, got %+v", updated)
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, nil)

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decode[map[string]string](t, resp)
	if body["status"] != "ok" || body["database"] != "ok" {
		t.Errorf("unexpected health body: %v", body)
	}
	if body["chat"] != "not configured" {
		t.Errorf("chat should report not configured, got %q", body["chat"])
	}
}

func TestCORSHeaders(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, nil)

	req, _ := http.NewRequest(http.MethodOptions, server.URL+"/api/projects", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("options request: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("expected allowed origin header, got %q", got)
	}

	req, _ = http.NewRequest(http.MethodOptions, server.URL+"/api/projects", nil)
	req.Header.Set("Origin", "http://evil.example")
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("options request: %v", err)
	}
	defer resp2.Body.Close()

	if got := resp2.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unexpected origin header for disallowed origin: %q", got)
	}
}
