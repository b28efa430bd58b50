package chat_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/furisto/companion/chat"
	"github.com/furisto/companion/model"
)

type stubCall struct {
	tool string
	args string
}

// stubProvider returns a canned reply after dispatching any configured tool
// calls against the bound capability table, the way a real provider would.
type stubProvider struct {
	replyText string
	calls     []stubCall
	err       error

	gotModel    string
	gotSystem   string
	gotMessages []*model.Message
}

func (s *stubProvider) InvokeModel(ctx context.Context, modelName, systemPrompt string, messages []*model.Message, opts ...model.InvokeModelOption) (*model.Message, error) {
	options := model.DefaultInvokeModelOptions()
	for _, opt := range opts {
		opt(options)
	}

	s.gotModel = modelName
	s.gotSystem = systemPrompt
	s.gotMessages = messages

	if s.err != nil {
		return nil, s.err
	}

	for _, call := range s.calls {
		for _, candidate := range options.Tools {
			if candidate.Name == call.tool {
				if _, err := candidate.Call(ctx, json.RawMessage(call.args)); err != nil {
					return nil, err
				}
			}
		}
	}

	var content []model.ContentBlock
	if s.replyText != "" {
		content = append(content, &model.TextBlock{Text: s.replyText})
	}
	return model.NewModelMessage(content, model.Usage{InputTokens: 10, OutputTokens: 5}), nil
}

func TestAssistant_RequiresProvider(t *testing.T) {
	t.Parallel()

	if _, err := chat.NewAssistant(nil, nil, nil); err == nil {
		t.Error("expected error for nil provider")
	}
}

func TestAssistant_PlainReplyUnchanged(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{replyText: "Hello there!"}
	assistant, err := chat.NewAssistant(provider, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	got, err := assistant.Respond(context.Background(), &chat.ChatRequest{Message: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "Hello there!" {
		t.Errorf("reply should be unchanged when no actions recorded, got %q", got)
	}
}

func TestAssistant_AppendsActionPayload(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		replyText: "Added it to your list.",
		calls: []stubCall{
			{tool: "create_task", args: `{"title":"buy milk","priority":"high"}`},
		},
	}
	assistant, err := chat.NewAssistant(provider, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	got, err := assistant.Respond(context.Background(), &chat.ChatRequest{Message: "add buy milk, high priority"})
	if err != nil {
		t.Fatal(err)
	}

	want := "Added it to your list.\n\n" +
		`{"__task_actions__":{"create":[{"title":"buy milk","priority":"high"}],"delete":[],"complete":[],"uncomplete":[]}}`
	if got != want {
		t.Errorf("reply mismatch:\ngot  %q\nwant %q", got, want)
	}
}

func TestAssistant_FallbackReply(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{replyText: ""}
	assistant, err := chat.NewAssistant(provider, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	got, err := assistant.Respond(context.Background(), &chat.ChatRequest{Message: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	if got == "" {
		t.Error("expected a fallback reply for an empty model response")
	}
}

func TestAssistant_InjectsTaskContext(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{replyText: "ok"}
	assistant, err := chat.NewAssistant(provider, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	req := &chat.ChatRequest{
		Message: "what is open?",
		Tasks: []chat.Task{
			{ID: "t1", Title: "buy milk", Status: "todo", Priority: "high"},
		},
	}
	if _, err := assistant.Respond(context.Background(), req); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(provider.gotSystem, "- ID: t1, Title: buy milk, Priority: high") {
		t.Errorf("system prompt missing task context: %q", provider.gotSystem)
	}
}

func TestAssistant_TrimsHistory(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{replyText: "ok"}
	assistant, err := chat.NewAssistant(provider, nil, nil, chat.WithHistoryLimit(5))
	if err != nil {
		t.Fatal(err)
	}

	history := make([]chat.ChatMessage, 0, 8)
	for i := range 8 {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		history = append(history, chat.ChatMessage{Role: role, Content: fmt.Sprintf("message %d", i)})
	}

	req := &chat.ChatRequest{Message: "latest", History: history}
	if _, err := assistant.Respond(context.Background(), req); err != nil {
		t.Fatal(err)
	}

	// 5 history turns plus the new user message.
	if len(provider.gotMessages) != 6 {
		t.Fatalf("expected 6 messages, got %d", len(provider.gotMessages))
	}
	if got := provider.gotMessages[0].Text(); got != "message 3" {
		t.Errorf("history should keep the most recent turns, first was %q", got)
	}
	last := provider.gotMessages[len(provider.gotMessages)-1]
	if last.Text() != "latest" || last.Source != model.MessageSourceUser {
		t.Errorf("last message must be the new user message, got %+v", last)
	}
}

func TestAssistant_ModelFailure(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{err: errors.New("boom")}
	assistant, err := chat.NewAssistant(provider, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := assistant.Respond(context.Background(), &chat.ChatRequest{Message: "hi"}); err == nil {
		t.Error("expected error when provider fails")
	}
}
