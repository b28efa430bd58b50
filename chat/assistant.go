package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/furisto/companion/event"
	"github.com/furisto/companion/model"
	"github.com/furisto/companion/shared"
)

const (
	actionPayloadKey = "__task_actions__"
	fallbackReply    = "No response."
)

// ChatMessage is one prior turn of the conversation as supplied by the
// caller.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest carries everything a turn needs. Tasks and history are caller
// state; nothing about the conversation is stored server side.
type ChatRequest struct {
	Message string        `json:"message"`
	Tasks   []Task        `json:"tasks"`
	History []ChatMessage `json:"history"`
}

type Options struct {
	Model        string
	HistoryLimit int
	MaxTokens    int64
	Temperature  float64
	TurnTimeout  time.Duration
}

func DefaultOptions() *Options {
	return &Options{
		Model:        "gpt-4o-mini",
		HistoryLimit: 5,
		MaxTokens:    2000,
		Temperature:  0.7,
		TurnTimeout:  60 * time.Second,
	}
}

type Option func(*Options)

func WithModel(name string) Option {
	return func(o *Options) {
		o.Model = name
	}
}

func WithHistoryLimit(limit int) Option {
	return func(o *Options) {
		o.HistoryLimit = limit
	}
}

func WithMaxTokens(maxTokens int64) Option {
	return func(o *Options) {
		o.MaxTokens = maxTokens
	}
}

func WithTemperature(temperature float64) Option {
	return func(o *Options) {
		o.Temperature = temperature
	}
}

func WithTurnTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.TurnTimeout = timeout
	}
}

// Assistant runs chat turns against a model provider. It holds no
// per-conversation state: each call to Respond builds its context from the
// request alone and uses a fresh action ledger.
type Assistant struct {
	provider model.ModelProvider
	bus      *event.Bus
	metrics  *chatMetricsProvider
	options  *Options
}

func NewAssistant(provider model.ModelProvider, bus *event.Bus, registry *prometheus.Registry, opts ...Option) (*Assistant, error) {
	if provider == nil {
		return nil, shared.Errorf(shared.ErrorSourceConfig, "model provider is required")
	}

	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &Assistant{
		provider: provider,
		bus:      bus,
		metrics:  newChatMetricsProvider(registry),
		options:  options,
	}, nil
}

// Respond runs one chat turn: it builds the conversation context, invokes the
// model with the task tools bound, and returns the reply text. If the model
// recorded any task actions they are appended to the reply as a single JSON
// payload line for the caller to apply.
func (a *Assistant) Respond(ctx context.Context, req *ChatRequest) (string, error) {
	start := time.Now()

	ledger := NewLedger()
	defer ledger.Reset()

	systemPrompt := taskAssistantPrompt + TaskContext(req.Tasks)
	messages := a.buildMessages(req)

	if a.options.TurnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.options.TurnTimeout)
		defer cancel()
	}

	reply, err := a.provider.InvokeModel(ctx, a.options.Model, systemPrompt, messages,
		model.WithTools(TaskTools(ledger)...),
		model.WithMaxTokens(a.options.MaxTokens),
		model.WithTemperature(a.options.Temperature),
	)
	if err != nil {
		a.metrics.ObserveTurn("error", time.Since(start))
		a.publishTurn(Actions{}, model.Usage{}, time.Since(start), true)
		return "", shared.Wrap(shared.ErrorSourceModel, err, "model invocation failed")
	}

	text := reply.Text()
	if text == "" {
		text = fallbackReply
	}

	actions := ledger.Drain()
	if !actions.Empty() {
		payload, err := json.Marshal(map[string]Actions{actionPayloadKey: actions})
		if err != nil {
			a.metrics.ObserveTurn("error", time.Since(start))
			a.publishTurn(actions, reply.Usage, time.Since(start), true)
			return "", shared.Wrap(shared.ErrorSourceModel, err, "encoding action payload")
		}
		text = fmt.Sprintf("%s\n\n%s", text, payload)
	}

	slog.InfoContext(ctx, "chat turn completed",
		"actions", actions.Count(),
		"input_tokens", reply.Usage.InputTokens,
		"output_tokens", reply.Usage.OutputTokens,
		"duration", time.Since(start),
	)

	a.metrics.ObserveTurn("ok", time.Since(start))
	a.metrics.CountActions(actions)
	a.publishTurn(actions, reply.Usage, time.Since(start), false)

	return text, nil
}

func (a *Assistant) buildMessages(req *ChatRequest) []*model.Message {
	history := req.History
	if limit := a.options.HistoryLimit; limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}

	messages := make([]*model.Message, 0, len(history)+1)
	for _, msg := range history {
		switch msg.Role {
		case "user":
			messages = append(messages, model.NewTextMessage(model.MessageSourceUser, msg.Content))
		case "assistant":
			messages = append(messages, model.NewTextMessage(model.MessageSourceModel, msg.Content))
		}
	}
	messages = append(messages, model.NewTextMessage(model.MessageSourceUser, req.Message))

	return messages
}

func (a *Assistant) publishTurn(actions Actions, usage model.Usage, duration time.Duration, failed bool) {
	if a.bus == nil {
		return
	}
	event.Publish(a.bus, event.ChatTurnEvent{
		Created:      len(actions.Create),
		Deleted:      len(actions.Delete),
		Completed:    len(actions.Complete),
		Uncompleted:  len(actions.Uncomplete),
		InputTokens:  usage.InputTokens,
		OutputTokens: usage.OutputTokens,
		Duration:     duration,
		Failed:       failed,
	})
}
