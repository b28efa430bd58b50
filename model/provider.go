package model

import (
	"context"
	"fmt"
	"time"

	"github.com/furisto/companion/tool"
)

// ModelProvider is the single suspension point of a chat turn. InvokeModel
// sends the conversation to the backing service with tool calling enabled;
// any tool calls the model issues are dispatched synchronously against the
// bound tools before the final message is returned.
type ModelProvider interface {
	InvokeModel(ctx context.Context, model, systemPrompt string, messages []*Message, opts ...InvokeModelOption) (*Message, error)
}

type InvokeModelOptions struct {
	Tools         []tool.Tool
	MaxTokens     int64
	Temperature   float64
	MaxToolRounds int
}

func DefaultInvokeModelOptions() *InvokeModelOptions {
	return &InvokeModelOptions{
		MaxTokens:     2000,
		Temperature:   0.7,
		MaxToolRounds: 8,
	}
}

type InvokeModelOption func(*InvokeModelOptions)

func WithTools(tools ...tool.Tool) InvokeModelOption {
	return func(o *InvokeModelOptions) {
		o.Tools = tools
	}
}

func WithMaxTokens(maxTokens int64) InvokeModelOption {
	return func(o *InvokeModelOptions) {
		o.MaxTokens = maxTokens
	}
}

func WithTemperature(temperature float64) InvokeModelOption {
	return func(o *InvokeModelOptions) {
		o.Temperature = temperature
	}
}

func WithMaxToolRounds(rounds int) InvokeModelOption {
	return func(o *InvokeModelOptions) {
		o.MaxToolRounds = rounds
	}
}

type ProviderOptions struct {
	URL string
}

type ProviderOption func(*ProviderOptions)

func WithURL(url string) ProviderOption {
	return func(options *ProviderOptions) {
		options.URL = url
	}
}

// dispatchToolCall resolves a single tool call against the bound capability
// table. Failures are reported back to the model as unsuccessful results, not
// as turn errors.
func dispatchToolCall(ctx context.Context, tools []tool.Tool, call *ToolCallBlock) *ToolResultBlock {
	for _, t := range tools {
		if t.Name != call.Tool {
			continue
		}

		result, err := t.Call(ctx, call.Args)
		if err != nil {
			return &ToolResultBlock{ID: call.ID, Name: call.Tool, Result: err.Error(), Succeeded: false}
		}
		return &ToolResultBlock{ID: call.ID, Name: call.Tool, Result: result, Succeeded: true}
	}

	return &ToolResultBlock{
		ID:        call.ID,
		Name:      call.Tool,
		Result:    fmt.Sprintf("unknown tool: %s", call.Tool),
		Succeeded: false,
	}
}

func validateInvokeInput(model, systemPrompt string, messages []*Message) error {
	if model == "" {
		return fmt.Errorf("model is required")
	}
	if systemPrompt == "" {
		return fmt.Errorf("system prompt is required")
	}
	if len(messages) == 0 {
		return fmt.Errorf("at least one message is required")
	}
	return nil
}

type ProviderError struct {
	Provider   string
	RetryAfter time.Duration
	Err        error
	Kind       ProviderErrorKind
}

func NewProviderError(provider string, kind ProviderErrorKind, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Kind:     kind,
		Err:      err,
	}
}

func (pe *ProviderError) Message() string {
	switch pe.Kind {
	case ProviderErrorKindInvalidRequest:
		return "Invalid request format or content"
	case ProviderErrorKindRateLimitExceeded:
		if pe.RetryAfter > 0 {
			return fmt.Sprintf("Rate limit exceeded, retry after %s", pe.RetryAfter)
		}
		return "Rate limit exceeded"
	case ProviderErrorKindOverloaded:
		return "API temporarily overloaded"
	case ProviderErrorKindInternal:
		return "Internal server error"
	case ProviderErrorKindTimeout:
		return "Request timeout"
	case ProviderErrorKindCanceled:
		return "Request canceled"
	default:
		return "Unknown error"
	}
}

func (pe *ProviderError) Error() string {
	if pe.Err != nil {
		return fmt.Sprintf("%s: %s: %s", pe.Provider, pe.Message(), pe.Err.Error())
	}
	return fmt.Sprintf("%s: %s", pe.Provider, pe.Message())
}

func (pe *ProviderError) Unwrap() error {
	return pe.Err
}

type ProviderErrorKind string

const (
	ProviderErrorKindInvalidRequest    ProviderErrorKind = "invalid_request"
	ProviderErrorKindRateLimitExceeded ProviderErrorKind = "rate_limit_exceeded"
	ProviderErrorKindOverloaded        ProviderErrorKind = "overloaded"
	ProviderErrorKindInternal          ProviderErrorKind = "internal"
	ProviderErrorKindTimeout           ProviderErrorKind = "timeout"
	ProviderErrorKindCanceled          ProviderErrorKind = "canceled"
	ProviderErrorKindUnknown           ProviderErrorKind = "unknown"
)

func errorKindFromStatus(statusCode int) ProviderErrorKind {
	switch {
	case statusCode == 400 || statusCode == 404 || statusCode == 422:
		return ProviderErrorKindInvalidRequest
	case statusCode == 408:
		return ProviderErrorKindTimeout
	case statusCode == 429:
		return ProviderErrorKindRateLimitExceeded
	case statusCode == 529:
		return ProviderErrorKindOverloaded
	case statusCode >= 500:
		return ProviderErrorKindInternal
	default:
		return ProviderErrorKindUnknown
	}
}
