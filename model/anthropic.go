package model

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/furisto/companion/tool"
)

type AnthropicProvider struct {
	client anthropic.Client
}

func NewAnthropicProvider(apiKey string, opts ...ProviderOption) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	providerOptions := &ProviderOptions{}
	for _, opt := range opts {
		opt(providerOptions)
	}

	clientOptions := []option.RequestOption{option.WithAPIKey(apiKey)}
	if providerOptions.URL != "" {
		clientOptions = append(clientOptions, option.WithBaseURL(providerOptions.URL))
	}

	return &AnthropicProvider{
		client: anthropic.NewClient(clientOptions...),
	}, nil
}

func (p *AnthropicProvider) InvokeModel(ctx context.Context, model, systemPrompt string, messages []*Message, opts ...InvokeModelOption) (*Message, error) {
	if err := validateInvokeInput(model, systemPrompt, messages); err != nil {
		return nil, NewProviderError("anthropic", ProviderErrorKindInvalidRequest, err)
	}

	options := DefaultInvokeModelOptions()
	for _, opt := range opts {
		opt(options)
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   options.MaxTokens,
		Temperature: anthropic.Float(options.Temperature),
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages:    p.transformMessages(messages),
		Tools:       p.transformTools(options.Tools),
	}

	var blocks []ContentBlock
	var usage Usage

	for round := 0; round < options.MaxToolRounds; round++ {
		message, err := p.client.Messages.New(ctx, params)
		if err != nil {
			return nil, p.parseError(err)
		}
		usage.InputTokens += message.Usage.InputTokens
		usage.OutputTokens += message.Usage.OutputTokens

		var text string
		var calls []*ToolCallBlock
		for _, block := range message.Content {
			switch b := block.AsAny().(type) {
			case anthropic.TextBlock:
				text = b.Text
			case anthropic.ToolUseBlock:
				calls = append(calls, &ToolCallBlock{ID: b.ID, Tool: b.Name, Args: b.Input})
			}
		}

		if len(calls) == 0 {
			if text != "" {
				blocks = append(blocks, &TextBlock{Text: text})
			}
			return NewModelMessage(blocks, usage), nil
		}

		params.Messages = append(params.Messages, message.ToParam())
		results := make([]anthropic.ContentBlockParamUnion, 0, len(calls))
		for _, call := range calls {
			result := dispatchToolCall(ctx, options.Tools, call)
			blocks = append(blocks, call, result)
			results = append(results, anthropic.NewToolResultBlock(call.ID, result.Result, !result.Succeeded))
		}
		params.Messages = append(params.Messages, anthropic.NewUserMessage(results...))
	}

	return nil, NewProviderError("anthropic", ProviderErrorKindInternal,
		fmt.Errorf("model did not produce a final response within %d tool rounds", options.MaxToolRounds))
}

func (p *AnthropicProvider) transformMessages(messages []*Message) []anthropic.MessageParam {
	params := make([]anthropic.MessageParam, 0, len(messages))
	for _, message := range messages {
		switch message.Source {
		case MessageSourceModel:
			params = append(params, anthropic.NewAssistantMessage(anthropic.NewTextBlock(message.Text())))
		default:
			params = append(params, anthropic.NewUserMessage(anthropic.NewTextBlock(message.Text())))
		}
	}
	return params
}

func (p *AnthropicProvider) transformTools(tools []tool.Tool) []anthropic.ToolUnionParam {
	if len(tools) == 0 {
		return nil
	}

	params := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		toolParam := anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Type:       "object",
				Properties: t.InputSchema["properties"],
				Required:   t.Required(),
			},
		}
		params = append(params, anthropic.ToolUnionParam{OfTool: &toolParam})
	}

	return params
}

func (p *AnthropicProvider) parseError(err error) *ProviderError {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewProviderError("anthropic", ProviderErrorKindTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return NewProviderError("anthropic", ProviderErrorKindCanceled, err)
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		providerErr := NewProviderError("anthropic", errorKindFromStatus(apiErr.StatusCode), err)
		if apiErr.Response != nil {
			if retryAfter := apiErr.Response.Header.Get("Retry-After"); retryAfter != "" {
				if seconds, parseErr := strconv.Atoi(retryAfter); parseErr == nil {
					providerErr.RetryAfter = time.Duration(seconds) * time.Second
				}
			}
		}
		if apiErr.StatusCode == 529 {
			providerErr.RetryAfter = 10 * time.Second
		}
		return providerErr
	}

	return NewProviderError("anthropic", ProviderErrorKindUnknown, err)
}
