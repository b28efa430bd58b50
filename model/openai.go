package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/furisto/companion/tool"
)

type OpenAIProvider struct {
	client openai.Client
}

func NewOpenAIProvider(apiKey string, opts ...ProviderOption) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	providerOptions := &ProviderOptions{}
	for _, opt := range opts {
		opt(providerOptions)
	}

	clientOptions := []option.RequestOption{option.WithAPIKey(apiKey)}
	if providerOptions.URL != "" {
		clientOptions = append(clientOptions, option.WithBaseURL(providerOptions.URL))
	}

	return &OpenAIProvider{
		client: openai.NewClient(clientOptions...),
	}, nil
}

func (p *OpenAIProvider) InvokeModel(ctx context.Context, model, systemPrompt string, messages []*Message, opts ...InvokeModelOption) (*Message, error) {
	if err := validateInvokeInput(model, systemPrompt, messages); err != nil {
		return nil, NewProviderError("openai", ProviderErrorKindInvalidRequest, err)
	}

	options := DefaultInvokeModelOptions()
	for _, opt := range opts {
		opt(options)
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		MaxTokens:   openai.Int(options.MaxTokens),
		Temperature: openai.Float(options.Temperature),
		Messages:    p.transformMessages(systemPrompt, messages),
		Tools:       p.transformTools(options.Tools),
	}

	var blocks []ContentBlock
	var usage Usage

	for round := 0; round < options.MaxToolRounds; round++ {
		completion, err := p.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return nil, p.parseError(err)
		}
		usage.InputTokens += completion.Usage.PromptTokens
		usage.OutputTokens += completion.Usage.CompletionTokens

		if len(completion.Choices) == 0 {
			return nil, NewProviderError("openai", ProviderErrorKindInternal, fmt.Errorf("completion has no choices"))
		}
		message := completion.Choices[0].Message

		if len(message.ToolCalls) == 0 {
			if message.Content != "" {
				blocks = append(blocks, &TextBlock{Text: message.Content})
			}
			return NewModelMessage(blocks, usage), nil
		}

		params.Messages = append(params.Messages, message.ToParam())
		for _, call := range message.ToolCalls {
			callBlock := &ToolCallBlock{
				ID:   call.ID,
				Tool: call.Function.Name,
				Args: json.RawMessage(call.Function.Arguments),
			}
			result := dispatchToolCall(ctx, options.Tools, callBlock)
			blocks = append(blocks, callBlock, result)
			params.Messages = append(params.Messages, openai.ToolMessage(result.Result, call.ID))
		}
	}

	return nil, NewProviderError("openai", ProviderErrorKindInternal,
		fmt.Errorf("model did not produce a final response within %d tool rounds", options.MaxToolRounds))
}

func (p *OpenAIProvider) transformMessages(systemPrompt string, messages []*Message) []openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	params = append(params, openai.SystemMessage(systemPrompt))

	for _, message := range messages {
		switch message.Source {
		case MessageSourceUser:
			params = append(params, openai.UserMessage(message.Text()))
		case MessageSourceModel:
			params = append(params, openai.AssistantMessage(message.Text()))
		case MessageSourceSystem:
			params = append(params, openai.SystemMessage(message.Text()))
		}
	}

	return params
}

func (p *OpenAIProvider) transformTools(tools []tool.Tool) []openai.ChatCompletionToolParam {
	if len(tools) == 0 {
		return nil
	}

	params := make([]openai.ChatCompletionToolParam, 0, len(tools))
	for _, t := range tools {
		params = append(params, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  openai.FunctionParameters(t.InputSchema),
			},
		})
	}

	return params
}

func (p *OpenAIProvider) parseError(err error) *ProviderError {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewProviderError("openai", ProviderErrorKindTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return NewProviderError("openai", ProviderErrorKindCanceled, err)
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		providerErr := NewProviderError("openai", errorKindFromStatus(apiErr.StatusCode), err)
		if apiErr.Response != nil {
			if retryAfter := apiErr.Response.Header.Get("Retry-After"); retryAfter != "" {
				if seconds, parseErr := strconv.Atoi(retryAfter); parseErr == nil {
					providerErr.RetryAfter = time.Duration(seconds) * time.Second
				}
			}
		}
		return providerErr
	}

	return NewProviderError("openai", ProviderErrorKindUnknown, err)
}
