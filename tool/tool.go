package tool

import (
	"context"
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Handler is the typed handler for a tool with input T.
type Handler[T any] func(ctx context.Context, input T) (string, error)

// Func is the erased form of a tool handler. The raw input is the argument
// payload produced by the model.
type Func func(ctx context.Context, input json.RawMessage) (string, error)

// Tool is one entry of a capability table handed to a model provider. It is
// plain data: the provider translates Name, Description and InputSchema into
// its wire format and dispatches calls through Call.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]any
	Call        Func
}

// NewTool builds a Tool whose input schema is reflected from T. The returned
// Call unmarshals the model-supplied arguments into T before invoking handler.
func NewTool[T any](name, description string, handler Handler[T]) Tool {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	var toolInput T
	inputSchema := reflector.Reflect(toolInput)

	paramSchema := map[string]any{
		"type":       "object",
		"properties": inputSchema.Properties,
	}
	if len(inputSchema.Required) > 0 {
		paramSchema["required"] = inputSchema.Required
	}

	call := func(ctx context.Context, input json.RawMessage) (string, error) {
		var toolInput T
		if err := json.Unmarshal(input, &toolInput); err != nil {
			return "", err
		}
		return handler(ctx, toolInput)
	}

	return Tool{
		Name:        name,
		Description: description,
		InputSchema: paramSchema,
		Call:        call,
	}
}

// Required returns the schema's required property names, if any.
func (t Tool) Required() []string {
	required, _ := t.InputSchema["required"].([]string)
	return required
}
