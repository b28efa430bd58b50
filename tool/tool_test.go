package tool_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/furisto/companion/tool"
)

type echoInput struct {
	Text  string `json:"text" jsonschema:"title=text,description=Text to echo back"`
	Times int    `json:"times,omitempty" jsonschema:"title=times,description=Repeat count"`
}

func TestNewTool_DispatchesTypedInput(t *testing.T) {
	t.Parallel()

	echo := tool.NewTool("echo", "Echo the given text.",
		func(ctx context.Context, input echoInput) (string, error) {
			return input.Text, nil
		})

	if echo.Name != "echo" {
		t.Errorf("unexpected name %q", echo.Name)
	}

	got, err := echo.Call(context.Background(), json.RawMessage(`{"text":"hello"}`))
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if got != "hello" {
		t.Errorf("expected hello, got %q", got)
	}
}

func TestNewTool_InvalidArguments(t *testing.T) {
	t.Parallel()

	echo := tool.NewTool("echo", "Echo the given text.",
		func(ctx context.Context, input echoInput) (string, error) {
			return input.Text, nil
		})

	if _, err := echo.Call(context.Background(), json.RawMessage(`{not json`)); err == nil {
		t.Error("expected error for malformed arguments")
	}
}

func TestNewTool_SchemaShape(t *testing.T) {
	t.Parallel()

	echo := tool.NewTool("echo", "Echo the given text.",
		func(ctx context.Context, input echoInput) (string, error) {
			return input.Text, nil
		})

	if echo.InputSchema["type"] != "object" {
		t.Errorf("schema type should be object, got %v", echo.InputSchema["type"])
	}
	if echo.InputSchema["properties"] == nil {
		t.Error("schema should have properties")
	}

	required := echo.Required()
	if len(required) != 1 || required[0] != "text" {
		t.Errorf("expected required [text], got %v", required)
	}
}
