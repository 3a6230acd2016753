package tools_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/tailored-agentic-units/audioqa/core/protocol"
	"github.com/tailored-agentic-units/audioqa/tools"
)

func testTool(name string) protocol.Tool {
	return protocol.Tool{
		Name:        name,
		Description: "test tool: " + name,
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"input": map[string]any{"type": "string"},
			},
		},
	}
}

func echoHandler(_ context.Context, args json.RawMessage) (tools.Result, error) {
	return tools.Result{Content: string(args)}, nil
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name    string
		tool    protocol.Tool
		wantErr error
	}{
		{
			name: "valid tool",
			tool: testTool("register_valid"),
		},
		{
			name:    "empty name",
			tool:    protocol.Tool{Name: ""},
			wantErr: tools.ErrEmptyName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tools.NewRegistry().Register(tt.tool, echoHandler)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("Register() unexpected error: %v", err)
			}
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	reg := tools.NewRegistry()

	tool := testTool("register_duplicate")

	if err := reg.Register(tool, echoHandler); err != nil {
		t.Fatalf("first Register() failed: %v", err)
	}

	err := reg.Register(tool, echoHandler)
	if !errors.Is(err, tools.ErrAlreadyExists) {
		t.Errorf("second Register() error = %v, want %v", err, tools.ErrAlreadyExists)
	}
}

func TestGet(t *testing.T) {
	reg := tools.NewRegistry()

	tool := testTool("get_existing")

	if err := reg.Register(tool, echoHandler); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	handler, exists := reg.Get("get_existing")
	if !exists {
		t.Fatal("Get() returned exists=false, want true")
	}
	if handler == nil {
		t.Fatal("Get() returned nil handler")
	}
}

func TestGet_NotFound(t *testing.T) {
	reg := tools.NewRegistry()

	_, exists := reg.Get("get_nonexistent")
	if exists {
		t.Error("Get() returned exists=true for nonexistent tool")
	}
}

func TestExecute(t *testing.T) {
	reg := tools.NewRegistry()

	tool := testTool("execute_valid")
	handler := func(_ context.Context, args json.RawMessage) (tools.Result, error) {
		var params struct {
			Input string `json:"input"`
		}
		if err := json.Unmarshal(args, &params); err != nil {
			return tools.Result{}, err
		}
		return tools.Result{Content: "echo: " + params.Input}, nil
	}

	if err := reg.Register(tool, handler); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	result, err := reg.Execute(
		context.Background(),
		"execute_valid",
		json.RawMessage(`{"input":"hello"}`),
	)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if result.Content != "echo: hello" {
		t.Errorf("Execute() content = %q, want %q", result.Content, "echo: hello")
	}
	if result.IsError {
		t.Error("Execute() IsError = true, want false")
	}
}

func TestExecute_NotFound(t *testing.T) {
	reg := tools.NewRegistry()

	_, err := reg.Execute(context.Background(), "execute_nonexistent", nil)
	if !errors.Is(err, tools.ErrNotFound) {
		t.Errorf("Execute() error = %v, want %v", err, tools.ErrNotFound)
	}
}

func TestExecute_HandlerError(t *testing.T) {
	reg := tools.NewRegistry()

	tool := testTool("execute_error")
	handlerErr := errors.New("handler failed")
	handler := func(_ context.Context, _ json.RawMessage) (tools.Result, error) {
		return tools.Result{}, handlerErr
	}

	if err := reg.Register(tool, handler); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	_, err := reg.Execute(context.Background(), "execute_error", nil)
	if err == nil {
		t.Fatal("Execute() expected error, got nil")
	}
	if !errors.Is(err, handlerErr) {
		t.Errorf("Execute() error chain does not contain handler error: %v", err)
	}
}

func TestExecute_RespectsContext(t *testing.T) {
	reg := tools.NewRegistry()

	tool := testTool("execute_ctx")
	handler := func(ctx context.Context, _ json.RawMessage) (tools.Result, error) {
		if err := ctx.Err(); err != nil {
			return tools.Result{}, err
		}
		return tools.Result{Content: "ok"}, nil
	}

	if err := reg.Register(tool, handler); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := reg.Execute(ctx, "execute_ctx", nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestList_Sorted(t *testing.T) {
	reg := tools.NewRegistry()
	reg.Register(testTool("zeta"), echoHandler)
	reg.Register(testTool("alpha"), echoHandler)
	reg.Register(testTool("mid"), echoHandler)

	list := reg.List()
	want := []string{"alpha", "mid", "zeta"}
	if len(list) != len(want) {
		t.Fatalf("List() returned %d tools, want %d", len(list), len(want))
	}
	for i, tool := range list {
		if tool.Name != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, tool.Name, want[i])
		}
	}
}

func TestRegistry_Isolation(t *testing.T) {
	a := tools.NewRegistry()
	b := tools.NewRegistry()

	if err := a.Register(testTool("isolated"), echoHandler); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if _, exists := b.Get("isolated"); exists {
		t.Error("registries should not share tools")
	}
}

func TestDecodeArgs(t *testing.T) {
	type params struct {
		AudioPath string `json:"audio_path"`
		Question  string `json:"question"`
	}

	got, err := tools.DecodeArgs[params](json.RawMessage(`{"audio_path":"a.wav","question":"who?"}`))
	if err != nil {
		t.Fatalf("DecodeArgs() error = %v", err)
	}
	if got.AudioPath != "a.wav" || got.Question != "who?" {
		t.Errorf("DecodeArgs() = %+v", got)
	}

	if _, err := tools.DecodeArgs[params](json.RawMessage(`{"audio_path":`)); !errors.Is(err, tools.ErrInvalidArguments) {
		t.Errorf("DecodeArgs() error = %v, want ErrInvalidArguments", err)
	}

	empty, err := tools.DecodeArgs[params](nil)
	if err != nil || empty != (params{}) {
		t.Errorf("DecodeArgs(nil) = %+v, %v; want zero value", empty, err)
	}
}

func TestErrorResult(t *testing.T) {
	r := tools.ErrorResult(errors.New("fetch failed"))
	if !r.IsError || r.Content != "fetch failed" {
		t.Errorf("ErrorResult() = %+v", r)
	}
}
