package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tailored-agentic-units/audioqa/core/protocol"
	"github.com/tailored-agentic-units/audioqa/tools"
)

// ToolName is the name under which the pipeline is exposed to agents.
const ToolName = "ask_question_about_audio"

type toolArgs struct {
	AudioPath string `json:"audio_path"`
	Question  string `json:"question"`
	Mode      string `json:"mode,omitempty"`
}

// Tool describes the question answering operation for tool-calling agents.
func Tool() protocol.Tool {
	return protocol.Tool{
		Name:        ToolName,
		Description: "Ask any question about an audio file or URL and get the answer using a multimodal or transcription model.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"audio_path": map[string]any{
					"type":        "string",
					"description": "Local path or http(s) URL of the audio file.",
				},
				"question": map[string]any{
					"type":        "string",
					"description": "The question to answer about the audio.",
				},
				"mode": map[string]any{
					"type":        "string",
					"enum":        []string{string(ModeDirect), string(ModeReasoning)},
					"description": "Answering mode. Defaults to the configured mode.",
				},
			},
			"required": []string{"audio_path", "question"},
		},
	}
}

// RegisterTools registers the pipeline's tool with reg.
func RegisterTools(reg *tools.Registry, p *Pipeline) error {
	return reg.Register(Tool(), p.handleTool)
}

// handleTool reports invalid arguments and pipeline failures as error
// results so the calling model can recover. Cancellation is returned as an
// error.
func (p *Pipeline) handleTool(ctx context.Context, raw json.RawMessage) (tools.Result, error) {
	args, err := tools.DecodeArgs[toolArgs](raw)
	if err != nil {
		return tools.ErrorResult(err), nil
	}
	if args.AudioPath == "" || args.Question == "" {
		return tools.ErrorResult(fmt.Errorf("%w: audio_path and question are required", tools.ErrInvalidArguments)), nil
	}

	var opts []AskOption
	if args.Mode != "" {
		mode, err := ParseMode(args.Mode)
		if err != nil {
			return tools.ErrorResult(err), nil
		}
		opts = append(opts, WithMode(mode))
	}

	res, err := p.Ask(ctx, args.AudioPath, args.Question, opts...)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return tools.Result{}, err
		}
		return tools.ErrorResult(err), nil
	}

	return tools.Result{Content: res.Answer}, nil
}
