package pipeline

import (
	"errors"
	"fmt"
)

// Stage names a step of the answering pipeline.
type Stage string

const (
	StageAcquire    Stage = "acquire"
	StageAnswer     Stage = "answer"
	StageTranscribe Stage = "transcribe"
	StageReason     Stage = "reason"
)

var (
	ErrUnknownMode   = errors.New("unknown answering mode")
	ErrUnknownPolicy = errors.New("unknown malformed-response policy")
	ErrUnknownStage  = errors.New("unknown pipeline stage")
)

// StageError attributes a failure to the pipeline stage that produced it, so
// input resolution failures can be told apart from model failures.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FailedStage returns the stage recorded in err's chain, or "" when err did
// not come from a pipeline stage.
func FailedStage(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
