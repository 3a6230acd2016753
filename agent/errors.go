package agent

import "errors"

// Registry and construction errors.
var (
	ErrAgentNotFound    = errors.New("agent not found")
	ErrAgentExists      = errors.New("agent already registered")
	ErrEmptyAgentName   = errors.New("agent name is empty")
	ErrMissingProvider  = errors.New("agent config has no provider")
	ErrMissingModel     = errors.New("agent config has no model")
	ErrProtocolDisabled = errors.New("protocol not enabled for model")
)
