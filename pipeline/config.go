package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/audioqa/audio"
	"github.com/tailored-agentic-units/audioqa/core/config"
	"github.com/tailored-agentic-units/audioqa/memory"
)

// Config holds initialization parameters for the pipeline and its
// subsystems. Each section delegates to that subsystem's config-driven
// constructor.
type Config struct {
	Agent        config.AgentConfig            `json:"agent" yaml:"agent"`
	Agents       map[string]config.AgentConfig `json:"agents,omitempty" yaml:"agents,omitempty"`
	Stages       map[Stage]string              `json:"stages,omitempty" yaml:"stages,omitempty"` // stage -> name in Agents
	Fetch        audio.FetchConfig             `json:"fetch" yaml:"fetch"`
	Memory       memory.Config                 `json:"memory" yaml:"memory"`
	Mode         string                        `json:"mode,omitempty" yaml:"mode,omitempty"`
	OnMalformed  string                        `json:"on_malformed,omitempty" yaml:"on_malformed,omitempty"`
	SystemPrompt string                        `json:"system_prompt,omitempty" yaml:"system_prompt,omitempty"`
	Observer     string                        `json:"observer,omitempty" yaml:"observer,omitempty"`
}

// DefaultConfig returns a Config with defaults for all subsystems: direct
// mode, a malformed response degrading to "None", and slog observation.
func DefaultConfig() Config {
	return Config{
		Agent:       config.DefaultAgentConfig(),
		Fetch:       audio.DefaultFetchConfig(),
		Memory:      memory.DefaultConfig(),
		Mode:        string(ModeDirect),
		OnMalformed: string(PolicyDegrade),
		Observer:    "slog",
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	c.Agent.Merge(&source.Agent)
	c.Fetch.Merge(&source.Fetch)
	c.Memory.Merge(&source.Memory)

	if source.Mode != "" {
		c.Mode = source.Mode
	}
	if source.OnMalformed != "" {
		c.OnMalformed = source.OnMalformed
	}
	if source.SystemPrompt != "" {
		c.SystemPrompt = source.SystemPrompt
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}

	if len(source.Agents) > 0 {
		c.Agents = source.Agents
	}
	if len(source.Stages) > 0 {
		c.Stages = source.Stages
	}
}

// LoadConfig reads a config file, merges it with defaults, and returns the
// resulting Config. Files ending in .yaml or .yml are parsed as YAML; all
// others as JSON.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &loaded)
	default:
		err = json.Unmarshal(data, &loaded)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
