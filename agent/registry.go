package agent

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/tailored-agentic-units/audioqa/core/config"
	"github.com/tailored-agentic-units/audioqa/core/protocol"
)

// AgentInfo describes a registered agent.
type AgentInfo struct {
	Name         string              `json:"name"`
	Provider     string              `json:"provider,omitempty"`
	Capabilities []protocol.Protocol `json:"capabilities"`
}

// Registry holds named agent configurations and creates each agent on its
// first Get. The pipeline resolves per-stage agents through it. Safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	configs map[string]config.AgentConfig
	agents  map[string]Agent
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		configs: make(map[string]config.AgentConfig),
		agents:  make(map[string]Agent),
	}
}

// Capabilities returns the protocols enabled for a named agent without
// creating it.
func (r *Registry) Capabilities(name string) ([]protocol.Protocol, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, exists := r.configs[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrAgentNotFound, name)
	}

	return capabilitiesFromConfig(&cfg), nil
}

// Get returns the named agent, creating it on first access.
func (r *Registry) Get(name string) (Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, registered := r.configs[name]; !registered {
		return nil, fmt.Errorf("%w: %s", ErrAgentNotFound, name)
	}

	if a, exists := r.agents[name]; exists {
		return a, nil
	}

	cfg := r.configs[name]
	if cfg.Name == "" {
		cfg.Name = name
	}
	a, err := New(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent %q: %w", name, err)
	}

	r.agents[name] = a
	return a, nil
}

// List returns information about all registered agents, sorted by name.
func (r *Registry) List() []AgentInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]AgentInfo, 0, len(r.configs))
	for name, cfg := range r.configs {
		info := AgentInfo{
			Name:         name,
			Capabilities: capabilitiesFromConfig(&cfg),
		}
		if cfg.Provider != nil {
			info.Provider = cfg.Provider.Name
		}
		infos = append(infos, info)
	}

	slices.SortFunc(infos, func(a, b AgentInfo) int {
		return strings.Compare(a.Name, b.Name)
	})

	return infos
}

// Register adds a named agent configuration.
func (r *Registry) Register(name string, cfg config.AgentConfig) error {
	if name == "" {
		return ErrEmptyAgentName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.configs[name]; exists {
		return fmt.Errorf("%w: %s", ErrAgentExists, name)
	}

	r.configs[name] = cfg
	return nil
}

// Add registers an agent that was created elsewhere, such as one built with
// NewWithProvider around a custom provider.
func (r *Registry) Add(name string, a Agent) error {
	if name == "" {
		return ErrEmptyAgentName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.configs[name]; exists {
		return fmt.Errorf("%w: %s", ErrAgentExists, name)
	}

	cfg := config.AgentConfig{Name: a.Name(), Model: a.Model()}
	if p := a.Provider(); p != nil {
		cfg.Provider = &config.ProviderConfig{Name: p.Name(), BaseURL: p.BaseURL()}
	}

	r.configs[name] = cfg
	r.agents[name] = a
	return nil
}

func capabilitiesFromConfig(cfg *config.AgentConfig) []protocol.Protocol {
	if cfg.Model == nil || len(cfg.Model.Capabilities) == 0 {
		return nil
	}

	// Ordered as ValidProtocols, unknown keys dropped.
	var capes []protocol.Protocol
	for _, p := range protocol.ValidProtocols() {
		if cfg.Model.Supports(p) {
			capes = append(capes, p)
		}
	}
	return capes
}
