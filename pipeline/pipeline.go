// Package pipeline answers natural-language questions about audio. A request
// acquires the referenced audio, then answers it with one of two strategies:
// a direct multimodal call carrying the inline audio, or a transcription
// followed by a text reasoning call over the transcript.
//
// The pipeline initializes from configuration via New, creating all
// subsystems internally. Functional options override any subsystem.
//
//	p, err := pipeline.New(&cfg)
//	res, err := p.Ask(ctx, "https://example.com/clip.wav", "What instrument is playing?")
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/audioqa/agent"
	"github.com/tailored-agentic-units/audioqa/agent/providers"
	"github.com/tailored-agentic-units/audioqa/audio"
	"github.com/tailored-agentic-units/audioqa/core/protocol"
	"github.com/tailored-agentic-units/audioqa/core/response"
	"github.com/tailored-agentic-units/audioqa/memory"
	"github.com/tailored-agentic-units/audioqa/observability"
)

// Acquirer resolves an audio reference into a payload.
type Acquirer interface {
	Fetch(ctx context.Context, ref string) (*audio.Payload, error)
}

// Option configures a Pipeline after config-driven initialization.
type Option func(*Pipeline)

// WithAgent overrides the config-created default agent.
func WithAgent(a agent.Agent) Option {
	return func(p *Pipeline) { p.agent = a }
}

// WithStageAgent pins the agent used for one stage, taking precedence over
// the stage mapping in Config.
func WithStageAgent(stage Stage, a agent.Agent) Option {
	return func(p *Pipeline) { p.stageAgents[stage] = a }
}

// WithRegistry overrides the config-created agent registry.
func WithRegistry(r *agent.Registry) Option {
	return func(p *Pipeline) { p.registry = r }
}

// WithFetcher overrides the config-created audio fetcher.
func WithFetcher(f Acquirer) Option {
	return func(p *Pipeline) { p.fetcher = f }
}

// WithCache overrides the config-created transcript cache. nil disables it.
func WithCache(c *memory.Cache) Option {
	return func(p *Pipeline) { p.cache = c }
}

// WithObserver overrides the configured observer.
func WithObserver(o observability.Observer) Option {
	return func(p *Pipeline) { p.observer = o }
}

// WithStrategy replaces the strategy registered for s.Mode().
func WithStrategy(s Strategy) Option {
	return func(p *Pipeline) { p.overrides = append(p.overrides, s) }
}

// AskOption adjusts a single Ask call.
type AskOption func(*askRequest)

type askRequest struct {
	mode   Mode
	policy MalformedPolicy
}

// WithMode answers with the given mode instead of the configured one.
func WithMode(m Mode) AskOption {
	return func(r *askRequest) { r.mode = m }
}

// WithMalformedPolicy handles malformed responses with the given policy
// instead of the configured one.
func WithMalformedPolicy(policy MalformedPolicy) AskOption {
	return func(r *askRequest) { r.policy = policy }
}

// Pipeline answers questions about audio. Safe for concurrent use.
type Pipeline struct {
	agent        agent.Agent
	registry     *agent.Registry
	stageAgents  map[Stage]agent.Agent
	fetcher      Acquirer
	cache        *memory.Cache
	observer     observability.Observer
	mode         Mode
	policy       MalformedPolicy
	systemPrompt string

	overrides  []Strategy
	strategies map[Mode]Strategy
}

// New creates a Pipeline from configuration. Options applied after
// initialization can override any subsystem; per-stage agents and strategies
// are resolved last so they see the overrides.
func New(cfg *Config, opts ...Option) (*Pipeline, error) {
	mode, err := ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	policy, err := ParsePolicy(cfg.OnMalformed)
	if err != nil {
		return nil, err
	}

	a, err := agent.New(&cfg.Agent)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	reg := agent.NewRegistry()
	for name, agentCfg := range cfg.Agents {
		if err := reg.Register(name, agentCfg); err != nil {
			return nil, fmt.Errorf("failed to register agent %q: %w", name, err)
		}
	}

	client, err := providers.NewHTTPClient(cfg.Fetch.Timeout.Std(), cfg.Fetch.Proxy)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetch client: %w", err)
	}

	cache, err := memory.Open(&cfg.Memory)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript cache: %w", err)
	}

	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		agent:        a,
		registry:     reg,
		stageAgents:  make(map[Stage]agent.Agent),
		fetcher:      audio.NewFetcher(cfg.Fetch, client),
		cache:        cache,
		observer:     observer,
		mode:         mode,
		policy:       policy,
		systemPrompt: cfg.SystemPrompt,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.observer == nil {
		p.observer = observability.NoOpObserver{}
	}

	if err := p.resolveStages(cfg.Stages); err != nil {
		return nil, err
	}

	p.warmCache(context.Background())

	p.strategies = map[Mode]Strategy{
		ModeDirect: NewDirect(p.stageAgents[StageAnswer], p.systemPrompt, p.observer),
		ModeReasoning: NewTranscribeThenReason(
			p.stageAgents[StageTranscribe],
			p.stageAgents[StageReason],
			p.cache,
			p.observer,
		),
	}
	for _, s := range p.overrides {
		p.strategies[s.Mode()] = s
	}

	return p, nil
}

// stageProtocols is the protocol a mapped stage agent must enable.
var stageProtocols = map[Stage]protocol.Protocol{
	StageAnswer:     protocol.Audio,
	StageTranscribe: protocol.Transcription,
	StageReason:     protocol.Chat,
}

func (p *Pipeline) resolveStages(names map[Stage]string) error {
	for stage := range names {
		switch stage {
		case StageAnswer, StageTranscribe, StageReason:
		default:
			return fmt.Errorf("%w: %q", ErrUnknownStage, stage)
		}
	}

	for _, stage := range []Stage{StageAnswer, StageTranscribe, StageReason} {
		if _, pinned := p.stageAgents[stage]; pinned {
			continue
		}
		name := names[stage]
		if name == "" {
			p.stageAgents[stage] = p.agent
			continue
		}
		capes, err := p.registry.Capabilities(name)
		if err != nil {
			return fmt.Errorf("%s stage: %w", stage, err)
		}
		if need := stageProtocols[stage]; !slices.Contains(capes, need) {
			return fmt.Errorf("%s stage: %w: agent %q lacks %s", stage, agent.ErrProtocolDisabled, name, need)
		}
		a, err := p.registry.Get(name)
		if err != nil {
			return fmt.Errorf("%s stage: %w", stage, err)
		}
		p.stageAgents[stage] = a
	}
	return nil
}

// warmCache loads persisted transcripts into memory. A failure leaves the
// cache cold and is reported as an event.
func (p *Pipeline) warmCache(ctx context.Context) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Bootstrap(ctx, memory.NamespaceTranscripts+"/"); err != nil {
		emit(ctx, p.observer, EventCacheError, observability.LevelWarning, "pipeline.New", map[string]any{
			"op":    "bootstrap",
			"error": err,
		})
		return
	}
	emit(ctx, p.observer, EventCacheBootstrap, observability.LevelVerbose, "pipeline.New", map[string]any{
		"cache_entries": p.cache.Len(),
	})
}

// ClearTranscripts deletes every cached transcript and returns how many were
// removed. It is a no-op when no cache is configured.
func (p *Pipeline) ClearTranscripts(ctx context.Context) (int, error) {
	if p.cache == nil {
		return 0, nil
	}
	n, err := p.cache.Clear(ctx, memory.NamespaceTranscripts+"/")
	if err != nil {
		return 0, fmt.Errorf("failed to clear transcripts: %w", err)
	}
	emit(ctx, p.observer, EventCacheClear, observability.LevelInfo, "pipeline.ClearTranscripts", map[string]any{
		"removed": n,
	})
	return n, nil
}

// Registry returns the pipeline's agent registry.
func (p *Pipeline) Registry() *agent.Registry {
	return p.registry
}

// Mode returns the configured default mode.
func (p *Pipeline) Mode() Mode {
	return p.mode
}

// Ask acquires the audio at ref and answers question about it. Failures
// carry a StageError naming the stage that failed; acquisition failures also
// match audio.ErrAcquisition, and model failures match providers.ErrProvider.
func (p *Pipeline) Ask(ctx context.Context, ref, question string, opts ...AskOption) (*Result, error) {
	req := askRequest{mode: p.mode, policy: p.policy}
	for _, opt := range opts {
		opt(&req)
	}

	strategy, ok := p.strategies[req.mode]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, req.mode)
	}
	if _, err := ParsePolicy(string(req.policy)); err != nil {
		return nil, err
	}

	start := time.Now()
	ctx = withRequestID(ctx, uuid.Must(uuid.NewV7()).String())

	emit(ctx, p.observer, EventAskStart, observability.LevelInfo, "pipeline.Ask", map[string]any{
		"mode":            string(req.mode),
		"reference":       ref,
		"question_length": len(question),
	})

	payload, err := p.fetcher.Fetch(ctx, ref)
	if err != nil {
		return nil, p.fail(ctx, req.mode, start, &StageError{Stage: StageAcquire, Err: err})
	}

	emit(ctx, p.observer, EventAcquireComplete, observability.LevelVerbose, "pipeline.Ask", map[string]any{
		"kind":   payload.Kind.String(),
		"format": payload.Format,
		"bytes":  payload.Size(),
	})

	res, err := strategy.Answer(ctx, question, payload)
	if err != nil {
		return nil, p.fail(ctx, req.mode, start, err)
	}

	answer, malformed, err := finish(res.Response, req.policy)
	if err != nil {
		return nil, p.fail(ctx, req.mode, start, &StageError{Stage: answerStage(req.mode), Err: err})
	}
	if malformed {
		emit(ctx, p.observer, EventMalformed, observability.LevelWarning, "pipeline.Ask", map[string]any{
			"mode":   string(req.mode),
			"policy": string(req.policy),
		})
	}

	res.RequestID = RequestID(ctx)
	res.Mode = req.mode
	res.Reference = ref
	res.Format = payload.Format
	res.Answer = answer
	res.Malformed = malformed
	res.Duration = time.Since(start)

	emit(ctx, p.observer, EventAnswerComplete, observability.LevelInfo, "pipeline.Ask", map[string]any{
		"mode":          string(req.mode),
		"duration":      res.Duration,
		"malformed":     malformed,
		"cache_hit":     res.CacheHit,
		"answer_length": len(answer),
	})

	return res, nil
}

// AnswerAudioQuestion acquires the audio at ref and returns the answer text
// using the configured mode.
func (p *Pipeline) AnswerAudioQuestion(ctx context.Context, ref, question string) (string, error) {
	res, err := p.Ask(ctx, ref, question)
	if err != nil {
		return "", err
	}
	return res.Answer, nil
}

func (p *Pipeline) fail(ctx context.Context, mode Mode, start time.Time, err error) error {
	emit(ctx, p.observer, EventError, observability.LevelError, "pipeline.Ask", map[string]any{
		"mode":     string(mode),
		"stage":    string(FailedStage(err)),
		"status":   statusCode(err),
		"duration": time.Since(start),
		"error":    err,
	})
	return err
}

// finish extracts the answer text, applying policy when the response carries
// no usable text.
func finish(resp *response.ChatResponse, policy MalformedPolicy) (string, bool, error) {
	if resp == nil {
		return "", false, fmt.Errorf("%w: no response", response.ErrMalformedResponse)
	}

	text, err := resp.Text()
	if err == nil {
		return text, false, nil
	}
	if policy != PolicyDegrade || len(resp.Choices) == 0 {
		return "", false, err
	}

	coerced, err := resp.Coerced()
	if err != nil {
		return "", false, err
	}
	return coerced, true, nil
}

func answerStage(mode Mode) Stage {
	if mode == ModeReasoning {
		return StageReason
	}
	return StageAnswer
}

func statusCode(err error) int {
	var pe *providers.Error
	if errors.As(err, &pe) && pe.StatusCode != 0 {
		return pe.StatusCode
	}
	var se *audio.StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
