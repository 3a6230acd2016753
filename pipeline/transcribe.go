package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/tailored-agentic-units/audioqa/agent"
	"github.com/tailored-agentic-units/audioqa/audio"
	"github.com/tailored-agentic-units/audioqa/core/protocol"
	"github.com/tailored-agentic-units/audioqa/memory"
	"github.com/tailored-agentic-units/audioqa/observability"
)

// ReasoningPrompt wraps a transcript and question for the text model.
func ReasoningPrompt(transcript, question string) string {
	return fmt.Sprintf(
		"<speech_transcription_result>%s</speech_transcription_result>\n\n"+
			"Please answer the following question based on the speech transcription result above:\n"+
			"<question>%s</question>",
		transcript, question,
	)
}

// TranscribeThenReason transcribes the acquired audio and answers from the
// transcript with a text model. Transcripts are cached by audio digest when a
// cache is configured, and concurrent requests for the same audio share one
// transcription call.
type TranscribeThenReason struct {
	transcriber agent.Agent
	reasoner    agent.Agent
	cache       *memory.Cache
	observer    observability.Observer
	group       singleflight.Group
}

// NewTranscribeThenReason creates the reasoning strategy. cache may be nil.
func NewTranscribeThenReason(transcriber, reasoner agent.Agent, cache *memory.Cache, observer observability.Observer) *TranscribeThenReason {
	if observer == nil {
		observer = observability.NoOpObserver{}
	}
	return &TranscribeThenReason{
		transcriber: transcriber,
		reasoner:    reasoner,
		cache:       cache,
		observer:    observer,
	}
}

func (s *TranscribeThenReason) Mode() Mode { return ModeReasoning }

func (s *TranscribeThenReason) Answer(ctx context.Context, question string, payload *audio.Payload) (*Result, error) {
	transcript, hit, err := s.transcript(ctx, payload)
	if err != nil {
		return nil, &StageError{Stage: StageTranscribe, Err: err}
	}

	emit(ctx, s.observer, EventProviderCall, observability.LevelVerbose, "pipeline.TranscribeThenReason", map[string]any{
		"call":              callChat,
		"agent":             s.reasoner.Name(),
		"transcript_length": len(transcript),
	})

	resp, err := s.reasoner.Chat(ctx, protocol.InitMessages(protocol.RoleUser, ReasoningPrompt(transcript, question)))
	if err != nil {
		return nil, &StageError{Stage: StageReason, Err: err}
	}

	return &Result{
		Mode:       ModeReasoning,
		Transcript: transcript,
		CacheHit:   hit,
		Response:   resp,
	}, nil
}

func (s *TranscribeThenReason) transcript(ctx context.Context, payload *audio.Payload) (string, bool, error) {
	digest := payload.Digest()
	key := memory.TranscriptKey(digest)

	if s.cache != nil {
		tier := "store"
		if s.cache.Contains(key) {
			tier = "memory"
		}
		val, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			emit(ctx, s.observer, EventCacheError, observability.LevelWarning, "pipeline.TranscribeThenReason", map[string]any{
				"op":    "get",
				"key":   key,
				"error": err,
			})
		case ok:
			emit(ctx, s.observer, EventTranscribeCacheHit, observability.LevelInfo, "pipeline.TranscribeThenReason", map[string]any{
				"digest":        digest,
				"tier":          tier,
				"cache_entries": s.cache.Len(),
			})
			return string(val), true, nil
		}
	}

	v, err, shared := s.group.Do(digest, func() (any, error) {
		emit(ctx, s.observer, EventProviderCall, observability.LevelVerbose, "pipeline.TranscribeThenReason", map[string]any{
			"call":     callTranscribe,
			"agent":    s.transcriber.Name(),
			"filename": payload.Filename(),
			"bytes":    payload.Size(),
		})

		resp, err := s.transcriber.Transcribe(ctx, payload.Filename(), payload.Data)
		if err != nil {
			return "", err
		}
		text := resp.Content()

		if s.cache != nil {
			if err := s.cache.Put(ctx, key, []byte(text)); err != nil {
				emit(ctx, s.observer, EventCacheError, observability.LevelWarning, "pipeline.TranscribeThenReason", map[string]any{
					"op":    "put",
					"key":   key,
					"error": err,
				})
			}
		}
		return text, nil
	})
	if err != nil {
		return "", false, err
	}

	text := v.(string)
	data := map[string]any{
		"digest":            digest,
		"shared":            shared,
		"transcript_length": len(text),
	}
	if s.cache != nil {
		data["cache_entries"] = s.cache.Len()
	}
	emit(ctx, s.observer, EventTranscribeComplete, observability.LevelInfo, "pipeline.TranscribeThenReason", data)
	return text, false, nil
}
