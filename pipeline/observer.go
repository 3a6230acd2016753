package pipeline

import (
	"context"

	"github.com/tailored-agentic-units/audioqa/observability"
)

// Pipeline event types.
const (
	EventAskStart           observability.EventType = "pipeline.ask.start"
	EventAcquireComplete    observability.EventType = "pipeline.acquire.complete"
	EventProviderCall       observability.EventType = "pipeline.provider.call"
	EventTranscribeCacheHit observability.EventType = "pipeline.transcribe.cache_hit"
	EventTranscribeComplete observability.EventType = "pipeline.transcribe.complete"
	EventAnswerComplete     observability.EventType = "pipeline.answer.complete"
	EventMalformed          observability.EventType = "pipeline.malformed"
	EventCacheBootstrap     observability.EventType = "pipeline.cache.bootstrap"
	EventCacheClear         observability.EventType = "pipeline.cache.clear"
	EventCacheError         observability.EventType = "pipeline.cache.error"
	EventError              observability.EventType = "pipeline.error"
)

// Values of the "call" attribute on EventProviderCall.
const (
	callAudio      = "audio"
	callTranscribe = "transcribe"
	callChat       = "chat"
)

type requestIDKey struct{}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the pipeline request ID carried by ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func emit(ctx context.Context, obs observability.Observer, typ observability.EventType, level observability.Level, source string, data map[string]any) {
	if data == nil {
		data = make(map[string]any, 1)
	}
	if id := RequestID(ctx); id != "" {
		data["request_id"] = id
	}
	obs.OnEvent(ctx, observability.NewEvent(typ, level, source, data))
}
