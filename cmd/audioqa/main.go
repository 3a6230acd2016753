package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	cli "github.com/spf13/pflag"

	"github.com/tailored-agentic-units/audioqa/observability"
	"github.com/tailored-agentic-units/audioqa/pipeline"
	"github.com/tailored-agentic-units/audioqa/tools"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func main() {
	var (
		configFile     = cli.StringP("config", "c", "", "Path to config file (JSON or YAML)")
		audioRef       = cli.StringP("audio", "a", "", "Audio file path or URL")
		question       = cli.StringP("question", "q", "", "Question about the audio")
		mode           = cli.StringP("mode", "m", "", "Answering mode: direct or reasoning (overrides config)")
		onMalformed    = cli.String("on-malformed", "", "Malformed response policy: fail or degrade (overrides config)")
		systemPrompt   = cli.String("system-prompt", "", "System prompt for direct mode (overrides config)")
		cacheDir       = cli.String("cache-dir", "", "Transcript cache directory (overrides config)")
		proxyAddr      = cli.StringP("proxy", "p", "", "SOCKS5 proxy address for providers and downloads")
		showTranscript = cli.Bool("show-transcript", false, "Print the transcript in reasoning mode")
		metricsFile    = cli.String("metrics-textfile", "", "Write Prometheus metrics to this file on exit")
		listTools      = cli.Bool("list-tools", false, "Print registered tool definitions as JSON and exit")
		listAgents     = cli.Bool("list-agents", false, "Print configured stage agents as JSON and exit")
		clearCache     = cli.Bool("clear-cache", false, "Delete cached transcripts and exit")
		toolArgs       = cli.String("tool-args", "", "Dispatch JSON arguments through the tool registry")
		envFile        = cli.StringP("env", "e", ".env", "Env file path")
		logLevel       = cli.StringP("log", "l", "info", "Log level: debug, info, warn, error")
	)
	cli.Parse()

	level, ok := logLevels[*logLevel]
	if !ok {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level})))

	if err := godotenv.Load(*envFile); err != nil && cli.CommandLine.Changed("env") {
		slog.Warn("failed to load env file", "path", *envFile, "err", err)
	}

	cfg := pipeline.DefaultConfig()
	if *configFile != "" {
		loaded, err := pipeline.LoadConfig(*configFile)
		if err != nil {
			fail("failed to load config", err)
		}
		cfg = *loaded
	}

	if *mode != "" {
		cfg.Mode = *mode
	}
	if *onMalformed != "" {
		cfg.OnMalformed = *onMalformed
	}
	if *systemPrompt != "" {
		cfg.SystemPrompt = *systemPrompt
	}
	if *cacheDir != "" {
		cfg.Memory.Path = *cacheDir
	}
	if *proxyAddr != "" {
		cfg.Agent.Provider.Proxy = *proxyAddr
		cfg.Fetch.Proxy = *proxyAddr
	}

	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		fail("failed to resolve observer", err)
	}

	registry := prometheus.NewRegistry()
	metrics := pipeline.NewMetricsObserver(registry)

	p, err := pipeline.New(&cfg, pipeline.WithObserver(observability.Combine(observer, metrics)))
	if err != nil {
		fail("failed to create pipeline", err)
	}

	toolRegistry := tools.NewRegistry()
	if err := pipeline.RegisterTools(toolRegistry, p); err != nil {
		fail("failed to register tools", err)
	}

	if *listTools {
		printJSON(toolRegistry.List())
		return
	}

	if *listAgents {
		printJSON(p.Registry().List())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *clearCache {
		n, err := p.ClearTranscripts(ctx)
		if err != nil {
			fail("failed to clear transcript cache", err)
		}
		slog.Info("transcript cache cleared", "removed", n)
		return
	}

	code := run(ctx, p, toolRegistry, *audioRef, *question, *toolArgs, *showTranscript)

	if *metricsFile != "" {
		if err := prometheus.WriteToTextfile(*metricsFile, registry); err != nil {
			slog.Error("failed to write metrics", "path", *metricsFile, "err", err)
			code = 1
		}
	}

	os.Exit(code)
}

func run(ctx context.Context, p *pipeline.Pipeline, reg *tools.Registry, ref, question, toolArgs string, showTranscript bool) int {
	if toolArgs != "" {
		result, err := reg.Execute(ctx, pipeline.ToolName, json.RawMessage(toolArgs))
		if err != nil {
			slog.Error("tool call failed", "err", err)
			return 1
		}
		printJSON(result)
		if result.IsError {
			return 1
		}
		return 0
	}

	if ref == "" || question == "" {
		fmt.Fprintln(os.Stderr, "Usage: audioqa --audio <path|url> --question <text>")
		cli.PrintDefaults()
		return 2
	}

	res, err := p.Ask(ctx, ref, question)
	if err != nil {
		slog.Error("question failed", "stage", pipeline.FailedStage(err), "err", err)
		return 1
	}

	if showTranscript && res.Transcript != "" {
		fmt.Printf("Transcript: %s\n\n", res.Transcript)
	}
	fmt.Println(res.Answer)

	slog.Debug("answered",
		"request_id", res.RequestID,
		"mode", res.Mode,
		"format", res.Format,
		"cache_hit", res.CacheHit,
		"malformed", res.Malformed,
		"duration", res.Duration,
	)
	return 0
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fail("failed to encode output", err)
	}
}

func fail(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}
