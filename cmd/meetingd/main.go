// Command meetingd is the minimal process wiring for the live meeting
// transcription engine: it loads config, starts dual malgo capture
// (system + microphone), runs the processor supervisor, and drives a
// consumer loop that transcribes, filters, and ledgers segments, printing
// notes as the incremental summarizer emits them. The richer operator
// UI this binary stands in for is out of scope.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gen2brain/malgo"
	"github.com/google/uuid"

	"github.com/scriblet/meetingscribe/pkg/audio"
	"github.com/scriblet/meetingscribe/pkg/engine"
	"github.com/scriblet/meetingscribe/pkg/filter"
	"github.com/scriblet/meetingscribe/pkg/notes"
	"github.com/scriblet/meetingscribe/pkg/pipeline"
	"github.com/scriblet/meetingscribe/pkg/processor"
	"github.com/scriblet/meetingscribe/pkg/providers/summarize"
	"github.com/scriblet/meetingscribe/pkg/providers/transcribe"
	"github.com/scriblet/meetingscribe/pkg/transcript"
	"github.com/scriblet/meetingscribe/pkg/vad"
)

const (
	queueCapacity   = 4
	vadThreshold    = 0.02
	vadSoftKnee     = 0.01
	summarizeEveryN = 3 // run the notes engine every N appended segments
	recentLineCount = 20
)

func main() {
	logger := engine.NewSlogLogger(nil)
	cfg := engine.LoadConfigFromEnv(logger)

	sessionID := uuid.New().String()
	logger.Info("starting meeting session", "session_id", sessionID)

	transcribeProvider, err := buildTranscribeProvider(cfg)
	if err != nil {
		logger.Error("failed to build transcribe provider", "error", err)
		os.Exit(1)
	}
	summarizeProvider := buildSummarizeProvider(cfg)

	system := audio.NewCaptureEndpoint(cfg.CaptureSampleRate)
	mic := audio.NewCaptureEndpoint(cfg.CaptureSampleRate)

	model := vad.NewEnergyProbabilityModel(vadThreshold, vadSoftKnee)
	sup := processor.New(system, mic, queueCapacity, model, logger)
	sup.Start()
	defer sup.Stop()

	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		logger.Error("failed to init audio context", "error", err)
		os.Exit(1)
	}
	defer mctx.Uninit()

	micDevice, err := startCapture(mctx, malgo.Capture, cfg.CaptureSampleRate, mic)
	if err != nil {
		logger.Error("failed to start microphone capture", "error", err)
		os.Exit(1)
	}
	defer micDevice.Uninit()

	sysDevice, err := startCapture(mctx, malgo.Loopback, cfg.CaptureSampleRate, system)
	if err != nil {
		logger.Warn("system audio loopback unavailable, system speech will go unheard", "error", err)
	} else {
		defer sysDevice.Uninit()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runConsumer(ctx, sup, transcribeProvider, summarizeProvider, cfg, logger)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	fmt.Println("\nshutting down...")
}

// runConsumer owns the transcript ledger and notes state for the session:
// it pulls emitted chunks off the shared queue, transcribes and filters
// them into the ledger, and periodically drives the summarizer off the
// ledger's tail.
func runConsumer(ctx context.Context, sup *processor.Supervisor, transcribeProvider engine.TranscribeProvider, summarizeProvider engine.SummarizeProvider, cfg engine.Config, logger engine.Logger) {
	ledger := transcript.New()
	notesState := notes.New()
	participants := participantTokens(cfg.Participants)

	var nextSegmentID atomic.Int64
	sinceLastSummary := 0

	for {
		if ctx.Err() != nil {
			return
		}

		item, outcome := sup.Queue().RecvTimeout(100 * time.Millisecond)
		switch outcome {
		case pipeline.RecvDisconnected:
			return
		case pipeline.Timeout:
			continue
		}

		result, err := transcribeProvider.Transcribe(ctx, item.Chunk.Samples, cfg.RecognitionSampleRate)
		if err != nil {
			logger.Warn("transcribe failed, dropping chunk", "source", item.Source, "error", err)
			continue
		}
		if !filter.ShouldKeep(result.Text, participants) {
			continue
		}

		seg := transcript.Segment{
			ID:      nextSegmentID.Add(1),
			StartMs: item.Chunk.StartPTSNs / 1_000_000,
			EndMs:   (item.Chunk.StartPTSNs + sampleSpanNanos(len(item.Chunk.Samples), cfg.RecognitionSampleRate)) / 1_000_000,
			Speaker: string(item.Source),
			Text:    result.Text,
		}
		if result.HasTiming {
			seg.StartMs, seg.EndMs = result.StartMs, result.EndMs
		}
		ledger.AppendOne(seg)

		fmt.Printf("[%s] %s\n", seg.Speaker, seg.Text)

		sinceLastSummary++
		if sinceLastSummary >= summarizeEveryN {
			sinceLastSummary = 0
			runSummarize(ctx, summarizeProvider, cfg, ledger, notesState, logger)
		}
	}
}

func sampleSpanNanos(n, sampleRate int) int64 {
	if sampleRate <= 0 {
		return 0
	}
	return int64(n) * 1_000_000_000 / int64(sampleRate)
}

func participantTokens(participants []string) map[string]bool {
	tokens := make(map[string]bool, len(participants))
	for _, p := range participants {
		for _, tok := range strings.Fields(filter.Normalize(p)) {
			tokens[tok] = true
		}
	}
	return tokens
}

// runSummarize builds the notes prompt from the ledger's tail and the
// current notes state, runs one summarization pass, and applies whatever
// patch comes back.
func runSummarize(ctx context.Context, provider engine.SummarizeProvider, cfg engine.Config, ledger *transcript.Ledger, notesState *notes.Notes, logger engine.Logger) {
	recent := make([]notes.RecentLine, 0, recentLineCount)
	for _, seg := range ledger.LastN(recentLineCount) {
		recent = append(recent, notes.RecentLine{
			StartMs: seg.StartMs,
			EndMs:   seg.EndMs,
			Speaker: seg.Speaker,
			Text:    seg.Text,
		})
	}

	prompt := notes.BuildPrompt(cfg.MeetingContext, cfg.Participants, notesState.Bullets(), recent)

	err := provider.Summarize(ctx, engine.SummarizeInput{Prompt: prompt, Participants: cfg.Participants}, func(evt engine.SummarizeEvent) error {
		if evt.Type != engine.PatchReady {
			return nil
		}
		patch, err := notes.ParsePatch(evt.Patch)
		if err != nil {
			return err
		}
		before := notesState.Len()
		notesState.Apply(patch)
		for _, b := range notesState.Bullets()[before:] {
			fmt.Printf("  * %s\n", b.Text)
		}
		return nil
	})
	if err != nil {
		logger.Warn("summarize pass failed", "provider", provider.Name(), "error", err)
	}
}

func buildTranscribeProvider(cfg engine.Config) (engine.TranscribeProvider, error) {
	switch cfg.TranscribeProvider {
	case "openai":
		if cfg.TranscribeAPIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY must be set for openai transcription", engine.ErrTranscribeInvalid)
		}
		return transcribe.NewOpenAIProvider(cfg.TranscribeAPIKey, cfg.TranscribeModel, cfg.HTTPPolicy), nil
	case "deepgram":
		if cfg.TranscribeAPIKey == "" {
			return nil, fmt.Errorf("%w: DEEPGRAM_API_KEY must be set for deepgram transcription", engine.ErrTranscribeInvalid)
		}
		return transcribe.NewDeepgramProvider(cfg.TranscribeAPIKey, cfg.HTTPPolicy), nil
	case "local":
		fallthrough
	default:
		return transcribe.NewLocalProvider(cfg.TranscribeLocalURL, cfg.HTTPPolicy), nil
	}
}

func buildSummarizeProvider(cfg engine.Config) engine.SummarizeProvider {
	switch cfg.SummarizeProvider {
	case "anthropic":
		return summarize.NewAnthropicProvider(cfg.SummarizeAPIKey, cfg.SummarizeModel, cfg.HTTPPolicy)
	case "openai":
		return summarize.NewOpenAIProvider(cfg.SummarizeAPIKey, cfg.SummarizeModel, cfg.HTTPPolicy)
	case "local":
		fallthrough
	default:
		return summarize.NewLocalProvider(cfg.SummarizeLocalURL, cfg.HTTPPolicy)
	}
}

// startCapture opens a malgo device of the given type (Capture for the
// microphone, Loopback for system audio where the platform supports it)
// feeding dst with mono float32 samples at sampleRate.
func startCapture(mctx *malgo.AllocatedContext, deviceType malgo.DeviceType, sampleRate int, dst *audio.CaptureEndpoint) (*malgo.Device, error) {
	deviceConfig := malgo.DefaultDeviceConfig(deviceType)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = uint32(sampleRate)

	onSamples := func(_, pInput []byte, frameCount uint32) {
		if pInput == nil {
			return
		}
		samples := make([]float32, frameCount)
		for i := range samples {
			lo, hi := pInput[i*2], pInput[i*2+1]
			v := int16(lo) | int16(hi)<<8
			samples[i] = float32(v) / 32768.0
		}
		dst.Push(samples, time.Now().UnixNano())
	}

	device, err := malgo.InitDevice(mctx.Context, deviceConfig, malgo.DeviceCallbacks{Data: onSamples})
	if err != nil {
		return nil, err
	}
	if err := device.Start(); err != nil {
		return nil, err
	}
	return device, nil
}
