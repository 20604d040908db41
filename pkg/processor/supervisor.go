package processor

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/scriblet/meetingscribe/pkg/audio"
	"github.com/scriblet/meetingscribe/pkg/chunker"
	"github.com/scriblet/meetingscribe/pkg/engine"
	"github.com/scriblet/meetingscribe/pkg/pipeline"
	"github.com/scriblet/meetingscribe/pkg/stats"
	"github.com/scriblet/meetingscribe/pkg/vad"
)

// idleSleep is how long the worker loop yields when neither source
// produced a frame this tick.
const idleSleep = 2 * time.Millisecond

// QueuedChunk pairs an emitted chunk with the source it came from, so a
// consumer pulling from the shared queue still knows which stream
// produced it.
type QueuedChunk struct {
	Source audio.Source
	Chunk  chunker.Chunk
}

// Supervisor spawns one worker goroutine that drives the system and
// microphone capture endpoints through resample->VAD->chunk and feeds
// emitted chunks into a shared bounded queue. Shutdown is explicit via
// Stop (guarded by a sync.Once), not left to GC finalizers.
type Supervisor struct {
	system *audio.CaptureEndpoint
	mic    *audio.CaptureEndpoint

	sysPipeline *sourcePipeline
	micPipeline *sourcePipeline

	queue *pipeline.Queue[QueuedChunk]
	stats *stats.CaptureStats

	logger engine.Logger

	running atomic.Bool
	wg      sync.WaitGroup
	once    sync.Once
}

// New builds a supervisor over the given capture endpoints, a queue of
// the given capacity, and a speech-probability model shared by both
// sources' VAD detectors (each detector keeps its own independent
// hysteresis state — the model itself is stateless).
func New(system, mic *audio.CaptureEndpoint, queueCapacity int, model vad.SpeechProbabilityModel, logger engine.Logger) *Supervisor {
	if logger == nil {
		logger = engine.NoOpLogger{}
	}
	return &Supervisor{
		system:      system,
		mic:         mic,
		sysPipeline: newSourcePipeline(audio.SourceSystem, model),
		micPipeline: newSourcePipeline(audio.SourceMicrophone, model),
		queue:       pipeline.New[QueuedChunk](queueCapacity),
		stats:       stats.New(),
		logger:      logger,
	}
}

// Queue returns the shared bounded chunk queue a consumer reads from.
func (s *Supervisor) Queue() *pipeline.Queue[QueuedChunk] {
	return s.queue
}

// Stats returns the shared capture/chunk counters.
func (s *Supervisor) Stats() *stats.CaptureStats {
	return s.stats
}

// Start spawns the worker goroutine.
func (s *Supervisor) Start() {
	s.running.Store(true)
	s.wg.Add(1)
	go s.run()
}

// Stop flips the running flag, joins the worker, and closes the queue so
// waiting receivers observe Disconnected once drained.
func (s *Supervisor) Stop() {
	s.once.Do(func() {
		s.running.Store(false)
		s.wg.Wait()
		s.queue.Close()
	})
}

func (s *Supervisor) run() {
	defer s.wg.Done()

	drainBuf := make([]float32, 48000) // 1s scratch buffer per tick

	for s.running.Load() {
		gotFrame := false

		if s.pollSource(s.system, s.sysPipeline, drainBuf) {
			gotFrame = true
		}
		if s.pollSource(s.mic, s.micPipeline, drainBuf) {
			gotFrame = true
		}

		if !gotFrame {
			time.Sleep(idleSleep)
		}
	}

	s.flushAll()
}

// pollSource drains whatever is buffered in ep, runs it through src's
// pipeline, and enqueues any emitted chunks. Reports whether any samples
// were drained this tick.
func (s *Supervisor) pollSource(ep *audio.CaptureEndpoint, src *sourcePipeline, buf []float32) bool {
	n, ptsNs := ep.Drain(buf)
	if n == 0 {
		return false
	}
	s.stats.IncFramesCaptured()

	chunks := src.feed(buf[:n], ptsNs)
	for _, c := range chunks {
		s.enqueue(src.source, c)
	}
	return true
}

func (s *Supervisor) enqueue(source audio.Source, c chunker.Chunk) {
	outcome := s.queue.Send(QueuedChunk{Source: source, Chunk: c})
	s.stats.IncChunksEmitted()
	if outcome == pipeline.DroppedOldest {
		s.stats.IncChunksDropped()
	}
	if outcome == pipeline.Disconnected {
		s.logger.Warn("processor: chunk queue disconnected, dropping chunk", "source", source)
	}
}

func (s *Supervisor) flushAll() {
	if c, ok := s.sysPipeline.flush(); ok {
		s.enqueue(audio.SourceSystem, c)
	}
	if c, ok := s.micPipeline.flush(); ok {
		s.enqueue(audio.SourceMicrophone, c)
	}
}
