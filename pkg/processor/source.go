// Package processor implements the worker-thread supervisor driving each
// source's resample -> VAD -> chunk pipeline and feeding emitted chunks
// into the bounded drop-oldest queue.
package processor

import (
	"github.com/scriblet/meetingscribe/pkg/audio"
	"github.com/scriblet/meetingscribe/pkg/chunker"
	"github.com/scriblet/meetingscribe/pkg/vad"
)

const nanosPerSecond = 1_000_000_000

// sourcePipeline holds one source's per-stage state: a remainder buffer
// for sub-block resampler input, a remainder buffer for sub-frame VAD
// input, the resampler, the detector, and the chunker. The resampler and
// detector are stateful and must persist across frames — only Reset
// between sessions.
type sourcePipeline struct {
	source audio.Source

	resampleRemainder []float32
	resampleStartPTS  int64
	resampler         *audio.Resampler

	vadRemainder []float32
	vadStartPTS  int64
	detector     *vad.Detector

	chunker *chunker.Chunker
}

func newSourcePipeline(source audio.Source, model vad.SpeechProbabilityModel) *sourcePipeline {
	return &sourcePipeline{
		source:    source,
		resampler: audio.NewResampler(),
		detector:  vad.NewDetector(model),
		chunker:   chunker.New(),
	}
}

// feed runs one drained batch of 48kHz samples through resample -> VAD ->
// chunk, returning any chunks emitted (normally at most one, but a large
// batch spanning multiple chunker emission boundaries can yield more).
func (p *sourcePipeline) feed(samples []float32, ptsNs int64) []chunker.Chunk {
	if len(samples) == 0 {
		return nil
	}

	if len(p.resampleRemainder) == 0 {
		p.resampleStartPTS = ptsNs
	}
	p.resampleRemainder = append(p.resampleRemainder, samples...)

	var chunks []chunker.Chunk
	blockIdx := 0
	for len(p.resampleRemainder) >= audio.InputBlockSamples {
		block := p.resampleRemainder[:audio.InputBlockSamples]
		pts := nthBlockPTS(p.resampleStartPTS, blockIdx, audio.InputBlockSamples, 48000)

		out := p.resampler.Process(block)
		chunks = append(chunks, p.feedVAD(out, pts)...)

		p.resampleRemainder = p.resampleRemainder[audio.InputBlockSamples:]
		blockIdx++
	}
	if len(p.resampleRemainder) > 0 {
		p.resampleStartPTS = nthBlockPTS(p.resampleStartPTS, blockIdx, audio.InputBlockSamples, 48000)
	}

	return chunks
}

// nthBlockPTS returns the presentation timestamp of the first sample of
// the nth fixed-size block after start, at the given sample rate.
func nthBlockPTS(start int64, n, blockSamples int, rate int64) int64 {
	return start + int64(n)*int64(blockSamples)*nanosPerSecond/rate
}

// feedVAD accumulates 16kHz resampled output and runs the detector in
// fixed vad.FrameSamples frames, pushing each frame (with its speech
// verdict) into the chunker.
func (p *sourcePipeline) feedVAD(samples []float32, ptsNs int64) []chunker.Chunk {
	if len(samples) == 0 {
		return nil
	}

	if len(p.vadRemainder) == 0 {
		p.vadStartPTS = ptsNs
	}
	p.vadRemainder = append(p.vadRemainder, samples...)

	var chunks []chunker.Chunk
	frameIdx := 0
	for len(p.vadRemainder) >= vad.FrameSamples {
		frame := p.vadRemainder[:vad.FrameSamples]
		framePTS := nthBlockPTS(p.vadStartPTS, frameIdx, vad.FrameSamples, 16000)

		isSpeech, err := p.detector.Process(frame)
		if err == nil {
			if c, emitted := p.chunker.Push(frame, framePTS, isSpeech); emitted {
				chunks = append(chunks, c)
			}
		}

		p.vadRemainder = p.vadRemainder[vad.FrameSamples:]
		frameIdx++
	}
	if len(p.vadRemainder) > 0 {
		p.vadStartPTS = nthBlockPTS(p.vadStartPTS, frameIdx, vad.FrameSamples, 16000)
	}

	return chunks
}

// flush emits whatever the chunker holds, reporting a final chunk if one
// is pending. Samples still waiting in the resampler or VAD remainder
// buffers are not included.
func (p *sourcePipeline) flush() (chunker.Chunk, bool) {
	return p.chunker.Flush()
}
