package audio

import "time"

// DefaultSampleCapacity is the capture buffer depth: 10s at 48kHz.
const (
	DefaultSampleCapacity     = 10 * 48000
	DefaultAnnotationCapacity = 1000
)

// CaptureEndpoint is one source's half of the capture boundary (C1): a
// lock-free sample ring paired with an annotation ring, plus the state
// needed to reconstruct per-drain presentation timestamps (C2) on the
// consumer side. The producer side (Push) is wait-free and never blocks;
// the consumer side (Drain) runs on the single processor thread that owns
// this endpoint.
type CaptureEndpoint struct {
	samples     *SampleRing
	annotations *AnnotationRing
	sampleRate  int

	pendingOffset int   // samples already consumed from the front annotation
	lastPTSNs     int64 // fallback PTS when no annotation is pending
}

// NewCaptureEndpoint allocates the paired rings for one source.
func NewCaptureEndpoint(sampleRate int) *CaptureEndpoint {
	return &CaptureEndpoint{
		samples:     NewSampleRing(DefaultSampleCapacity),
		annotations: NewAnnotationRing(DefaultAnnotationCapacity),
		sampleRate:  sampleRate,
	}
}

// Push attempts to reserve room for the whole batch in both rings and, if
// there is room, copies samples and records a single (pts, len)
// annotation. If either ring lacks room the entire batch is dropped — a
// partial write would desynchronize samples from their annotation. Push
// never blocks and performs no allocation.
func (c *CaptureEndpoint) Push(samples []float32, ptsNs int64) bool {
	if len(samples) == 0 {
		return true
	}
	if len(samples) > c.samples.Free() || c.annotations.Free() < 1 {
		return false
	}
	c.samples.Push(samples)
	c.annotations.Push(Annotation{PTSNanos: ptsNs, Len: len(samples)})
	return true
}

// Drain pops up to len(dst) samples and returns the count copied along
// with the reconstructed start timestamp of the first sample in dst. If n
// is 0, the returned timestamp is the last reconstructed PTS.
func (c *CaptureEndpoint) Drain(dst []float32) (n int, startPTSNs int64) {
	n = c.samples.Pop(dst)
	if n == 0 {
		return 0, c.lastPTSNs
	}
	return n, c.reconstructStart(n)
}

// reconstructStart advances the annotation queue by n samples and returns
// the presentation timestamp of the first of those n samples.
func (c *CaptureEndpoint) reconstructStart(n int) int64 {
	remaining := n
	start := c.lastPTSNs
	haveStart := false

	for remaining > 0 {
		ann, ok := c.annotations.PeekFront()
		if !ok {
			break
		}
		if !haveStart {
			start = ann.PTSNanos + offsetNanos(c.pendingOffset, c.sampleRate)
			haveStart = true
		}
		availInAnn := ann.Len - c.pendingOffset
		if remaining < availInAnn {
			c.pendingOffset += remaining
			remaining = 0
		} else {
			remaining -= availInAnn
			c.annotations.Pop()
			c.pendingOffset = 0
		}
	}

	c.lastPTSNs = start
	return start
}

// offsetNanos converts a sample offset into nanoseconds at sampleRate.
func offsetNanos(offsetSamples, sampleRate int) int64 {
	if sampleRate <= 0 {
		return 0
	}
	return int64(offsetSamples) * int64(time.Second) / int64(sampleRate)
}

// Len reports samples currently buffered and awaiting drain.
func (c *CaptureEndpoint) Len() int {
	return c.samples.Len()
}
