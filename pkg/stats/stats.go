// Package stats exposes the capture/chunking counters shared between the
// processor's producer threads and the consumer, for observability.
package stats

import "sync/atomic"

// CaptureStats is a set of relaxed atomic counters, incremented by
// whichever side of the pipeline observes the event. The processor
// increments FramesCaptured, ChunksEmitted and ChunksDropped; nothing in
// this module calls IncFramesDropped, so a capture batch rejected by
// audio.CaptureEndpoint.Push is reported only through Push's false
// return. Reads are individually consistent but Snapshot does not lock
// across fields, matching the "consistent-enough" read the UI needs.
type CaptureStats struct {
	framesCaptured atomic.Uint64
	framesDropped  atomic.Uint64
	chunksEmitted  atomic.Uint64
	chunksDropped  atomic.Uint64
}

// New builds a zeroed CaptureStats.
func New() *CaptureStats {
	return &CaptureStats{}
}

func (s *CaptureStats) IncFramesCaptured() { s.framesCaptured.Add(1) }
func (s *CaptureStats) IncFramesDropped()  { s.framesDropped.Add(1) }
func (s *CaptureStats) IncChunksEmitted()  { s.chunksEmitted.Add(1) }
func (s *CaptureStats) IncChunksDropped()  { s.chunksDropped.Add(1) }

func (s *CaptureStats) FramesCaptured() uint64 { return s.framesCaptured.Load() }
func (s *CaptureStats) FramesDropped() uint64  { return s.framesDropped.Load() }
func (s *CaptureStats) ChunksEmitted() uint64  { return s.chunksEmitted.Load() }
func (s *CaptureStats) ChunksDropped() uint64  { return s.chunksDropped.Load() }

// Snapshot is a single-struct bundle of all four counters, for callers
// (like a UI) that want one consistent-enough read rather than four
// separate atomic loads.
type Snapshot struct {
	FramesCaptured uint64
	FramesDropped  uint64
	ChunksEmitted  uint64
	ChunksDropped  uint64
}

// Snapshot reads all four counters into a single struct.
func (s *CaptureStats) Snapshot() Snapshot {
	return Snapshot{
		FramesCaptured: s.framesCaptured.Load(),
		FramesDropped:  s.framesDropped.Load(),
		ChunksEmitted:  s.chunksEmitted.Load(),
		ChunksDropped:  s.chunksDropped.Load(),
	}
}
