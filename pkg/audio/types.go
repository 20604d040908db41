// Package audio implements the capture boundary, timestamp reconstruction,
// rate conversion, and WAV encoding that sit between the platform capture
// backend and the per-source processing pipeline.
package audio

// Source tags which physical stream a frame or chunk came from.
type Source string

const (
	SourceSystem     Source = "system"
	SourceMicrophone Source = "microphone"
	SourceMixed      Source = "mixed"
)
