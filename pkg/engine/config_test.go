package engine

import "testing"

func TestDefaultConfigMatchesSpecConstants(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.CaptureSampleRate != 48000 {
		t.Errorf("expected capture sample rate 48000, got %d", cfg.CaptureSampleRate)
	}
	if cfg.RecognitionSampleRate != 16000 {
		t.Errorf("expected recognition sample rate 16000, got %d", cfg.RecognitionSampleRate)
	}
	if cfg.ChunkerMaxSamples != 96000 {
		t.Errorf("expected chunker max 96000, got %d", cfg.ChunkerMaxSamples)
	}
	if cfg.HTTPPolicy.MaxRetries != 2 {
		t.Errorf("expected 2 retries, got %d", cfg.HTTPPolicy.MaxRetries)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "", "x", "y"); got != "x" {
		t.Errorf("expected x, got %q", got)
	}
	if got := firstNonEmpty("", ""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
