package vad

import "math"

// EnergyProbabilityModel is a lightweight, no-dependency default
// SpeechProbabilityModel: it computes the RMS energy of a frame and maps
// it into [0,1] with a soft-knee curve centered on a configurable
// threshold, rather than a hard RMS-vs-threshold comparison.
type EnergyProbabilityModel struct {
	threshold float64
	knee      float64
}

// NewEnergyProbabilityModel builds a model that treats rms == threshold
// as p == 0.5, with knee controlling how sharply probability rises
// around that point. A smaller knee yields a steeper, more threshold-like
// curve.
func NewEnergyProbabilityModel(threshold, knee float64) *EnergyProbabilityModel {
	if knee <= 0 {
		knee = threshold / 4
		if knee <= 0 {
			knee = 0.01
		}
	}
	return &EnergyProbabilityModel{threshold: threshold, knee: knee}
}

// Predict returns the soft-knee speech probability for frame.
func (m *EnergyProbabilityModel) Predict(frame []float32) (float64, error) {
	rms := calculateRMS(frame)
	x := (rms - m.threshold) / m.knee
	return 1 / (1 + math.Exp(-x)), nil
}

// calculateRMS computes root-mean-square energy over float samples
// already normalized to [-1,1].
func calculateRMS(frame []float32) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, s := range frame {
		f := float64(s)
		sum += f * f
	}
	return math.Sqrt(sum / float64(len(frame)))
}
