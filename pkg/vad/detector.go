package vad

// Detector is a three-state (Silence/Speech/Hangover) hysteresis gate
// over a stream of fixed-size frames. It is stateful and must be reused
// across an entire source's lifetime; call Reset only between sessions,
// never between frames.
type Detector struct {
	model SpeechProbabilityModel

	state      State
	frameCount int // consecutive speech frames in Silence, non-speech in Hangover
	lastProb   float64
}

// NewDetector builds a detector driven by model, starting in Silence.
func NewDetector(model SpeechProbabilityModel) *Detector {
	return &Detector{model: model, state: StateSilence}
}

// State returns the detector's current hysteresis state.
func (d *Detector) State() State {
	return d.state
}

// LastProbability returns the probability the most recent frame produced.
func (d *Detector) LastProbability() float64 {
	return d.lastProb
}

// Process advances the state machine by one frame and reports whether the
// frame should be treated as speech. IsSpeech is true in both Speech and
// Hangover, so short breath pauses don't immediately close a chunk.
func (d *Detector) Process(frame []float32) (isSpeech bool, err error) {
	p, err := d.model.Predict(frame)
	if err != nil {
		return false, err
	}
	d.lastProb = p
	speechFrame := p >= speechThreshold

	switch d.state {
	case StateSilence:
		if speechFrame {
			d.frameCount++
			if d.frameCount >= confirmFrames {
				d.state = StateSpeech
				d.frameCount = 0
			}
		} else {
			d.frameCount = 0
		}
	case StateSpeech:
		if !speechFrame {
			d.state = StateHangover
			d.frameCount = 1
		}
	case StateHangover:
		if speechFrame {
			d.state = StateSpeech
			d.frameCount = 0
		} else {
			d.frameCount++
			if d.frameCount >= hangoverFrames {
				d.state = StateSilence
				d.frameCount = 0
			}
		}
	}

	return d.state == StateSpeech || d.state == StateHangover, nil
}

// Reset returns the detector to its initial Silence state. Call only
// between sessions, not between frames.
func (d *Detector) Reset() {
	d.state = StateSilence
	d.frameCount = 0
	d.lastProb = 0
}
