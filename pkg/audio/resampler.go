package audio

import "math"

const (
	// InputBlockSamples is the fixed block size the resampler consumes at
	// 48kHz (10ms). Callers must present input in multiples of this; any
	// remainder is the caller's responsibility to carry to the next call.
	InputBlockSamples = 480

	sincLength  = 256
	cutoffRatio = 0.95 // fraction of Nyquist
	oversample  = 256
	ratioNum    = 1
	ratioDen    = 3
)

// Resampler converts fixed 480-sample (10ms) blocks of 48kHz mono float
// audio into 16kHz mono float audio using a windowed-sinc polyphase
// kernel with linear interpolation between phase taps. It is stateful:
// the same instance must be reused across the lifetime of one source so
// the fractional phase and kernel history carry forward correctly.
type Resampler struct {
	kernel   []float64 // precomputed oversampled sinc*window table
	history  []float64 // trailing input samples from the previous block
	histLen  int
	phaseAcc float64 // fractional output phase, in input-sample units
}

// NewResampler builds a 48kHz->16kHz (3:1) resampler with a fresh filter
// state. Filter history is zeroed, matching a cold start at silence.
func NewResampler() *Resampler {
	r := &Resampler{
		kernel:  buildSincKernel(sincLength, cutoffRatio, oversample),
		history: make([]float64, sincLength),
	}
	return r
}

// buildSincKernel precomputes an oversampled, windowed sinc table. Index
// i*oversample+k holds sinc(cutoff*(i - sincLength/2 + k/oversample)) times
// a Blackman-Harris-squared window, for i in [0,sincLength) and k in
// [0,oversample).
func buildSincKernel(length int, cutoff float64, oversample int) []float64 {
	n := length * oversample
	table := make([]float64, n)
	half := float64(length) / 2
	for idx := 0; idx < n; idx++ {
		i := idx / oversample
		frac := float64(idx%oversample) / float64(oversample)
		x := float64(i) - half + frac
		table[idx] = sinc(cutoff*x) * blackmanHarrisSq(x, half)
	}
	return table
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// blackmanHarrisSq evaluates a Blackman-Harris window at x (centered on
// 0, support [-half, half]) squared, as specified for this resampler.
func blackmanHarrisSq(x, half float64) float64 {
	if x < -half || x > half {
		return 0
	}
	const a0, a1, a2, a3 = 0.35875, 0.48829, 0.14128, 0.01168
	t := math.Pi * (x + half) / (2 * half)
	w := a0 - a1*math.Cos(2*t) + a2*math.Cos(4*t) - a3*math.Cos(6*t)
	return w * w
}

// kernelAt returns the interpolated kernel value for a continuous tap
// offset (in input samples, relative to the kernel center) via linear
// interpolation between the two nearest oversampled table entries.
func (r *Resampler) kernelAt(offset float64) float64 {
	half := float64(sincLength) / 2
	pos := (offset + half) * oversample
	if pos < 0 || pos >= float64(len(r.kernel)-1) {
		return 0
	}
	lo := int(pos)
	frac := pos - float64(lo)
	return r.kernel[lo]*(1-frac) + r.kernel[lo+1]*frac
}

// Process converts one fixed 480-sample input block into its 16kHz
// output, roughly 160 samples with small drift from the fractional
// decimation phase. The caller must always pass exactly
// InputBlockSamples samples; shorter/longer blocks are a caller error in
// this pipeline since upstream framing already enforces it.
func (r *Resampler) Process(in []float32) []float32 {
	buf := make([]float64, r.histLen+len(in))
	copy(buf, r.history[:r.histLen])
	for i, s := range in {
		buf[r.histLen+i] = float64(s)
	}

	var out []float32
	ratio := float64(ratioDen) / float64(ratioNum) // input samples per output sample
	pos := r.phaseAcc
	centerMin := float64(sincLength) / 2

	for {
		center := pos
		if int(math.Ceil(center+centerMin)) >= len(buf) {
			break
		}
		var acc float64
		baseIdx := int(math.Floor(center))
		for i := -sincLength / 2; i < sincLength/2; i++ {
			srcIdx := baseIdx + i
			if srcIdx < 0 || srcIdx >= len(buf) {
				continue
			}
			acc += buf[srcIdx] * r.kernelAt(float64(srcIdx)-center)
		}
		out = append(out, float32(acc))
		pos += ratio
	}

	consumed := len(buf) - sincLength
	if consumed < 0 {
		consumed = 0
	}
	r.phaseAcc = pos - float64(consumed)

	tailStart := len(buf) - sincLength
	if tailStart < 0 {
		tailStart = 0
	}
	r.histLen = copy(r.history, buf[tailStart:])

	return out
}

// Reset clears filter history and phase, for use between sessions.
func (r *Resampler) Reset() {
	r.histLen = 0
	r.phaseAcc = 0
	for i := range r.history {
		r.history[i] = 0
	}
}
