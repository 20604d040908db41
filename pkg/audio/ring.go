package audio

import "sync/atomic"

// SampleRing is a single-producer/single-consumer ring buffer of float32
// samples. Push is wait-free: it never blocks the caller and instead
// reports whether there was room for the whole batch. Capacity is rounded
// up to the next power of two so index wraparound is a plain mask.
type SampleRing struct {
	buf  []float32
	mask uint64
	head atomic.Uint64 // consumer-owned read index
	tail atomic.Uint64 // producer-owned write index
}

// NewSampleRing allocates a ring able to hold at least capacity samples.
func NewSampleRing(capacity int) *SampleRing {
	size := nextPow2(capacity)
	return &SampleRing{
		buf:  make([]float32, size),
		mask: uint64(size - 1),
	}
}

// nextPow2 returns the smallest power of two >= n (minimum 1).
func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Push copies samples into the ring. It returns false without writing
// anything if the whole batch does not fit — callers must drop the entire
// batch on overrun rather than write a partial one, or the paired PTS
// annotation in AnnotationRing would desynchronize from the sample stream.
func (r *SampleRing) Push(samples []float32) bool {
	head := r.head.Load()
	tail := r.tail.Load()
	free := uint64(len(r.buf)) - (tail - head)
	if uint64(len(samples)) > free {
		return false
	}

	for i, s := range samples {
		r.buf[(tail+uint64(i))&r.mask] = s
	}
	r.tail.Store(tail + uint64(len(samples)))
	return true
}

// Pop drains up to len(dst) samples into dst, returning the number copied.
func (r *SampleRing) Pop(dst []float32) int {
	head := r.head.Load()
	tail := r.tail.Load()
	avail := tail - head
	n := uint64(len(dst))
	if n > avail {
		n = avail
	}
	for i := uint64(0); i < n; i++ {
		dst[i] = r.buf[(head+i)&r.mask]
	}
	r.head.Store(head + n)
	return int(n)
}

// Len reports the number of samples currently buffered.
func (r *SampleRing) Len() int {
	return int(r.tail.Load() - r.head.Load())
}

// Free reports how many samples could be pushed right now.
func (r *SampleRing) Free() int {
	return len(r.buf) - r.Len()
}

// Annotation records the PTS and length of one captured batch.
type Annotation struct {
	PTSNanos int64
	Len      int
}

// AnnotationRing is a single-producer/single-consumer ring of Annotations,
// used to carry the (timestamp, batch length) pair that accompanies each
// sample batch pushed through a SampleRing.
type AnnotationRing struct {
	buf  []Annotation
	mask uint64
	head atomic.Uint64
	tail atomic.Uint64
}

// NewAnnotationRing allocates a ring able to hold at least capacity entries.
func NewAnnotationRing(capacity int) *AnnotationRing {
	size := nextPow2(capacity)
	return &AnnotationRing{
		buf:  make([]Annotation, size),
		mask: uint64(size - 1),
	}
}

// Push appends one annotation, returning false if the ring is full.
func (r *AnnotationRing) Push(a Annotation) bool {
	head := r.head.Load()
	tail := r.tail.Load()
	if tail-head >= uint64(len(r.buf)) {
		return false
	}
	r.buf[tail&r.mask] = a
	r.tail.Store(tail + 1)
	return true
}

// Pop removes and returns the oldest annotation, if any.
func (r *AnnotationRing) Pop() (Annotation, bool) {
	head := r.head.Load()
	tail := r.tail.Load()
	if head == tail {
		return Annotation{}, false
	}
	a := r.buf[head&r.mask]
	r.head.Store(head + 1)
	return a, true
}

// Len reports the number of buffered annotations.
func (r *AnnotationRing) Len() int {
	return int(r.tail.Load() - r.head.Load())
}

// Free reports how many annotations could be pushed right now.
func (r *AnnotationRing) Free() int {
	return len(r.buf) - r.Len()
}

// PeekFront returns the oldest annotation without removing it.
func (r *AnnotationRing) PeekFront() (Annotation, bool) {
	head := r.head.Load()
	tail := r.tail.Load()
	if head == tail {
		return Annotation{}, false
	}
	return r.buf[head&r.mask], true
}
