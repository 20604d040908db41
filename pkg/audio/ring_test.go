package audio

import "testing"

func TestSampleRingPushPopRoundTrip(t *testing.T) {
	r := NewSampleRing(8)
	in := []float32{1, 2, 3, 4}
	if !r.Push(in) {
		t.Fatalf("push rejected")
	}
	if r.Len() != 4 {
		t.Fatalf("expected len 4, got %d", r.Len())
	}

	dst := make([]float32, 4)
	n := r.Pop(dst)
	if n != 4 {
		t.Fatalf("expected 4 popped, got %d", n)
	}
	for i, v := range dst {
		if v != in[i] {
			t.Fatalf("sample %d: got %v, want %v", i, v, in[i])
		}
	}
	if r.Len() != 0 {
		t.Fatalf("expected empty ring after full drain")
	}
}

func TestSampleRingRejectsOverrun(t *testing.T) {
	r := NewSampleRing(4)
	if !r.Push([]float32{1, 2, 3, 4}) {
		t.Fatalf("expected fill to capacity to succeed")
	}
	if r.Push([]float32{5}) {
		t.Fatalf("expected push beyond free space to be rejected whole")
	}
	if r.Len() != 4 {
		t.Fatalf("rejected push must not partially write, got len %d", r.Len())
	}
}

func TestSampleRingWrapAround(t *testing.T) {
	r := NewSampleRing(4)
	r.Push([]float32{1, 2, 3})
	dst := make([]float32, 2)
	r.Pop(dst)
	if !r.Push([]float32{4, 5}) {
		t.Fatalf("expected push after partial drain to fit via wraparound")
	}
	out := make([]float32, 3)
	n := r.Pop(out)
	if n != 3 {
		t.Fatalf("expected 3 remaining samples, got %d", n)
	}
	want := []float32{3, 4, 5}
	for i, v := range want {
		if out[i] != v {
			t.Fatalf("sample %d: got %v, want %v", i, out[i], v)
		}
	}
}

func TestAnnotationRingPushPopOrder(t *testing.T) {
	r := NewAnnotationRing(4)
	r.Push(Annotation{PTSNanos: 100, Len: 10})
	r.Push(Annotation{PTSNanos: 200, Len: 20})

	front, ok := r.PeekFront()
	if !ok || front.PTSNanos != 100 {
		t.Fatalf("expected front annotation PTS 100, got %+v ok=%v", front, ok)
	}

	a, ok := r.Pop()
	if !ok || a.PTSNanos != 100 {
		t.Fatalf("expected first pop PTS 100, got %+v ok=%v", a, ok)
	}
	a, ok = r.Pop()
	if !ok || a.PTSNanos != 200 {
		t.Fatalf("expected second pop PTS 200, got %+v ok=%v", a, ok)
	}
	if _, ok = r.Pop(); ok {
		t.Fatalf("expected empty ring to report no entries")
	}
}

func TestAnnotationRingRejectsOverrun(t *testing.T) {
	r := NewAnnotationRing(2)
	if !r.Push(Annotation{PTSNanos: 1, Len: 1}) {
		t.Fatalf("expected first push to succeed")
	}
	if !r.Push(Annotation{PTSNanos: 2, Len: 1}) {
		t.Fatalf("expected second push to fill capacity")
	}
	if r.Push(Annotation{PTSNanos: 3, Len: 1}) {
		t.Fatalf("expected push beyond capacity to be rejected")
	}
}
