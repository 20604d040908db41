package transcript

import "testing"

func TestLedgerPrefixOverlapMerge(t *testing.T) {
	l := New()
	l.AppendOne(Segment{ID: 1, StartMs: 0, EndMs: 100, Text: "the quick brown"})
	l.AppendOne(Segment{ID: 2, StartMs: 50, EndMs: 200, Text: "the quick brown fox"})

	segs := l.Segments()
	if len(segs) != 1 {
		t.Fatalf("expected exactly one segment, got %d", len(segs))
	}
	if segs[0].ID != 2 || segs[0].Text != "the quick brown fox" {
		t.Fatalf("expected id=2 text=%q, got id=%d text=%q", "the quick brown fox", segs[0].ID, segs[0].Text)
	}
}

func TestLedgerFinalizationWindow(t *testing.T) {
	l := New()
	l.AppendOne(Segment{ID: 1, StartMs: 0, EndMs: 100, Text: "old"})
	l.AppendOne(Segment{ID: 2, StartMs: 20_000, EndMs: 21_000, Text: "new"})

	segs := l.Segments()
	var seg1, seg2 Segment
	for _, s := range segs {
		switch s.ID {
		case 1:
			seg1 = s
		case 2:
			seg2 = s
		}
	}
	if !seg1.Finalized {
		t.Fatalf("expected segment 1 to be finalized")
	}
	if seg2.Finalized {
		t.Fatalf("expected segment 2 to still be mutable")
	}

	l.AppendOne(Segment{ID: 3, StartMs: 0, EndMs: 100, Text: "overwrite attempt"})
	if l.Len() != 2 {
		t.Fatalf("expected overlapping append against a finalized segment to be dropped, got %d segments", l.Len())
	}
}

func TestLedgerIdempotentExactDuplicate(t *testing.T) {
	l := New()
	seg := Segment{ID: 1, StartMs: 0, EndMs: 100, Text: "hello there"}
	l.AppendOne(seg)
	l.AppendOne(seg)

	if l.Len() != 1 {
		t.Fatalf("expected one segment after appending the same segment twice, got %d", l.Len())
	}
}

func TestLedgerContainmentReplacesWithNewerText(t *testing.T) {
	l := New()
	l.AppendOne(Segment{ID: 1, StartMs: 0, EndMs: 100, Text: "meet"})
	l.AppendOne(Segment{ID: 2, StartMs: 0, EndMs: 150, Text: "let's meet tomorrow at noon"})

	segs := l.Segments()
	if len(segs) != 1 || segs[0].Text != "let's meet tomorrow at noon" {
		t.Fatalf("expected containment to replace with the longer text, got %+v", segs)
	}
}

func TestLedgerSegmentsSinceAndLastN(t *testing.T) {
	l := New()
	l.AppendOne(Segment{ID: 1, StartMs: 0, EndMs: 100, Text: "one"})
	l.AppendOne(Segment{ID: 2, StartMs: 30_000, EndMs: 30_100, Text: "two"})
	l.AppendOne(Segment{ID: 3, StartMs: 60_000, EndMs: 60_100, Text: "three"})

	since := l.SegmentsSince(1)
	if len(since) != 2 {
		t.Fatalf("expected 2 segments since id 1, got %d", len(since))
	}

	last := l.LastN(1)
	if len(last) != 1 || last[0].ID != 3 {
		t.Fatalf("expected last-1 to be id 3, got %+v", last)
	}
}

func TestSimilarityScoring(t *testing.T) {
	cases := []struct {
		a, b string
		min  float64
	}{
		{"hello world", "hello world", 1},
		{"hello", "hello world", 1},
		{"", "anything", 0},
	}
	for _, c := range cases {
		got := similarity(c.a, c.b)
		if got < c.min {
			t.Errorf("similarity(%q, %q) = %v, want >= %v", c.a, c.b, got, c.min)
		}
	}
	if got := similarity("", ""); got != 0 {
		t.Errorf("expected similarity of two empty strings to be 0, got %v", got)
	}
}
