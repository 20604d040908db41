package notes

import (
	"strings"
	"testing"
)

func TestNotesApplyIdempotentOnDuplicateID(t *testing.T) {
	n := New()
	patch := Patch{Adds: []Add{{ID: "n_1", Text: "decision made", Evidence: []int64{1000}}}}
	n.Apply(patch)
	n.Apply(patch)

	if n.Len() != 1 {
		t.Fatalf("expected applying the same patch twice to be a no-op, got %d bullets", n.Len())
	}
}

func TestNotesApplySkipsExistingID(t *testing.T) {
	n := New()
	n.Apply(Patch{Adds: []Add{{ID: "n_1", Text: "first"}}})
	n.Apply(Patch{Adds: []Add{{ID: "n_1", Text: "second, should be ignored"}}})

	bullets := n.Bullets()
	if len(bullets) != 1 || bullets[0].Text != "first" {
		t.Fatalf("expected original bullet to survive unmutated, got %+v", bullets)
	}
}

func TestNotesGrowsMonotonically(t *testing.T) {
	n := New()
	n.Apply(Patch{Adds: []Add{{ID: "n_1", Text: "one"}}})
	n.Apply(Patch{Adds: []Add{{ID: "n_2", Text: "two"}}})

	if n.Len() != 2 {
		t.Fatalf("expected 2 bullets, got %d", n.Len())
	}
}

func TestBuildPromptIncludesBlocks(t *testing.T) {
	prompt := BuildPrompt(
		"quarterly planning",
		[]string{"Maria", "Jon"},
		[]Bullet{{ID: "n_1", Text: "ship by friday"}},
		[]RecentLine{{StartMs: 0, EndMs: 1000, Speaker: "microphone", Text: "let's ship by friday"}},
	)
	if prompt == "" {
		t.Fatalf("expected non-empty prompt")
	}
	for _, want := range []string{"quarterly planning", "Maria, Jon", "n_1: ship by friday", "microphone: let's ship by friday"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
}
