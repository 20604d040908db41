package notes

import (
	"fmt"
	"strings"
)

// instructionTemplate is the fixed capture-rules preamble sent ahead of
// every summarization call, local or cloud.
const instructionTemplate = `You are a meeting notes engine. From the transcript, capture decisions, action items, dates, and names liberally. Skip pure backchannels and paraphrases of notes already recorded. Emit at most 3 operations per response. Each bullet must be at most 120 characters. Bullet ids are of the form n_<number> and must be unique against existing ids. Evidence is a list of segment start_ms values supporting the bullet.

Respond with JSON of the shape: {"ops": [{"op": "add", "id": "n_1", "text": "...", "evidence": [1234]}]}
If there is nothing worth capturing, respond with: {"ops": []}`

// RecentLine is one formatted transcript line for the prompt's recent
// transcript block.
type RecentLine struct {
	StartMs int64
	EndMs   int64
	Speaker string
	Text    string
}

// BuildPrompt composes the fixed instruction template plus the four input
// blocks: optional meeting context, optional participants list, existing
// notes, and recent transcript lines.
func BuildPrompt(context string, participants []string, existing []Bullet, recent []RecentLine) string {
	var b strings.Builder
	b.WriteString(instructionTemplate)
	b.WriteString("\n\n")

	if context != "" {
		fmt.Fprintf(&b, "Meeting context:\n%s\n\n", context)
	}
	if len(participants) > 0 {
		fmt.Fprintf(&b, "Participants: %s\n\n", strings.Join(participants, ", "))
	}

	b.WriteString("Existing notes:\n")
	if len(existing) == 0 {
		b.WriteString("(none)\n")
	}
	for _, n := range existing {
		fmt.Fprintf(&b, "%s: %s\n", n.ID, n.Text)
	}
	b.WriteString("\n")

	b.WriteString("Recent transcript:\n")
	for _, line := range recent {
		if line.Speaker != "" {
			fmt.Fprintf(&b, "[%d-%d] %s: %s\n", line.StartMs, line.EndMs, line.Speaker, line.Text)
		} else {
			fmt.Fprintf(&b, "[%d-%d] %s\n", line.StartMs, line.EndMs, line.Text)
		}
	}

	return b.String()
}
