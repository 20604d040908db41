package notes

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Add is the only operation this engine's notes vocabulary supports: a
// monotone append, never a delete or an in-place edit.
type Add struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Evidence []int64 `json:"evidence"`
}

// Patch is a batch of operations produced by a summarize provider. Only
// "add" is a recognized op tag; any other tag is an invalid response.
type Patch struct {
	Adds []Add
}

// rawOp mirrors the wire shape: {"op": "add", ...Add fields}.
type rawOp struct {
	Op       string  `json:"op"`
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Evidence []int64 `json:"evidence"`
}

type rawPatch struct {
	Ops []rawOp `json:"ops"`
}

// ParsePatch attempts a strict JSON parse first. If that fails, it
// locates the substring between the first '{' and the last '}' and
// re-parses that, tolerating a model response wrapped in prose. An
// unrecognized op tag is an error; a well-formed empty ops array is a
// valid empty patch.
func ParsePatch(raw string) (Patch, error) {
	patch, err := parsePatchStrict(raw)
	if err == nil {
		return patch, nil
	}

	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end < start {
		return Patch{}, fmt.Errorf("notes: no JSON object found in response: %w", err)
	}
	return parsePatchStrict(raw[start : end+1])
}

func parsePatchStrict(raw string) (Patch, error) {
	var rp rawPatch
	if err := json.Unmarshal([]byte(raw), &rp); err != nil {
		return Patch{}, fmt.Errorf("notes: invalid patch JSON: %w", err)
	}

	patch := Patch{}
	for _, op := range rp.Ops {
		if op.Op != "add" {
			return Patch{}, fmt.Errorf("notes: unrecognized op tag %q", op.Op)
		}
		patch.Adds = append(patch.Adds, Add{ID: op.ID, Text: op.Text, Evidence: op.Evidence})
	}
	return patch, nil
}
