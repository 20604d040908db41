// Package summarize implements SummarizeProvider against a local
// NDJSON-streaming runtime and cloud chat-completions endpoints.
package summarize

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/scriblet/meetingscribe/pkg/engine"
)

// LocalProvider posts the composed notes prompt to a loopback HTTP
// endpoint served by an out-of-scope local summarization runtime and
// reads its response body as newline-delimited JSON chunks, each an
// optional token plus a done flag.
type LocalProvider struct {
	url    string
	client *http.Client
	policy engine.HTTPPolicy
}

func NewLocalProvider(url string, policy engine.HTTPPolicy) *LocalProvider {
	return &LocalProvider{
		url:    url,
		client: engine.NewHTTPClient(policy),
		policy: policy,
	}
}

func (p *LocalProvider) Name() string { return "local" }

type summarizeRequest struct {
	Prompt       string   `json:"prompt"`
	Participants []string `json:"participants"`
}

type ndjsonChunk struct {
	Token string `json:"token"`
	Done  bool   `json:"done"`
	Patch string `json:"patch"`
}

func (p *LocalProvider) Summarize(ctx context.Context, input engine.SummarizeInput, onEvent func(engine.SummarizeEvent) error) error {
	body, err := json.Marshal(summarizeRequest{Prompt: input.Prompt, Participants: input.Participants})
	if err != nil {
		return err
	}

	resp, err := engine.RetryDo(ctx, p.client, p.policy, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", engine.ErrSummarizeNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: local summarizer status %d", engine.ErrSummarizeFailed, resp.StatusCode)
	}

	var draft bytes.Buffer
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var chunk ndjsonChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			return fmt.Errorf("%w: %v", engine.ErrSummarizeInvalid, err)
		}

		if chunk.Token != "" {
			draft.WriteString(chunk.Token)
			if err := onEvent(engine.SummarizeEvent{Type: engine.DraftToken, Token: chunk.Token}); err != nil {
				return err
			}
		}

		if chunk.Done {
			patch := chunk.Patch
			if patch == "" {
				patch = draft.String()
			}
			return onEvent(engine.SummarizeEvent{Type: engine.PatchReady, Patch: patch})
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %v", engine.ErrSummarizeNetwork, err)
	}

	return fmt.Errorf("%w: local summarizer stream ended without a done chunk", engine.ErrSummarizeInvalid)
}
