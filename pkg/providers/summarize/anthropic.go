package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/scriblet/meetingscribe/pkg/engine"
)

const cloudSystemPrompt = "You are a meeting notes engine. Follow the instructions and output only JSON."

// AnthropicProvider completes one summarization pass against the
// Anthropic Messages API. The composed notes prompt (instructions plus
// the four input blocks) rides as the user message; the system message is
// the fixed one-line role statement. It emits one DraftToken with the
// full response text, then replays the same text as PatchReady for
// pkg/notes.ParsePatch to parse, since a single non-streaming completion
// has no intermediate tokens to report.
type AnthropicProvider struct {
	apiKey string
	url    string
	model  string
	client *http.Client
	policy engine.HTTPPolicy
}

func NewAnthropicProvider(apiKey, model string, policy engine.HTTPPolicy) *AnthropicProvider {
	if model == "" {
		model = "claude-3-5-sonnet-20240620"
	}
	return &AnthropicProvider{
		apiKey: apiKey,
		url:    "https://api.anthropic.com/v1/messages",
		model:  model,
		client: engine.NewHTTPClient(policy),
		policy: policy,
	}
}

func (a *AnthropicProvider) Name() string { return "anthropic" }

func (a *AnthropicProvider) Summarize(ctx context.Context, input engine.SummarizeInput, onEvent func(engine.SummarizeEvent) error) error {
	payload := map[string]any{
		"model": a.model,
		"messages": []map[string]string{
			{"role": "user", "content": input.Prompt},
		},
		"system":      cloudSystemPrompt,
		"max_tokens":  1024,
		"temperature": 0.2,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := engine.RetryDo(ctx, a.client, a.policy, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", a.apiKey)
		req.Header.Set("anthropic-version", "2023-06-01")
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", engine.ErrSummarizeNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp any
		json.NewDecoder(resp.Body).Decode(&errResp)
		return fmt.Errorf("%w: anthropic error (status %d): %v", engine.ErrSummarizeFailed, resp.StatusCode, errResp)
	}

	var result struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%w: %v", engine.ErrSummarizeInvalid, err)
	}
	if len(result.Content) == 0 {
		return fmt.Errorf("%w: anthropic returned no content", engine.ErrSummarizeInvalid)
	}

	text := result.Content[0].Text
	if err := onEvent(engine.SummarizeEvent{Type: engine.DraftToken, Token: text}); err != nil {
		return err
	}
	return onEvent(engine.SummarizeEvent{Type: engine.PatchReady, Patch: text})
}
