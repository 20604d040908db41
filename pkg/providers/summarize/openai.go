package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/scriblet/meetingscribe/pkg/engine"
)

// OpenAIProvider completes one summarization pass against an OpenAI-
// compatible chat-completions API. Emits one DraftToken with the full
// response, then replays it as PatchReady.
type OpenAIProvider struct {
	apiKey string
	url    string
	model  string
	client *http.Client
	policy engine.HTTPPolicy
}

func NewOpenAIProvider(apiKey, model string, policy engine.HTTPPolicy) *OpenAIProvider {
	if model == "" {
		model = "gpt-4o"
	}
	return &OpenAIProvider{
		apiKey: apiKey,
		url:    "https://api.openai.com/v1/chat/completions",
		model:  model,
		client: engine.NewHTTPClient(policy),
		policy: policy,
	}
}

func (o *OpenAIProvider) Name() string { return "openai" }

func (o *OpenAIProvider) Summarize(ctx context.Context, input engine.SummarizeInput, onEvent func(engine.SummarizeEvent) error) error {
	payload := map[string]any{
		"model": o.model,
		"messages": []map[string]string{
			{"role": "system", "content": cloudSystemPrompt},
			{"role": "user", "content": input.Prompt},
		},
		"temperature": 0.2,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := engine.RetryDo(ctx, o.client, o.policy, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", engine.ErrSummarizeNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp any
		json.NewDecoder(resp.Body).Decode(&errResp)
		return fmt.Errorf("%w: openai error (status %d): %v", engine.ErrSummarizeFailed, resp.StatusCode, errResp)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%w: %v", engine.ErrSummarizeInvalid, err)
	}
	if len(result.Choices) == 0 {
		return fmt.Errorf("%w: openai returned no choices", engine.ErrSummarizeInvalid)
	}

	text := result.Choices[0].Message.Content
	if err := onEvent(engine.SummarizeEvent{Type: engine.DraftToken, Token: text}); err != nil {
		return err
	}
	return onEvent(engine.SummarizeEvent{Type: engine.PatchReady, Patch: text})
}
