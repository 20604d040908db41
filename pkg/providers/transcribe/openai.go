package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/scriblet/meetingscribe/pkg/audio"
	"github.com/scriblet/meetingscribe/pkg/engine"
)

// OpenAIProvider transcribes chunks against an OpenAI-compatible
// multipart audio/transcriptions endpoint.
type OpenAIProvider struct {
	apiKey string
	url    string
	model  string
	client *http.Client
	policy engine.HTTPPolicy
}

func NewOpenAIProvider(apiKey, model string, policy engine.HTTPPolicy) *OpenAIProvider {
	if model == "" {
		model = "whisper-1"
	}
	return &OpenAIProvider{
		apiKey: apiKey,
		url:    "https://api.openai.com/v1/audio/transcriptions",
		model:  model,
		client: engine.NewHTTPClient(policy),
		policy: policy,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Transcribe(ctx context.Context, samples []float32, sampleRate int) (engine.TranscribeResult, error) {
	wavData := audio.EncodeWAV(samples, sampleRate)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("model", p.model); err != nil {
		return engine.TranscribeResult{}, err
	}
	part, err := writer.CreateFormFile("file", "chunk.wav")
	if err != nil {
		return engine.TranscribeResult{}, err
	}
	if _, err := part.Write(wavData); err != nil {
		return engine.TranscribeResult{}, err
	}
	writer.Close()
	contentType := writer.FormDataContentType()
	payload := body.Bytes()

	resp, err := engine.RetryDo(ctx, p.client, p.policy, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
		return req, nil
	})
	if err != nil {
		return engine.TranscribeResult{}, fmt.Errorf("%w: %v", engine.ErrTranscribeNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return engine.TranscribeResult{}, fmt.Errorf("%w: openai error %s (status %d)", engine.ErrTranscribeFailed, string(respBody), resp.StatusCode)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return engine.TranscribeResult{}, fmt.Errorf("%w: %v", engine.ErrTranscribeInvalid, err)
	}

	return engine.TranscribeResult{Text: result.Text}, nil
}
