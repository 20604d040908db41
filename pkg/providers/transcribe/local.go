// Package transcribe implements TranscribeProvider against a local
// loopback recognition runtime and cloud Whisper-compatible and
// Deepgram-style endpoints.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/scriblet/meetingscribe/pkg/audio"
	"github.com/scriblet/meetingscribe/pkg/engine"
)

// LocalProvider posts a chunk's WAV-encoded audio as a multipart form
// upload to a loopback HTTP endpoint served by an out-of-scope local
// recognition runtime. No auth header or language field is sent — the
// local runtime is a trusted loopback collaborator.
type LocalProvider struct {
	url    string
	client *http.Client
	policy engine.HTTPPolicy
}

// NewLocalProvider builds a provider posting to url (e.g.
// http://127.0.0.1:8765/transcribe).
func NewLocalProvider(url string, policy engine.HTTPPolicy) *LocalProvider {
	return &LocalProvider{
		url:    url,
		client: engine.NewHTTPClient(policy),
		policy: policy,
	}
}

func (p *LocalProvider) Name() string { return "local" }

func (p *LocalProvider) Transcribe(ctx context.Context, samples []float32, sampleRate int) (engine.TranscribeResult, error) {
	wavData := audio.EncodeWAV(samples, sampleRate)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "chunk.wav")
	if err != nil {
		return engine.TranscribeResult{}, err
	}
	if _, err := part.Write(wavData); err != nil {
		return engine.TranscribeResult{}, err
	}
	if err := writer.Close(); err != nil {
		return engine.TranscribeResult{}, err
	}
	contentType := writer.FormDataContentType()
	payload := body.Bytes()

	resp, err := engine.RetryDo(ctx, p.client, p.policy, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	})
	if err != nil {
		return engine.TranscribeResult{}, fmt.Errorf("%w: %v", engine.ErrTranscribeNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return engine.TranscribeResult{}, fmt.Errorf("%w: local transcribe status %d", engine.ErrTranscribeFailed, resp.StatusCode)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return engine.TranscribeResult{}, fmt.Errorf("%w: %v", engine.ErrTranscribeInvalid, err)
	}

	return engine.TranscribeResult{Text: result.Text}, nil
}
