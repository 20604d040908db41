package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/scriblet/meetingscribe/pkg/audio"
	"github.com/scriblet/meetingscribe/pkg/engine"
)

// DeepgramProvider posts raw linear-PCM audio to Deepgram's listen
// endpoint. The content-type rate is set from the actual sample rate a
// chunk carries rather than a hardcoded value.
type DeepgramProvider struct {
	apiKey string
	url    string
	client *http.Client
	policy engine.HTTPPolicy
}

func NewDeepgramProvider(apiKey string, policy engine.HTTPPolicy) *DeepgramProvider {
	return &DeepgramProvider{
		apiKey: apiKey,
		url:    "https://api.deepgram.com/v1/listen",
		client: engine.NewHTTPClient(policy),
		policy: policy,
	}
}

func (p *DeepgramProvider) Name() string { return "deepgram" }

func (p *DeepgramProvider) Transcribe(ctx context.Context, samples []float32, sampleRate int) (engine.TranscribeResult, error) {
	pcm := audio.EncodePCM16(samples)

	u, err := url.Parse(p.url)
	if err != nil {
		return engine.TranscribeResult{}, err
	}
	params := u.Query()
	params.Set("model", "nova-2")
	params.Set("smart_format", "true")
	u.RawQuery = params.Encode()
	reqURL := u.String()
	contentType := fmt.Sprintf("audio/l16; rate=%d; channels=1", sampleRate)

	resp, err := engine.RetryDo(ctx, p.client, p.policy, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(pcm))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Token "+p.apiKey)
		req.Header.Set("Content-Type", contentType)
		return req, nil
	})
	if err != nil {
		return engine.TranscribeResult{}, fmt.Errorf("%w: %v", engine.ErrTranscribeNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return engine.TranscribeResult{}, fmt.Errorf("%w: deepgram error (status %d): %s", engine.ErrTranscribeFailed, resp.StatusCode, string(respBody))
	}

	var result struct {
		Results struct {
			Channels []struct {
				Alternatives []struct {
					Transcript string `json:"transcript"`
				} `json:"alternatives"`
			} `json:"channels"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return engine.TranscribeResult{}, fmt.Errorf("%w: %v", engine.ErrTranscribeInvalid, err)
	}

	if len(result.Results.Channels) == 0 || len(result.Results.Channels[0].Alternatives) == 0 {
		return engine.TranscribeResult{}, nil
	}

	return engine.TranscribeResult{Text: result.Results.Channels[0].Alternatives[0].Transcript}, nil
}
