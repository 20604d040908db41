package transcribe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIProviderParsesTextField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("expected bearer auth header, got %q", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "meeting notes text"})
	}))
	defer srv.Close()

	p := NewOpenAIProvider("key", "", testPolicy())
	p.url = srv.URL

	result, err := p.Transcribe(context.Background(), make([]float32, 1600), 16000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "meeting notes text" {
		t.Errorf("expected %q, got %q", "meeting notes text", result.Text)
	}
}

func TestDeepgramProviderParsesTranscript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token key" {
			t.Errorf("expected token auth header, got %q", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"results": map[string]any{
				"channels": []map[string]any{
					{"alternatives": []map[string]any{{"transcript": "hi"}}},
				},
			},
		})
	}))
	defer srv.Close()

	p := NewDeepgramProvider("key", testPolicy())
	p.url = srv.URL

	result, err := p.Transcribe(context.Background(), make([]float32, 1600), 16000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "hi" {
		t.Errorf("expected %q, got %q", "hi", result.Text)
	}
}
