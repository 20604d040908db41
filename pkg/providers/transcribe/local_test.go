package transcribe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/scriblet/meetingscribe/pkg/engine"
)

func testPolicy() engine.HTTPPolicy {
	p := engine.DefaultConfig().HTTPPolicy
	p.PerCallTimeout = 2 * time.Second
	p.ConnectTimeout = 1 * time.Second
	p.SendRequestTo = 1 * time.Second
	p.SendBodyTimeout = 1 * time.Second
	p.RecvResponseTo = 1 * time.Second
	p.RecvBodyTimeout = 1 * time.Second
	p.BackoffBase = time.Millisecond
	return p
}

func TestLocalProviderParsesTextField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("expected multipart/form-data content type, got %s", r.Header.Get("Content-Type"))
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "hello there"})
	}))
	defer srv.Close()

	p := NewLocalProvider(srv.URL, testPolicy())
	result, err := p.Transcribe(context.Background(), make([]float32, 1600), 16000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "hello there" {
		t.Errorf("expected %q, got %q", "hello there", result.Text)
	}
}

func TestLocalProviderNonOKStatusIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewLocalProvider(srv.URL, testPolicy())
	_, err := p.Transcribe(context.Background(), make([]float32, 1600), 16000)
	if err == nil {
		t.Fatalf("expected error for 500 status")
	}
}
