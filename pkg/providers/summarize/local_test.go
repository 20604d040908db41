package summarize

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/scriblet/meetingscribe/pkg/engine"
)

func TestLocalProviderStreamsTokensThenPatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, _ := w.(http.Flusher)
		fmt.Fprintln(w, `{"token":"Action"}`)
		fmt.Fprintln(w, `{"token":" item"}`)
		fmt.Fprintln(w, `{"done":true,"patch":"{\"ops\":[]}"}`)
		if flusher != nil {
			flusher.Flush()
		}
	}))
	defer srv.Close()

	p := NewLocalProvider(srv.URL, testPolicy())

	var events []engine.SummarizeEvent
	err := p.Summarize(context.Background(), engine.SummarizeInput{Prompt: "notes prompt"}, func(e engine.SummarizeEvent) error {
		events = append(events, e)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Type != engine.DraftToken || events[1].Type != engine.DraftToken {
		t.Errorf("expected first two events to be draft tokens, got %+v", events[:2])
	}
	if events[2].Type != engine.PatchReady || events[2].Patch != `{"ops":[]}` {
		t.Errorf("expected final patch-ready event, got %+v", events[2])
	}
}

func TestLocalProviderNameIsLocal(t *testing.T) {
	p := NewLocalProvider("http://127.0.0.1:0", testPolicy())
	if p.Name() != "local" {
		t.Errorf("expected name local, got %s", p.Name())
	}
}

func TestLocalProviderStreamEndingWithoutDoneIsInvalid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"token":"partial"}`)
	}))
	defer srv.Close()

	p := NewLocalProvider(srv.URL, testPolicy())
	err := p.Summarize(context.Background(), engine.SummarizeInput{Prompt: "x"}, func(engine.SummarizeEvent) error { return nil })
	if err == nil {
		t.Fatalf("expected error for stream without a done chunk")
	}
}
