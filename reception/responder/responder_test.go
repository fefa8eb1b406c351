package responder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	contractx "github.com/bearteam/frontdesk/reception/contract"
)

func newTestResponder(t *testing.T, handler http.HandlerFunc) *Responder {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := openaisdk.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	return New(&client, "gpt-4o-mini", 150)
}

func completionBody(content string) string {
	return fmt.Sprintf(`{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1,
		"model": "gpt-4o-mini",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": %q}, "finish_reason": "stop"}]
	}`, content)
}

func TestRespondScrubsModelReply(t *testing.T) {
	t.Parallel()

	r := newTestResponder(t, func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionBody("*Great!* Let me [help] you with that."))
	})

	got, err := r.Respond(context.Background(), "I want to buy", nil)
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if got != "Great! Let me help you with that." {
		t.Fatalf("Respond() = %q", got)
	}
}

func TestRespondSendsHistoryWithoutDuplicatingUtterance(t *testing.T) {
	t.Parallel()

	var payload struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		MaxTokens int `json:"max_tokens"`
	}

	r := newTestResponder(t, func(w http.ResponseWriter, req *http.Request) {
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionBody("Sure thing."))
	})

	history := []contractx.Turn{
		{Role: contractx.RoleUser, Text: "hello"},
		{Role: contractx.RoleAssistant, Text: "hi, how can I help"},
		{Role: contractx.RoleUser, Text: "tell me about rentals"},
	}
	if _, err := r.Respond(context.Background(), "tell me about rentals", history); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}

	// system prompt + 3 history turns; the utterance is already the
	// trailing user turn and must not be appended again.
	if len(payload.Messages) != 4 {
		t.Fatalf("sent %d messages, want 4", len(payload.Messages))
	}
	if payload.Messages[0].Role != "system" {
		t.Fatalf("first message role = %q, want system", payload.Messages[0].Role)
	}
	if payload.Messages[3].Content != "tell me about rentals" {
		t.Fatalf("trailing message = %q", payload.Messages[3].Content)
	}
	if payload.MaxTokens != 150 {
		t.Fatalf("max_tokens = %d, want 150", payload.MaxTokens)
	}
}

func TestRespondAppendsUtteranceWhenMissingFromHistory(t *testing.T) {
	t.Parallel()

	var messageCount int
	r := newTestResponder(t, func(w http.ResponseWriter, req *http.Request) {
		var payload struct {
			Messages []json.RawMessage `json:"messages"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		messageCount = len(payload.Messages)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionBody("Of course."))
	})

	if _, err := r.Respond(context.Background(), "a fresh question", nil); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if messageCount != 2 { // system + utterance
		t.Fatalf("sent %d messages, want 2", messageCount)
	}
}

func TestRespondFallsBackOnAPIError(t *testing.T) {
	t.Parallel()

	r := newTestResponder(t, func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, `{"error": {"message": "overloaded"}}`, http.StatusInternalServerError)
	})

	got, err := r.Respond(context.Background(), "hello", nil)
	if got != FallbackError {
		t.Fatalf("Respond() = %q, want fallback apology", got)
	}
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("error = %v, want ErrModelInvoke", err)
	}
}

func TestRespondWithoutClient(t *testing.T) {
	t.Parallel()

	r := New(nil, "gpt-4o-mini", 150)
	got, err := r.Respond(context.Background(), "hello", nil)
	if got != FallbackUnavailable {
		t.Fatalf("Respond() = %q, want unavailable fallback", got)
	}
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("error = %v, want ErrModelInvoke", err)
	}
}
