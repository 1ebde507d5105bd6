package reasoning

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/doeshing/cmdgate/internal/domain"
)

func completionBody(content string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(body)
}

func newTestClient(endpoint string) *Client {
	return NewClient(domain.ReasonerSettings{
		Endpoint:       endpoint,
		ModelID:        "test-model",
		AuthEnvVar:     "CMDGATE_TEST_API_KEY",
		TimeoutSeconds: 5,
		MaxRetries:     1,
	}, nil)
}

func TestAnalyzeReturnsCompletionText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q, want test-model", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		if !strings.Contains(req.Messages[1].Content, "rm -rf /tmp/scratch") {
			t.Error("user message does not embed the command")
		}
		if req.MaxTokens != requestMaxTokens || req.Temperature != requestTemperature {
			t.Errorf("sampling settings not applied: %+v", req)
		}
		w.Write([]byte(completionBody(`{"level":"safe","reason":"scratch dir"}`)))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	raw, err := client.Analyze(context.Background(), "rm -rf /tmp/scratch")
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if raw != `{"level":"safe","reason":"scratch dir"}` {
		t.Fatalf("unexpected raw text: %q", raw)
	}
}

func TestAnalyzeNonOKStatusIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Analyze(context.Background(), "ls")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestAnalyzeEmptyCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionBody("")))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Analyze(context.Background(), "ls")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("ErrEmptyResponse must match ErrUnavailable, got %v", err)
	}
}

func TestAnalyzeRetriesTransportFailure(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "bad gateway", http.StatusBadGateway)
			return
		}
		w.Write([]byte(completionBody("ok")))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	raw, err := client.Analyze(context.Background(), "ls")
	if err != nil {
		t.Fatalf("Analyze error after retry: %v", err)
	}
	if raw != "ok" {
		t.Fatalf("unexpected raw text: %q", raw)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
}

func TestAnalyzeDoesNotRetryEmptyCompletion(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Write([]byte(completionBody("")))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.Analyze(context.Background(), "ls"); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1 (empty completion is not retried)", attempts)
	}
}

func TestAnalyzeUnreachableEndpoint(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	_, err := client.Analyze(context.Background(), "ls")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestAnalyzeSendsBearerToken(t *testing.T) {
	t.Setenv("CMDGATE_TEST_API_KEY", "sk-test")
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("authorization")
		w.Write([]byte(completionBody("ok")))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.Analyze(context.Background(), "ls"); err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
}
