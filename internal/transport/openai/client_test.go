package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/practicelink/internal/domain"
	"github.com/kailas-cloud/practicelink/internal/domain/post"
	"github.com/kailas-cloud/practicelink/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterEnrichmentMetrics()
	os.Exit(m.Run())
}

// chatRequest mirrors the parts of the chat completion request the tests inspect.
type chatRequest struct {
	Model          string  `json:"model"`
	Temperature    float32 `json:"temperature"`
	MaxTokens      int     `json:"max_tokens"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// chatServer answers every completion with content and records the last request.
func chatServer(t *testing.T, content string, last *chatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		if last != nil {
			if err := json.NewDecoder(r.Body).Decode(last); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
			"usage": map[string]any{"prompt_tokens": 12, "completion_tokens": 8, "total_tokens": 20},
		})
	}))
}

func newTestClient(url string) *Client {
	return NewClient(&Config{
		APIKey:          "test-key",
		BaseURL:         url,
		Model:           "test-model",
		FormatMaxTokens: 500,
		Logger:          zap.NewNop(),
	})
}

func TestClient_ResolveLinks(t *testing.T) {
	var req chatRequest
	server := chatServer(t, `{"links":[{"title":"Two Sum","url":"https://leetcode.com/problems/two-sum/","site":"LeetCode"}]}`, &req)
	defer server.Close()

	links, err := newTestClient(server.URL).ResolveLinks(context.Background(), []string{"pair sum", "two sum"})
	if err != nil {
		t.Fatalf("ResolveLinks: %v", err)
	}
	if len(links) != 1 || links[0].URL != "https://leetcode.com/problems/two-sum/" {
		t.Fatalf("unexpected links: %+v", links)
	}

	if req.Model != "test-model" {
		t.Errorf("model = %q", req.Model)
	}
	if req.Temperature < 0.09 || req.Temperature > 0.11 {
		t.Errorf("temperature = %v, want 0.1", req.Temperature)
	}
	if req.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %q", req.ResponseFormat.Type)
	}
	if len(req.Messages) != 1 || !strings.HasSuffix(req.Messages[0].Content, "Problems: pair sum, two sum") {
		t.Errorf("unexpected prompt: %+v", req.Messages)
	}
}

func TestClient_ResolveLinks_InvalidJSON(t *testing.T) {
	server := chatServer(t, "Sure! Here are some links.", nil)
	defer server.Close()

	_, err := newTestClient(server.URL).ResolveLinks(context.Background(), []string{"two sum"})
	if !errors.Is(err, domain.ErrModelOutputInvalid) {
		t.Fatalf("expected ErrModelOutputInvalid, got %v", err)
	}
}

func TestClient_FormatPost(t *testing.T) {
	var req chatRequest
	server := chatServer(t, "```json\n{\"title\":\"Acme\"}\n```", &req)
	defer server.Close()

	text, err := newTestClient(server.URL).FormatPost(context.Background(), post.FormatInput{
		Company:    "Acme",
		Role:       "SDE Intern",
		ContentRaw: "Two rounds, asked two sum.",
	})
	if err != nil {
		t.Fatalf("FormatPost: %v", err)
	}
	if !strings.Contains(text, `"title":"Acme"`) {
		t.Errorf("unexpected text %q", text)
	}
	if req.MaxTokens != 500 {
		t.Errorf("max_tokens = %d, want 500", req.MaxTokens)
	}
	content := req.Messages[0].Content
	if !strings.Contains(content, "Company: Acme\nRole: SDE Intern") ||
		!strings.HasSuffix(content, "Write-up:\nTwo rounds, asked two sum.") {
		t.Errorf("unexpected prompt: %q", content)
	}
}

func TestClient_ExtractBundles(t *testing.T) {
	server := chatServer(t, `{"questions":[{"name":"Coin Change"}],"searchQueries":[]}`, nil)
	defer server.Close()

	bundles, err := newTestClient(server.URL).ExtractBundles(context.Background(), "asked coin change", "")
	if err != nil {
		t.Fatalf("ExtractBundles: %v", err)
	}
	if len(bundles) != 1 || bundles[0].Question != "Coin Change" || bundles[0].Queries[0] != "Coin Change" {
		t.Errorf("unexpected bundles: %+v", bundles)
	}
}

func TestClient_ExtractBundles_SchemaViolation(t *testing.T) {
	server := chatServer(t, `{"searchQueries":[{"question":"x","queries":[]}]}`, nil)
	defer server.Close()

	_, err := newTestClient(server.URL).ExtractBundles(context.Background(), "raw", "")
	if !errors.Is(err, domain.ErrModelOutputInvalid) {
		t.Fatalf("expected ErrModelOutputInvalid, got %v", err)
	}
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient(&Config{BaseURL: "http://unused", Model: "m"})
	if c.Configured() {
		t.Error("client without key must not be configured")
	}
	if _, err := c.ResolveLinks(context.Background(), []string{"x"}); !errors.Is(err, domain.ErrModelNotConfigured) {
		t.Errorf("ResolveLinks: expected ErrModelNotConfigured, got %v", err)
	}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, domain.ErrModelNotConfigured) {
		t.Errorf("HealthCheck: expected ErrModelNotConfigured, got %v", err)
	}
}

func TestClient_EmptyChoices(t *testing.T) {
	server := chatServer(t, "", nil)
	defer server.Close()

	_, err := newTestClient(server.URL).FormatPost(context.Background(), post.FormatInput{ContentRaw: "x"})
	if !errors.Is(err, domain.ErrModelProviderError) {
		t.Fatalf("expected ErrModelProviderError, got %v", err)
	}
}

func TestClient_APIError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, domain.ErrRateLimited},
		{"server error", http.StatusInternalServerError, domain.ErrModelProviderError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{
						"message": "something went wrong",
						"type":    "server_error",
					},
				})
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).ResolveLinks(context.Background(), []string{"x"})
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestClient_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
	}))
	defer server.Close()

	if err := newTestClient(server.URL).HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}
