package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/practicelink/internal/domain"
	"github.com/kailas-cloud/practicelink/internal/domain/bundle"
	"github.com/kailas-cloud/practicelink/internal/domain/link"
	"github.com/kailas-cloud/practicelink/internal/domain/post"
	"github.com/kailas-cloud/practicelink/internal/metrics"
)

// Operation names used in metrics labels.
const (
	opResolveLinks = "resolve_links"
	opFormat       = "format"
	opExtract      = "extract"
)

// Client is a generative backend using the OpenAI-compatible chat API (e.g. Gemini).
type Client struct {
	client          *openai.Client
	model           string
	formatMaxTokens int
	configured      bool
	logger          *zap.Logger
}

// Config holds the generative backend settings.
type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	FormatMaxTokens int
	HTTPClient      *http.Client
	Logger          *zap.Logger
}

// NewClient creates an OpenAI-compatible chat client. An empty APIKey yields a
// client whose calls fail with domain.ErrModelNotConfigured.
func NewClient(cfg *Config) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxTokens := cfg.FormatMaxTokens
	if maxTokens <= 0 {
		maxTokens = 800
	}

	return &Client{
		client:          openai.NewClientWithConfig(clientCfg),
		model:           cfg.Model,
		formatMaxTokens: maxTokens,
		configured:      strings.TrimSpace(cfg.APIKey) != "",
		logger:          logger,
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool { return c.configured }

const resolveLinksPrompt = `Given these interview problem names, output JSON {links:[{title,url,site}]}.
Rules:
- Prefer LeetCode. If not available, use GeeksForGeeks.
- Use the official problem URLs (LeetCode: /problems/<slug>/ ; GFG: article page).
- If it's a variation, choose the closest canonical problem and keep the title canonical.
Problems: `

// ResolveLinks asks the model for practice links for the given problem phrases.
// The returned links are unvalidated model output.
func (c *Client) ResolveLinks(ctx context.Context, phrases []string) ([]link.Picked, error) {
	text, err := c.complete(ctx, opResolveLinks, openai.ChatCompletionRequest{
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: resolveLinksPrompt + strings.Join(phrases, ", ")},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		Links []struct {
			Title string `json:"title"`
			URL   string `json:"url"`
			Site  string `json:"site"`
		} `json:"links"`
	}
	if err := json.Unmarshal([]byte(post.StripFence(text)), &out); err != nil {
		return nil, fmt.Errorf("decode links: %w: %w", domain.ErrModelOutputInvalid, err)
	}

	links := make([]link.Picked, 0, len(out.Links))
	for _, l := range out.Links {
		links = append(links, link.Picked{Title: l.Title, URL: l.URL, Site: link.Site(l.Site)})
	}
	return links, nil
}

const formatPrompt = `You clean up a student's interview write-up.
Return JSON with: title (<=80 chars), markdown, questions, topicsDetected, searchQueries.
Markdown should include sections: Summary, Rounds & Questions (bullets if any), Tips for juniors.
Be concise and friendly. If info missing, omit that section.
questions: [{name, tags, synonyms}] for each coding problem asked, using the canonical problem name.
topicsDetected: subset of ["CN","OS","DBMS","DSA"] covered by the interview.
searchQueries: [{question, queries}] with 1-3 short web search queries per coding problem.`

// FormatPost asks the model to structure a write-up and returns its raw reply.
func (c *Client) FormatPost(ctx context.Context, in post.FormatInput) (string, error) {
	user := fmt.Sprintf("Company: %s\nRole: %s\nDate: %s\nDegree: %s\nType: %s\n\nWrite-up:\n%s",
		in.Company, in.Role, in.InterviewDate, in.DegreeLevel, in.OpportunityType, in.ContentRaw)

	return c.complete(ctx, opFormat, openai.ChatCompletionRequest{
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: formatPrompt + "\n\n" + user},
		},
		Temperature: 0.2,
		MaxTokens:   c.formatMaxTokens,
	})
}

const extractPrompt = `List the coding interview problems discussed in this write-up.
Return JSON {questions:[{name,tags,synonyms}], searchQueries:[{question,queries}]}.
Use canonical problem names and 1-3 short web search queries per problem. Return empty arrays if none.`

// ExtractBundles asks the model which problems a write-up mentions.
func (c *Client) ExtractBundles(ctx context.Context, raw, formatted string) ([]bundle.Bundle, error) {
	content := extractPrompt + "\n\nWrite-up:\n" + raw
	if strings.TrimSpace(formatted) != "" {
		content += "\n\nFormatted:\n" + formatted
	}

	text, err := c.complete(ctx, opExtract, openai.ChatCompletionRequest{
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		Questions     []post.Question `json:"questions" validate:"dive"`
		SearchQueries []bundle.Bundle `json:"searchQueries" validate:"dive"`
	}
	if err := json.Unmarshal([]byte(post.StripFence(text)), &out); err != nil {
		return nil, fmt.Errorf("decode extraction: %w: %w", domain.ErrModelOutputInvalid, err)
	}
	if err := post.Validator().Struct(out); err != nil {
		return nil, fmt.Errorf("validate extraction: %w: %w", domain.ErrModelOutputInvalid, err)
	}

	s := post.Structured{Questions: out.Questions, SearchQueries: out.SearchQueries}
	return s.Bundles(), nil
}

// complete runs one JSON-mode chat completion and returns the first choice text.
func (c *Client) complete(ctx context.Context, op string, req openai.ChatCompletionRequest) (string, error) {
	if !c.configured {
		return "", domain.ErrModelNotConfigured
	}

	req.Model = c.model
	req.ResponseFormat = &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.ModelRequestsTotal.WithLabelValues(op, c.model, "error").Inc()
		return "", parseAPIError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		metrics.ModelRequestsTotal.WithLabelValues(op, c.model, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrModelProviderError)
	}

	metrics.ModelRequestsTotal.WithLabelValues(op, c.model, "success").Inc()
	metrics.ModelRequestDuration.WithLabelValues(op, c.model).Observe(duration.Seconds())

	if resp.Usage.TotalTokens > 0 {
		metrics.ModelTokensTotal.WithLabelValues(op, c.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.ModelTokensTotal.WithLabelValues(op, c.model, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	c.logger.Debug("Model call completed",
		zap.String("operation", op),
		zap.Duration("duration", duration),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return resp.Choices[0].Message.Content, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.configured {
		return domain.ErrModelNotConfigured
	}
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// 429 wraps domain.ErrRateLimited; all other errors wrap domain.ErrModelProviderError.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		wrap := wrapFor(reqErr.HTTPStatusCode)
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("model API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("model API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("model API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrapFor(apiErr.HTTPStatusCode))
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("model request: %w: %w", domain.ErrModelProviderError, err)
	}

	return fmt.Errorf("model request failed: %w", domain.ErrModelProviderError)
}

func wrapFor(status int) error {
	if status == http.StatusTooManyRequests {
		return domain.ErrRateLimited
	}
	return domain.ErrModelProviderError
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
