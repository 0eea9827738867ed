// Package genai provides the OpenAI-backed coaching assistant. It is an
// optional capability: without an API key the client stays in degraded mode
// and callers get a fallback answer instead of an error.
package genai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// MedicalDisclaimer is appended to every generated answer that does not
// already carry it.
const MedicalDisclaimer = "This is general fitness guidance, not medical advice. See a doctor if you have serious symptoms."

// FallbackAnswer is returned when the assistant is unavailable.
const FallbackAnswer = "The assistant is unavailable right now. Please try again later."

const systemPrompt = "You are a virtual fitness coach. Answer briefly and to the point, " +
	"staying on sports and training topics. End every answer with a note that " +
	"serious symptoms need a doctor's consultation."

// relevanceKeywords gates free-text questions without an API round trip.
var relevanceKeywords = []string{
	"workout", "train", "exercis", "sport", "fitness", "muscle", "weight",
	"rep", "set", "cardio", "stretch", "program", "plan", "routine", "diet",
	"nutrition", "protein", "carb", "fat", "endurance", "strength", "mass",
	"how", "what", "why", "when", "best", "recommend",
}

// Opts holds configuration applied via Option values.
type Opts struct {
	APIKey string
	Model  string
}

// Option configures the client.
type Option func(*Opts)

// WithAPIKey sets the OpenAI API key.
func WithAPIKey(key string) Option {
	return func(o *Opts) { o.APIKey = key }
}

// WithModel overrides the chat model.
func WithModel(model string) Option {
	return func(o *Opts) { o.Model = model }
}

// Client wraps the OpenAI chat API with the coaching prompt and disclaimer.
// A nil or keyless client is valid and reports unavailable.
type Client struct {
	client    openai.Client
	model     string
	available bool
}

// NewClient creates a client. Without an API key the client is created in
// degraded mode rather than failing, so the rest of the system still runs.
func NewClient(opts ...Option) *Client {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	model := cfg.Model
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	if cfg.APIKey == "" {
		slog.Warn("genai client created without API key, assistant disabled")
		return &Client{model: model}
	}
	slog.Info("genai client initialized", "model", model)
	return &Client{
		client:    openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     model,
		available: true,
	}
}

// Available reports whether the assistant can take requests.
func (c *Client) Available() bool {
	return c != nil && c.available
}

// Relevant reports whether a free-text question looks fitness-related.
// Keyword check only; no API call is made for classification.
func (c *Client) Relevant(prompt string) bool {
	lower := strings.ToLower(prompt)
	for _, keyword := range relevanceKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// GenerateAnswer asks the model with the coaching system prompt, optionally
// preceded by the user's profile context, and appends the medical disclaimer.
// In degraded mode the fallback answer is returned without error.
func (c *Client) GenerateAnswer(ctx context.Context, prompt, profileContext string) (string, error) {
	if !c.Available() {
		slog.Debug("genai unavailable, returning fallback answer")
		return FallbackAnswer, nil
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
	}
	if profileContext != "" {
		messages = append(messages, openai.UserMessage(profileContext))
	}
	messages = append(messages, openai.UserMessage(prompt))

	slog.Debug("genai request", "model", c.model, "messages", len(messages))
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    c.model,
	})
	if err != nil {
		slog.Error("genai completion failed", "error", err)
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if !strings.Contains(answer, MedicalDisclaimer) {
		answer = answer + "\n\n" + MedicalDisclaimer
	}
	slog.Debug("genai answer generated", "length", len(answer))
	return answer, nil
}
