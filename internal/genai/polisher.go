// Package genai is the optional text-generation boundary. The engine
// never depends on it: callers may pass a polished reply through, and
// any failure falls back to the engine's own template text.
package genai

// #region imports
import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// #endregion

// #region result-variants

// StructuredReply is a successfully parsed model response.
type StructuredReply struct {
	Text string `json:"reply"`
}

// ParseFailure carries the raw model output that could not be parsed.
type ParseFailure struct {
	Raw string
}

// Result is exactly one of the two variants.
type Result struct {
	Structured *StructuredReply
	Failure    *ParseFailure
}

// Fallback resolves a result to user-visible text. Pure: a parse failure
// always yields the engine's own template, never the raw model output.
func Fallback(r Result, template string) string {
	if r.Structured != nil && strings.TrimSpace(r.Structured.Text) != "" {
		return r.Structured.Text
	}
	return template
}

// #endregion

// #region polisher

// Polisher rewrites an engine reply in warmer language.
type Polisher interface {
	Polish(ctx context.Context, reply string) Result
}

// OpenAIPolisher calls the OpenAI chat API. Credentials and model come
// from the environment.
type OpenAIPolisher struct {
	client *openai.Client
	model  string
}

// NewOpenAIPolisher builds a polisher, or an error when no API key is
// configured so the caller can simply skip wiring it.
func NewOpenAIPolisher() (*OpenAIPolisher, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, errors.New("OPENAI_API_KEY not set")
	}
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIPolisher{client: openai.NewClient(key), model: model}, nil
}

const polishSystemPrompt = `You rephrase a medical triage assistant's reply to be warmer without changing its meaning, questions, or urgency level. Respond with JSON only: {"reply": "..."}`

// Polish asks the model for a JSON-wrapped rewrite. Any transport or
// parse problem becomes a ParseFailure; the caller's template survives.
func (p *OpenAIPolisher) Polish(ctx context.Context, reply string) Result {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0.3,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: polishSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: reply},
		},
	})
	if err != nil || len(resp.Choices) == 0 {
		return Result{Failure: &ParseFailure{Raw: ""}}
	}
	raw := resp.Choices[0].Message.Content
	var sr StructuredReply
	if err := json.Unmarshal([]byte(raw), &sr); err != nil || strings.TrimSpace(sr.Text) == "" {
		return Result{Failure: &ParseFailure{Raw: raw}}
	}
	return Result{Structured: &sr}
}

// #endregion
