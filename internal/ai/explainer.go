package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/fransbot/pkg/models"
	openai "github.com/sashabaranov/go-openai"
)

// ErrDisabled is returned when no API key is configured
var ErrDisabled = errors.New("explanations are disabled: OPENAI_API_KEY is not set")

const defaultModel = "gpt-4o-mini"

// Config configures the OpenAI client
type Config struct {
	APIKey      string
	BaseURL     string // Optional, for OpenAI-compatible APIs
	Model       string
	MaxTokens   int
	Temperature float32
}

// Explainer asks a chat model why a conjugation is correct.
// A nil *Explainer is valid and always returns ErrDisabled.
type Explainer struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewExplainer creates an explainer, or returns nil when no API key is set
func NewExplainer(cfg Config) *Explainer {
	if cfg.APIKey == "" {
		return nil
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 200
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &Explainer{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// Enabled reports whether explanations can be requested
func (e *Explainer) Enabled() bool {
	return e != nil && e.client != nil
}

// Explain returns a short explanation of the conjugation expected by item
func (e *Explainer) Explain(ctx context.Context, item models.Item) (string, error) {
	if !e.Enabled() {
		return "", ErrDisabled
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(item)},
		},
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to request explanation: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	explanation := strings.TrimSpace(resp.Choices[0].Message.Content)
	if explanation == "" {
		return "", fmt.Errorf("empty explanation returned")
	}
	return explanation, nil
}

const systemPrompt = "You are a patient French teacher. Explain conjugations in at most three short sentences. " +
	"Name the tense, the person and the rule or irregularity that produces the form."

func buildPrompt(item models.Item) string {
	return fmt.Sprintf(
		"Sentence: %q\nVerb (infinitive): %s\nTense: %s\nCorrect form for the blank: %s\n"+
			"Explain why this form is used here.",
		item.Sentence, item.Lemma, item.Tense, item.Answer,
	)
}
