// Package llm turns analysis results into short written narratives using a
// configured language model provider. The feature is strictly optional: a
// missing key or provider "none" yields a disabled client, never an error.
package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"github.com/thoughtful-solutions/metrics/internal/config"
)

// Provider identifies the configured language model backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	ProviderNone   Provider = "none"
)

const (
	// completionTemperature keeps narratives consistent between runs.
	completionTemperature = 0.1

	// maxCompletionTokens bounds one narrative's length.
	maxCompletionTokens = 2000
)

// Client is a multi-provider completion client.
type Client struct {
	provider     Provider
	openaiClient *openai.Client
	openaiModel  string
	geminiClient *genai.Client
	geminiModel  string
	logger       *logrus.Logger
}

// NewClient builds a client from configuration. A missing API key logs a
// warning and returns a disabled client so callers can skip narration.
func NewClient(ctx context.Context, cfg config.LLMConfig, logger *logrus.Logger) (*Client, error) {
	if logger == nil {
		logger = logrus.New()
	}

	c := &Client{provider: ProviderNone, logger: logger}

	switch Provider(cfg.Provider) {
	case ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			logger.Warn("llm provider is openai but no API key is configured; narration disabled")
			return c, nil
		}
		c.provider = ProviderOpenAI
		c.openaiClient = openai.NewClient(cfg.OpenAIKey)
		c.openaiModel = cfg.OpenAIModel
		if c.openaiModel == "" {
			c.openaiModel = "gpt-4o-mini"
		}

	case ProviderGemini:
		if cfg.GeminiKey == "" {
			logger.Warn("llm provider is gemini but no API key is configured; narration disabled")
			return c, nil
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		c.provider = ProviderGemini
		c.geminiClient = client
		c.geminiModel = cfg.GeminiModel
		if c.geminiModel == "" {
			c.geminiModel = "gemini-2.0-flash"
		}

	case ProviderNone, "":

	default:
		logger.WithField("provider", cfg.Provider).Warn("unknown llm provider; narration disabled")
	}

	return c, nil
}

// Enabled reports whether a provider is configured and ready.
func (c *Client) Enabled() bool {
	return c.provider == ProviderOpenAI || c.provider == ProviderGemini
}

// Provider returns the active provider.
func (c *Client) Provider() Provider {
	return c.provider
}

// Complete sends a system and user prompt to the configured provider.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	switch c.provider {
	case ProviderOpenAI:
		return c.completeOpenAI(ctx, systemPrompt, userPrompt)
	case ProviderGemini:
		return c.completeGemini(ctx, systemPrompt, userPrompt)
	default:
		return "", fmt.Errorf("no llm provider configured")
	}
}

func (c *Client) completeOpenAI(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.openaiClient.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.openaiModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		Temperature: completionTemperature,
		MaxTokens:   maxCompletionTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	response := resp.Choices[0].Message.Content
	c.logger.WithFields(logrus.Fields{
		"model":  c.openaiModel,
		"tokens": resp.Usage.TotalTokens,
	}).Debug("openai completion")

	return response, nil
}

func (c *Client) completeGemini(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var systemInstruction *genai.Content
	if systemPrompt != "" {
		systemInstruction = genai.Text(systemPrompt)[0]
	}

	temperature := float32(completionTemperature)
	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
		Temperature:       &temperature,
		MaxOutputTokens:   maxCompletionTokens,
	}

	resp, err := c.geminiClient.Models.GenerateContent(ctx, c.geminiModel, genai.Text(userPrompt), genConfig)
	if err != nil {
		return "", fmt.Errorf("gemini completion: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no content parts")
	}

	text := candidate.Content.Parts[0].Text
	c.logger.WithField("model", c.geminiModel).Debug("gemini completion")

	return text, nil
}
