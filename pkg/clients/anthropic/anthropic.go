package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/pantry-helper/internal/domain/models"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
	model      = "claude-3-haiku-20240307"
	maxTokens  = 1024
)

// Client defines the interface for AI recipe generation.
type Client interface {
	GenerateRecipe(ctx context.Context, prompt string) (*models.Recipe, error)
}

type anthropicClient struct {
	httpClient *resty.Client
	url        string
}

// Option customises the client.
type Option func(*anthropicClient)

// WithURL points the client at another messages endpoint.
func WithURL(url string) Option {
	return func(c *anthropicClient) { c.url = url }
}

// NewClient creates a configured Anthropic client.
func NewClient(apiKey string, opts ...Option) Client {
	client := resty.New().
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(30 * time.Second)

	c := &anthropicClient{httpClient: client, url: apiURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []Message `json:"messages"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

const systemPrompt = `You are a cooking assistant for a community food pantry. Recipes must be practical with common pantry staples.

Your output must be ONLY a JSON object with this structure:
{
	"name": "Recipe name",
	"description": "One or two sentences",
	"ingredients": ["Ingredient: measurement", "..."],
	"instructions": ["Step with measurements", "..."]
}
Write each ingredient with its measurement, e.g. "Sugar: 1 Teaspoon".`

func (c *anthropicClient) GenerateRecipe(ctx context.Context, prompt string) (*models.Recipe, error) {
	reqBody := messageRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages: []Message{
			{Role: "user", Content: fmt.Sprintf("Generate one recipe for a %s dish.", strings.TrimSpace(prompt))},
			// Prefill the assistant response to force JSON
			{Role: "assistant", Content: "{"},
		},
	}

	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post(c.url)
	if err != nil {
		return nil, fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("anthropic api error: %s", resp.String())
	}
	if len(respBody.Content) == 0 {
		return nil, fmt.Errorf("empty response from ai")
	}

	// Reconstruct the full JSON since we prefilled the opening brace
	responseText := strings.TrimSpace("{" + respBody.Content[0].Text)
	if strings.HasPrefix(responseText, "```") {
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)
	}

	var recipe models.Recipe
	if err := json.Unmarshal([]byte(responseText), &recipe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ai response: %w", err)
	}
	if recipe.Name == "" || len(recipe.Ingredients) == 0 {
		return nil, fmt.Errorf("ai response is missing the recipe name or ingredients")
	}

	return &recipe, nil
}
