package nlp

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/polisearch/polisearch/pkg/config"
	"github.com/polisearch/polisearch/pkg/types"
)

// OpenAIClient implements the Client interface for OpenAI and Azure OpenAI
// chat models.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAIClient creates a chat client from configuration. Provider
// "azure" routes through an Azure OpenAI deployment; anything else uses the
// public OpenAI API.
func NewOpenAIClient(cfg config.NLPConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("nlp api key is required")
	}

	var clientConfig openai.ClientConfig
	if cfg.Provider == "azure" {
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("azure provider requires a base url")
		}
		clientConfig = openai.DefaultAzureConfig(cfg.APIKey, cfg.BaseURL)
		if cfg.APIVersion != "" {
			clientConfig.APIVersion = cfg.APIVersion
		}
		if cfg.DeploymentID != "" {
			deployment := cfg.DeploymentID
			clientConfig.AzureModelMapperFunc = func(model string) string {
				return deployment
			}
		}
	} else {
		clientConfig = openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientConfig.BaseURL = cfg.BaseURL
		}
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Chat implements the Client interface.
func (c *OpenAIClient) Chat(ctx context.Context, messages []types.Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}

	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    chatMessages,
		Temperature: c.temperature,
	}
	if c.maxTokens > 0 {
		req.MaxTokens = c.maxTokens
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}

// Close implements the Client interface.
func (c *OpenAIClient) Close() error {
	return nil
}
