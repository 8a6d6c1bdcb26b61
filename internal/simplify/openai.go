package simplify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIRewriter implements Rewriter on OpenAI's Chat Completions API
type OpenAIRewriter struct {
	client *openai.Client
	config Config
}

// NewOpenAIRewriter creates a new OpenAI-backed rewriter
func NewOpenAIRewriter(config Config) (*OpenAIRewriter, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIRewriter{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (r *OpenAIRewriter) Name() string {
	return "openai"
}

// Rewrite rewrites one clause via the Chat Completions API
func (r *OpenAIRewriter) Rewrite(ctx context.Context, req RewriteRequest) (*RewriteResult, error) {
	model := r.config.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = r.config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 400
	}

	timeout := r.config.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(req),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2, // Rewrites should stay close to the source
	}

	resp, err := r.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return nil, fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from openai")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, fmt.Errorf("empty rewrite from openai")
	}

	return &RewriteResult{
		Text:       text,
		Model:      model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}
