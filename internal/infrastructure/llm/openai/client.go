package openai

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mkrasnov/asop-compliance-service/internal/infrastructure/resilience"
)

// UsageRecorder receives token usage reported by the completion API.
type UsageRecorder func(model string, promptTokens, completionTokens int)

// Client asks an OpenAI chat-completion model for an ASOP compliance review.
// Calls are stateless; identical requests are not cached.
type Client struct {
	api           *openai.Client
	model         string
	maxInputChars int
	timeout       time.Duration
	executor      *resilience.Executor
	recordUsage   UsageRecorder
}

type Option func(*Client)

// WithBaseURL points the client at an alternate API host.
func WithBaseURL(apiKey, baseURL string) Option {
	return func(c *Client) {
		cfg := openai.DefaultConfig(apiKey)
		cfg.BaseURL = baseURL
		c.api = openai.NewClientWithConfig(cfg)
	}
}

// WithExecutor routes completion calls through a breaker/retry executor.
func WithExecutor(executor *resilience.Executor) Option {
	return func(c *Client) {
		c.executor = executor
	}
}

// WithUsageRecorder reports token usage from each completion response.
func WithUsageRecorder(record UsageRecorder) Option {
	return func(c *Client) {
		c.recordUsage = record
	}
}

func New(apiKey, model string, maxInputChars int, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		api:           openai.NewClient(apiKey),
		model:         model,
		maxInputChars: maxInputChars,
		timeout:       timeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AnalyzeText serves the direct analysis endpoint.
func (c *Client) AnalyzeText(ctx context.Context, text string) (string, error) {
	return c.complete(ctx, "analyze", systemPromptAnalyze, text)
}

// AnalyzeMemorandum carries the full compliance-review instruction used by
// the upload pipeline.
func (c *Client) AnalyzeMemorandum(ctx context.Context, text string) (string, error) {
	return c.complete(ctx, "upload", systemPromptCompliance, text)
}

func (c *Client) complete(ctx context.Context, operation, systemPrompt, text string) (string, error) {
	text = truncateInput(operation, text, c.maxInputChars)

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var content string
	run := func(ctx context.Context) error {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: text},
			},
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("completion returned no choices")
		}
		if c.recordUsage != nil {
			c.recordUsage(resp.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
		}
		content = resp.Choices[0].Message.Content
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(callCtx, "openai_"+operation, run, classifyCompletionError)
	} else {
		err = run(callCtx)
	}
	if err != nil {
		return "", wrapCompletionError(operation, err)
	}
	return content, nil
}
