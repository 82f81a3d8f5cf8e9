package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"two-doc-checker/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

// ErrMalformedReply marks a model reply that is empty or not valid JSON.
// It is the only error AskJSON retries.
var ErrMalformedReply = errors.New("model returned malformed JSON")

// ProviderError is a non-2xx answer from the chat endpoint.
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("model provider returned status %d: %s", e.Status, e.Body)
}

// ChatCompleter sends one system+user exchange and returns the raw reply.
type ChatCompleter interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// NewChatCompleter builds the provider named in cfg.LLM.Provider.
func NewChatCompleter(cfg *config.Config, logger *zap.Logger) (ChatCompleter, error) {
	switch cfg.LLM.Provider {
	case config.ProviderOpenRouter:
		return NewOpenAICompatClient(&cfg.LLM), nil
	case config.ProviderGigaChat:
		return NewGigaChatClient(&cfg.GigaChat, cfg.LLM.Timeout, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLM.Provider)
	}
}

// OpenAICompatClient talks to any /chat/completions endpoint (OpenRouter by default).
type OpenAICompatClient struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	referer     string
	title       string
	httpClient  *http.Client
}

func NewOpenAICompatClient(cfg *config.LLMConfig) *OpenAICompatClient {
	return &OpenAICompatClient{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		referer:     cfg.HTTPReferer,
		title:       cfg.AppTitle,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *OpenAICompatClient) Complete(ctx context.Context, system, user string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.referer != "" {
		req.Header.Set("HTTP-Referer", c.referer)
	}
	if c.title != "" {
		req.Header.Set("X-Title", c.title)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &ProviderError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM: %w", ErrMalformedReply)
	}
	return out.Choices[0].Message.Content, nil
}

// gigaChatTemperature is untyped so it fits gigago's field whatever its width.
const gigaChatTemperature = 0.1

// GigaChatClient wraps gigago. A fresh GenerativeModel is built per call so
// concurrent requests never share a SystemInstruction.
type GigaChatClient struct {
	client  *gigago.Client
	model   string
	timeout time.Duration
}

func NewGigaChatClient(cfg *config.GigaChatConfig, timeout time.Duration, logger *zap.Logger) (*GigaChatClient, error) {
	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(context.Background(), cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	logger.Info("Using GigaChat model", zap.String("model", cfg.Model))
	return &GigaChatClient{client: client, model: cfg.Model, timeout: timeout}, nil
}

func (g *GigaChatClient) Complete(ctx context.Context, system, user string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	model := g.client.GenerativeModel(g.model)
	model.SystemInstruction = system
	model.Temperature = gigaChatTemperature

	resp, err := model.Generate(ctx, []gigago.Message{
		{Role: gigago.RoleUser, Content: user},
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM: %w", ErrMalformedReply)
	}
	return resp.Choices[0].Message.Content, nil
}

func (g *GigaChatClient) Close() error {
	if g.client != nil {
		g.client.Close()
	}
	return nil
}

// LLMService asks a chat model for a JSON value.
type LLMService struct {
	chat    ChatCompleter
	retries int
	logger  *zap.Logger
}

// NewLLMService wraps chat. retries is the number of extra attempts made
// after a malformed reply.
func NewLLMService(chat ChatCompleter, retries int, logger *zap.Logger) *LLMService {
	return &LLMService{chat: chat, retries: retries, logger: logger}
}

// AskJSON returns the decoded reply: map[string]any, []any or a scalar.
func (s *LLMService) AskJSON(ctx context.Context, system, user string) (any, error) {
	attempt := 0
	return Retry(ctx, s.retries+1, isMalformedReply, func(ctx context.Context) (any, error) {
		attempt++
		content, err := s.chat.Complete(ctx, system, user)
		if err != nil {
			return nil, err
		}
		v, err := parseJSONReply(content)
		if err != nil {
			s.logger.Warn("Model reply is not valid JSON",
				zap.Int("attempt", attempt),
				zap.Int("reply_length", len(content)),
				zap.Error(err),
			)
			return nil, err
		}
		return v, nil
	})
}

// Close releases the underlying provider if it holds resources.
func (s *LLMService) Close() error {
	if c, ok := s.chat.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func isMalformedReply(err error) bool {
	return errors.Is(err, ErrMalformedReply)
}

// parseJSONReply strips an optional markdown fence and decodes the rest.
func parseJSONReply(content string) (any, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
		content = strings.TrimSpace(content)
	}
	if content == "" {
		return nil, fmt.Errorf("empty reply: %w", ErrMalformedReply)
	}

	var v any
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	return v, nil
}
