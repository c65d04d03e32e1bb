package assistant

import (
	"context"
	"errors"
	"fmt"

	"zeno/internal/config"

	"github.com/go-deepseek/deepseek"
	"github.com/go-deepseek/deepseek/request"
)

// Provider превращает сообщение пользователя в ответ модели.
// Ответ должен содержать JSON вида {"reply": "...", "actions": [...]}.
type Provider interface {
	Complete(ctx context.Context, system, message string) (string, error)
	Name() string
}

type DeepSeekProvider struct {
	client    deepseek.Client
	model     string
	maxTokens int
}

func NewDeepSeekProvider(apiKey, model string, maxTokens int) (*DeepSeekProvider, error) {
	if apiKey == "" {
		return nil, errors.New("не задан ключ DeepSeek API")
	}

	client, err := deepseek.NewClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("создание клиента DeepSeek: %w", err)
	}

	if model == "" {
		model = "deepseek-chat"
	}
	return &DeepSeekProvider{client: client, model: model, maxTokens: maxTokens}, nil
}

func (p *DeepSeekProvider) Name() string {
	return "deepseek"
}

func (p *DeepSeekProvider) Complete(ctx context.Context, system, message string) (string, error) {
	temp := float32(0.3)
	resp, err := p.client.CallChatCompletionsChat(ctx, &request.ChatCompletionsRequest{
		Model: p.model,
		Messages: []*request.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: message},
		},
		MaxTokens:   p.maxTokens,
		Temperature: &temp,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("запрос к DeepSeek: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("DeepSeek вернул пустой ответ")
	}
	return resp.Choices[0].Message.Content, nil
}

// NewProvider выбирает провайдера по конфигурации: без ключа
// используется KeywordProvider.
func NewProvider(cfg config.AssistantConfig) (Provider, error) {
	switch cfg.Provider {
	case "keyword":
		return NewKeywordProvider(), nil
	case "deepseek":
		return NewDeepSeekProvider(cfg.APIKey, cfg.Model, cfg.MaxTokens)
	case "":
		if cfg.APIKey == "" {
			return NewKeywordProvider(), nil
		}
		return NewDeepSeekProvider(cfg.APIKey, cfg.Model, cfg.MaxTokens)
	default:
		return nil, fmt.Errorf("неизвестный провайдер %q", cfg.Provider)
	}
}
