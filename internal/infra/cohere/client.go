package cohere

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"daily-uplift-bot/internal/domain"
	"daily-uplift-bot/internal/infra/metrics"
	"daily-uplift-bot/internal/infra/retry"
)

const (
	defaultBaseURL = "https://api.cohere.com"
	defaultModel   = "command-a-03-2025"
)

// jsonInstruction дописывается к промпту в GenerateJSON.
const jsonInstruction = "\n\nReturn ONLY a minified JSON object. Do not include any extra commentary, markdown, or code fences."

// Client выполняет chat-запросы к Cohere.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	model   string
	policy  retry.Policy
	log     zerolog.Logger
}

var _ domain.TextGenerator = (*Client)(nil)

// NewClient создаёт клиента Cohere.
func NewClient(apiKey, baseURL, model string, timeout time.Duration, policy retry.Policy, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		policy:  policy,
		log:     logger,
	}
}

type chatRequest struct {
	Model       string  `json:"model"`
	Message     string  `json:"message"`
	Temperature float64 `json:"temperature,omitempty"`
}

type chatResponse struct {
	Text string `json:"text"`
	Meta *struct {
		BilledUnits struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"billed_units"`
	} `json:"meta,omitempty"`
}

type apiErrorResponse struct {
	Message string `json:"message"`
}

// GenerateText возвращает текстовый ответ модели, с повторами.
func (c *Client) GenerateText(ctx context.Context, prompt string, temperature float64) (string, error) {
	return retry.Do(ctx, c.log, "cohere_chat", c.policy, func(ctx context.Context) (string, error) {
		return c.chat(ctx, prompt, temperature)
	})
}

// GenerateJSON просит модель вернуть минифицированный JSON-объект и разбирает его.
// Извлечение и разбор входят в повторяемую операцию: мусорный ответ модели —
// повод для новой попытки.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, temperature float64) (map[string]any, error) {
	return retry.Do(ctx, c.log, "cohere_chat_json", c.policy, func(ctx context.Context) (map[string]any, error) {
		text, err := c.chat(ctx, prompt+jsonInstruction, temperature)
		if err != nil {
			return nil, err
		}
		return ExtractJSONObject(text)
	})
}

func (c *Client) chat(ctx context.Context, prompt string, temperature float64) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("cohere: %w", domain.ErrMissingCredential)
	}
	body, err := json.Marshal(chatRequest{Model: c.model, Message: prompt, Temperature: temperature})
	if err != nil {
		return "", fmt.Errorf("cohere: marshal request: %w", err)
	}
	endpoint := c.baseURL + "/v1/chat"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("cohere: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		metrics.ObserveNetworkRequest("cohere", "chat", c.model, start, err)
		return "", fmt.Errorf("cohere: do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveNetworkRequest("cohere", "chat", c.model, start, err)
		return "", fmt.Errorf("cohere: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		var apiErr apiErrorResponse
		if jsonErr := json.Unmarshal(respBody, &apiErr); jsonErr == nil && apiErr.Message != "" {
			err = fmt.Errorf("cohere: %s: %w", apiErr.Message, domain.ErrProvider)
		} else {
			err = fmt.Errorf("cohere: статус %d: %w", resp.StatusCode, domain.ErrProvider)
		}
		metrics.ObserveNetworkRequest("cohere", "chat", c.model, start, err)
		return "", err
	}
	var completion chatResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		metrics.ObserveNetworkRequest("cohere", "chat", c.model, start, err)
		return "", fmt.Errorf("cohere: decode response: %w", err)
	}
	metrics.ObserveNetworkRequest("cohere", "chat", c.model, start, nil)
	if completion.Meta != nil {
		metrics.ObserveLLMGeneration(c.model, time.Since(start), completion.Meta.BilledUnits.InputTokens, completion.Meta.BilledUnits.OutputTokens)
	}
	return completion.Text, nil
}

// ExtractJSONObject вырезает самый внешний {...} из текста и разбирает его.
// Комментарии вокруг скобок допустимы, мусор внутри — нет.
func ExtractJSONObject(text string) (map[string]any, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("cohere: %w", domain.ErrNoJSON)
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err != nil {
		return nil, fmt.Errorf("cohere: %w: %v", domain.ErrNoJSON, err)
	}
	return obj, nil
}
