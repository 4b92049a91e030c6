package serp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"daily-uplift-bot/internal/domain"
	"daily-uplift-bot/internal/infra/metrics"
	"daily-uplift-bot/internal/infra/retry"
)

const (
	defaultBaseURL = "https://serpapi.com"
	defaultLimit   = 10
)

// Client выполняет запросы к SerpAPI и нормализует выдачу.
// Локаль фиксирована: английский язык, регион Индия.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	policy  retry.Policy
	log     zerolog.Logger
}

var _ domain.SearchClient = (*Client)(nil)

// NewClient создаёт поискового клиента.
func NewClient(apiKey, baseURL string, timeout time.Duration, policy retry.Policy, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
		policy:  policy,
		log:     logger,
	}
}

type serpItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Content string `json:"content"`
}

type serpResponse struct {
	NewsResults    []serpItem `json:"news_results"`
	OrganicResults []serpItem `json:"organic_results"`
}

// Search выполняет поиск с повторами и возвращает дедуплицированные результаты.
func (c *Client) Search(ctx context.Context, q domain.SearchQuery) ([]domain.SearchResult, error) {
	return retry.Do(ctx, c.log, "serp_search", c.policy, func(ctx context.Context) ([]domain.SearchResult, error) {
		return c.search(ctx, q)
	})
}

func (c *Client) search(ctx context.Context, q domain.SearchQuery) ([]domain.SearchResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("serpapi: %w", domain.ErrMissingCredential)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", q.Text)
	params.Set("api_key", c.apiKey)
	params.Set("hl", "en")
	params.Set("gl", "in")
	params.Set("num", strconv.Itoa(limit))
	if q.News {
		params.Set("tbm", "nws")
	}
	switch q.Recency {
	case domain.RecencyWeek:
		params.Set("tbs", "qdr:w")
	case domain.RecencyYear:
		params.Set("tbs", "qdr:y")
	}

	endpoint := c.baseURL + "/search.json?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("serpapi: build request: %w", err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveNetworkRequest("serpapi", "search", "google", start, err)
		return nil, fmt.Errorf("serpapi: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveNetworkRequest("serpapi", "search", "google", start, err)
		return nil, fmt.Errorf("serpapi: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("serpapi: статус %d: %s: %w", resp.StatusCode, clip(string(body), 180), domain.ErrProvider)
		metrics.ObserveNetworkRequest("serpapi", "search", "google", start, err)
		return nil, err
	}
	metrics.ObserveNetworkRequest("serpapi", "search", "google", start, nil)

	var parsed serpResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("serpapi: decode response: %w", err)
	}

	// В новостном режиме специализированный контейнер предпочтительнее органики.
	var containers [][]serpItem
	if q.News {
		containers = append(containers, parsed.NewsResults)
	}
	containers = append(containers, parsed.OrganicResults)

	seen := make(map[string]struct{})
	results := make([]domain.SearchResult, 0, limit)
	for _, cont := range containers {
		for _, item := range cont {
			link := item.Link
			if link == "" {
				link = item.URL
			}
			if item.Title == "" || link == "" {
				continue
			}
			if _, ok := seen[link]; ok {
				continue
			}
			seen[link] = struct{}{}
			snippet := item.Snippet
			if snippet == "" {
				snippet = item.Content
			}
			results = append(results, domain.SearchResult{Title: item.Title, Link: link, Snippet: snippet})
		}
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func clip(s string, limit int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit])
}
