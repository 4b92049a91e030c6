package movies

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"daily-uplift-bot/internal/domain"
	"daily-uplift-bot/internal/infra/metrics"
	"daily-uplift-bot/internal/infra/retry"
)

const (
	defaultListingURL = "https://in.bookmyshow.com/explore/movies-mumbai?languages=hindi"
	defaultMaxTitles  = 8
	userAgent         = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"
)

// embeddedTitle находит поля "title" в JSON, вшитом в разметку страницы.
var embeddedTitle = regexp.MustCompile(`"title"\s*:\s*"([^"]+)"`)

// Scraper достаёт названия хинди-фильмов с афиши BookMyShow (Мумбаи).
type Scraper struct {
	http     *http.Client
	url      string
	maxItems int
	policy   retry.Policy
	log      zerolog.Logger
}

var _ domain.MovieLister = (*Scraper)(nil)

// NewScraper создаёт скрейпер афиши.
func NewScraper(url string, maxItems int, timeout time.Duration, policy retry.Policy, logger zerolog.Logger) *Scraper {
	if url == "" {
		url = defaultListingURL
	}
	if maxItems <= 0 {
		maxItems = defaultMaxTitles
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Scraper{
		http:     &http.Client{Timeout: timeout},
		url:      url,
		maxItems: maxItems,
		policy:   policy,
		log:      logger,
	}
}

// ListTitles возвращает до maxItems названий, с повторами при сетевых сбоях.
func (s *Scraper) ListTitles(ctx context.Context) ([]string, error) {
	return retry.Do(ctx, s.log, "bms_scrape", s.policy, func(ctx context.Context) ([]string, error) {
		return s.fetch(ctx)
	})
}

func (s *Scraper) fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("bms: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-IN,en;q=0.9")

	start := time.Now()
	resp, err := s.http.Do(req)
	if err != nil {
		metrics.ObserveNetworkRequest("bms", "listing", "movies-mumbai", start, err)
		return nil, fmt.Errorf("bms: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveNetworkRequest("bms", "listing", "movies-mumbai", start, err)
		return nil, fmt.Errorf("bms: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("bms: статус %d: %w", resp.StatusCode, domain.ErrProvider)
		metrics.ObserveNetworkRequest("bms", "listing", "movies-mumbai", start, err)
		return nil, err
	}
	metrics.ObserveNetworkRequest("bms", "listing", "movies-mumbai", start, nil)

	return s.extract(string(body)), nil
}

// extract применяет две независимые эвристики к сырой разметке:
// поля title во вшитом JSON, затем тексты ссылок на карточки фильмов.
func (s *Scraper) extract(html string) []string {
	var titles []string
	for _, m := range embeddedTitle.FindAllStringSubmatch(html, -1) {
		t := strings.TrimSpace(m[1])
		if !usableTitle(t) {
			continue
		}
		titles = append(titles, t)
	}

	if len(titles) < 3 {
		titles = append(titles, s.anchorTitles(html)...)
	}

	seen := make(map[string]struct{})
	uniq := make([]string, 0, len(titles))
	for _, t := range titles {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		uniq = append(uniq, t)
	}
	if len(uniq) > s.maxItems {
		uniq = uniq[:s.maxItems]
	}
	return uniq
}

func (s *Scraper) anchorTitles(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		s.log.Warn().Err(err).Msg("bms: не удалось разобрать разметку")
		return nil
	}
	var titles []string
	doc.Find(`a[href*="/movie/"]`).Each(func(_ int, sel *goquery.Selection) {
		t := strings.Join(strings.Fields(sel.Text()), " ")
		if !usableTitle(t) || len([]rune(t)) > 100 {
			return
		}
		titles = append(titles, t)
	})
	return titles
}

func usableTitle(t string) bool {
	if len([]rune(t)) < 2 {
		return false
	}
	lower := strings.ToLower(t)
	return !strings.HasPrefix(lower, "bookmyshow") && !strings.HasPrefix(lower, "explore")
}
