package generate

import (
	"context"
	"fmt"
	"strings"

	"daily-uplift-bot/internal/domain"
)

// NewsGenerator — среда: дайджест позитивных новостей Индии.
// LLM ужимает выдачу новостного поиска в 3-5 пунктов; если провайдер
// подвёл, пункты собираются напрямую из сырой выдачи.
type NewsGenerator struct {
	deps Deps
}

var _ domain.ContentGenerator = (*NewsGenerator)(nil)

func (g *NewsGenerator) Generate(ctx context.Context) (string, domain.ContentPayload, error) {
	results := g.deps.searchBestEffort(ctx, domain.SearchQuery{
		Text:    "positive good news India",
		Limit:   10,
		News:    true,
		Recency: domain.RecencyWeek,
	})

	var listings []string
	for _, r := range results {
		listings = append(listings, fmt.Sprintf("- %s | %s | %s", r.Title, r.Snippet, r.Link))
	}

	prompt := "You curate positive news for a workplace group chat in India.\n" +
		"From the search results below, pick 3-5 genuinely uplifting items:\n" +
		strings.Join(listings, "\n") + "\n\n" +
		"Keys: \"section_title\" (short header), \"items\" (array of objects with keys " +
		"\"title\", \"summary\" (one sentence), \"link\")."

	items, sectionTitle, genErr := g.summarize(ctx, prompt)
	if len(items) == 0 {
		items = fallbackItems(results)
	}
	if len(items) == 0 {
		if genErr != nil {
			return "", domain.ContentPayload{}, fmt.Errorf("news: генерация: %w", genErr)
		}
		return "", domain.ContentPayload{}, fmt.Errorf("news: пустая выдача: %w", domain.ErrProvider)
	}
	if sectionTitle == "" {
		sectionTitle = "Wednesday Good News"
	}

	var lines []string
	var titles []string
	lines = append(lines, "🗞️ "+sectionTitle)
	for i, it := range items {
		title := stringField(it, "title")
		titles = append(titles, title)
		block := fmt.Sprintf("%d. %s", i+1, title)
		if summary := stringField(it, "summary"); summary != "" {
			block += "\n   " + summary
		}
		if link := stringField(it, "link"); link != "" {
			block += "\n   " + link
		}
		lines = append(lines, block)
	}

	payload := domain.ContentPayload{
		ContentType: domain.ContentNews,
		Title:       sectionTitle,
		Message:     strings.Join(lines, "\n\n"),
		Items:       items,
		Metadata: map[string]any{
			"serp_used": true,
		},
	}
	return strings.Join(titles, " "), payload, nil
}

func (g *NewsGenerator) summarize(ctx context.Context, prompt string) ([]map[string]any, string, error) {
	data, err := g.deps.LLM.GenerateJSON(ctx, prompt, 0.2)
	if err != nil {
		g.deps.Log.Warn().Err(err).Msg("news: LLM не справился, собираем пункты из выдачи поиска")
		return nil, "", err
	}

	raw, _ := data["items"].([]any)
	items := make([]map[string]any, 0, len(raw))
	for _, v := range raw {
		if obj, ok := v.(map[string]any); ok && stringField(obj, "title") != "" {
			items = append(items, obj)
		}
	}
	return items, stringField(data, "section_title"), nil
}

// fallbackItems строит до трёх пунктов прямо из результатов поиска.
func fallbackItems(results []domain.SearchResult) []map[string]any {
	var items []map[string]any
	for i, r := range results {
		if i >= 3 {
			break
		}
		items = append(items, map[string]any{
			"title":   r.Title,
			"summary": clipText(r.Snippet, 180),
			"link":    r.Link,
		})
	}
	return items
}
