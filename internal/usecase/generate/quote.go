package generate

import (
	"context"
	"fmt"
	"strings"

	"daily-uplift-bot/internal/domain"
)

// QuoteGenerator — понедельник: мотивационная цитата.
// Поиск даёт модели свежий контекст, но сама цитата приходит из LLM.
type QuoteGenerator struct {
	deps Deps
}

var _ domain.ContentGenerator = (*QuoteGenerator)(nil)

func (g *QuoteGenerator) Generate(ctx context.Context) (string, domain.ContentPayload, error) {
	results := g.deps.searchBestEffort(ctx, domain.SearchQuery{
		Text:    `site:brainyquote.com OR site:goodreads.com "motivational quotes" -cliche`,
		Limit:   10,
		Recency: domain.RecencyYear,
	})

	var snippets []string
	for i, r := range results {
		if i >= 12 {
			break
		}
		snippets = append(snippets, fmt.Sprintf("- %s: %s", r.Title, r.Snippet))
	}

	prompt := "You are picking one short motivational quote for a workplace group chat in India.\n" +
		"Use these search snippets as inspiration, but feel free to pick any well-known quote:\n" +
		strings.Join(snippets, "\n") + "\n\n" +
		"Pick ONE punchy quote under 30 words that is not a cliche. " +
		"Keys: \"quote\" (the quote text without surrounding quotes), \"author\" (person's name), " +
		"\"source_hint\" (one short phrase about where it is from, or empty string)."

	data, err := g.deps.LLM.GenerateJSON(ctx, prompt, 0.2)
	if err != nil {
		return "", domain.ContentPayload{}, fmt.Errorf("quote: генерация: %w", err)
	}

	quote := strings.Trim(stringField(data, "quote"), `"“”`)
	author := stringField(data, "author")
	if author == "" {
		author = "Unknown"
	}

	dedup := quote + " — " + author
	payload := domain.ContentPayload{
		ContentType: domain.ContentQuote,
		Title:       "Monday Motivation",
		Message:     fmt.Sprintf("🚀 Monday Motivation\n\n“%s”\n— %s", quote, author),
		Items: []map[string]any{
			{"quote": quote, "author": author},
		},
		Metadata: map[string]any{
			"source_hint": stringField(data, "source_hint"),
			"serp_used":   len(results) > 0,
		},
	}
	return dedup, payload, nil
}
