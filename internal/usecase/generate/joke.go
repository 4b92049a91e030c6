package generate

import (
	"context"
	"fmt"
	"strings"

	"daily-uplift-bot/internal/domain"
)

// JokeGenerator — вторник: чистая шутка для рабочего чата.
type JokeGenerator struct {
	deps Deps
}

var _ domain.ContentGenerator = (*JokeGenerator)(nil)

func (g *JokeGenerator) Generate(ctx context.Context) (string, domain.ContentPayload, error) {
	results := g.deps.searchBestEffort(ctx, domain.SearchQuery{
		Text:    "clean funny jokes India family friendly one liners -offensive -adult",
		Limit:   10,
		Recency: domain.RecencyYear,
	})

	var examples []string
	for i, r := range results {
		if i >= 8 {
			break
		}
		examples = append(examples, "- "+r.Title)
	}

	prompt := "You write one clean, family-friendly joke for a workplace group chat in India.\n" +
		"Examples of what people are searching for:\n" +
		strings.Join(examples, "\n") + "\n\n" +
		"Write ONE original joke or one-liner. No politics, no religion, nothing offensive. " +
		"Keys: \"joke\" (the full joke text)."

	data, err := g.deps.LLM.GenerateJSON(ctx, prompt, 0.6)
	if err != nil {
		return "", domain.ContentPayload{}, fmt.Errorf("joke: генерация: %w", err)
	}

	joke := stringField(data, "joke")
	payload := domain.ContentPayload{
		ContentType: domain.ContentJoke,
		Title:       "Tuesday Joke",
		Message:     "😂 Tuesday Joker\n\n" + joke,
		Items: []map[string]any{
			{"joke": joke},
		},
		Metadata: map[string]any{
			"serp_used": len(results) > 0,
		},
	}
	return joke, payload, nil
}
