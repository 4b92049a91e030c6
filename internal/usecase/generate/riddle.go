package generate

import (
	"context"
	"fmt"

	"daily-uplift-bot/internal/domain"
)

// RiddleGenerator — четверг: загадка или эмодзи-пазл.
type RiddleGenerator struct {
	deps Deps
}

var _ domain.ContentGenerator = (*RiddleGenerator)(nil)

func (g *RiddleGenerator) Generate(ctx context.Context) (string, domain.ContentPayload, error) {
	results := g.deps.searchBestEffort(ctx, domain.SearchQuery{
		Text:    "emoji riddles India family friendly",
		Limit:   8,
		Recency: domain.RecencyYear,
	})

	prompt := "You write one fun riddle or emoji puzzle for a workplace group chat in India.\n" +
		"It can be a classic riddle, a wordplay puzzle, or a guess-the-movie emoji puzzle. " +
		"Keep it family friendly and solvable in under a minute. " +
		"Keys: \"riddle\" (the puzzle text), \"answer\" (the solution), " +
		"\"type\" (one of: riddle, wordplay, emoji_movie)."

	data, err := g.deps.LLM.GenerateJSON(ctx, prompt, 0.7)
	if err != nil {
		return "", domain.ContentPayload{}, fmt.Errorf("riddle: генерация: %w", err)
	}

	riddle := stringField(data, "riddle")
	payload := domain.ContentPayload{
		ContentType: domain.ContentRiddle,
		Title:       "Riddle of the Day",
		Message:     "🧩 Riddle\n\n" + riddle,
		Items: []map[string]any{
			{
				"riddle": riddle,
				"answer": stringField(data, "answer"),
				"type":   stringField(data, "type"),
			},
		},
		Metadata: map[string]any{
			"serp_used": len(results) > 0,
		},
	}
	return riddle, payload, nil
}
