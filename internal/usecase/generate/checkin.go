package generate

import (
	"context"

	"daily-uplift-bot/internal/domain"
)

// CheckinGenerator — суббота: приглашение поделиться итогами недели.
// Текст фиксированный; поиск лишь добавляет необязательный факт дня.
type CheckinGenerator struct {
	deps Deps
}

var _ domain.ContentGenerator = (*CheckinGenerator)(nil)

func (g *CheckinGenerator) Generate(ctx context.Context) (string, domain.ContentPayload, error) {
	results := g.deps.searchBestEffort(ctx, domain.SearchQuery{
		Text:    "uplifting facts India interesting",
		Limit:   6,
		Recency: domain.RecencyWeek,
	})

	message := "✨ Saturday Check-in\n\nShare 1 interesting thing that happened this week!"
	if len(results) > 0 && results[0].Title != "" {
		message += " Fun fact: " + results[0].Title
	}

	payload := domain.ContentPayload{
		ContentType: domain.ContentPrompt,
		Title:       "Saturday Check-in",
		Message:     message,
		Items:       []map[string]any{},
		Metadata: map[string]any{
			"serp_used": len(results) > 0,
		},
	}
	return message, payload, nil
}
