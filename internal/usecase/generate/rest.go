package generate

import (
	"context"
	"fmt"

	"daily-uplift-bot/internal/domain"
)

const (
	defaultRestEmoji   = "🐼💤"
	defaultRestCaption = "Rest day! Recharge and take it easy."
)

// RestGenerator — воскресенье: эмодзи отдыха и короткая подпись.
// Пустые поля ответа заполняются значениями по умолчанию.
type RestGenerator struct {
	deps Deps
}

var _ domain.ContentGenerator = (*RestGenerator)(nil)

func (g *RestGenerator) Generate(ctx context.Context) (string, domain.ContentPayload, error) {
	prompt := "You pick a rest-day vibe for a workplace group chat in India on a Sunday.\n" +
		"Keys: \"emoji\" (1-3 cozy rest emojis as one string), " +
		"\"caption\" (one short relaxing sentence, no hashtags)."

	data, err := g.deps.LLM.GenerateJSON(ctx, prompt, 0.5)
	if err != nil {
		return "", domain.ContentPayload{}, fmt.Errorf("rest: генерация: %w", err)
	}

	emoji := stringField(data, "emoji")
	if emoji == "" {
		emoji = defaultRestEmoji
	}
	caption := stringField(data, "caption")
	if caption == "" {
		caption = defaultRestCaption
	}

	message := emoji + " " + caption
	payload := domain.ContentPayload{
		ContentType: domain.ContentEmoji,
		Title:       "Sunday Rest",
		Message:     message,
		Items: []map[string]any{
			{"emoji": emoji, "caption": caption},
		},
		Metadata: map[string]any{
			"serp_used": false,
		},
	}
	return message, payload, nil
}
