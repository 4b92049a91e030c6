package generate

import (
	"context"
	"fmt"
	"strings"

	"daily-uplift-bot/internal/domain"
)

// noTitlesDedupKey — ключ дедупликации для дня без афиши: пустой день
// не должен блокировать нормальные списки в следующие пятницы.
const noTitlesDedupKey = "no titles"

// MoviesGenerator — пятница: афиша хинди-фильмов Мумбаи.
// Без LLM: список приходит со скрейпера, ошибки скрейпа не фатальны.
type MoviesGenerator struct {
	deps Deps
}

var _ domain.ContentGenerator = (*MoviesGenerator)(nil)

func (g *MoviesGenerator) Generate(ctx context.Context) (string, domain.ContentPayload, error) {
	var titles []string
	if g.deps.Movies != nil {
		var err error
		titles, err = g.deps.Movies.ListTitles(ctx)
		if err != nil {
			g.deps.Log.Warn().Err(err).Msg("movies: афиша недоступна, отдаём пустой список")
			titles = nil
		}
	}

	const header = "🎬 Friday Watchlist (Hindi, Mumbai)"
	metadata := map[string]any{
		"source":    "bookmyshow",
		"serp_used": false,
	}

	if len(titles) == 0 {
		payload := domain.ContentPayload{
			ContentType: domain.ContentMovies,
			Title:       "Friday Watchlist",
			Message:     header + "\n\nNo fresh listings found on BookMyShow right now.",
			Items:       []map[string]any{},
			Metadata:    metadata,
		}
		return noTitlesDedupKey, payload, nil
	}

	lines := []string{header}
	items := make([]map[string]any, 0, len(titles))
	for i, t := range titles {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, t))
		items = append(items, map[string]any{"title": t})
	}

	payload := domain.ContentPayload{
		ContentType: domain.ContentMovies,
		Title:       "Friday Watchlist",
		Message:     strings.Join(lines, "\n"),
		Items:       items,
		Metadata:    metadata,
	}
	return strings.Join(titles, " "), payload, nil
}
