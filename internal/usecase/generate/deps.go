package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"daily-uplift-bot/internal/domain"
)

// Deps — внешние зависимости генераторов контента.
// Генераторы не держат собственного состояния: каждое Generate — чистая
// функция от "сейчас" и ответов провайдеров.
type Deps struct {
	Search domain.SearchClient
	LLM    domain.TextGenerator
	Movies domain.MovieLister
	Log    zerolog.Logger
}

// Registry возвращает таблицу генераторов по дням недели.
func Registry(deps Deps) map[domain.Weekday]domain.ContentGenerator {
	return map[domain.Weekday]domain.ContentGenerator{
		domain.Monday:    &QuoteGenerator{deps: deps},
		domain.Tuesday:   &JokeGenerator{deps: deps},
		domain.Wednesday: &NewsGenerator{deps: deps},
		domain.Thursday:  &RiddleGenerator{deps: deps},
		domain.Friday:    &MoviesGenerator{deps: deps},
		domain.Saturday:  &CheckinGenerator{deps: deps},
		domain.Sunday:    &RestGenerator{deps: deps},
	}
}

// searchBestEffort выполняет поиск; любая его ошибка не фатальна
// и деградирует до пустой выдачи.
func (d Deps) searchBestEffort(ctx context.Context, q domain.SearchQuery) []domain.SearchResult {
	if d.Search == nil {
		return nil
	}
	results, err := d.Search.Search(ctx, q)
	if err != nil {
		d.Log.Warn().Err(err).Str("query", q.Text).Msg("generate: поиск не удался, продолжаем без результатов")
		return nil
	}
	return results
}

func stringField(obj map[string]any, key string) string {
	v, ok := obj[key]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}

func clipText(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
