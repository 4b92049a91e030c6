package domain

import (
	"context"
	"time"
)

// SearchClient выполняет веб-поиск и нормализует результаты.
type SearchClient interface {
	Search(ctx context.Context, q SearchQuery) ([]SearchResult, error)
}

// TextGenerator вызывает генеративную модель.
// GenerateJSON дополняет промпт инструкцией вернуть минифицированный JSON-объект
// и разбирает его из ответа.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, temperature float64) (string, error)
	GenerateJSON(ctx context.Context, prompt string, temperature float64) (map[string]any, error)
}

// MovieLister возвращает названия фильмов с афиши.
type MovieLister interface {
	ListTitles(ctx context.Context) ([]string, error)
}

// ContentGenerator порождает контент дня и ключ дедупликации.
type ContentGenerator interface {
	Generate(ctx context.Context) (dedupKey string, payload ContentPayload, err error)
}

// KV — простое хранилище ключ-значение с пространствами имён.
// Реализации: файл на диске, Redis, Postgres.
type KV interface {
	Get(ctx context.Context, namespace, key string) ([]byte, bool, error)
	Set(ctx context.Context, namespace, key string, value []byte) error
	Clear(ctx context.Context, namespace string) error
}

// DailyCacheRepo хранит сгенерированный ответ по ключу даты.
type DailyCacheRepo interface {
	Get(ctx context.Context, dateKey string) (Envelope, bool, error)
	Set(ctx context.Context, dateKey string, env Envelope) error
	Clear(ctx context.Context) error
}

// HistoryRepo хранит нормализованные ключи дедупликации по дням недели.
type HistoryRepo interface {
	Contains(ctx context.Context, day Weekday, normKey string) (bool, error)
	Add(ctx context.Context, day Weekday, normKey string) error
}

// PeopleSource возвращает сегодняшние дни рождения и годовщины.
// Файлы перечитываются на каждый запрос, чтобы правки применялись сразу.
type PeopleSource interface {
	BirthdaysOn(t time.Time) []string
	AnniversariesOn(t time.Time) []Anniversary
}

// WarmQueue — очередь задач прогрева дневного кэша.
type WarmQueue interface {
	Enqueue(ctx context.Context, job WarmJob) error
	Pop(ctx context.Context) (WarmJob, error)
}

// Notifier рассылает готовое сообщение дня.
type Notifier interface {
	Broadcast(ctx context.Context, text string) error
}
