package domain

import "time"

// ContentType описывает тип дневного контента.
type ContentType string

const (
	ContentQuote  ContentType = "quote"
	ContentJoke   ContentType = "joke"
	ContentNews   ContentType = "news"
	ContentRiddle ContentType = "riddle"
	ContentMovies ContentType = "movies"
	ContentPrompt ContentType = "prompt"
	ContentEmoji  ContentType = "emoji"
)

// ContentPayload представляет сгенерированный контент одного дня.
type ContentPayload struct {
	ContentType ContentType      `json:"content_type"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Items       []map[string]any `json:"items"`
	Metadata    map[string]any   `json:"metadata"`
}

// SearchResult содержит нормализованный результат веб-поиска.
type SearchResult struct {
	Title   string
	Link    string
	Snippet string
}

// Recency задаёт фильтр свежести поисковой выдачи.
type Recency string

const (
	RecencyAny  Recency = ""
	RecencyWeek Recency = "week"
	RecencyYear Recency = "year"
)

// SearchQuery описывает параметры поискового запроса.
type SearchQuery struct {
	Text    string
	Limit   int
	News    bool
	Recency Recency
}

// Birthday описывает запись из файла дней рождения.
type Birthday struct {
	Name  string
	Day   int
	Month int
	Year  *int
}

// Anniversary описывает годовщину пары, с вычисленным числом лет если год известен.
type Anniversary struct {
	Names []string `json:"names"`
	Year  *int     `json:"year"`
	Years *int     `json:"years"`
}

// Envelope представляет полный успешный ответ сервиса.
type Envelope struct {
	Success            bool             `json:"success"`
	Version            string           `json:"version"`
	DateIST            string           `json:"date_ist"`
	Weekday            string           `json:"weekday"`
	CacheHit           bool             `json:"cache_hit"`
	BirthdaysToday     []string         `json:"birthdays_today"`
	AnniversariesToday []Anniversary    `json:"anniversaries_today"`
	ContentType        ContentType      `json:"content_type"`
	Title              string           `json:"title"`
	Message            string           `json:"message"`
	Items              []map[string]any `json:"items"`
	Metadata           map[string]any   `json:"metadata"`
}

// ErrorEnvelope представляет структурированный ответ об ошибке.
// Сервис всегда отвечает HTTP 200: клиенты проверяют поле success.
type ErrorEnvelope struct {
	Success      bool   `json:"success"`
	Version      string `json:"version"`
	DateIST      string `json:"date_ist"`
	Weekday      string `json:"weekday"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// WarmJob описывает задачу предварительного прогрева дневного кэша.
type WarmJob struct {
	ID         string    `json:"id"`
	DateIST    string    `json:"date_ist"`
	Weekday    string    `json:"weekday"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}
