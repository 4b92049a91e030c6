package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"daily-uplift-bot/internal/domain"
)

type stubSearch struct {
	results []domain.SearchResult
	err     error
	lastQ   domain.SearchQuery
}

func (s *stubSearch) Search(_ context.Context, q domain.SearchQuery) ([]domain.SearchResult, error) {
	s.lastQ = q
	return s.results, s.err
}

type stubLLM struct {
	obj        map[string]any
	err        error
	lastPrompt string
}

func (s *stubLLM) GenerateText(_ context.Context, prompt string, _ float64) (string, error) {
	s.lastPrompt = prompt
	return "", s.err
}

func (s *stubLLM) GenerateJSON(_ context.Context, prompt string, _ float64) (map[string]any, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return nil, s.err
	}
	return s.obj, nil
}

type stubMovies struct {
	titles []string
	err    error
}

func (s *stubMovies) ListTitles(context.Context) ([]string, error) { return s.titles, s.err }

func testDeps(search *stubSearch, llm *stubLLM, movies *stubMovies) Deps {
	d := Deps{Log: zerolog.Nop()}
	if search != nil {
		d.Search = search
	}
	if llm != nil {
		d.LLM = llm
	}
	if movies != nil {
		d.Movies = movies
	}
	return d
}

func TestRegistryCoversAllWeekdays(t *testing.T) {
	registry := Registry(testDeps(nil, nil, nil))
	for _, day := range domain.AllWeekdays {
		if _, ok := registry[day]; !ok {
			t.Fatalf("нет генератора для %s", day)
		}
	}
	if len(registry) != 7 {
		t.Fatalf("ожидали 7 генераторов, есть %d", len(registry))
	}
}

func TestQuoteGenerator(t *testing.T) {
	search := &stubSearch{results: []domain.SearchResult{{Title: "Quotes", Link: "https://q", Snippet: "s"}}}
	llm := &stubLLM{obj: map[string]any{"quote": `"Stay hungry"`, "author": "Steve Jobs", "source_hint": "speech"}}
	gen := &QuoteGenerator{deps: testDeps(search, llm, nil)}

	dedup, payload, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if dedup != "Stay hungry — Steve Jobs" {
		t.Fatalf("неожиданный ключ дедупликации: %q", dedup)
	}
	if payload.ContentType != domain.ContentQuote || payload.Title != "Monday Motivation" {
		t.Fatalf("неожиданный payload: %+v", payload)
	}
	if !strings.Contains(payload.Message, "Stay hungry") || !strings.Contains(payload.Message, "Steve Jobs") {
		t.Fatalf("сообщение должно содержать цитату и автора: %q", payload.Message)
	}
	if payload.Metadata["serp_used"] != true {
		t.Fatalf("поиск использовался, metadata: %v", payload.Metadata)
	}
	if !strings.Contains(llm.lastPrompt, "Quotes") {
		t.Fatalf("выдача поиска должна попадать в промпт")
	}
}

func TestQuoteGeneratorDefaultsAuthor(t *testing.T) {
	llm := &stubLLM{obj: map[string]any{"quote": "Just do it"}}
	gen := &QuoteGenerator{deps: testDeps(&stubSearch{}, llm, nil)}

	dedup, _, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if dedup != "Just do it — Unknown" {
		t.Fatalf("без автора должен подставляться Unknown: %q", dedup)
	}
}

func TestQuoteGeneratorSearchFailureNonFatal(t *testing.T) {
	search := &stubSearch{err: errors.New("serp лежит")}
	llm := &stubLLM{obj: map[string]any{"quote": "q", "author": "a"}}
	gen := &QuoteGenerator{deps: testDeps(search, llm, nil)}

	_, payload, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("сбой поиска не должен ронять генерацию: %v", err)
	}
	if payload.Metadata["serp_used"] != false {
		t.Fatalf("без выдачи serp_used должен быть false")
	}
}

func TestQuoteGeneratorLLMErrorPropagates(t *testing.T) {
	llm := &stubLLM{err: errors.New("cohere лежит")}
	gen := &QuoteGenerator{deps: testDeps(&stubSearch{}, llm, nil)}

	if _, _, err := gen.Generate(context.Background()); err == nil {
		t.Fatalf("ошибка LLM должна подниматься наружу")
	}
}

func TestJokeGenerator(t *testing.T) {
	llm := &stubLLM{obj: map[string]any{"joke": "Why did the developer go broke? He used up all his cache."}}
	gen := &JokeGenerator{deps: testDeps(&stubSearch{}, llm, nil)}

	dedup, payload, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if dedup != "Why did the developer go broke? He used up all his cache." {
		t.Fatalf("ключ дедупликации — сама шутка: %q", dedup)
	}
	if payload.ContentType != domain.ContentJoke || !strings.HasPrefix(payload.Message, "😂") {
		t.Fatalf("неожиданный payload: %+v", payload)
	}
}

func TestNewsGeneratorUsesLLMItems(t *testing.T) {
	search := &stubSearch{results: []domain.SearchResult{{Title: "T", Link: "https://t", Snippet: "s"}}}
	llm := &stubLLM{obj: map[string]any{
		"section_title": "Good News",
		"items": []any{
			map[string]any{"title": "Один", "summary": "Первый пункт.", "link": "https://1"},
			map[string]any{"title": "Два", "summary": "Второй пункт.", "link": "https://2"},
		},
	}}
	gen := &NewsGenerator{deps: testDeps(search, llm, nil)}

	dedup, payload, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if dedup != "Один Два" {
		t.Fatalf("ключ — конкатенация заголовков: %q", dedup)
	}
	if len(payload.Items) != 2 {
		t.Fatalf("ожидали 2 пункта, есть %d", len(payload.Items))
	}
	if !strings.Contains(payload.Message, "🗞️ Good News") || !strings.Contains(payload.Message, "1. Один") {
		t.Fatalf("неожиданное сообщение: %q", payload.Message)
	}
	if !search.lastQ.News || search.lastQ.Recency != domain.RecencyWeek {
		t.Fatalf("новости ищутся в новостном режиме за неделю: %+v", search.lastQ)
	}
}

func TestNewsGeneratorFallsBackToSearchResults(t *testing.T) {
	search := &stubSearch{results: []domain.SearchResult{
		{Title: "A", Link: "https://a", Snippet: strings.Repeat("x", 500)},
		{Title: "B", Link: "https://b", Snippet: "b"},
		{Title: "C", Link: "https://c", Snippet: "c"},
		{Title: "D", Link: "https://d", Snippet: "d"},
	}}
	llm := &stubLLM{err: errors.New("cohere лежит")}
	gen := &NewsGenerator{deps: testDeps(search, llm, nil)}

	dedup, payload, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("при живом поиске сбой LLM не фатален: %v", err)
	}
	if len(payload.Items) != 3 {
		t.Fatalf("резервный режим берёт не больше 3 пунктов, есть %d", len(payload.Items))
	}
	if dedup != "A B C" {
		t.Fatalf("неожиданный ключ: %q", dedup)
	}
	if summary, _ := payload.Items[0]["summary"].(string); len([]rune(summary)) > 180 {
		t.Fatalf("резервная аннотация должна обрезаться до 180 символов")
	}
}

func TestNewsGeneratorNoDataFails(t *testing.T) {
	gen := &NewsGenerator{deps: testDeps(&stubSearch{}, &stubLLM{err: errors.New("cohere лежит")}, nil)}
	if _, _, err := gen.Generate(context.Background()); err == nil {
		t.Fatalf("без LLM и без выдачи генерация должна падать")
	}
}

func TestRiddleGenerator(t *testing.T) {
	llm := &stubLLM{obj: map[string]any{"riddle": "🍿+🎬 = ?", "answer": "movie night", "type": "emoji_movie"}}
	gen := &RiddleGenerator{deps: testDeps(&stubSearch{}, llm, nil)}

	dedup, payload, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if dedup != "🍿+🎬 = ?" {
		t.Fatalf("неожиданный ключ: %q", dedup)
	}
	if payload.Items[0]["answer"] != "movie night" {
		t.Fatalf("ответ должен лежать в items, а не в сообщении: %+v", payload.Items)
	}
	if strings.Contains(payload.Message, "movie night") {
		t.Fatalf("сообщение не должно спойлерить ответ: %q", payload.Message)
	}
}

func TestMoviesGenerator(t *testing.T) {
	movies := &stubMovies{titles: []string{"Pathaan 2", "Dil Se Again"}}
	gen := &MoviesGenerator{deps: testDeps(nil, nil, movies)}

	dedup, payload, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if dedup != "Pathaan 2 Dil Se Again" {
		t.Fatalf("неожиданный ключ: %q", dedup)
	}
	if !strings.Contains(payload.Message, "1. Pathaan 2") || !strings.Contains(payload.Message, "2. Dil Se Again") {
		t.Fatalf("список должен быть пронумерован: %q", payload.Message)
	}
	if len(payload.Items) != 2 {
		t.Fatalf("ожидали 2 пункта, есть %d", len(payload.Items))
	}
}

func TestMoviesGeneratorEmptyListing(t *testing.T) {
	movies := &stubMovies{err: errors.New("афиша недоступна")}
	gen := &MoviesGenerator{deps: testDeps(nil, nil, movies)}

	dedup, payload, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("сбой афиши не фатален: %v", err)
	}
	if dedup != noTitlesDedupKey {
		t.Fatalf("пустой день получает фиксированный ключ: %q", dedup)
	}
	if !strings.Contains(payload.Message, "No fresh listings") {
		t.Fatalf("неожиданное сообщение: %q", payload.Message)
	}
	if len(payload.Items) != 0 {
		t.Fatalf("пунктов быть не должно: %+v", payload.Items)
	}
}

func TestCheckinGeneratorWithFunFact(t *testing.T) {
	search := &stubSearch{results: []domain.SearchResult{{Title: "India launched a new telescope", Link: "https://x"}}}
	gen := &CheckinGenerator{deps: testDeps(search, nil, nil)}

	dedup, payload, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if !strings.Contains(payload.Message, "Fun fact: India launched a new telescope") {
		t.Fatalf("факт дня должен дописываться: %q", payload.Message)
	}
	if dedup != payload.Message {
		t.Fatalf("ключ совпадает с сообщением")
	}
}

func TestCheckinGeneratorWithoutResults(t *testing.T) {
	gen := &CheckinGenerator{deps: testDeps(&stubSearch{err: errors.New("serp лежит")}, nil, nil)}

	_, payload, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("сбой поиска не фатален: %v", err)
	}
	if strings.Contains(payload.Message, "Fun fact") {
		t.Fatalf("без выдачи факта быть не должно: %q", payload.Message)
	}
	if payload.Metadata["serp_used"] != false {
		t.Fatalf("неожиданная metadata: %v", payload.Metadata)
	}
}

func TestRestGenerator(t *testing.T) {
	llm := &stubLLM{obj: map[string]any{"emoji": "☕🛋️", "caption": "Slow morning, warm chai."}}
	gen := &RestGenerator{deps: testDeps(nil, llm, nil)}

	dedup, payload, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if dedup != "☕🛋️ Slow morning, warm chai." {
		t.Fatalf("неожиданный ключ: %q", dedup)
	}
	if payload.ContentType != domain.ContentEmoji {
		t.Fatalf("неожиданный тип: %s", payload.ContentType)
	}
}

func TestRestGeneratorDefaultsForMissingFields(t *testing.T) {
	llm := &stubLLM{obj: map[string]any{"emoji": "", "caption": "   "}}
	gen := &RestGenerator{deps: testDeps(nil, llm, nil)}

	dedup, payload, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if dedup != defaultRestEmoji+" "+defaultRestCaption {
		t.Fatalf("пустые поля должны заполняться по умолчанию: %q", dedup)
	}
	if payload.Message != dedup {
		t.Fatalf("сообщение совпадает с ключом: %q", payload.Message)
	}
}

func TestRestGeneratorLLMErrorPropagates(t *testing.T) {
	gen := &RestGenerator{deps: testDeps(nil, &stubLLM{err: errors.New("cohere лежит")}, nil)}
	if _, _, err := gen.Generate(context.Background()); err == nil {
		t.Fatalf("ошибка LLM должна подниматься наружу")
	}
}
