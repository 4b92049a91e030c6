package cohere

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"daily-uplift-bot/internal/domain"
	"daily-uplift-bot/internal/infra/retry"
)

func testPolicy(attempts int) retry.Policy {
	return retry.Policy{MaxAttempts: attempts, BaseDelay: time.Millisecond, JitterMax: 0}
}

func TestExtractJSONObject(t *testing.T) {
	obj, err := ExtractJSONObject(`noise before {"a":1,"b":"два"} trailing noise`)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if obj["a"] != float64(1) {
		t.Fatalf("неожиданное значение a: %v", obj["a"])
	}
	if obj["b"] != "два" {
		t.Fatalf("неожиданное значение b: %v", obj["b"])
	}
}

func TestExtractJSONObjectNoBraces(t *testing.T) {
	if _, err := ExtractJSONObject("просто текст без объекта"); !errors.Is(err, domain.ErrNoJSON) {
		t.Fatalf("ожидали ErrNoJSON, получили %v", err)
	}
}

func TestExtractJSONObjectGarbageInside(t *testing.T) {
	if _, err := ExtractJSONObject(`{"a": нет}`); !errors.Is(err, domain.ErrNoJSON) {
		t.Fatalf("ожидали ErrNoJSON, получили %v", err)
	}
}

func TestGenerateText(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat" {
			t.Errorf("неожиданный путь: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("неожиданный заголовок авторизации: %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("не удалось разобрать запрос: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"text": "ответ модели",
			"meta": map[string]any{"billed_units": map[string]int{"input_tokens": 10, "output_tokens": 5}},
		})
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL, "test-model", time.Second, testPolicy(1), zerolog.Nop())
	text, err := client.GenerateText(context.Background(), "привет", 0.3)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if text != "ответ модели" {
		t.Fatalf("неожиданный текст: %q", text)
	}
	if gotReq.Model != "test-model" || gotReq.Message != "привет" {
		t.Fatalf("неожиданный запрос: %+v", gotReq)
	}
}

func TestGenerateJSONRetriesGarbageAnswer(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		text := "извините, вот ваш JSON без JSON"
		if calls >= 2 {
			text = `{"quote":"ok"}`
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"text": text})
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL, "", time.Second, testPolicy(2), zerolog.Nop())
	obj, err := client.GenerateJSON(context.Background(), "дай цитату", 0)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if obj["quote"] != "ok" {
		t.Fatalf("неожиданный объект: %v", obj)
	}
	if calls != 2 {
		t.Fatalf("мусорный ответ должен был уйти на повтор, вызовов: %d", calls)
	}
}

func TestGenerateJSONAppendsInstruction(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(map[string]any{"text": `{"x":1}`})
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL, "", time.Second, testPolicy(1), zerolog.Nop())
	if _, err := client.GenerateJSON(context.Background(), "промпт", 0); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if gotReq.Message != "промпт"+jsonInstruction {
		t.Fatalf("инструкция JSON не дописана: %q", gotReq.Message)
	}
}

func TestMissingKeyFailsFast(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := NewClient("", srv.URL, "", time.Second, testPolicy(3), zerolog.Nop())
	_, err := client.GenerateText(context.Background(), "привет", 0)
	if !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("ожидали ErrMissingCredential, получили %v", err)
	}
	if calls != 0 {
		t.Fatalf("без ключа не должно быть HTTP-запросов, было %d", calls)
	}
}

func TestAPIErrorSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "invalid model"})
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL, "", time.Second, testPolicy(1), zerolog.Nop())
	_, err := client.GenerateText(context.Background(), "привет", 0)
	if !errors.Is(err, domain.ErrProvider) {
		t.Fatalf("ожидали ErrProvider, получили %v", err)
	}
}
