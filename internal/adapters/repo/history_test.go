package repo

import (
	"context"
	"fmt"
	"testing"

	"daily-uplift-bot/internal/domain"
)

type memKV struct {
	data map[string][]byte
}

func newMemKV() *memKV { return &memKV{data: make(map[string][]byte)} }

func (m *memKV) key(ns, k string) string { return ns + "/" + k }

func (m *memKV) Get(_ context.Context, ns, k string) ([]byte, bool, error) {
	v, ok := m.data[m.key(ns, k)]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, ns, k string, v []byte) error {
	m.data[m.key(ns, k)] = v
	return nil
}

func (m *memKV) Clear(_ context.Context, ns string) error {
	for k := range m.data {
		if len(k) > len(ns) && k[:len(ns)+1] == ns+"/" {
			delete(m.data, k)
		}
	}
	return nil
}

func TestHistoryContainsAndAdd(t *testing.T) {
	h := NewHistory(newMemKV(), 10)
	ctx := context.Background()

	seen, err := h.Contains(ctx, domain.Monday, "first")
	if err != nil || seen {
		t.Fatalf("пустая история не должна содержать ключей: %v %v", seen, err)
	}
	if err := h.Add(ctx, domain.Monday, "first"); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if seen, _ = h.Contains(ctx, domain.Monday, "first"); !seen {
		t.Fatalf("добавленный ключ должен находиться")
	}
	// История одного дня недели не видна другому.
	if seen, _ = h.Contains(ctx, domain.Tuesday, "first"); seen {
		t.Fatalf("ключи понедельника не должны протекать во вторник")
	}
}

func TestHistoryAddIdempotent(t *testing.T) {
	kv := newMemKV()
	h := NewHistory(kv, 10)
	ctx := context.Background()

	_ = h.Add(ctx, domain.Monday, "key")
	_ = h.Add(ctx, domain.Monday, "key")

	raw, _, _ := kv.Get(ctx, "history", "MONDAY")
	if string(raw) != `["key"]` {
		t.Fatalf("повторное добавление не должно дублировать ключ: %s", raw)
	}
}

func TestHistoryEvictsOldest(t *testing.T) {
	h := NewHistory(newMemKV(), 3)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if err := h.Add(ctx, domain.Friday, fmt.Sprintf("key-%d", i)); err != nil {
			t.Fatalf("не ожидали ошибку: %v", err)
		}
	}

	if seen, _ := h.Contains(ctx, domain.Friday, "key-0"); seen {
		t.Fatalf("старейший ключ должен вытесняться")
	}
	for i := 1; i < 4; i++ {
		if seen, _ := h.Contains(ctx, domain.Friday, fmt.Sprintf("key-%d", i)); !seen {
			t.Fatalf("ключ key-%d должен остаться", i)
		}
	}
}

func TestDailyCacheRoundTrip(t *testing.T) {
	kv := newMemKV()
	cache := NewDailyCache(kv)
	ctx := context.Background()

	if _, ok, err := cache.Get(ctx, "2026-08-27"); ok || err != nil {
		t.Fatalf("пустой кэш: ok=%v err=%v", ok, err)
	}

	env := domain.Envelope{
		Success:     true,
		Version:     "1.0.0",
		DateIST:     "2026-08-27",
		Weekday:     "THURSDAY",
		ContentType: domain.ContentRiddle,
		Message:     "🧩 Riddle",
	}
	if err := cache.Set(ctx, "2026-08-27", env); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}

	got, ok, err := cache.Get(ctx, "2026-08-27")
	if err != nil || !ok {
		t.Fatalf("запись должна читаться: ok=%v err=%v", ok, err)
	}
	if got.Message != env.Message || got.Weekday != env.Weekday {
		t.Fatalf("конверт исказился: %+v", got)
	}

	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, "2026-08-27"); ok {
		t.Fatalf("после сброса записей быть не должно")
	}
}
