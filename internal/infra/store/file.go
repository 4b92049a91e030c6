package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"daily-uplift-bot/internal/domain"
)

// FileKV хранит каждое пространство имён отдельным JSON-документом на диске.
// Базовый вариант хранилища, без внешних сервисов.
type FileKV struct {
	dir string
	mu  sync.Mutex
	log zerolog.Logger
}

var _ domain.KV = (*FileKV)(nil)

// NewFile создаёт файловое хранилище в каталоге dir.
func NewFile(dir string, logger zerolog.Logger) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: создание каталога %s: %w", dir, err)
	}
	return &FileKV{dir: dir, log: logger}, nil
}

func (f *FileKV) path(namespace string) string {
	return filepath.Join(f.dir, namespace+".json")
}

// readDoc читает документ пространства имён; повреждённый или отсутствующий
// файл трактуется как пустой.
func (f *FileKV) readDoc(namespace string) map[string]json.RawMessage {
	doc := make(map[string]json.RawMessage)
	raw, err := os.ReadFile(f.path(namespace))
	if err != nil {
		if !os.IsNotExist(err) {
			f.log.Error().Err(err).Str("namespace", namespace).Msg("store: не удалось прочитать файл")
		}
		return doc
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		f.log.Error().Err(err).Str("namespace", namespace).Msg("store: не удалось разобрать файл")
		return make(map[string]json.RawMessage)
	}
	return doc
}

func (f *FileKV) writeDoc(namespace string, doc map[string]json.RawMessage) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", namespace, err)
	}
	if err := os.WriteFile(f.path(namespace), raw, 0o644); err != nil {
		return fmt.Errorf("store: запись %s: %w", namespace, err)
	}
	return nil
}

// Get возвращает значение по ключу.
func (f *FileKV) Get(_ context.Context, namespace, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc := f.readDoc(namespace)
	raw, ok := doc[key]
	if !ok {
		return nil, false, nil
	}
	return raw, true, nil
}

// Set задаёт значение по ключу.
func (f *FileKV) Set(_ context.Context, namespace, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc := f.readDoc(namespace)
	doc[key] = json.RawMessage(value)
	return f.writeDoc(namespace, doc)
}

// Clear очищает пространство имён целиком.
func (f *FileKV) Clear(_ context.Context, namespace string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writeDoc(namespace, map[string]json.RawMessage{})
}
