package domain

import "errors"

// ErrMissingCredential означает отсутствие ключа провайдера в конфигурации.
// Повторы бессмысленны: ошибка детерминирована.
var ErrMissingCredential = errors.New("не задан ключ доступа к провайдеру")

// ErrProvider означает неуспешный ответ внешнего сервиса.
var ErrProvider = errors.New("ошибка внешнего провайдера")

// ErrNoJSON означает, что генеративный провайдер не вернул разбираемый JSON-объект.
var ErrNoJSON = errors.New("провайдер не вернул разбираемый JSON")

// Коды ошибок ответного конверта.
const (
	ErrCodeAuth       = "AUTH"
	ErrCodeGeneration = "GENERATION_FAILED"
	ErrCodePreview    = "PREVIEW_FAILED"
	ErrCodeReset      = "RESET_FAILED"
)
