package http

import (
	"encoding/json"
	"net/http"
	"strings"
)

// TokenFromRequest извлекает токен из query-параметра token
// или заголовка Authorization: Bearer.
func TokenFromRequest(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// CheckToken сверяет токен запроса с ожидаемым.
// Пустой ожидаемый токен отключает проверку.
func CheckToken(r *http.Request, expected string) bool {
	if expected == "" {
		return true
	}
	return TokenFromRequest(r) == expected
}

// WriteJSON сериализует ответ. Логические ошибки тоже уходят со статусом 200:
// клиенты проверяют поле success в теле.
func WriteJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
