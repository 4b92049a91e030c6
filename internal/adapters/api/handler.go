package api

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"daily-uplift-bot/internal/domain"
	httpinfra "daily-uplift-bot/internal/infra/http"
	"daily-uplift-bot/internal/infra/metrics"
	"daily-uplift-bot/internal/usecase/daily"
)

const errMessageLimit = 300

// Handler связывает HTTP-маршруты с оркестратором дневного контента.
type Handler struct {
	svc      *daily.Service
	version  string
	appToken string
	log      zerolog.Logger
}

// NewHandler создаёт обработчик.
func NewHandler(svc *daily.Service, version, appToken string, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, version: version, appToken: appToken, log: logger}
}

// Register навешивает маршруты на роутер.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.health)
	r.Get("/version", h.versionInfo)
	r.Get("/schema", h.schema)
	r.Get("/daily", h.daily)
	r.Get("/preview", h.preview)
	r.Get("/reset-cache", h.resetCache)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	httpinfra.WriteJSON(w, map[string]any{
		"ok":      true,
		"version": h.version,
	})
}

func (h *Handler) versionInfo(w http.ResponseWriter, r *http.Request) {
	now := domain.NowIST()
	httpinfra.WriteJSON(w, map[string]any{
		"ok":       true,
		"version":  h.version,
		"date_ist": domain.DateKey(now),
		"weekday":  domain.WeekdayOf(now).String(),
	})
}

// schema описывает форму ответа /daily для клиентов.
func (h *Handler) schema(w http.ResponseWriter, r *http.Request) {
	httpinfra.WriteJSON(w, map[string]any{
		"ok": true,
		"envelope": map[string]string{
			"success":             "bool",
			"version":             "string",
			"date_ist":            "string (YYYY-MM-DD, IST)",
			"weekday":             "string (MONDAY..SUNDAY)",
			"cache_hit":           "bool",
			"birthdays_today":     "[]string",
			"anniversaries_today": "[]{names: []string, year: int|null, years: int|null}",
			"content_type":        "string (quote|joke|news|riddle|movies|prompt|emoji)",
			"title":               "string",
			"message":             "string",
			"items":               "[]object",
			"metadata":            "object",
		},
		"error_envelope": map[string]string{
			"success":       "bool (false)",
			"version":       "string",
			"date_ist":      "string",
			"weekday":       "string",
			"error_code":    "string (AUTH|GENERATION_FAILED|PREVIEW_FAILED|RESET_FAILED)",
			"error_message": "string",
		},
	})
}

func (h *Handler) daily(w http.ResponseWriter, r *http.Request) {
	metrics.DailyRequestsTotal.Inc()
	if !httpinfra.CheckToken(r, h.appToken) {
		h.writeError(w, domain.ErrCodeAuth, "invalid or missing token")
		return
	}

	env, err := h.svc.Daily(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("api: /daily не удался")
		h.writeError(w, domain.ErrCodeGeneration, err.Error())
		return
	}
	httpinfra.WriteJSON(w, env)
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	if !httpinfra.CheckToken(r, h.appToken) {
		h.writeError(w, domain.ErrCodeAuth, "invalid or missing token")
		return
	}

	// Без параметра day предпросматривается текущий день недели IST.
	day := domain.WeekdayOf(domain.NowIST())
	if raw := r.URL.Query().Get("day"); raw != "" {
		var err error
		if day, err = domain.ParseWeekday(raw); err != nil {
			h.writeError(w, domain.ErrCodePreview, err.Error())
			return
		}
	}

	env, err := h.svc.Preview(r.Context(), day)
	if err != nil {
		h.log.Error().Err(err).Str("day", day.String()).Msg("api: /preview не удался")
		h.writeError(w, domain.ErrCodePreview, err.Error())
		return
	}
	httpinfra.WriteJSON(w, env)
}

func (h *Handler) resetCache(w http.ResponseWriter, r *http.Request) {
	if !httpinfra.CheckToken(r, h.appToken) {
		h.writeError(w, domain.ErrCodeAuth, "invalid or missing token")
		return
	}

	if err := h.svc.Reset(r.Context()); err != nil {
		h.log.Error().Err(err).Msg("api: /reset-cache не удался")
		h.writeError(w, domain.ErrCodeReset, err.Error())
		return
	}
	httpinfra.WriteJSON(w, map[string]any{
		"ok":       true,
		"cleared":  true,
		"date_ist": domain.DateKey(domain.NowIST()),
	})
}

// writeError отдаёт конверт ошибки. Статус всегда 200, сообщение
// обрезается, чтобы не тащить клиенту простыни из ответов провайдеров.
func (h *Handler) writeError(w http.ResponseWriter, code, message string) {
	if runes := []rune(message); len(runes) > errMessageLimit {
		message = string(runes[:errMessageLimit])
	}
	now := domain.NowIST()
	httpinfra.WriteJSON(w, domain.ErrorEnvelope{
		Success:      false,
		Version:      h.version,
		DateIST:      domain.DateKey(now),
		Weekday:      domain.WeekdayOf(now).String(),
		ErrorCode:    code,
		ErrorMessage: message,
	})
}
