package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает конфигурацию сервисов.
// Загружается один раз в main и передаётся конструкторам явно.
type AppConfig struct {
	AppEnv      string `envconfig:"APP_ENV" default:"dev"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
	Port        int    `envconfig:"PORT" default:"8080"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`

	// Общий секрет для /daily, /preview и /reset-cache.
	// Пустое значение отключает проверку.
	AppToken string `envconfig:"APP_TOKEN"`

	DataDir string `envconfig:"DATA_DIR" default:"data"`

	Files struct {
		Birthdays     string `envconfig:"BIRTHDAYS_FILE" default:"list.txt"`
		Anniversaries string `envconfig:"ANNIVERSARIES_FILE" default:"anniversaries.txt"`
	} `envconfig:""`

	Serp struct {
		Key     string        `envconfig:"SERPAPI_API_KEY"`
		BaseURL string        `envconfig:"SERPAPI_BASE_URL" default:"https://serpapi.com"`
		Timeout time.Duration `envconfig:"SERPAPI_TIMEOUT" default:"20s"`
	} `envconfig:""`

	Cohere struct {
		Key     string        `envconfig:"COHERE_API_KEY"`
		BaseURL string        `envconfig:"COHERE_BASE_URL" default:"https://api.cohere.com"`
		Model   string        `envconfig:"COHERE_MODEL" default:"command-a-03-2025"`
		Timeout time.Duration `envconfig:"COHERE_TIMEOUT" default:"20s"`
	} `envconfig:""`

	Movies struct {
		URL       string        `envconfig:"MOVIES_URL" default:"https://in.bookmyshow.com/explore/movies-mumbai?languages=hindi"`
		MaxTitles int           `envconfig:"MOVIES_MAX_TITLES" default:"8"`
		Timeout   time.Duration `envconfig:"MOVIES_TIMEOUT" default:"20s"`
	} `envconfig:""`

	Retry struct {
		MaxAttempts int           `envconfig:"RETRY_MAX_ATTEMPTS" default:"3"`
		BaseDelay   time.Duration `envconfig:"RETRY_BASE_DELAY" default:"800ms"`
		JitterMax   time.Duration `envconfig:"RETRY_JITTER_MAX" default:"400ms"`
	} `envconfig:""`

	History struct {
		Limit    int `envconfig:"HISTORY_LIMIT" default:"200"`
		Attempts int `envconfig:"DEDUP_ATTEMPTS" default:"4"`
	} `envconfig:""`

	RedisAddr string `envconfig:"REDIS_ADDR"`
	PGDSN     string `envconfig:"PG_DSN"`
	RabbitURL string `envconfig:"RABBITMQ_URL"`

	Queues struct {
		Warm string `envconfig:"WARM_QUEUE_KEY" default:"warm_jobs"`
	} `envconfig:""`

	Telegram struct {
		Token  string `envconfig:"TG_BOT_TOKEN"`
		ChatID int64  `envconfig:"TG_BROADCAST_CHAT_ID"`
	} `envconfig:""`

	Scheduler struct {
		WarmAt string `envconfig:"WARM_AT_IST" default:"06:30"`
	} `envconfig:""`
}

// Load загружает конфиг из окружения.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}
