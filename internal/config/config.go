package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// HTTPConfig описывает настройки HTTP-сервера.
type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Addr возвращает адрес для http.Server (с двоеточием перед портом).
func (h HTTPConfig) Addr() string {
	if h.Port == "" {
		return ":8080"
	}

	// Разрешить порты ":8080" и "8080"
	if h.Port[0] == ':' {
		return h.Port
	}

	return fmt.Sprintf(":%s", h.Port)
}

// DBConfig хранит настройки встроенной базы данных.
type DBConfig struct {
	Path string
}

// DriveConfig — доступ к Google Drive для публикации графиков.
type DriveConfig struct {
	FolderID     string
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// LinearConfig — доступ к API трекера для разового импорта истории.
type LinearConfig struct {
	APIToken string
	TeamID   string
}

// Config объединяет все настройки сервиса. Структура неизменяема после
// Load и передаётся компонентам явно, без обращений к окружению из кода.
type Config struct {
	HTTP          HTTPConfig
	DB            DBConfig
	Env           string
	WebhookSecret string
	APIKey        string
	TrackedStates []string
	Drive         DriveConfig
	Linear        LinearConfig
}

// DefaultTrackedStates — статусы, отображаемые на оси таймлайна,
// в порядке их ординалов снизу вверх.
var DefaultTrackedStates = []string{
	"Agent Running",
	"Agent Change Needs Review",
	"In Master",
}

// Load загружает конфигурацию из переменных окружения (.env подхватывается,
// если присутствует).
func Load() (*Config, error) {
	_ = godotenv.Load()

	httpPort := getenv("HTTP_PORT", "8080")
	dbPath := getenv("DB_PATH", "linear_issues.db")
	env := getenv("ENV", "dev")

	tracked := DefaultTrackedStates

	if raw := os.Getenv("TRACKED_STATES"); raw != "" {
		tracked = nil

		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				tracked = append(tracked, s)
			}
		}
	}

	return &Config{
		HTTP: HTTPConfig{
			Port:         httpPort,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		DB: DBConfig{
			Path: dbPath,
		},
		Env:           env,
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		APIKey:        os.Getenv("API_KEY"),
		TrackedStates: tracked,
		Drive: DriveConfig{
			FolderID:     os.Getenv("GOOGLE_DRIVE_FOLDER_ID"),
			ClientID:     os.Getenv("GOOGLE_DRIVE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_DRIVE_CLIENT_SECRET"),
			RefreshToken: os.Getenv("GOOGLE_DRIVE_REFRESH_TOKEN"),
		},
		Linear: LinearConfig{
			APIToken: os.Getenv("LINEAR_API_TOKEN"),
			TeamID:   os.Getenv("LINEAR_TEAM_ID"),
		},
	}, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
