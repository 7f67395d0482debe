package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Значення за замовчуванням. BACKEND_URL збігається з дефолтом identity-бекенду.
const (
	DefaultPort             = "1234"
	DefaultBackendURL       = "http://localhost:8080"
	DefaultEventLogCapacity = 50
	DefaultAuthTimeout      = 10 * time.Second
)

// Config містить усі налаштування процесу шлюзу, зчитані зі змінних оточення.
type Config struct {
	// Port — порт, на якому слухаємо і upgrade-трафік, і introspection HTTP.
	Port string
	// JWTSecret — спільний секрет для перевірки підпису токенів. Обов'язковий.
	JWTSecret string
	// BackendURL — базова адреса identity-бекенду (перевірка docId+pin).
	BackendURL string
	// EventLogCapacity — місткість кільцевого буфера журналу подій.
	EventLogCapacity int
	// AuthTimeout — максимальний час на автентифікацію одного з'єднання.
	AuthTimeout time.Duration
}

// Load зчитує конфігурацію з оточення. Повертає помилку, якщо JWT_SECRET
// не встановлено — без нього перевірка токенів неможлива.
func Load() (*Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	cfg := &Config{
		Port:             DefaultPort,
		JWTSecret:        secret,
		BackendURL:       DefaultBackendURL,
		EventLogCapacity: DefaultEventLogCapacity,
		AuthTimeout:      DefaultAuthTimeout,
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if url := os.Getenv("BACKEND_URL"); url != "" {
		cfg.BackendURL = url
	}
	if capStr := os.Getenv("EVENT_LOG_CAPACITY"); capStr != "" {
		n, err := strconv.Atoi(capStr)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid EVENT_LOG_CAPACITY %q", capStr)
		}
		cfg.EventLogCapacity = n
	}
	if timeoutStr := os.Getenv("AUTH_TIMEOUT"); timeoutStr != "" {
		d, err := time.ParseDuration(timeoutStr)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid AUTH_TIMEOUT %q", timeoutStr)
		}
		cfg.AuthTimeout = d
	}

	return cfg, nil
}
