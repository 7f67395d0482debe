package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"coedit/gateway/internal/api/handler"
	"coedit/gateway/internal/api/middleware"
	"coedit/gateway/internal/auth"
	"coedit/gateway/internal/config"
	"coedit/gateway/internal/docstore"
	"coedit/gateway/internal/gateway"
	"coedit/gateway/internal/identity"
)

func main() {
	logrus.Info("Starting coedit session gateway...")

	if err := godotenv.Load(); err != nil {
		logrus.Warn("no .env file found, using environment as is")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// 1. Ініціалізація залежностей
	table := gateway.NewRoomTable()
	events := gateway.NewEventLog(cfg.EventLogCapacity)
	store := docstore.NewMemoryStore()
	tokens := auth.NewVerifier(cfg.JWTSecret)
	joins := identity.NewClient(cfg.BackendURL)

	// 2. Ініціалізація шлюзу сесій
	gw := gateway.NewService(table, events, store, tokens, joins, cfg.AuthTimeout)

	// 3. Налаштування Gin та роутингу
	r := gin.Default()
	r.Use(middleware.CORS())
	h := handler.NewHandler(gw)

	// Роути
	r.GET("/ws/:room", h.ServeWebSocket) // WebSocket Upgrade, кімната = UUID документа
	r.GET("/room/:roomId", h.GetRoomCount)
	r.GET("/rooms", h.ListRooms)
	r.GET("/logs", h.GetEventLog)

	// Один слухач і для upgrade-трафіку, і для introspection-ендпоїнтів.
	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	logrus.Infof("Session gateway listening on :%s", cfg.Port)
	logrus.Fatal(server.ListenAndServe())
}
