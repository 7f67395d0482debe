package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Дозволяє з'єднання з будь-якого домену. У продакшені налаштувати!
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket оновлює HTTP-з'єднання до WebSocket і передає його шлюзу.
// Ім'я кімнати — UUID документа з URL. Автентифікація відбувається вже в
// шлюзі, після апгрейду: креденшли можуть прийти першим кадром.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	roomID := c.Param("room")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade вже відповів клієнту помилкою.
		return
	}

	h.Gateway.HandleConnection(conn, roomID, c.Request.URL.Query(), c.Request.Header)
}
