package gateway

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"coedit/gateway/internal/docstore"
	"coedit/gateway/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	// Кадри синхронізації документа можуть бути великими.
	maxMessageSize = 1 << 20
	sendBufferSize = 256
)

// Session — одне живе автентифіковане з'єднання. Сесія належить рівно одній
// кімнаті на весь свій час життя; створюється лише після успішної
// автентифікації та реєстрації в таблиці кімнат.
type Session struct {
	ID       string
	Identity models.Identity
	RoomID   string

	Conn   *websocket.Conn
	Send   chan []byte
	handle docstore.Handle
	gw     *Service

	// closeOnce гарантує рівно один teardown незалежно від того, як
	// завершилось з'єднання: нормальне закриття, помилка чи таймаут.
	closeOnce sync.Once
}

// run запускає 'pumps' сесії.
func (s *Session) run() {
	go s.writePump()
	go s.readPump()
}

// readPump читає кадри з WebSocket і передає їх документу кімнати.
// Будь-яка помилка читання (зокрема обрив транспорту без явного закриття)
// завершує цикл і запускає teardown.
func (s *Session) readPump() {
	defer s.teardown()

	s.Conn.SetReadLimit(maxMessageSize)
	s.Conn.SetReadDeadline(time.Now().Add(pongWait))
	s.Conn.SetPongHandler(func(string) error {
		s.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := s.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithFields(logrus.Fields{
					"session_id": s.ID,
					"room":       s.RoomID,
				}).WithError(err).Debug("websocket read error")
			}
			break
		}

		// Вміст кадру для шлюзу непрозорий: його інтерпретує рушій документа.
		s.handle.Receive(s.ID, message)
	}
}

// writePump пише кадри з каналу Send у WebSocket та підтримує з'єднання
// періодичними ping.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		s.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.Send:
			s.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Канал закрито при teardown — закриваємо з'єднання WS.
				s.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// Кадри документа — непрозорі байти, тому binary.
			if err := s.Conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			s.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// teardown виконує шлях від'єднання рівно один раз.
func (s *Session) teardown() {
	s.closeOnce.Do(func() {
		s.gw.detach(s)
	})
}
