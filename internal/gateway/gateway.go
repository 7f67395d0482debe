package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"coedit/gateway/internal/docstore"
	"coedit/gateway/internal/models"
)

// Помилки відмови. Клієнт бачить лише однаковий close-кадр; відмінність
// потрібна тільки для журналу.
var (
	errMalformed    = errors.New("missing or malformed handshake parameters")
	errUnauthorized = errors.New("unauthorized")
)

// Service — шлюз сесій. Перехоплює кожну спробу під'єднання до кімнати
// документа, автентифікує її, реєструє сесію в таблиці кімнат і веде журнал
// подій. Життєвий цикл з'єднання: Pending → Authenticated → Joined → Closed;
// відмова на Pending одразу веде в Closed без жодних слідів у таблиці.
type Service struct {
	Table  *RoomTable
	Events *EventLog
	Store  docstore.Store
	Tokens TokenVerifier
	Joins  JoinValidator

	// AuthTimeout обмежує і очікування handshake-кадру, і виклик бекенду.
	AuthTimeout time.Duration
}

// NewService створює шлюз поверх готових таблиці, журналу та валідаторів.
func NewService(table *RoomTable, events *EventLog, store docstore.Store, tokens TokenVerifier, joins JoinValidator, authTimeout time.Duration) *Service {
	return &Service{
		Table:       table,
		Events:      events,
		Store:       store,
		Tokens:      tokens,
		Joins:       joins,
		AuthTimeout: authTimeout,
	}
}

// HandleConnection проводить щойно апгрейднуте з'єднання через повний
// життєвий цикл: автентифікація → приєднання до кімнати → запуск pumps.
// roomID — ім'я цільової кімнати (UUID документа) з URL апгрейду; query та
// header — параметри й заголовки запиту апгрейду.
func (g *Service) HandleConnection(conn *websocket.Conn, roomID string, query url.Values, header http.Header) {
	if roomID == "" {
		g.reject(conn, roomID, "", errMalformed)
		return
	}

	cred, err := g.resolveCredential(conn, query, header)
	if err != nil {
		g.reject(conn, roomID, "", errMalformed)
		return
	}

	// Віддалений виклик відбувається строго до будь-яких мутацій таблиці
	// членства і не тримає жодних замків.
	ident, err := g.authenticate(cred)
	if err != nil {
		g.reject(conn, roomID, cred.Name, err)
		return
	}

	g.join(conn, roomID, ident)
}

// join переводить автентифіковане з'єднання у стан Joined: завантажує
// документ кімнати, реєструє сесію в таблиці та запускає pumps.
func (g *Service) join(conn *websocket.Conn, roomID string, ident models.Identity) {
	sessionID := uuid.New().String()

	handle, created, err := g.Store.Load(context.Background(), roomID)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"room":       roomID,
			"session_id": sessionID,
		}).WithError(err).Error("failed to load document")
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "document unavailable"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}
	if created {
		g.Events.Append(models.Event{
			Kind:      models.EventDocumentLoaded,
			Room:      roomID,
			SessionID: sessionID,
		})
		logrus.WithField("room", roomID).Info("document loaded")
	}

	session := &Session{
		ID:       sessionID,
		Identity: ident,
		RoomID:   roomID,
		Conn:     conn,
		Send:     make(chan []byte, sendBufferSize),
		handle:   handle,
		gw:       g,
	}

	count := g.Table.Join(roomID, sessionID)
	handle.Attach(sessionID, session.Send)

	g.Events.Append(models.Event{
		Kind:      models.EventConnected,
		User:      ident.Name,
		Room:      roomID,
		SessionID: sessionID,
		UserCount: count,
	})
	logrus.WithFields(logrus.Fields{
		"user":       ident.Name,
		"room":       roomID,
		"session_id": sessionID,
		"users":      count,
	}).Info("connected")

	session.run()
}

// detach — шлях teardown; викликається рівно один раз через Session.closeOnce,
// хоч би як завершилося з'єднання. Видалення відсутньої сесії — no-op.
func (g *Service) detach(s *Session) {
	// Спершу від'єднуємось від документа: після Detach документ гарантовано
	// не пише в Send, і канал можна безпечно закрити.
	s.handle.Detach(s.ID)
	close(s.Send)
	g.Store.Release(s.RoomID)

	count := g.Table.Leave(s.RoomID, s.ID)

	g.Events.Append(models.Event{
		Kind:      models.EventDisconnected,
		User:      s.Identity.Name,
		Room:      s.RoomID,
		SessionID: s.ID,
		UserCount: count,
	})
	logrus.WithFields(logrus.Fields{
		"user":       s.Identity.Name,
		"room":       s.RoomID,
		"session_id": s.ID,
		"users":      count,
	}).Info("disconnected")

	s.Conn.Close()
}

// resolveCredential збирає креденшл з'єднання. Пріоритет джерел токена:
// явне поле handshake-кадру, потім query-параметр, потім заголовок
// Authorization. Якщо сам запит апгрейду вже містить повний креденшл,
// handshake-кадру не чекаємо.
func (g *Service) resolveCredential(conn *websocket.Conn, query url.Values, header http.Header) (models.Credential, error) {
	cred := credentialFromRequest(query, header)
	if cred.IsToken() || (cred.DocID != "" && cred.Pin != "" && cred.Name != "") {
		return cred, nil
	}

	payload, err := readHandshake(conn, g.AuthTimeout)
	if err != nil {
		return models.Credential{}, err
	}

	// Поля кадру мають пріоритет над запитом апгрейду.
	if payload.Token != "" {
		cred.Token = payload.Token
	}
	if payload.DocID != "" {
		cred.DocID = payload.DocID
	}
	if payload.Pin != "" {
		cred.Pin = payload.Pin
	}
	if payload.Name != "" {
		cred.Name = payload.Name
	}
	return cred, nil
}

// credentialFromRequest витягує креденшл із query-параметрів та заголовків
// запиту апгрейду (query-токен має пріоритет над заголовком).
func credentialFromRequest(query url.Values, header http.Header) models.Credential {
	cred := models.Credential{
		DocID: query.Get("docId"),
		Pin:   query.Get("pin"),
		Name:  query.Get("name"),
	}

	if token := query.Get("token"); token != "" {
		cred.Token = token
		return cred
	}
	if authHeader := header.Get("Authorization"); authHeader != "" {
		if token, found := strings.CutPrefix(authHeader, "Bearer "); found {
			cred.Token = token
		}
	}
	return cred
}

// readHandshake читає перший кадр з'єднання як handshake-payload.
func readHandshake(conn *websocket.Conn, timeout time.Duration) (*models.HandshakePayload, error) {
	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, err
	}
	_, message, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	// Скидаємо дедлайн; readPump встановить власний.
	conn.SetReadDeadline(time.Time{})

	payload := &models.HandshakePayload{}
	if err := json.Unmarshal(message, payload); err != nil {
		return nil, errMalformed
	}
	return payload, nil
}

// authenticate перевіряє креденшл. Токен перевіряється локально спільним
// секретом; join-код — синхронним викликом identity-бекенду з обмеженим
// часом. Усі помилки згортаються в однакову відмову (fail closed); причина
// лишається тільки в журналі.
func (g *Service) authenticate(cred models.Credential) (models.Identity, error) {
	if cred.IsToken() {
		tok, err := g.Tokens.Verify(cred.Token)
		if err != nil {
			logrus.WithError(err).Warn("token verification failed")
			return models.Identity{}, errUnauthorized
		}
		return models.Identity{ID: tok.ID, Name: tok.Username}, nil
	}

	// Формат перевіряємо до будь-якого зовнішнього виклику.
	if !isDigits(cred.DocID, 9) || !isDigits(cred.Pin, 4) || cred.Name == "" {
		return models.Identity{}, errMalformed
	}
	docID, _ := strconv.Atoi(cred.DocID)
	pin, _ := strconv.Atoi(cred.Pin)

	ctx, cancel := context.WithTimeout(context.Background(), g.AuthTimeout)
	defer cancel()

	grant, err := g.Joins.ValidateJoin(ctx, docID, pin)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"doc_id": cred.DocID,
			"user":   cred.Name,
		}).WithError(err).Warn("join validation failed")
		return models.Identity{}, errUnauthorized
	}

	return models.Identity{ID: grant.ID, Name: cred.Name}, nil
}

// reject завершує спробу під'єднання відмовою: одна подія в журналі, close-кадр
// клієнту, жодних мутацій членства.
func (g *Service) reject(conn *websocket.Conn, roomID, name string, cause error) {
	g.Events.Append(models.Event{
		Kind: models.EventAuthRejected,
		User: name,
		Room: roomID,
	})
	logrus.WithFields(logrus.Fields{
		"user": name,
		"room": roomID,
	}).WithError(cause).Warn("connection rejected")

	reason := "unauthorized"
	if errors.Is(cause, errMalformed) {
		reason = "bad request"
	}
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason),
		time.Now().Add(writeWait))
	conn.Close()
}

// isDigits перевіряє, що s складається рівно з n цифр.
func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
