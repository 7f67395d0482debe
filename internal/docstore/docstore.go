package docstore

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Handle is an opaque per-room document handle. The gateway attaches every
// session of a room to the room's handle and relays inbound frames into it;
// what happens to those frames (CRDT merge, broadcast, persistence) is the
// document engine's business, not the gateway's.
type Handle interface {
	// Attach registers a session's outbound channel with the document.
	Attach(sessionID string, send chan<- []byte)
	// Detach removes a session. Detaching an unknown session is a no-op.
	Detach(sessionID string)
	// Receive hands the document one inbound frame from a session.
	Receive(sessionID string, data []byte)
}

// Store hands out document handles keyed by room id.
type Store interface {
	// Load returns the room's handle, creating it when the room has no
	// members yet. The boolean reports whether the handle was created by
	// this call.
	Load(ctx context.Context, roomID string) (Handle, bool, error)
	// Release drops one session's reference to the room's handle; the store
	// discards the document once every reference is released.
	Release(roomID string)
}

// MemoryStore — сховище документів у пам'яті. Кожна кімната отримує документ,
// який просто ретранслює кадри між її сесіями. Це місце, куди підключається
// справжній CRDT-рушій; шлюз вмісту кадрів не торкається.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]*memoryDoc
	refs map[string]int
}

// NewMemoryStore створює порожнє сховище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]*memoryDoc),
		refs: make(map[string]int),
	}
}

// Load повертає документ кімнати, створюючи його для першого учасника.
func (s *MemoryStore) Load(_ context.Context, roomID string) (Handle, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[roomID]
	if !ok {
		doc = newMemoryDoc(roomID)
		s.docs[roomID] = doc
	}
	s.refs[roomID]++
	return doc, !ok, nil
}

// Release зменшує лічильник посилань; останнє звільнення видаляє документ.
func (s *MemoryStore) Release(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refs[roomID] <= 1 {
		delete(s.refs, roomID)
		delete(s.docs, roomID)
		return
	}
	s.refs[roomID]--
}

// memoryDoc ретранслює кадри всім сесіям кімнати, крім відправника.
type memoryDoc struct {
	roomID string

	mu       sync.Mutex
	sessions map[string]chan<- []byte
}

func newMemoryDoc(roomID string) *memoryDoc {
	return &memoryDoc{
		roomID:   roomID,
		sessions: make(map[string]chan<- []byte),
	}
}

func (d *memoryDoc) Attach(sessionID string, send chan<- []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sessions[sessionID] = send
}

func (d *memoryDoc) Detach(sessionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.sessions, sessionID)
}

func (d *memoryDoc) Receive(sessionID string, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for id, send := range d.sessions {
		if id == sessionID {
			continue
		}
		// Неблокуюча відправка: повільна сесія не повинна гальмувати кімнату.
		select {
		case send <- data:
		default:
			logrus.WithFields(logrus.Fields{
				"room":       d.roomID,
				"session_id": id,
			}).Warn("session send buffer full, dropping frame")
		}
	}
}
