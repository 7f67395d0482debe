package gateway

import (
	"sync"
	"time"

	"coedit/gateway/internal/models"
)

// EventLog — обмежений кільцевий буфер останніх подій автентифікації та
// з'єднань. Append за O(1) витісняє найстарішу подію; ніколи не блокується
// ні на чому, крім власного м'ютекса.
type EventLog struct {
	mu    sync.Mutex
	buf   []models.Event
	start int // індекс найстаршої події
	size  int
}

// NewEventLog створює журнал на capacity записів (мінімум 1).
func NewEventLog(capacity int) *EventLog {
	if capacity < 1 {
		capacity = 1
	}
	return &EventLog{
		buf: make([]models.Event, capacity),
	}
}

// Append додає подію в хвіст, проставляючи час, якщо його немає.
func (l *EventLog) Append(e models.Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.size < len(l.buf) {
		l.buf[(l.start+l.size)%len(l.buf)] = e
		l.size++
		return
	}
	// Буфер повний: перезаписуємо найстаршу подію.
	l.buf[l.start] = e
	l.start = (l.start + 1) % len(l.buf)
}

// Snapshot повертає копію подій від найстарішої до найновішої.
func (l *EventLog) Snapshot() []models.Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.Event, l.size)
	for i := 0; i < l.size; i++ {
		out[i] = l.buf[(l.start+i)%len(l.buf)]
	}
	return out
}

// Len повертає поточну кількість записів.
func (l *EventLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}
