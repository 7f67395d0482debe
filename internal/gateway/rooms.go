package gateway

import "sync"

// RoomCount is one row of the active-room listing.
type RoomCount struct {
	RoomID    string `json:"roomId"`
	UserCount int    `json:"userCount"`
}

// RoomTable — таблиця членства: кімната (UUID документа) → множина
// ідентифікаторів активних сесій. Єдиний спільний змінний стан шлюзу поряд
// із журналом подій, тому всі операції йдуть під одним м'ютексом і є
// короткими: жодних блокуючих викликів під замком.
//
// Інваріант: запис кімнати існує тоді й лише тоді, коли її множина сесій
// непорожня.
type RoomTable struct {
	mu    sync.Mutex
	rooms map[string]map[string]struct{}
}

// NewRoomTable створює порожню таблицю.
func NewRoomTable() *RoomTable {
	return &RoomTable{
		rooms: make(map[string]map[string]struct{}),
	}
}

// Join додає сесію до кімнати, створюючи запис кімнати за потреби, і
// повертає новий розмір множини. Повторний Join тієї самої сесії — no-op.
func (t *RoomTable) Join(roomID, sessionID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	members, ok := t.rooms[roomID]
	if !ok {
		members = make(map[string]struct{})
		t.rooms[roomID] = members
	}
	members[sessionID] = struct{}{}
	return len(members)
}

// Leave прибирає сесію з кімнати й повертає новий розмір множини (0, якщо
// кімнати більше немає). Порожня кімната видаляється одразу. Видалення
// відсутньої сесії — no-op, не помилка: teardown має бути ідемпотентним.
func (t *RoomTable) Leave(roomID, sessionID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	members, ok := t.rooms[roomID]
	if !ok {
		return 0
	}
	delete(members, sessionID)
	if len(members) == 0 {
		delete(t.rooms, roomID)
		return 0
	}
	return len(members)
}

// Count повертає кількість сесій у кімнаті (0, якщо кімнати немає).
func (t *RoomTable) Count(roomID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rooms[roomID])
}

// ListRooms повертає зріз активних кімнат із лічильниками.
func (t *RoomTable) ListRooms() []RoomCount {
	t.mu.Lock()
	defer t.mu.Unlock()

	list := make([]RoomCount, 0, len(t.rooms))
	for roomID, members := range t.rooms {
		list = append(list, RoomCount{RoomID: roomID, UserCount: len(members)})
	}
	return list
}

// Totals повертає агреговані лічильники: активні кімнати та всі сесії.
func (t *RoomTable) Totals() (rooms, sessions int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, members := range t.rooms {
		sessions += len(members)
	}
	return len(t.rooms), sessions
}
