package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coedit/gateway/internal/api/handler"
	"coedit/gateway/internal/api/middleware"
	"coedit/gateway/internal/docstore"
	"coedit/gateway/internal/gateway"
	"coedit/gateway/internal/models"
)

func newTestRouter(gw *gateway.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.CORS())
	h := handler.NewHandler(gw)
	r.GET("/room/:roomId", h.GetRoomCount)
	r.GET("/rooms", h.ListRooms)
	r.GET("/logs", h.GetEventLog)
	return r
}

func newTestService() *gateway.Service {
	return gateway.NewService(
		gateway.NewRoomTable(),
		gateway.NewEventLog(50),
		docstore.NewMemoryStore(),
		nil, nil,
		time.Second,
	)
}

func TestGetRoomCount(t *testing.T) {
	gw := newTestService()
	gw.Table.Join("room-uuid-1", "s1")
	gw.Table.Join("room-uuid-1", "s2")
	router := newTestRouter(gw)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/room/room-uuid-1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		RoomID    string `json:"roomId"`
		UserCount int    `json:"userCount"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "room-uuid-1", body.RoomID)
	assert.Equal(t, 2, body.UserCount)
}

func TestGetRoomCount_UnknownRoomIsZero(t *testing.T) {
	router := newTestRouter(newTestService())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/room/no-such-room", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"roomId":"no-such-room","userCount":0}`, w.Body.String())
}

func TestGetRoomCount_BlankRoomID(t *testing.T) {
	router := newTestRouter(newTestService())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/room/%20", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRooms(t *testing.T) {
	gw := newTestService()
	gw.Table.Join("room-a", "s1")
	gw.Table.Join("room-a", "s2")
	gw.Table.Join("room-b", "s3")
	router := newTestRouter(gw)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		TotalRooms int                 `json:"totalRooms"`
		Rooms      []gateway.RoomCount `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.TotalRooms)
	assert.Len(t, body.Rooms, 2)
}

func TestGetEventLog(t *testing.T) {
	gw := newTestService()
	gw.Table.Join("room-a", "s1")
	gw.Events.Append(models.Event{Kind: models.EventConnected, User: "Ada", Room: "room-a", UserCount: 1})
	router := newTestRouter(gw)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/logs", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		TotalEvents  int            `json:"totalEvents"`
		Logs         []models.Event `json:"logs"`
		CurrentState struct {
			ActiveRooms      int `json:"activeRooms"`
			TotalConnections int `json:"totalConnections"`
		} `json:"currentState"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.TotalEvents)
	require.Len(t, body.Logs, 1)
	assert.Equal(t, models.EventConnected, body.Logs[0].Kind)
	assert.Equal(t, 1, body.CurrentState.ActiveRooms)
	assert.Equal(t, 1, body.CurrentState.TotalConnections)
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(newTestService())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/rooms", nil)
	req.Header.Set("Origin", "http://example.com")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Body.String())
}

func TestCORSHeadersOnGet(t *testing.T) {
	router := newTestRouter(newTestService())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
