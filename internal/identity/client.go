package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrRejected means the identity backend answered and refused the join code.
var ErrRejected = errors.New("join access rejected by identity backend")

// JoinGrant is the backend's confirmation that a (docId, pin) pair is valid.
// ID is the document UUID, which doubles as the room name.
type JoinGrant struct {
	ID    string
	Title string
}

// joinRequest / joinResponse віддзеркалюють контракт POST /docs/join бекенду.
// Бекенд приймає docId і pin як числа.
type joinRequest struct {
	DocID int `json:"docId"`
	Pin   int `json:"pin"`
}

type joinResponse struct {
	ID       string `json:"id"`
	Document struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"document"`
}

// Client — HTTP-клієнт до identity-бекенду.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient створює клієнт із базовою адресою бекенду.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
	}
}

// ValidateJoin синхронно перевіряє пару (docId, pin) на бекенді.
// Будь-яка відповідь поза 2xx — ErrRejected; мережеві помилки повертаються
// загорнутими, але для викликача обидва випадки означають відмову (fail
// closed). Контекст обмежує тривалість виклику.
func (c *Client) ValidateJoin(ctx context.Context, docID, pin int) (*JoinGrant, error) {
	body, err := json.Marshal(joinRequest{DocID: docID, Pin: pin})
	if err != nil {
		return nil, fmt.Errorf("encoding join request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/docs/join", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building join request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling identity backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}

	var jr joinResponse
	if err := json.NewDecoder(resp.Body).Decode(&jr); err != nil {
		return nil, fmt.Errorf("decoding join response: %w", err)
	}
	if jr.ID == "" {
		jr.ID = jr.Document.ID
	}
	if jr.ID == "" {
		return nil, fmt.Errorf("%w: response carries no document id", ErrRejected)
	}

	return &JoinGrant{ID: jr.ID, Title: jr.Document.Title}, nil
}
