package models

// HandshakePayload is the optional first frame a client sends after the
// websocket upgrade. All fields are optional; anything missing falls back to
// the upgrade request's query parameters and headers.
type HandshakePayload struct {
	Token string `json:"token,omitempty"`
	DocID string `json:"docId,omitempty"`
	Pin   string `json:"pin,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Credential is the resolved credential for one connection attempt, merged
// from the handshake payload, query parameters and headers. Exactly one of
// the two shapes is used: a bearer token, or a (DocID, Pin, Name) join code.
// It is validated once and discarded, never stored.
type Credential struct {
	Token string

	DocID string
	Pin   string
	Name  string
}

// IsToken reports whether the credential carries the token shape.
func (c Credential) IsToken() bool { return c.Token != "" }
