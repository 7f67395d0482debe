package models

// AuthToken is the claim set carried by a signed identity token.
type AuthToken struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Identity is the authenticated identity attached to a session. The token
// flow fills it from the token claims; the join-code flow pairs the document
// id granted by the identity backend with the caller-supplied display name.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
