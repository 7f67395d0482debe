package gateway

import (
	"context"

	"coedit/gateway/internal/identity"
	"coedit/gateway/internal/models"
)

// TokenVerifier is the token shape of the credential validator. It reports
// accept (claims) or reject (error); it never panics and never exposes
// parse-level detail beyond the error value.
type TokenVerifier interface {
	// Verify checks the token's signature and expiry against the shared
	// secret and returns the identity claims on success.
	Verify(token string) (*models.AuthToken, error)
}

// JoinValidator is the join-code shape of the credential validator. It makes
// one synchronous call to the identity backend per connection attempt; the
// context bounds that call so a slow backend cannot hang a connection setup.
type JoinValidator interface {
	// ValidateJoin asks the identity backend whether (docID, pin) grants
	// access and returns the granted document id and title.
	ValidateJoin(ctx context.Context, docID, pin int) (*identity.JoinGrant, error)
}
