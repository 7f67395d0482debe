package gateway_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"coedit/gateway/internal/identity"
	"coedit/gateway/internal/models"
)

// MockTokenVerifier is a testify mock for the gateway.TokenVerifier interface.
type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) Verify(token string) (*models.AuthToken, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthToken), args.Error(1)
}

// MockJoinValidator is a testify mock for the gateway.JoinValidator interface.
// It stands in for the external identity backend.
type MockJoinValidator struct {
	mock.Mock
}

func (m *MockJoinValidator) ValidateJoin(_ context.Context, docID, pin int) (*identity.JoinGrant, error) {
	args := m.Called(docID, pin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.JoinGrant), args.Error(1)
}
