package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/snowops-contracts/internal/model"
)

func TestParser_RoundTrip(t *testing.T) {
	parser := NewParser("secret")
	principal := model.Principal{UserID: uuid.New(), Role: model.UserRolePartner}

	token, err := parser.Issue(principal, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	require.NoError(t, err)

	got, err := parser.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, principal, got)
}

func TestParser_RejectsForeignSecret(t *testing.T) {
	token, err := NewParser("other").Issue(model.Principal{UserID: uuid.New(), Role: model.UserRoleAdmin}, jwt.RegisteredClaims{})
	require.NoError(t, err)

	_, err = NewParser("secret").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParser_RejectsExpired(t *testing.T) {
	parser := NewParser("secret")
	token, err := parser.Issue(model.Principal{UserID: uuid.New(), Role: model.UserRoleCustomer}, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	require.NoError(t, err)

	_, err = parser.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParser_RejectsUnknownRole(t *testing.T) {
	parser := NewParser("secret")
	token, err := parser.Issue(model.Principal{UserID: uuid.New(), Role: "JANITOR"}, jwt.RegisteredClaims{})
	require.NoError(t, err)

	_, err = parser.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
