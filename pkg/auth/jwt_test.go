package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
)

func TestJWTService_GenerateAndParse(t *testing.T) {
	// Arrange
	service, err := NewJWTService("test-secret", 1)
	require.NoError(t, err)

	// Act
	token, err := service.GenerateToken(42, "admin@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ParseToken(token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.AdminID)
	assert.Equal(t, "admin@example.com", claims.Email)
}

func TestJWTService_ParseToken_WrongSecret(t *testing.T) {
	// Arrange
	issuer, err := NewJWTService("secret-one", 1)
	require.NoError(t, err)
	verifier, err := NewJWTService("secret-two", 1)
	require.NoError(t, err)

	token, err := issuer.GenerateToken(1, "admin@example.com")
	require.NoError(t, err)

	// Act
	_, err = verifier.ParseToken(token)

	// Assert
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized),
		"токен с чужой подписью должен отклоняться как unauthorized")
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService("", 1)
	assert.Error(t, err, "пустой секрет недопустим")
}
