package utils

import (
	"testing"

	"github.com/Xyleee/api-devguidance/internal/config"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "test_secret_key_12345", JWTTTLHours: 1}

	token, err := GenerateToken("student-1", "student")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "student-1", claims.UserID)
	assert.Equal(t, "student", claims.Role)
	assert.NotEmpty(t, claims.GetJTI())
	assert.True(t, claims.RemainingTTL() > 0)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "secret-a"}
	token, err := GenerateToken("adviser-1", "adviser")
	require.NoError(t, err)

	config.AppConfig = &config.Config{JWTSecret: "secret-b"}
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))

	tmp, err := TemporaryPassword()
	require.NoError(t, err)
	assert.Len(t, tmp, 16)
}

func TestSanitizeSearchQuery(t *testing.T) {
	assert.Equal(t, "%react%", SanitizeSearchQuery("  React "))
	assert.Equal(t, "%100\\%\\_done%", SanitizeSearchQuery("100%_done"))
}

func TestValidationMessages(t *testing.T) {
	type input struct {
		Email    string `validate:"required,email"`
		Password string `validate:"min=6"`
	}
	err := validator.New().Struct(input{Email: "", Password: "abc"})
	msgs := ValidationMessages(err)
	assert.Contains(t, msgs, "email is required")
	assert.Contains(t, msgs, "password must be at least 6 characters")
}
