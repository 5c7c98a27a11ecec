package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/smartsprint-dev/smartsprint/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() models.User {
	return models.User{
		ID:    42,
		Name:  "Dev One",
		Email: "dev@example.com",
		Role:  "Developer",
		Team:  "Backend",
		Level: "Dev",
	}
}

func signWithExpiry(t *testing.T, exp time.Time) string {
	t.Helper()

	claims := jwt.MapClaims{
		"user_id": uint(42),
		"email":   "dev@example.com",
		"exp":     exp.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	require.NoError(t, err)
	return token
}

func TestGenerateAndVerify(t *testing.T) {
	Init("test-secret")

	token, err := GenerateJWT(testUser())
	require.NoError(t, err)

	claims, err := VerifyJWT(token)
	require.NoError(t, err)

	assert.Equal(t, float64(42), claims["user_id"])
	assert.Equal(t, "Dev One", claims["name"])
	assert.Equal(t, "dev@example.com", claims["email"])
	assert.Equal(t, "Developer", claims["role"])
	assert.Equal(t, "Backend", claims["team"])
	assert.Equal(t, "Dev", claims["level"])
}

func TestTokenExpiryBoundary(t *testing.T) {
	Init("test-secret")

	// A token issued now expires in 24 hours: one minute before the
	// deadline it still verifies, one minute after it does not.
	almostExpired := signWithExpiry(t, time.Now().Add(TokenTTL-time.Minute))
	_, err := VerifyJWT(almostExpired)
	assert.NoError(t, err)

	expired := signWithExpiry(t, time.Now().Add(-time.Minute))
	_, err = VerifyJWT(expired)
	assert.Error(t, err)
}

func TestVerifyFailsClosed(t *testing.T) {
	Init("test-secret")

	_, err := VerifyJWT("not-a-token")
	assert.Error(t, err)

	_, err = VerifyJWT("")
	assert.Error(t, err)

	// Token signed with a different key.
	claims := jwt.MapClaims{"user_id": uint(1), "exp": time.Now().Add(time.Hour).Unix()}
	forged, signErr := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, signErr)

	_, err = VerifyJWT(forged)
	assert.Error(t, err)

	// Unsigned token.
	unsigned, signErr := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, signErr)

	_, err = VerifyJWT(unsigned)
	assert.Error(t, err)
}
