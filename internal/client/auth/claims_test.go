package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/osut/internal/client/apitest"
)

var testSecret = []byte("claims-test-secret-with-32-bytes!!")

func TestSubjectID(t *testing.T) {
	token, err := apitest.IssueAccessToken(testSecret, "user-123", time.Hour)
	require.NoError(t, err)

	id, err := SubjectID(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", id)
}

// Подпись и срок не проверяются: это делает backend
func TestSubjectID_ExpiredToken(t *testing.T) {
	token, err := apitest.IssueAccessToken(testSecret, "user-123", -time.Hour)
	require.NoError(t, err)

	id, err := SubjectID(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", id)
}

func TestSubjectID_NoSubject(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Issuer: "osut"}).SignedString(testSecret)
	require.NoError(t, err)

	_, err = SubjectID(token)
	assert.ErrorIs(t, err, ErrNoSubject)
}

func TestSubjectID_Malformed(t *testing.T) {
	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := SubjectID(token)
		assert.Error(t, err, token)
	}
}

func TestExpiresAt(t *testing.T) {
	before := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	token, err := apitest.IssueAccessToken(testSecret, "user-123", 30*time.Minute)
	require.NoError(t, err)

	exp, err := ExpiresAt(token)
	require.NoError(t, err)
	assert.WithinDuration(t, before, exp, 2*time.Second)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "x"}).SignedString(testSecret)
	require.NoError(t, err)
	_, err = ExpiresAt(noExp)
	assert.Error(t, err)
}
