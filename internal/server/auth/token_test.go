package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cds-snc/notification-document-download-api/internal/common"
	"github.com/cds-snc/notification-document-download-api/internal/cryptox"
)

var testSecret = []byte("test-secret")

func TestServiceTokenRoundTrip(t *testing.T) {
	serviceID := uuid.New().String()

	token, err := GenerateServiceToken(serviceID, testSecret, time.Hour)
	require.NoError(t, err)

	claimed, err := GetServiceIDFromToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, serviceID, claimed)
}

func TestGetServiceIDFromToken_WrongSecret(t *testing.T) {
	token, err := GenerateServiceToken(uuid.New().String(), testSecret, time.Hour)
	require.NoError(t, err)

	_, err = GetServiceIDFromToken(token, []byte("other-secret"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestGetServiceIDFromToken_Expired(t *testing.T) {
	token, err := GenerateServiceToken(uuid.New().String(), testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = GetServiceIDFromToken(token, testSecret)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestGetServiceIDFromToken_Garbage(t *testing.T) {
	_, err := GetServiceIDFromToken("not-a-jwt", testSecret)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerifier_StaticToken(t *testing.T) {
	v := NewVerifier([]string{"auth-token", "second-token"}, "test-secret")

	assert.NoError(t, v.Verify("auth-token", uuid.New()))
	assert.NoError(t, v.Verify("second-token", uuid.New()))
	assert.ErrorIs(t, v.Verify("wrong", uuid.New()), common.ErrInvalidToken)
	assert.ErrorIs(t, v.Verify("", uuid.New()), common.ErrorUnauthorized)
}

func TestVerifier_HashedStaticToken(t *testing.T) {
	v := NewVerifier([]string{cryptox.HashAuthToken("auth-token")}, "test-secret")

	assert.NoError(t, v.Verify("auth-token", uuid.New()))
	assert.ErrorIs(t, v.Verify("wrong", uuid.New()), common.ErrInvalidToken)
}

func TestVerifier_ServiceJWT(t *testing.T) {
	serviceID := uuid.New()
	v := NewVerifier(nil, "test-secret")

	token, err := GenerateServiceToken(serviceID.String(), testSecret, time.Hour)
	require.NoError(t, err)

	assert.NoError(t, v.Verify(token, serviceID))

	// scoped to its own service only
	assert.ErrorIs(t, v.Verify(token, uuid.New()), common.ErrInvalidToken)
}
