package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/credkeeper/internal/common"
)

func newTestIssuer(t *testing.T, secret string, ttl time.Duration, now time.Time) *TokenIssuer {
	t.Helper()
	i, err := NewTokenIssuer([]byte(secret), ttl)
	require.NoError(t, err)
	i.now = func() time.Time { return now }
	return i
}

func TestNewTokenIssuer_Validation(t *testing.T) {
	_, err := NewTokenIssuer(nil, time.Hour)
	require.Error(t, err)

	_, err = NewTokenIssuer([]byte("k"), 0)
	require.Error(t, err)
}

func TestIssueAndParse_Success(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	issuer := newTestIssuer(t, "super-secret", time.Hour, now)

	tok, err := issuer.Issue("user-123", "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := issuer.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, now.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestParse_ClaimNames(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer(t, "k", time.Hour, time.Now())
	tok, err := issuer.Issue("u1", "b@x.com")
	require.NoError(t, err)

	mapClaims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, mapClaims)
	require.NoError(t, err)

	assert.Equal(t, "u1", mapClaims["userId"])
	assert.Equal(t, "b@x.com", mapClaims["email"])
	assert.Contains(t, mapClaims, "exp")
	assert.Contains(t, mapClaims, "iat")
}

func TestParse_RejectedAfterExpiry(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	issuer := newTestIssuer(t, "secret", time.Hour, issuedAt)

	tok, err := issuer.Issue("u1", "a@x.com")
	require.NoError(t, err)

	_, err = ParseToken(tok, []byte("secret"), func() time.Time { return issuedAt.Add(59 * time.Minute) })
	require.NoError(t, err, "still valid before expiry")

	_, err = ParseToken(tok, []byte("secret"), func() time.Time { return issuedAt.Add(time.Hour + time.Second) })
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer(t, "right-secret", time.Hour, time.Now())
	tok, err := issuer.Issue("u2", "c@x.com")
	require.NoError(t, err)

	_, err = ParseToken(tok, []byte("wrong-secret"), nil)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParse_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := ParseToken("not.a.jwt", []byte("k"), nil)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParse_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: "u3"}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = ParseToken(tok, []byte("k"), nil)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
