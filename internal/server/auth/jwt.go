package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"

	"github.com/dmitrijs2005/credkeeper/internal/common"
)

// Claims is the payload of an access token: the registered claims (iat, exp)
// plus the user's identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// TokenIssuer mints HS256-signed access tokens with a fixed validity.
type TokenIssuer struct {
	secretKey        []byte
	validityDuration time.Duration
	now              func() time.Time
}

func NewTokenIssuer(secretKey []byte, validityDuration time.Duration) (*TokenIssuer, error) {
	if len(secretKey) == 0 {
		return nil, oops.Code("AUTH_NO_SECRET").Errorf("token secret must not be empty")
	}
	if validityDuration <= 0 {
		return nil, oops.Code("AUTH_INVALID_TTL").With("ttl", validityDuration.String()).Errorf("token validity must be positive")
	}
	return &TokenIssuer{secretKey: secretKey, validityDuration: validityDuration, now: time.Now}, nil
}

// Issue returns a signed token for the given user.
func (i *TokenIssuer) Issue(userID, email string) (string, error) {
	issuedAt := i.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(i.validityDuration)),
		},
		UserID: userID,
		Email:  email,
	})

	tokenString, err := token.SignedString(i.secretKey)
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").Wrap(err)
	}

	return tokenString, nil
}

// Parse verifies the signature and expiry of tokenString and returns its
// claims. Expired tokens yield common.ErrTokenExpired, anything else that
// fails verification yields common.ErrInvalidToken.
func (i *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	return ParseToken(tokenString, i.secretKey, i.now)
}

// ParseToken is Parse for callers that only hold the secret.
func ParseToken(tokenString string, secretKey []byte, now func() time.Time) (*Claims, error) {
	claims := &Claims{}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if now != nil {
		opts = append(opts, jwt.WithTimeFunc(now))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
