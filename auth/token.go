package auth

import (
	"dm-lab/domain"
	"dm-lab/errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims defines the structure of the data stored inside the JWT.
// Tokens are issued by the identity service; user_id is the only claim we rely on.
type CustomClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 tokens signed with the secret shared with the identity service.
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(secret, issuer string) Verifier {
	return Verifier{secret: []byte(secret), issuer: issuer}
}

// VerifyToken parses and validates the signature and expiration of a JWT string.
func (v Verifier) VerifyToken(tokenString string) (domain.UserID, error) {
	if tokenString == "" {
		return domain.NoUser, errors.ErrMissingToken
	}
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		options = append(options, jwt.WithIssuer(v.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, options...)
	if err != nil {
		return domain.NoUser, fmt.Errorf("%w: %v", errors.ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return domain.NoUser, errors.ErrInvalidToken
	}
	return domain.UserID(claims.UserID), nil
}

// GenerateToken creates a signed JWT for a specific user.
// Production tokens come from the identity service; this serves local tooling and tests.
func (v Verifier) GenerateToken(user domain.UserID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &CustomClaims{
		UserID: int64(user),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    v.issuer,
			Subject:   user.String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
