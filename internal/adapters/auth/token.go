package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"clubportal/internal/domain"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	Email  string `json:"email"`
	ClubID string `json:"club_id,omitempty"`
	Role   string `json:"role"`
}

// JWTIssuer signs admin tokens.
type JWTIssuer struct {
	secret []byte
}

// NewJWTIssuer returns an issuer that signs admin tokens with HS256. The identity provider
// normally mints these; the issuer exists for tooling and tests.
func NewJWTIssuer(secret string) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret)}
}

// Issue signs a token for p that expires after expiry.
func (i *JWTIssuer) Issue(p domain.Principal, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Email:  p.Email,
		ClubID: p.ClubID,
		Role:   string(p.Role),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

type jwtVerifier struct {
	secret []byte
}

// NewJWTVerifier returns a TokenVerifier for HS256 tokens signed with secret.
func NewJWTVerifier(secret string) domain.TokenVerifier {
	return &jwtVerifier{secret: []byte(secret)}
}

func (v *jwtVerifier) Verify(tokenString string) (domain.Principal, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return domain.Principal{}, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return domain.Principal{}, errors.New("invalid token")
	}
	return domain.Principal{
		UserID: claims.Subject,
		Email:  claims.Email,
		ClubID: claims.ClubID,
		Role:   domain.Role(claims.Role),
	}, nil
}
