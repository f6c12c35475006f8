package security

import (
	"errors"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type for this endpoint")
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// UserClaims are the claims the identity service puts in the tokens it issues
type UserClaims struct {
	UserID int32     `json:"user_id"`
	Email  string    `json:"email,omitempty"`
	Type   TokenType `json:"type"`
	Roles  []string  `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Actor converts verified claims into the caller identity handed to the services
func (c *UserClaims) Actor() domain.Actor {
	roles := make([]domain.Role, 0, len(c.Roles))
	for _, r := range c.Roles {
		roles = append(roles, domain.Role(r))
	}
	return domain.Actor{UserID: c.UserID, Roles: roles}
}

// TokenVerifier checks access tokens. Issuing them belongs to the identity service.
type TokenVerifier interface {
	ValidateAccessToken(tokenString string) (*UserClaims, error)
}

type tokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier verifies HS256 tokens signed with secret. An empty issuer accepts any issuer.
func NewTokenVerifier(secret, issuer string) TokenVerifier {
	return &tokenVerifier{
		secret: []byte(secret),
		issuer: issuer,
	}
}

func (v *tokenVerifier) ValidateAccessToken(tokenString string) (*UserClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	}, opts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != TokenTypeAccess {
		return nil, ErrWrongTokenType
	}
	// Populate UserID from Subject if the issuer only set the standard claim
	if claims.UserID == 0 && claims.Subject != "" {
		uid, err := strconv.Atoi(claims.Subject)
		if err != nil {
			return nil, ErrInvalidToken
		}
		claims.UserID = int32(uid)
	}
	if claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
