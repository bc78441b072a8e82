package utils // package utils provides helper functions for hashing and token creation

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessToken is a signed HS256 JWT plus its expiry.  The token carries the
// caller's id, email, username and role so handlers never have to look the
// identity up again per request.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user.  Claims: subject
// (sub) holds the user id, plus email, username, role, exp and iat.
func NewAccessToken(secret string, userID uint64, email, username, role string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":      userID,
		"email":    email,
		"username": username,
		"role":     role,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// TokenIdentity is the authenticated identity decoded from an access token.
type TokenIdentity struct {
	UserID   uint64
	Email    string
	Username string
	Role     string
}

var ErrInvalidToken = errors.New("invalid token")

// ParseAccessToken validates the raw JWT against the secret and extracts
// the identity claims.  Both the Authorization middleware and the websocket
// upgrade path (which receives the token as a query parameter) use this.
func ParseAccessToken(secret, raw string) (TokenIdentity, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return TokenIdentity{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return TokenIdentity{}, ErrInvalidToken
	}
	sub, ok := claims["sub"].(float64) // JWT numbers decode as float64
	if !ok || sub <= 0 {
		return TokenIdentity{}, ErrInvalidToken
	}
	id := TokenIdentity{UserID: uint64(sub)}
	id.Email, _ = claims["email"].(string)
	id.Username, _ = claims["username"].(string)
	id.Role, _ = claims["role"].(string)
	if id.Username == "" || id.Role == "" {
		return TokenIdentity{}, ErrInvalidToken
	}
	return id, nil
}
