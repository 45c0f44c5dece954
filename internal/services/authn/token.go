package authn

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer     = "lanparty"
	defaultTokenTTL = 12 * time.Hour
	minSecretLength = 32
)

var errTokenInvalid = errors.New("session token is invalid")

// sessionClaims is the payload of a session token.
type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type tokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func newTokenCodec(secret []byte, ttl time.Duration) (*tokenCodec, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("token secret must be at least %d bytes", minSecretLength)
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &tokenCodec{secret: secret, ttl: ttl}, nil
}

func (c *tokenCodec) sign(userID uuid.UUID, sessionID string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(c.ttl)
	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

func (c *tokenCodec) parse(token string, now time.Time) (uuid.UUID, string, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%w: %w", errTokenInvalid, err)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%w: subject: %w", errTokenInvalid, err)
	}
	if claims.SessionID == "" {
		return uuid.Nil, "", fmt.Errorf("%w: missing session id", errTokenInvalid)
	}
	return userID, claims.SessionID, nil
}
