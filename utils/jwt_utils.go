package utils

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	jwt.RegisteredClaims
	Role    string `json:"role"`
	Session string `json:"sid,omitempty"`
	UserID  int    `json:"uid,omitempty"`
}

// JWT signs and verifies HS256 tokens.
type JWT struct {
	Secret []byte
	TTL    time.Duration
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWT{Secret: []byte(secret), TTL: ttl}
}

func (j *JWT) Generate(subject, role, sessionID string, userID int) (string, error) {
	now := time.Now()
	claims := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
		Role:    role,
		Session: sessionID,
		UserID:  userID,
	})
	return claims.SignedString(j.Secret)
}

func (j *JWT) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return j.Secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (j *JWT) SetCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "jwt",
		Value:    token,
		Expires:  time.Now().Add(j.TTL),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Strict",
	})
}

func ClearCookie(c *fiber.Ctx) {
	c.ClearCookie("jwt")
}
