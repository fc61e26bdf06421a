// Package auth registers shoppers, verifies their credentials and tracks
// which user is signed in to each storefront session.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"laptopshop/models"
	"laptopshop/state"
	"laptopshop/utils"
)

const MinPasswordLength = 6

var (
	ErrMissingField       = errors.New("all fields are required")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrDuplicateEmail     = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("user not found")
	ErrAdminDisabled      = errors.New("admin sign-in is not configured")
)

// Record is a stored account including its password hash.
type Record struct {
	models.User
	PasswordHash string
}

type Users interface {
	// Create returns ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, rec Record) (models.User, error)
	ByEmail(ctx context.Context, email string) (Record, error)
}

// Session is what SignIn hands back to the caller.
type Session struct {
	ID    string      `json:"sessionId"`
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

type Service struct {
	users         Users
	sessions      state.Store
	tokens        *utils.JWT
	adminPassword string
	cost          int
}

func NewService(users Users, sessions state.Store, tokens *utils.JWT, adminPassword string) *Service {
	return &Service{
		users:         users,
		sessions:      sessions,
		tokens:        tokens,
		adminPassword: adminPassword,
		cost:          bcrypt.DefaultCost,
	}
}

// WithCost sets the bcrypt cost; tests use bcrypt.MinCost.
func (s *Service) WithCost(cost int) *Service {
	s.cost = cost
	return s
}

func (s *Service) Register(ctx context.Context, in models.RegisterInput) (models.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if in.Email == "" || in.Password == "" || in.FirstName == "" || in.LastName == "" {
		return models.User{}, ErrMissingField
	}
	if len(in.Password) < MinPasswordLength {
		return models.User{}, ErrWeakPassword
	}

	if _, err := s.users.ByEmail(ctx, in.Email); err == nil {
		return models.User{}, ErrDuplicateEmail
	} else if !errors.Is(err, ErrNotFound) {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	return s.users.Create(ctx, Record{
		User: models.User{
			Email:     in.Email,
			FirstName: in.FirstName,
			LastName:  in.LastName,
		},
		PasswordHash: string(hash),
	})
}

// SignIn verifies credentials and binds the user to sessionID. An empty
// sessionID starts a new session.
func (s *Service) SignIn(ctx context.Context, sessionID, email, password string) (Session, error) {
	rec, err := s.users.ByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if err := s.sessions.Save(state.Key(sessionID, "user"), rec.User); err != nil {
		return Session{}, err
	}

	token, err := s.tokens.Generate(rec.Email, utils.RoleCustomer, sessionID, rec.ID)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	return Session{ID: sessionID, User: rec.User, Token: token}, nil
}

func (s *Service) SignOut(sessionID string) error {
	return s.sessions.Delete(state.Key(sessionID, "user"))
}

// Current returns the user signed in to sessionID, if any.
func (s *Service) Current(sessionID string) (models.User, bool) {
	var u models.User
	ok, err := s.sessions.Load(state.Key(sessionID, "user"), &u)
	if err != nil || !ok {
		return models.User{}, false
	}
	return u, true
}

// AdminSignIn issues an admin token when password matches the configured
// admin password.
func (s *Service) AdminSignIn(password string) (string, error) {
	if s.adminPassword == "" {
		return "", ErrAdminDisabled
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) != 1 {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Generate("admin", utils.RoleAdmin, "", 0)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
