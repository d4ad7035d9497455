package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"filevault-backend/internal/database"
	"filevault-backend/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrMissingEmail       = errors.New("missing email")
	ErrMissingPassword    = errors.New("missing password")
)

const sessionTTL = 24 * time.Hour

type UserStore interface {
	Insert(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type SessionStore interface {
	Set(ctx context.Context, token, userID string, ttl time.Duration) error
	Get(ctx context.Context, token string) (string, error)
	Del(ctx context.Context, token string) error
}

type AuthService struct {
	users    UserStore
	sessions SessionStore
}

func NewAuthService(users UserStore, sessions SessionStore) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" {
		return nil, ErrMissingEmail
	}
	if password == "" {
		return nil, ErrMissingPassword
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, database.ErrNoDocument) {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(bytes),
	}

	id, err := s.users.Insert(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	user.ID = id

	return user, nil
}

// Login verifies credentials and opens a session: a fresh random token mapped
// to the user ID with a 24-hour expiration. A user may hold any number of
// concurrent sessions.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNoDocument) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := uuid.New().String()
	if err := s.sessions.Set(ctx, token, user.ID.Hex(), sessionTTL); err != nil {
		return "", fmt.Errorf("failed to open session: %w", err)
	}

	return token, nil
}

// Logout deletes the session. A second call with the same token fails, the
// session is already gone.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	userID, err := s.sessions.Get(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to look up session: %w", err)
	}
	if userID == "" {
		return ErrUnauthenticated
	}

	if err := s.sessions.Del(ctx, token); err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	return nil
}

// ResolveSession is a pure lookup: token to user ID, no side effects.
// Returns the zero ObjectID without error when no session exists.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (primitive.ObjectID, error) {
	if token == "" {
		return primitive.NilObjectID, nil
	}

	userID, err := s.sessions.Get(ctx, token)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to look up session: %w", err)
	}
	if userID == "" {
		return primitive.NilObjectID, nil
	}

	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("malformed user id in session: %w", err)
	}
	return id, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNoDocument) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
