package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"mood_journal/internal/models"
	"mood_journal/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxUsernameLen = 100
	maxPasswordLen = 72 // bcrypt input limit in bytes
)

// AuthService handles registration and the session lifecycle.
type AuthService struct {
	users    repository.Authorization
	sessions repository.SessionRepo
	clock    Clock
	secret   []byte
	ttl      time.Duration
	newID    func() string
}

func NewAuthService(users repository.Authorization, sessions repository.SessionRepo, clock Clock, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		clock:    clock,
		secret:   secret,
		ttl:      ttl,
		newID:    uuid.NewString,
	}
}

// Claims defines JWT claims. RegisteredClaims.ID carries the session id and
// Subject the username.
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"uid"`
}

// Register hashes password and creates a new user.
func (s *AuthService) Register(ctx context.Context, username, password string) (int, error) {
	username = normalizeUsername(username)
	if username == "" {
		return 0, validationError("username is required")
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return 0, validationError(fmt.Sprintf("username must be at most %d characters", maxUsernameLen))
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, ErrDuplicateUsername
	}

	hash, err := hashPassword(password)
	if err != nil {
		return 0, err
	}

	id, err := s.users.Create(ctx, username, hash)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return 0, ErrDuplicateUsername
		}
		return 0, err
	}
	return id, nil
}

// Login validates credentials, opens a session and returns its signed token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, models.Session, error) {
	username = normalizeUsername(username)
	if username == "" {
		return "", models.Session{}, ErrUserNotFound
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", models.Session{}, err
	}
	if u == nil {
		return "", models.Session{}, ErrUserNotFound
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", models.Session{}, ErrInvalidPassword
	}

	now := s.clock.Now()
	sess := models.Session{
		ID:        s.newID(),
		UserID:    u.ID,
		Username:  u.Username,
		CreatedAt: now.UTC(),
		ExpiresAt: now.Add(s.ttl).UTC(),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return "", models.Session{}, err
	}

	token, err := s.issueToken(sess)
	if err != nil {
		return "", models.Session{}, err
	}
	return token, sess, nil
}

// Logout ends the session. Ending an unknown session is not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// Resolve turns a session token into the acting user's identity.
func (s *AuthService) Resolve(ctx context.Context, token string) (models.Identity, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return models.Identity{}, err
	}

	sess, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return models.Identity{}, err
	}
	if sess == nil || sess.Expired(s.clock.Now()) || sess.Username != claims.Subject {
		return models.Identity{}, ErrSessionNotFound
	}

	return models.Identity{
		UserID:    sess.UserID,
		Username:  sess.Username,
		SessionID: sess.ID,
	}, nil
}

func (s *AuthService) parseToken(accessToken string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// helper: issue a signed JWT bound to a session
func (s *AuthService) issueToken(sess models.Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   sess.Username,
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
		},
		UserID: sess.UserID,
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// normalizeUsername is applied on both register and login so that the stored
// name and the looked-up name always agree.
func normalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", validationError("password is required")
	}
	if len(password) > maxPasswordLen {
		return "", validationError(fmt.Sprintf("password must be at most %d bytes", maxPasswordLen))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
