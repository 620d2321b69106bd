package handlers

import (
	"context"
	"net/http"
	"sync"

	"mood_journal/internal/logger"
	"mood_journal/internal/models"
	"mood_journal/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	mu sync.Mutex // guards validTokens and lastResolveToken; streams resolve concurrently

	registerID    int
	registerErr   error
	loginToken    string
	loginSession  models.Session
	loginErr      error
	logoutErr     error
	resolveID     models.Identity
	resolveErr    error
	validTokens   map[string]bool // when set, Resolve accepts only these tokens
	loggedOutSIDs []string

	lastRegisterUsername string
	lastRegisterPassword string
	lastLoginUsername    string
	lastLoginPassword    string
	lastResolveToken     string
}

func (m *mockAuth) Register(_ context.Context, username, password string) (int, error) {
	m.lastRegisterUsername = username
	m.lastRegisterPassword = password
	return m.registerID, m.registerErr
}

func (m *mockAuth) Login(_ context.Context, username, password string) (string, models.Session, error) {
	m.lastLoginUsername = username
	m.lastLoginPassword = password
	return m.loginToken, m.loginSession, m.loginErr
}

func (m *mockAuth) Logout(_ context.Context, sessionID string) error {
	m.loggedOutSIDs = append(m.loggedOutSIDs, sessionID)
	return m.logoutErr
}

func (m *mockAuth) Resolve(_ context.Context, token string) (models.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastResolveToken = token
	if m.validTokens != nil && !m.validTokens[token] {
		return models.Identity{}, service.ErrInvalidToken
	}
	return m.resolveID, m.resolveErr
}

// revoke makes Resolve reject token from now on, as after a logout.
func (m *mockAuth) revoke(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.validTokens, token)
}

type mockMoods struct {
	list     []models.MoodEntry
	listErr  error
	added    models.MoodEntry
	addErr   error
	lastDesc string
	lastID   models.Identity
	addCalls int
}

func (m *mockMoods) ListForUser(_ context.Context, id models.Identity) ([]models.MoodEntry, error) {
	m.lastID = id
	return m.list, m.listErr
}

func (m *mockMoods) AddEntry(_ context.Context, id models.Identity, description string) (models.MoodEntry, error) {
	m.addCalls++
	m.lastID = id
	m.lastDesc = description
	return m.added, m.addErr
}

// ---- Shared Test Helpers ----

var testIdentity = models.Identity{UserID: 1, Username: "alice", SessionID: "sid-1"}

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, logger.Nop(), CookieOptions{Name: "session"})
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
