package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"mood_journal/internal/logger"
	"mood_journal/internal/models"
	"mood_journal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// --- parseInterval unit tests ---

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, logger.Nop(), CookieOptions{})

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws/mood", 1 * time.Second},
		{"interval_string_valid", "/ws/mood?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws/mood?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws/mood?interval=20s", 1 * time.Second},
		{"interval_ms_too_large", "/ws/mood?interval_ms=20000", 1 * time.Second},
		{"interval_negative", "/ws/mood?interval=-2s", 1 * time.Second},
		{"interval_invalid_string", "/ws/mood?interval=bogus", 1 * time.Second},
		{"interval_ms_invalid", "/ws/mood?interval_ms=NaN", 1 * time.Second},
		{"both_present_interval_wins", "/ws/mood?interval=2s&interval_ms=150", 2 * time.Second},
		{"both_present_invalid_interval_ms_used", "/ws/mood?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, tc.u, nil)
			if got := h.parseInterval(c); got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

// --- websocket integration tests ---

type wsTestEnvelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func startMoodStream(t *testing.T, moods *mockMoods, query string) (*websocket.Conn, func()) {
	t.Helper()
	return startMoodStreamWithAuth(t, &mockAuth{resolveID: testIdentity}, moods, query)
}

func startMoodStreamWithAuth(t *testing.T, auth *mockAuth, moods *mockMoods, query string) (*websocket.Conn, func()) {
	t.Helper()
	r := newTestRouter(&service.Service{Authorization: auth, MoodLedger: moods})
	srv := httptest.NewServer(r)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws/mood"
	u.RawQuery = query

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), authHeader("tok"))
	if err != nil {
		srv.Close()
		t.Fatalf("dial error: %v", err)
	}
	return conn, func() {
		_ = conn.Close()
		srv.Close()
	}
}

func TestWebSocket_MoodStream_InitialAndPeriodic(t *testing.T) {
	moods := &mockMoods{list: []models.MoodEntry{
		{ID: 1, Username: "alice", Description: "Calm", Date: "2025/03/01", Streak: 1},
		{ID: 2, Username: "alice", Description: "Happy", Date: "2025/03/02", Streak: 2},
	}}
	conn, cleanup := startMoodStream(t, moods, "interval_ms=20")
	defer cleanup()

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env wsTestEnvelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if env.Type != wsTypeMoods || len(env.Data) == 0 {
		t.Fatalf("bad envelope: %+v", env)
	}
	var entries []models.MoodEntry
	if err := json.Unmarshal(env.Data, &entries); err != nil {
		t.Fatalf("unmarshal moods: %v", err)
	}
	if len(entries) != 2 || entries[1].Description != "Happy" || entries[1].Streak != 2 {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	env = wsTestEnvelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read second: %v", err)
	}
	if env.Type != wsTypeMoods {
		t.Fatalf("expected type=moods, got %+v", env)
	}
}

func TestWebSocket_ListError_Closes(t *testing.T) {
	conn, cleanup := startMoodStream(t, &mockMoods{listErr: errors.New("boom")}, "")
	defer cleanup()

	_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var raw json.RawMessage
	err := conn.ReadJSON(&raw)
	if err == nil {
		t.Fatalf("expected read error (closed), got message: %s", string(raw))
	}
	if !websocket.IsCloseError(err, websocket.CloseInternalServerErr) {
		t.Fatalf("expected internal-error close frame, got %v", err)
	}
}

func TestWebSocket_ClosesWhenSessionEnds(t *testing.T) {
	auth := &mockAuth{resolveID: testIdentity, validTokens: map[string]bool{"tok": true}}
	moods := &mockMoods{list: []models.MoodEntry{{ID: 1, Description: "Calm", Date: "2025/03/01", Streak: 1}}}
	conn, cleanup := startMoodStreamWithAuth(t, auth, moods, "interval_ms=20")
	defer cleanup()

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env wsTestEnvelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if env.Type != wsTypeMoods {
		t.Fatalf("bad envelope: %+v", env)
	}

	auth.revoke("tok")

	// Snapshots already in flight may still arrive; the stream must then close.
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i := 0; i < 100; i++ {
		env = wsTestEnvelope{}
		err := conn.ReadJSON(&env)
		if err == nil {
			continue
		}
		if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
			t.Fatalf("expected policy-violation close after logout, got %v", err)
		}
		var ce *websocket.CloseError
		if errors.As(err, &ce) && ce.Text != closeReasonSessionEnded {
			t.Fatalf("unexpected close reason %q", ce.Text)
		}
		return
	}
	t.Fatalf("stream kept sending after the session ended")
}

func TestWebSocket_RequiresSession(t *testing.T) {
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, MoodLedger: &mockMoods{}})
	srv := httptest.NewServer(r)
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws/mood"

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, resp, err := dialer.Dial(u.String(), nil)
	if err == nil {
		_ = conn.Close()
		t.Fatalf("expected handshake to fail without a session")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 response, got %v", resp)
	}
}
