package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/radieske/chuti-bet/internal/shared/auth"
	"github.com/radieske/chuti-bet/pkg/contracts/events"
)

func newTestHub(t *testing.T) (*Hub, *auth.Tokens, *httptest.Server) {
	t.Helper()
	tokens := auth.NewTokens("test-secret", time.Hour)
	hub := NewHub(tokens, func(*http.Request) bool { return true }, zap.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(srv.Close)
	return hub, tokens, srv
}

func dial(t *testing.T, srv *httptest.Server, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	return websocket.DefaultDialer.Dial(url, nil)
}

func connect(t *testing.T, hub *Hub, tokens *auth.Tokens, srv *httptest.Server, userID int64) *websocket.Conn {
	t.Helper()
	tok, err := tokens.Issue(auth.Identity{UserID: userID})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	conn, _, err := dial(t, srv, tok)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for hub.Connected(userID) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("user %d never registered", userID)
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

func readNotification(t *testing.T, conn *websocket.Conn) events.Notification {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var n events.Notification
	if err := conn.ReadJSON(&n); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return n
}

func TestHandleWSRejectsMissingToken(t *testing.T) {
	_, _, srv := newTestHub(t)

	_, resp, err := dial(t, srv, "")
	if err == nil {
		t.Fatalf("Expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %v", resp)
	}
}

func TestSendReachesOnlyOwner(t *testing.T) {
	hub, tokens, srv := newTestHub(t)
	conn := connect(t, hub, tokens, srv, 7)

	if n := hub.Send(events.Notification{UserID: 8, Type: events.NotifyBetSettled, Payload: json.RawMessage(`{}`)}); n != 0 {
		t.Errorf("Expected no delivery for user 8, got %d", n)
	}
	if n := hub.Send(events.Notification{UserID: 7, Type: events.NotifyBetSettled, Payload: json.RawMessage(`{"betId":1}`)}); n != 1 {
		t.Fatalf("Expected delivery to user 7, got %d", n)
	}

	got := readNotification(t, conn)
	if got.UserID != 7 || got.Type != events.NotifyBetSettled {
		t.Errorf("Unexpected notification %+v", got)
	}
}

func TestDispatchDecodesRedisPayload(t *testing.T) {
	hub, tokens, srv := newTestHub(t)
	conn := connect(t, hub, tokens, srv, 9)

	dispatch(hub, `not json`, zap.NewNop())
	dispatch(hub, `{"userId":9,"type":"voucher_redeemed","payload":{"code":"WELCOME"}}`, zap.NewNop())

	got := readNotification(t, conn)
	if got.Type != events.NotifyVoucherRedeemed {
		t.Errorf("Expected voucher_redeemed, got %s", got.Type)
	}
	if !strings.Contains(string(got.Payload), "WELCOME") {
		t.Errorf("Expected original payload, got %s", got.Payload)
	}
}

func TestPingAndDisconnect(t *testing.T) {
	hub, tokens, srv := newTestHub(t)
	conn := connect(t, hub, tokens, srv, 7)

	if err := conn.WriteJSON(ClientMsg{Type: "ping"}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var pong map[string]string
	if err := conn.ReadJSON(&pong); err != nil {
		t.Fatalf("read pong: %v", err)
	}
	if pong["type"] != "pong" {
		t.Errorf("Expected pong, got %v", pong)
	}

	_ = conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Connected(7) != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("connection not removed after close")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
