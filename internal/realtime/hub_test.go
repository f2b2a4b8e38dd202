package realtime

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
)

func newTestHub(resolve SessionResolver) (*Hub, *httptest.Server) {
	hub := NewHub(logger.NewNop(), resolve)
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	return hub, server
}

func wsURL(server *httptest.Server, query string) string {
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	if query != "" {
		url += "?" + query
	}
	return url
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	return ws
}

func readMessage(t *testing.T, ws *websocket.Conn) Message {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := ws.ReadJSON(&msg); err != nil {
		t.Fatalf("read message: %v", err)
	}
	return msg
}

func expectPolicyViolation(t *testing.T, ws *websocket.Conn) {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := ws.ReadMessage()
	var closeErr *websocket.CloseError
	if !errors.As(err, &closeErr) {
		t.Fatalf("expected close error, got %v", err)
	}
	if closeErr.Code != websocket.ClosePolicyViolation {
		t.Fatalf("expected close code %d, got %d", websocket.ClosePolicyViolation, closeErr.Code)
	}
}

func TestHandshakeWithoutIdentificationIsRejected(t *testing.T) {
	hub, server := newTestHub(nil)
	defer server.Close()

	ws := dial(t, wsURL(server, ""))
	defer ws.Close()
	expectPolicyViolation(t, ws)

	if count := hub.ConnectionCount(uuid.New()); count != 0 {
		t.Fatalf("rejected handshake must not register, got %d", count)
	}
}

func TestHandshakeWithForeignSessionIsRejected(t *testing.T) {
	owner := uuid.New()
	sessionID := uuid.New()
	resolve := func(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
		if id == sessionID {
			return owner, nil
		}
		return uuid.Nil, nil
	}
	_, server := newTestHub(resolve)
	defer server.Close()

	impostor := uuid.New()
	ws := dial(t, wsURL(server, "userId="+impostor.String()+"&sessionId="+sessionID.String()))
	defer ws.Close()
	expectPolicyViolation(t, ws)
}

func TestConnectReceivesWelcomeAndPushes(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.New()
	resolve := func(context.Context, uuid.UUID) (uuid.UUID, error) {
		return userID, nil
	}
	hub, server := newTestHub(resolve)
	defer server.Close()

	ws := dial(t, wsURL(server, "userId="+userID.String()+"&sessionId="+sessionID.String()))
	defer ws.Close()

	welcome := readMessage(t, ws)
	if welcome.Type != EventNotification {
		t.Fatalf("expected welcome notification, got %s", welcome.Type)
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.ConnectionCount(userID) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("connection never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.SendToUser(userID, Message{Type: EventAIUpdate, Payload: map[string]any{"itemId": "abc"}})
	pushed := readMessage(t, ws)
	if pushed.Type != EventAIUpdate {
		t.Fatalf("expected aiUpdate, got %s", pushed.Type)
	}
}

func TestSendToUserWithoutSocketsIsQuiet(t *testing.T) {
	hub := NewHub(logger.NewNop(), nil)
	// Must not panic or block.
	hub.SendToUser(uuid.New(), Message{Type: EventNotification, Payload: "offline"})
}

func TestCloseRemovesOnlyThatSession(t *testing.T) {
	userID := uuid.New()
	resolve := func(context.Context, uuid.UUID) (uuid.UUID, error) {
		return userID, nil
	}
	hub, server := newTestHub(resolve)
	defer server.Close()

	first := dial(t, wsURL(server, "userId="+userID.String()+"&sessionId="+uuid.NewString()))
	defer first.Close()
	second := dial(t, wsURL(server, "userId="+userID.String()+"&sessionId="+uuid.NewString()))

	readMessage(t, first)
	readMessage(t, second)

	deadline := time.Now().Add(2 * time.Second)
	for hub.ConnectionCount(userID) != 2 {
		if time.Now().After(deadline) {
			t.Fatalf("expected 2 connections, got %d", hub.ConnectionCount(userID))
		}
		time.Sleep(10 * time.Millisecond)
	}

	second.Close()
	deadline = time.Now().Add(2 * time.Second)
	for hub.ConnectionCount(userID) != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("expected 1 connection after close, got %d", hub.ConnectionCount(userID))
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestMalformedInboundMessageKeepsConnectionOpen(t *testing.T) {
	userID := uuid.New()
	resolve := func(context.Context, uuid.UUID) (uuid.UUID, error) {
		return userID, nil
	}
	hub, server := newTestHub(resolve)
	defer server.Close()

	ws := dial(t, wsURL(server, "userId="+userID.String()+"&sessionId="+uuid.NewString()))
	defer ws.Close()
	readMessage(t, ws)

	if err := ws.WriteMessage(websocket.TextMessage, []byte("not json at all")); err != nil {
		t.Fatalf("write malformed: %v", err)
	}

	// The hub must still deliver after the bad inbound frame.
	time.Sleep(50 * time.Millisecond)
	hub.SendToUser(userID, Message{Type: EventItemUpdate, Payload: "still alive"})
	pushed := readMessage(t, ws)
	if pushed.Type != EventItemUpdate {
		t.Fatalf("expected itemUpdate after malformed inbound, got %s", pushed.Type)
	}
}
