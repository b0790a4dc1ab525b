package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entityauth/entitykit/internal/domain"
)

// serverScript runs on the server side of each accepted connection.
type serverScript func(ctx context.Context, t *testing.T, conn *websocket.Conn)

func newTestServer(t *testing.T, script serverScript) string {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{Subprotocols: []string{Subprotocol}})
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		defer func() { _ = conn.CloseNow() }()

		script(r.Context(), t, conn)
	}))
	t.Cleanup(server.Close)

	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func readEnvelope(ctx context.Context, t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

func writeEnvelope(ctx context.Context, t *testing.T, conn *websocket.Conn, kind string, payload any) {
	t.Helper()

	env, err := newEnvelope(time.Now(), kind, payload)
	require.NoError(t, err)
	data, err := json.Marshal(env)
	require.NoError(t, err)
	require.NoError(t, conn.Write(ctx, websocket.MessageText, data))
}

func receive(t *testing.T, events <-chan domain.RealtimeEvent) domain.RealtimeEvent {
	t.Helper()

	select {
	case event, ok := <-events:
		require.True(t, ok, "events channel closed")
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for realtime event")
		return domain.RealtimeEvent{}
	}
}

func assertClosed(t *testing.T, events <-chan domain.RealtimeEvent) {
	t.Helper()

	select {
	case _, ok := <-events:
		assert.False(t, ok, "expected closed channel")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for events channel to close")
	}
}

func TestNewSourceValidatesURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "http://example.com/ws", "ws://"} {
		_, err := NewSource(Config{URL: raw})
		assert.Error(t, err, raw)
	}

	_, err := NewSource(Config{URL: "wss://rt.example.com/ws"})
	assert.NoError(t, err)
}

func TestSubscribeSendsHelloAndDeliversEvents(t *testing.T) {
	t.Parallel()

	hello := make(chan Envelope, 1)
	url := newTestServer(t, func(ctx context.Context, t *testing.T, conn *websocket.Conn) {
		hello <- readEnvelope(ctx, t, conn)

		members := 3
		writeEnvelope(ctx, t, conn, TypeHelloAck, map[string]string{})
		writeEnvelope(ctx, t, conn, TypeSessionUpdate, SessionUpdatePayload{
			Username:           "grace",
			Organizations:      []OrganizationPayload{{OrgID: "org_1", Name: "Acme", MemberCount: &members}},
			ActiveOrganization: &ActiveOrgPayload{OrgID: "org_1", Description: "Rockets"},
		})
		writeEnvelope(ctx, t, conn, TypeSessionInvalid, map[string]string{})

		_, _, _ = conn.Read(ctx)
	})

	source, err := NewSource(Config{URL: url})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := source.Subscribe(ctx, "u1", "s1")
	require.NoError(t, err)

	env := <-hello
	assert.Equal(t, TypeHello, env.Type)
	assert.Equal(t, ProtocolVersion, env.V)
	_, err = ulid.ParseStrict(env.ID)
	assert.NoError(t, err)
	var payload HelloPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, HelloPayload{UserID: "u1", SessionID: "s1"}, payload)

	update := receive(t, events)
	assert.Equal(t, "grace", update.Username)
	require.Len(t, update.Organizations, 1)
	assert.Equal(t, "Acme", update.Organizations[0].Name)
	require.NotNil(t, update.ActiveOrganization)
	assert.Equal(t, "Rockets", update.ActiveOrganization.Description)
	assert.False(t, update.SessionInvalid)

	invalid := receive(t, events)
	assert.True(t, invalid.SessionInvalid)
}

func TestSubscribeSkipsMalformedEnvelopes(t *testing.T) {
	t.Parallel()

	url := newTestServer(t, func(ctx context.Context, t *testing.T, conn *websocket.Conn) {
		readEnvelope(ctx, t, conn)

		require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`not json`)))
		require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`{"v":9,"type":"session.update","id":"x"}`)))
		require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`{"v":1,"type":"session.update","id":"x","payload":{"organizations":"nope"}}`)))
		writeEnvelope(ctx, t, conn, TypeError, ErrorPayload{Code: "rate_limited", Message: "slow down"})
		writeEnvelope(ctx, t, conn, TypeSessionUpdate, SessionUpdatePayload{Username: "ok"})

		_, _, _ = conn.Read(ctx)
	})

	source, err := NewSource(Config{URL: url})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := source.Subscribe(ctx, "u1", "s1")
	require.NoError(t, err)

	assert.Equal(t, "ok", receive(t, events).Username)
}

func TestSubscriptionClosesWhenServerCloses(t *testing.T) {
	t.Parallel()

	url := newTestServer(t, func(ctx context.Context, t *testing.T, conn *websocket.Conn) {
		readEnvelope(ctx, t, conn)
		_ = conn.Close(websocket.StatusGoingAway, "restart")
	})

	source, err := NewSource(Config{URL: url})
	require.NoError(t, err)

	events, err := source.Subscribe(context.Background(), "u1", "s1")
	require.NoError(t, err)

	assertClosed(t, events)
}

func TestSubscriptionClosesWhenContextIsCanceled(t *testing.T) {
	t.Parallel()

	url := newTestServer(t, func(ctx context.Context, t *testing.T, conn *websocket.Conn) {
		readEnvelope(ctx, t, conn)
		_, _, _ = conn.Read(ctx)
	})

	source, err := NewSource(Config{URL: url})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	events, err := source.Subscribe(ctx, "u1", "s1")
	require.NoError(t, err)

	cancel()
	assertClosed(t, events)
}

func TestSubscribeFailsWhenServerIsDown(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	server.Close()

	source, err := NewSource(Config{URL: url, DialTimeout: time.Second})
	require.NoError(t, err)

	_, err = source.Subscribe(context.Background(), "u1", "s1")
	require.Error(t, err)
	assert.ErrorContains(t, err, "dial realtime")
}

func TestEnvelopeValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		env     Envelope
		wantErr string
	}{
		{name: "valid", env: Envelope{V: 1, Type: TypeSessionUpdate, ID: "id"}},
		{name: "bad version", env: Envelope{V: 2, Type: TypeSessionUpdate, ID: "id"}, wantErr: "invalid protocol version"},
		{name: "missing type", env: Envelope{V: 1, ID: "id"}, wantErr: "missing type"},
		{name: "unknown type", env: Envelope{V: 1, Type: "message.new", ID: "id"}, wantErr: "unsupported type"},
		{name: "missing id", env: Envelope{V: 1, Type: TypeSessionInvalid}, wantErr: "missing id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.env.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
