// Package ws is a RealtimeSource over a WebSocket connection.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/entityauth/entitykit/internal/domain"
	"github.com/entityauth/entitykit/internal/ports"
)

const (
	maxReadBytes       = 1 << 20
	defaultDialTimeout = 10 * time.Second
)

type Config struct {
	URL         string
	Origin      string
	TenantID    string
	DialTimeout time.Duration
	HTTPClient  *http.Client
	Clock       ports.Clock
	Logger      *zap.Logger
}

type Source struct {
	url         string
	origin      string
	tenantID    string
	dialTimeout time.Duration
	httpClient  *http.Client
	clock       ports.Clock
	logger      *zap.Logger
}

var _ ports.RealtimeSource = (*Source)(nil)

func NewSource(cfg Config) (*Source, error) {
	if err := validateURL(cfg.URL); err != nil {
		return nil, fmt.Errorf("realtime url: %w", err)
	}

	source := &Source{
		url:         cfg.URL,
		origin:      strings.TrimSpace(cfg.Origin),
		tenantID:    strings.TrimSpace(cfg.TenantID),
		dialTimeout: cfg.DialTimeout,
		httpClient:  cfg.HTTPClient,
		clock:       cfg.Clock,
		logger:      cfg.Logger,
	}
	if source.dialTimeout <= 0 {
		source.dialTimeout = defaultDialTimeout
	}
	if source.clock == nil {
		source.clock = ports.SystemClock{}
	}
	if source.logger == nil {
		source.logger = zap.NewNop()
	}

	return source, nil
}

// Subscribe dials the server and sends a hello for the session. The returned
// channel is closed when ctx is done or the connection fails.
func (s *Source) Subscribe(ctx context.Context, userID string, sessionID string) (<-chan domain.RealtimeEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conn, err := s.dial(ctx)
	if err != nil {
		return nil, err
	}

	hello, err := newEnvelope(s.clock.Now(), TypeHello, HelloPayload{UserID: userID, SessionID: sessionID})
	if err != nil {
		_ = conn.Close(websocket.StatusInternalError, "hello")
		return nil, err
	}
	if err := s.write(ctx, conn, hello); err != nil {
		_ = conn.Close(websocket.StatusInternalError, "hello")
		return nil, fmt.Errorf("send hello: %w", err)
	}

	events := make(chan domain.RealtimeEvent)
	go s.readLoop(ctx, conn, events)

	return events, nil
}

func (s *Source) dial(ctx context.Context) (*websocket.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, s.dialTimeout)
	defer cancel()

	header := http.Header{}
	if s.origin != "" {
		header.Set("Origin", s.origin)
	}
	if s.tenantID != "" {
		header.Set("X-Tenant-ID", s.tenantID)
	}

	conn, resp, err := websocket.Dial(dialCtx, s.url, &websocket.DialOptions{
		Subprotocols: []string{Subprotocol},
		HTTPHeader:   header,
		HTTPClient:   s.httpClient,
	})
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial realtime: %w", err)
	}

	if got := conn.Subprotocol(); got != "" && got != Subprotocol {
		_ = conn.Close(websocket.StatusProtocolError, "unsupported subprotocol")
		return nil, fmt.Errorf("dial realtime: subprotocol mismatch: got=%q want=%q", got, Subprotocol)
	}

	conn.SetReadLimit(maxReadBytes)
	return conn, nil
}

func (s *Source) write(ctx context.Context, conn *websocket.Conn, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode %s envelope: %w", env.Type, err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, s.dialTimeout)
	defer cancel()

	return conn.Write(writeCtx, websocket.MessageText, data)
}

func (s *Source) readLoop(ctx context.Context, conn *websocket.Conn, events chan<- domain.RealtimeEvent) {
	defer close(events)
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "") }()

	for {
		mt, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() == nil && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				s.logger.Warn("realtime read failed", zap.Error(err))
			}
			return
		}
		if mt != websocket.MessageText && mt != websocket.MessageBinary {
			continue
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			s.logger.Warn("realtime envelope dropped", zap.Error(err))
			continue
		}
		if err := env.Validate(); err != nil {
			s.logger.Warn("realtime envelope dropped", zap.String("type", env.Type), zap.Error(err))
			continue
		}
		if env.Type == TypeError {
			s.logger.Warn("realtime server error", zap.ByteString("payload", env.Payload))
			continue
		}

		event, ok, err := env.event()
		if err != nil {
			s.logger.Warn("realtime envelope dropped", zap.String("type", env.Type), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}

		select {
		case events <- event:
		case <-ctx.Done():
			return
		}
	}
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("unsupported scheme: %q", u.Scheme)
	}
	if strings.TrimSpace(u.Host) == "" {
		return errors.New("missing host")
	}

	return nil
}
