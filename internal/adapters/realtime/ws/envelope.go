package ws

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/entityauth/entitykit/internal/domain"
)

const (
	Subprotocol     = "entitykit.realtime.v1"
	ProtocolVersion = 1

	TypeHello          = "hello"
	TypeHelloAck       = "hello.ack"
	TypeSessionUpdate  = "session.update"
	TypeSessionInvalid = "session.invalid"
	TypeError          = "error"
)

var allowedTypes = map[string]struct{}{
	TypeHello:          {},
	TypeHelloAck:       {},
	TypeSessionUpdate:  {},
	TypeSessionInvalid: {},
	TypeError:          {},
}

type Envelope struct {
	V       int             `json:"v"`
	Type    string          `json:"type"`
	ID      string          `json:"id"`
	TS      time.Time       `json:"ts"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (e Envelope) Validate() error {
	if e.V != ProtocolVersion {
		return fmt.Errorf("invalid protocol version: got=%d want=%d", e.V, ProtocolVersion)
	}
	if e.Type == "" {
		return errors.New("missing type")
	}
	if _, ok := allowedTypes[e.Type]; !ok {
		return fmt.Errorf("unsupported type: %s", e.Type)
	}
	if e.ID == "" {
		return errors.New("missing id")
	}

	return nil
}

type HelloPayload struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
}

type SessionUpdatePayload struct {
	Username           string                `json:"username,omitempty"`
	Organizations      []OrganizationPayload `json:"organizations,omitempty"`
	ActiveOrganization *ActiveOrgPayload     `json:"activeOrganization,omitempty"`
}

type OrganizationPayload struct {
	OrgID       string `json:"orgId"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	MemberCount *int   `json:"memberCount,omitempty"`
	Role        string `json:"role,omitempty"`
}

type ActiveOrgPayload struct {
	OrgID       string `json:"orgId"`
	Description string `json:"description,omitempty"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newEnvelope(now time.Time, kind string, payload any) (Envelope, error) {
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return Envelope{}, fmt.Errorf("generate envelope id: %w", err)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", kind, err)
	}

	return Envelope{
		V:       ProtocolVersion,
		Type:    kind,
		ID:      id.String(),
		TS:      now.UTC(),
		Payload: raw,
	}, nil
}

// event converts a server envelope into a RealtimeEvent. ok is false for
// envelopes that carry no session change.
func (e Envelope) event() (domain.RealtimeEvent, bool, error) {
	switch e.Type {
	case TypeSessionInvalid:
		return domain.RealtimeEvent{SessionInvalid: true}, true, nil
	case TypeSessionUpdate:
	default:
		return domain.RealtimeEvent{}, false, nil
	}

	var payload SessionUpdatePayload
	if len(e.Payload) > 0 {
		if err := json.Unmarshal(e.Payload, &payload); err != nil {
			return domain.RealtimeEvent{}, false, &domain.DecodingError{What: "session.update payload", Err: err}
		}
	}

	event := domain.RealtimeEvent{Username: payload.Username}
	if payload.Organizations != nil {
		event.Organizations = make([]domain.OrganizationSummary, 0, len(payload.Organizations))
		for _, org := range payload.Organizations {
			event.Organizations = append(event.Organizations, domain.OrganizationSummary{
				OrgID:       org.OrgID,
				Name:        org.Name,
				Slug:        org.Slug,
				MemberCount: org.MemberCount,
				Role:        org.Role,
			})
		}
	}
	if payload.ActiveOrganization != nil {
		event.ActiveOrganization = &domain.ActiveOrganization{
			OrganizationSummary: domain.OrganizationSummary{OrgID: payload.ActiveOrganization.OrgID},
			Description:         payload.ActiveOrganization.Description,
		}
	}

	return event, true, nil
}
