package domain

type TokenType string

const (
	TokenTypeAccess  TokenType = "access_token"
	TokenTypeRefresh TokenType = "refresh_token"
	TokenTypeSession TokenType = "session_id"
)

// TokenTypes lists every token type a bundle is made of.
var TokenTypes = []TokenType{TokenTypeAccess, TokenTypeRefresh, TokenTypeSession}

type TokenBundle struct {
	AccessToken  string
	RefreshToken string
	SessionID    string
}

// Snapshot is the current view of the signed-in identity. Values handed out by
// the session store are deep copies and safe to keep.
type Snapshot struct {
	AccessToken        string
	RefreshToken       string
	SessionID          string
	UserID             string
	Username           string
	Email              string
	ImageURL           string
	Organizations      []OrganizationSummary
	ActiveOrganization *ActiveOrganization
}

func (s Snapshot) Clone() Snapshot {
	s.Organizations = CloneOrganizations(s.Organizations)
	s.ActiveOrganization = s.ActiveOrganization.Clone()
	return s
}

func (s Snapshot) SignedIn() bool {
	return s.AccessToken != ""
}

func (s Snapshot) Bundle() TokenBundle {
	return TokenBundle{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		SessionID:    s.SessionID,
	}
}

// ActiveOrganizationID returns the derived active org id or "".
func (s Snapshot) ActiveOrganizationID() string {
	if s.ActiveOrganization == nil {
		return ""
	}

	return s.ActiveOrganization.OrgID
}

// Identity is the current-user record returned by the identity endpoint.
type Identity struct {
	ID       string
	Email    string
	Username string
	ImageURL string
}

// LoginResult is the token material handed back by login, registration, SSO
// exchange and passkey flows.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	SessionID    string
	UserID       string
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type Credentials struct {
	Email    string
	Password string
}

type Registration struct {
	Email    string
	Username string
	Password string
}

// RealtimeEvent is a server push about the current session. Empty Username and
// nil Organizations mean "unchanged".
type RealtimeEvent struct {
	Username           string
	Organizations      []OrganizationSummary
	ActiveOrganization *ActiveOrganization
	SessionInvalid     bool
}
