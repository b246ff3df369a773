package domain

// AuthEventType tags an auth-state change notification.
type AuthEventType string

const (
	EventSignedIn    AuthEventType = "SIGNED_IN"
	EventSignedOut   AuthEventType = "SIGNED_OUT"
	EventUserUpdated AuthEventType = "USER_UPDATED"
)

// AuthEvent is delivered by the identity backend whenever the session changes.
// Session is nil for SIGNED_OUT.
type AuthEvent struct {
	Type    AuthEventType `json:"event"`
	Session *AuthSession  `json:"session,omitempty"`
}

// UserID returns the identity id carried by the event, if any.
func (e AuthEvent) UserID() string {
	if e.Session == nil {
		return ""
	}
	return e.Session.User.ID
}
