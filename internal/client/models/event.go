package models

// AuthEventKind names a session change reported by the auth service.
type AuthEventKind string

const (
	EventInitialSession AuthEventKind = "INITIAL_SESSION"
	EventSignedIn       AuthEventKind = "SIGNED_IN"
	EventSignedOut      AuthEventKind = "SIGNED_OUT"
	EventTokenRefreshed AuthEventKind = "TOKEN_REFRESHED"
	EventUserUpdated    AuthEventKind = "USER_UPDATED"
	EventUserDeleted    AuthEventKind = "USER_DELETED"
)

// AuthEvent pairs an event kind with the session it produced. Session is nil
// when the event carries no session.
type AuthEvent struct {
	Kind    AuthEventKind
	Session *Session
}

// ExplicitSignOut reports whether the event is an unambiguous end of session.
func (e AuthEvent) ExplicitSignOut() bool {
	return e.Kind == EventSignedOut || e.Kind == EventUserDeleted
}
