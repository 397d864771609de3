package domain

import "time"

// SessionEventType defines the type of session lifecycle event
type SessionEventType string

const (
	// Hydration events
	SessionHydratedEvent SessionEventType = "SESSION_HYDRATED"
	SessionExpiredEvent  SessionEventType = "SESSION_EXPIRED"
	SessionVerifiedEvent SessionEventType = "SESSION_VERIFIED"

	// Authentication events
	UserLoginEvent        SessionEventType = "USER_LOGIN"
	UserRegistrationEvent SessionEventType = "USER_REGISTERED"
	UserLogoutEvent       SessionEventType = "USER_LOGOUT"
	ProfileUpdatedEvent   SessionEventType = "PROFILE_UPDATED"
)

// SessionEvent describes a transition of the client session. Consumers
// (screens, logs) observe transitions through these instead of polling.
type SessionEvent struct {
	EventType SessionEventType `json:"event_type"`
	UserID    string           `json:"user_id,omitempty"`
	Email     string           `json:"email,omitempty"`
	Channel   string           `json:"channel,omitempty"`
	State     SessionState     `json:"state"`
	Timestamp time.Time        `json:"timestamp"`
	ErrorMsg  string           `json:"error_msg,omitempty"`
	Success   bool             `json:"success"`
}

// SessionListener observes session transitions. Implementations must not
// block; they run on the transition path.
type SessionListener interface {
	OnSessionEvent(event SessionEvent)
}

// SessionListenerFunc adapts a function to the SessionListener interface.
type SessionListenerFunc func(event SessionEvent)

func (f SessionListenerFunc) OnSessionEvent(event SessionEvent) { f(event) }

// NewSessionEvent creates a session event with common fields populated
func NewSessionEvent(eventType SessionEventType, state SessionState) SessionEvent {
	return SessionEvent{
		EventType: eventType,
		State:     state,
		Timestamp: time.Now().UTC(),
		Success:   true,
	}
}

// WithUser sets the user identity fields
func (e SessionEvent) WithUser(user *User) SessionEvent {
	if user != nil {
		e.UserID = user.ID
		e.Email = user.Email
	}
	return e
}

// WithChannel records which login channel produced the event
func (e SessionEvent) WithChannel(channel string) SessionEvent {
	e.Channel = channel
	return e
}

// WithError marks the event failed and records the message
func (e SessionEvent) WithError(err error) SessionEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}
