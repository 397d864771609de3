package domain

import "time"

// Roles assigned by the backend. The client never decides a role, it only
// renders what /auth/me reports.
const (
	RoleGuest = "guest"
	RoleHost  = "host"
	RoleAdmin = "admin"
)

// User is the authenticated profile as the backend reports it.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Role         string    `json:"role"`
	ProfilePhoto string    `json:"profilePhoto,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SessionState tracks where the session is in its hydration lifecycle.
type SessionState int

const (
	// SessionHydrating is the initial state, before the first resolution.
	SessionHydrating SessionState = iota
	// SessionTrustedCached means the user was loaded from the local cache
	// record and has not yet been confirmed by the backend.
	SessionTrustedCached
	// SessionVerified means the backend confirmed the profile.
	SessionVerified
	// SessionUnauthenticated means there is no user.
	SessionUnauthenticated
)

func (s SessionState) String() string {
	switch s {
	case SessionHydrating:
		return "hydrating"
	case SessionTrustedCached:
		return "trusted_cached"
	case SessionVerified:
		return "verified"
	case SessionUnauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

// Session is a read-only snapshot of the client's authentication state.
type Session struct {
	User  *User
	State SessionState
}

// IsAuthenticated holds exactly when a user is present.
func (s Session) IsAuthenticated() bool { return s.User != nil }

// Loading is true only until the first resolution completes.
func (s Session) Loading() bool { return s.State == SessionHydrating }

// Credential is the tagged union of login channels. Every kind resolves to
// the same post-condition: an authenticated session with a cached profile.
type Credential interface {
	credentialKind() string
}

// PasswordCredential authenticates via email and password.
type PasswordCredential struct {
	Email    string
	Password string
}

// RegisterCredential creates a new account and authenticates it.
type RegisterCredential struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
}

// PhoneCredential completes a phone challenge. Name is only consulted when
// the send-code phase reported an unregistered number.
type PhoneCredential struct {
	Phone string
	Code  string
	Name  string
}

// FederatedCredential carries an identity token issued by a third-party
// provider, exchanged for a session in one round trip.
type FederatedCredential struct {
	Token string
}

func (PasswordCredential) credentialKind() string  { return "password" }
func (RegisterCredential) credentialKind() string  { return "register" }
func (PhoneCredential) credentialKind() string     { return "phone" }
func (FederatedCredential) credentialKind() string { return "federated" }

// PhoneChallenge is the backend's answer to a send-code request.
type PhoneChallenge struct {
	IsNewUser bool  `json:"isNewUser"`
	ExpiresIn int64 `json:"expiresIn"`
}

// ProfileUpdate carries the mutable profile attributes for PUT /auth/me.
// Empty fields are omitted so the backend keeps their current values.
type ProfileUpdate struct {
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
}

// Coordinates is a map pin.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location describes where a property is.
type Location struct {
	City    string `json:"city"`
	Address string `json:"address,omitempty"`
}

// Property is a rental listing.
type Property struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	RentType    string       `json:"rentType"`
	RentAmount  float64      `json:"rentAmount"`
	MaxGuests   int          `json:"maxGuests"`
	Bedrooms    int          `json:"bedrooms,omitempty"`
	Amenities   []string     `json:"amenities,omitempty"`
	Location    Location     `json:"location"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Images      []string     `json:"images,omitempty"`
	OwnerID     string       `json:"ownerId,omitempty"`
	CreatedAt   time.Time    `json:"createdAt,omitempty"`
}

// PropertyDraft is the payload for creating or updating a listing.
type PropertyDraft struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	RentType    string       `json:"rentType"`
	RentAmount  float64      `json:"rentAmount"`
	MaxGuests   int          `json:"maxGuests"`
	Amenities   []string     `json:"amenities"`
	Location    Location     `json:"location"`
	Coordinates *Coordinates `json:"coordinates"`
	Images      []string     `json:"images"`
}

// PropertyFilters is the search state reflected into the page query string
// so searches stay shareable and restorable. The url tags drive
// go-querystring encoding; zero values are omitted entirely.
type PropertyFilters struct {
	Query     string   `url:"q,omitempty"`
	City      string   `url:"city,omitempty"`
	MinPrice  int      `url:"minPrice,omitempty"`
	MaxPrice  int      `url:"maxPrice,omitempty"`
	Bedrooms  int      `url:"bedrooms,omitempty"`
	Guests    int      `url:"guests,omitempty"`
	CheckIn   string   `url:"checkIn,omitempty"`
	CheckOut  string   `url:"checkOut,omitempty"`
	Amenities []string `url:"amenities,omitempty,comma"`
}

// IsZero reports whether no filter is set.
func (f PropertyFilters) IsZero() bool {
	return f.Query == "" && f.City == "" && f.MinPrice == 0 && f.MaxPrice == 0 &&
		f.Bedrooms == 0 && f.Guests == 0 && f.CheckIn == "" && f.CheckOut == "" &&
		len(f.Amenities) == 0
}
