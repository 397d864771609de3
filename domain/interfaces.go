package domain

import (
	"context"
	"io"
	"time"
)

// AuthGateway defines the backend authentication surface
type AuthGateway interface {
	Register(ctx context.Context, name, email, password string) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*User, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error)
	SendOTP(ctx context.Context, phone string) (*PhoneChallenge, error)
	VerifyOTP(ctx context.Context, phone, code, name string) (*User, error)
	GoogleLogin(ctx context.Context, credential string) (*User, error)
}

// PropertyGateway defines the backend listing surface
type PropertyGateway interface {
	List(ctx context.Context, filters PropertyFilters) ([]Property, error)
	Get(ctx context.Context, id string) (*Property, error)
	Mine(ctx context.Context) ([]Property, error)
	ByUser(ctx context.Context, userID string) ([]Property, error)
	Create(ctx context.Context, draft PropertyDraft) (*Property, error)
	Update(ctx context.Context, id string, draft PropertyDraft) (*Property, error)
	Delete(ctx context.Context, id string) error
}

// UploadFile is one file to send in a multipart upload.
type UploadFile struct {
	Name   string
	Reader io.Reader
}

// UploadGateway defines the backend image upload surface
type UploadGateway interface {
	PropertyImages(ctx context.Context, files []UploadFile) ([]string, error)
	ProfilePicture(ctx context.Context, file UploadFile) (string, error)
	DeleteImage(ctx context.Context, publicID string) error
}

// ProfileCache is the persistent local copy of the user profile. It is a
// best-effort denormalized record; a miss means "ask the backend".
type ProfileCache interface {
	Read() (*User, error)
	Write(user *User) error
	Clear() error
}

// SessionService owns the client session: it is the single writer of
// session state and the only component that touches the profile cache.
type SessionService interface {
	Hydrate(ctx context.Context) Session
	Revalidated() <-chan struct{}
	Snapshot() Session
	Authenticate(ctx context.Context, cred Credential) (*User, error)
	SendPhoneCode(ctx context.Context, phone string) (*PhoneChallenge, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error)
	Logout(ctx context.Context) error
	AddListener(listener SessionListener)
}

// Clock abstracts time for countdown logic so tests control it.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return ClockFunc(time.Now) }
