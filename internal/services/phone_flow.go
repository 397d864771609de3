package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/harshhujare/urban-frontend/domain"
)

// PhoneFlowStage identifies where the phone challenge is.
type PhoneFlowStage int

const (
	// StageEnteringPhone collects the 10-digit number.
	StageEnteringPhone PhoneFlowStage = iota
	// StageCodeSent collects the 4-digit code (plus a name for new users).
	StageCodeSent
)

const (
	phoneLength = 10
	codeLength  = 4
)

// PhoneFlow drives the two-phase one-time-code login: entering_phone →
// code_sent → (authenticated | back to entering_phone). Phase (a) success
// says nothing about phase (b): the code can be wrong, expired, or resent.
// Terminal success lands in the session service's authenticated state.
type PhoneFlow struct {
	session      domain.SessionService
	clock        domain.Clock
	resendWindow time.Duration

	mu             sync.Mutex
	stage          PhoneFlowStage
	phone          string
	code           string
	name           string
	isNewUser      bool
	errMsg         string
	busy           bool
	resendDeadline time.Time
}

// NewPhoneFlow creates a phone challenge flow bound to the session service.
func NewPhoneFlow(session domain.SessionService, clock domain.Clock, resendWindow time.Duration) *PhoneFlow {
	return &PhoneFlow{
		session:      session,
		clock:        clock,
		resendWindow: resendWindow,
		stage:        StageEnteringPhone,
	}
}

// InputPhone applies keyboard input to the phone field: digits only,
// capped at 10 characters, everything else dropped.
func (f *PhoneFlow) InputPhone(raw string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phone = filterDigits(raw, phoneLength)
}

// InputCode applies keyboard input to the code field: digits only, capped
// at 4 characters.
func (f *PhoneFlow) InputCode(raw string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.code = filterDigits(raw, codeLength)
}

// InputName applies input to the display-name field.
func (f *PhoneFlow) InputName(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.name = name
}

// Stage returns the current stage.
func (f *PhoneFlow) Stage() PhoneFlowStage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stage
}

// Err returns the inline error message, empty when there is none.
func (f *PhoneFlow) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// IsNewUser reports whether the send phase flagged the number as
// unregistered, which makes the name field mandatory.
func (f *PhoneFlow) IsNewUser() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.isNewUser
}

// SendEnabled reports whether the send control is active: exactly 10 digits
// and no request in flight.
func (f *PhoneFlow) SendEnabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stage == StageEnteringPhone && len(f.phone) == phoneLength && !f.busy
}

// VerifyEnabled reports whether the verify control is active: exactly 4
// digits, a name when the number is unregistered, no request in flight.
func (f *PhoneFlow) VerifyEnabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stage != StageCodeSent || f.busy || len(f.code) != codeLength {
		return false
	}
	if f.isNewUser && strings.TrimSpace(f.name) == "" {
		return false
	}
	return true
}

// ResendRemaining returns how long until resend re-enables; zero means the
// resend control is active. The countdown is a local deadline, independent
// of any network state.
func (f *PhoneFlow) ResendRemaining() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	remaining := f.resendDeadline.Sub(f.clock.Now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Send runs phase (a): request a code for the entered number.
func (f *PhoneFlow) Send(ctx context.Context) error {
	f.mu.Lock()
	if f.stage != StageEnteringPhone {
		f.mu.Unlock()
		return domain.ErrWrongStage
	}
	if f.busy {
		f.mu.Unlock()
		return domain.ErrFlowBusy
	}
	if len(f.phone) != phoneLength {
		f.errMsg = domain.ErrPhoneLength.Error()
		f.mu.Unlock()
		return domain.ErrPhoneLength
	}
	f.busy = true
	f.errMsg = ""
	phone := f.phone
	f.mu.Unlock()

	challenge, err := f.session.SendPhoneCode(ctx, phone)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false
	if err != nil {
		f.errMsg = err.Error()
		return err
	}

	f.stage = StageCodeSent
	f.isNewUser = challenge.IsNewUser
	f.code = ""
	f.resendDeadline = f.clock.Now().Add(f.resendWindow)
	return nil
}

// Resend requests a fresh code, clears the entered one, and restarts the
// countdown. Disabled while the countdown is nonzero.
func (f *PhoneFlow) Resend(ctx context.Context) error {
	f.mu.Lock()
	if f.stage != StageCodeSent {
		f.mu.Unlock()
		return domain.ErrWrongStage
	}
	if f.busy {
		f.mu.Unlock()
		return domain.ErrFlowBusy
	}
	if f.resendDeadline.After(f.clock.Now()) {
		f.mu.Unlock()
		return domain.ErrResendThrottled
	}
	f.busy = true
	f.errMsg = ""
	f.code = ""
	phone := f.phone
	f.mu.Unlock()

	challenge, err := f.session.SendPhoneCode(ctx, phone)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false
	if err != nil {
		f.errMsg = err.Error()
		return err
	}

	f.isNewUser = challenge.IsNewUser
	f.resendDeadline = f.clock.Now().Add(f.resendWindow)
	return nil
}

// Verify runs phase (b): submit the code and, for unregistered numbers, the
// display name. Success is terminal for this flow.
func (f *PhoneFlow) Verify(ctx context.Context) (*domain.User, error) {
	f.mu.Lock()
	if f.stage != StageCodeSent {
		f.mu.Unlock()
		return nil, domain.ErrWrongStage
	}
	if f.busy {
		f.mu.Unlock()
		return nil, domain.ErrFlowBusy
	}
	if len(f.code) != codeLength {
		f.errMsg = domain.ErrCodeLength.Error()
		f.mu.Unlock()
		return nil, domain.ErrCodeLength
	}
	if f.isNewUser && strings.TrimSpace(f.name) == "" {
		f.errMsg = domain.ErrNameRequired.Error()
		f.mu.Unlock()
		return nil, domain.ErrNameRequired
	}
	f.busy = true
	f.errMsg = ""
	cred := domain.PhoneCredential{Phone: f.phone, Code: f.code}
	if f.isNewUser {
		cred.Name = f.name
	}
	f.mu.Unlock()

	user, err := f.session.Authenticate(ctx, cred)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false
	if err != nil {
		f.errMsg = err.Error()
		return nil, err
	}
	return user, nil
}

// ChangeNumber returns to the phone stage, clearing code, name, and error.
// The typed number is kept for correction.
func (f *PhoneFlow) ChangeNumber() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stage = StageEnteringPhone
	f.code = ""
	f.name = ""
	f.errMsg = ""
	f.isNewUser = false
	f.resendDeadline = time.Time{}
}

func filterDigits(raw string, max int) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == max {
				break
			}
		}
	}
	return b.String()
}
