package services

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/harshhujare/urban-frontend/domain"
)

var validate = validator.New()

// NormalizePhone reduces a phone number to exactly 10 digits with no country
// prefix: separators are stripped, a leading +91 or 0 is dropped. Anything
// else is rejected before a single network call is made.
func NormalizePhone(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	phone := digits.String()
	switch {
	case len(phone) == 12 && strings.HasPrefix(phone, "91"):
		phone = phone[2:]
	case len(phone) == 11 && strings.HasPrefix(phone, "0"):
		phone = phone[1:]
	}

	if len(phone) != 10 {
		return "", domain.ErrPhoneLength
	}
	return phone, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

type registrationForm struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

func validateRegistration(cred domain.RegisterCredential) error {
	form := registrationForm{
		Name:     strings.TrimSpace(cred.Name),
		Email:    strings.TrimSpace(cred.Email),
		Password: cred.Password,
	}
	if err := validate.Struct(form); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			switch fieldErr.Field() {
			case "Name":
				return domain.ErrNameRequired
			case "Email":
				return domain.ErrEmailRequired
			case "Password":
				return domain.ErrPasswordTooShort
			}
		}
		return err
	}
	if cred.Password != cred.PasswordConfirm {
		return domain.ErrPasswordMismatch
	}
	return nil
}

func validatePassword(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return domain.ErrEmailRequired
	}
	if password == "" {
		return domain.ErrPasswordTooShort
	}
	return nil
}

type profileForm struct {
	Email string `validate:"omitempty,email"`
	Phone string `validate:"omitempty,len=10,numeric"`
}

func validateProfileUpdate(update domain.ProfileUpdate) error {
	form := profileForm{Email: strings.TrimSpace(update.Email), Phone: update.Phone}
	if err := validate.Struct(form); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			switch fieldErr.Field() {
			case "Email":
				return domain.ErrEmailRequired
			case "Phone":
				return domain.ErrPhoneLength
			}
		}
		return err
	}
	return nil
}
