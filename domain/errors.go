package domain

import "errors"

// Session errors
var (
	ErrCacheMiss        = errors.New("no cached profile")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSessionExpired   = errors.New("session has expired")
)

// Client-side validation errors, reported before any network call
var (
	ErrPhoneLength      = errors.New("phone number must be exactly 10 digits")
	ErrCodeLength       = errors.New("verification code must be exactly 4 digits")
	ErrNameRequired     = errors.New("name is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrTokenEmpty       = errors.New("identity token is empty")
)

// Phone challenge flow errors
var (
	ErrResendThrottled = errors.New("please wait before requesting a new code")
	ErrFlowBusy        = errors.New("another request is already in flight")
	ErrWrongStage      = errors.New("operation not valid in current stage")
)

// Listing wizard gate errors
var (
	ErrTitleTooShort       = errors.New("property title must be at least 10 characters")
	ErrDescriptionTooShort = errors.New("property description must be at least 50 characters")
	ErrRentTooLow          = errors.New("rent amount must be at least 500")
	ErrCityRequired        = errors.New("city is required")
	ErrCoordinatesRequired = errors.New("pick a location on the map")
	ErrNoImages            = errors.New("upload at least one image")
	ErrWizardIncomplete    = errors.New("wizard has remaining stages")
)
