package services

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/harshhujare/urban-frontend/domain"
)

// Wizard stages, in order. Validation gates are forward-only: a stage must
// pass its predicate before the next one opens.
const (
	WizardBasicInfo = 1
	WizardLocation  = 2
	WizardImages    = 3
)

const (
	minTitleLen       = 10
	minDescriptionLen = 50
	minRentAmount     = 500
)

// ListingWizard is the three-stage listing creation form: basic info →
// location → images. Submit uploads images and then creates the listing as
// two sequential calls. When the create fails after a successful upload the
// returned image URLs stay on the draft, so a re-submit reuses them instead
// of uploading again (no compensating delete).
type ListingWizard struct {
	properties domain.PropertyGateway
	uploads    domain.UploadGateway
	log        *logrus.Logger

	mu       sync.Mutex
	stage    int
	draft    domain.PropertyDraft
	files    []domain.UploadFile
	uploaded []string
	busy     bool
}

// NewListingWizard creates a wizard with the form's defaults.
func NewListingWizard(properties domain.PropertyGateway, uploads domain.UploadGateway, log *logrus.Logger) *ListingWizard {
	return &ListingWizard{
		properties: properties,
		uploads:    uploads,
		log:        log,
		stage:      WizardBasicInfo,
		draft: domain.PropertyDraft{
			RentType:  "entire_property",
			MaxGuests: 2,
		},
	}
}

// Stage returns the current stage (1-based).
func (w *ListingWizard) Stage() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

// Draft returns a copy of the accumulated form state.
func (w *ListingWizard) Draft() domain.PropertyDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// SetBasicInfo fills the stage-1 fields.
func (w *ListingWizard) SetBasicInfo(title, description, rentType string, rentAmount float64, maxGuests int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Title = title
	w.draft.Description = description
	if rentType != "" {
		w.draft.RentType = rentType
	}
	w.draft.RentAmount = rentAmount
	if maxGuests > 0 {
		w.draft.MaxGuests = maxGuests
	}
}

// ToggleAmenity adds the amenity if absent and removes it if present.
func (w *ListingWizard) ToggleAmenity(amenity string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, a := range w.draft.Amenities {
		if a == amenity {
			w.draft.Amenities = append(w.draft.Amenities[:i], w.draft.Amenities[i+1:]...)
			return
		}
	}
	w.draft.Amenities = append(w.draft.Amenities, amenity)
}

// SetLocation fills the stage-2 fields.
func (w *ListingWizard) SetLocation(city, address string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Location = domain.Location{City: city, Address: address}
}

// SetCoordinates pins the map location.
func (w *ListingWizard) SetCoordinates(lat, lng float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Coordinates = &domain.Coordinates{Latitude: lat, Longitude: lng}
}

// AddImage queues an image for upload on submit.
func (w *ListingWizard) AddImage(file domain.UploadFile) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files = append(w.files, file)
}

// Next advances to the following stage if the current gate passes.
func (w *ListingWizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var err error
	switch w.stage {
	case WizardBasicInfo:
		err = validateBasicInfo(w.draft)
	case WizardLocation:
		err = validateLocation(w.draft)
	case WizardImages:
		return domain.ErrWrongStage
	}
	if err != nil {
		return err
	}
	w.stage++
	return nil
}

// Back returns to the previous stage. No gate applies going backwards.
func (w *ListingWizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stage > WizardBasicInfo {
		w.stage--
	}
}

// Submit uploads the queued images and creates the listing. It can only run
// from the final stage with every gate satisfied.
func (w *ListingWizard) Submit(ctx context.Context) (*domain.Property, error) {
	w.mu.Lock()
	if w.stage != WizardImages {
		w.mu.Unlock()
		return nil, domain.ErrWizardIncomplete
	}
	if w.busy {
		w.mu.Unlock()
		return nil, domain.ErrFlowBusy
	}
	if err := validateBasicInfo(w.draft); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	if err := validateLocation(w.draft); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	if len(w.files) == 0 && len(w.uploaded) == 0 {
		w.mu.Unlock()
		return nil, domain.ErrNoImages
	}
	w.busy = true
	files := w.files
	uploaded := w.uploaded
	draft := w.draft
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.busy = false
		w.mu.Unlock()
	}()

	// A previous submit may have uploaded already; reuse those URLs.
	if len(uploaded) == 0 {
		urls, err := w.uploads.PropertyImages(ctx, files)
		if err != nil {
			return nil, err
		}
		uploaded = urls
		w.mu.Lock()
		w.uploaded = urls
		w.files = nil
		w.mu.Unlock()
	}

	draft.Images = uploaded
	property, err := w.properties.Create(ctx, draft)
	if err != nil {
		w.log.WithError(err).WithField("images", len(uploaded)).
			Warn("listing creation failed after upload, keeping uploaded images for re-submit")
		return nil, err
	}
	return property, nil
}

// validateBasicInfo is the stage-1 gate.
func validateBasicInfo(draft domain.PropertyDraft) error {
	if len(draft.Title) < minTitleLen {
		return domain.ErrTitleTooShort
	}
	if len(draft.Description) < minDescriptionLen {
		return domain.ErrDescriptionTooShort
	}
	if draft.RentAmount < minRentAmount {
		return domain.ErrRentTooLow
	}
	return nil
}

// validateLocation is the stage-2 gate.
func validateLocation(draft domain.PropertyDraft) error {
	if draft.Location.City == "" {
		return domain.ErrCityRequired
	}
	if draft.Coordinates == nil {
		return domain.ErrCoordinatesRequired
	}
	return nil
}
