package mocks

import (
	"context"
	"fmt"

	"github.com/harshhujare/urban-frontend/domain"
)

// MockUploadGateway implements domain.UploadGateway interface for testing
type MockUploadGateway struct {
	PropertyImagesFunc func(ctx context.Context, files []domain.UploadFile) ([]string, error)
	ProfilePictureFunc func(ctx context.Context, file domain.UploadFile) (string, error)
	DeleteImageFunc    func(ctx context.Context, publicID string) error

	// PropertyImagesCalls counts upload invocations for re-submit tests.
	PropertyImagesCalls int
}

// NewMockUploadGateway creates a new MockUploadGateway with default behaviors
func NewMockUploadGateway() *MockUploadGateway {
	return &MockUploadGateway{}
}

// PropertyImages uploads listing images
func (m *MockUploadGateway) PropertyImages(ctx context.Context, files []domain.UploadFile) ([]string, error) {
	m.PropertyImagesCalls++
	if m.PropertyImagesFunc != nil {
		return m.PropertyImagesFunc(ctx, files)
	}
	urls := make([]string, len(files))
	for i, f := range files {
		urls[i] = fmt.Sprintf("https://cdn.example.com/%s", f.Name)
	}
	return urls, nil
}

// ProfilePicture uploads an avatar
func (m *MockUploadGateway) ProfilePicture(ctx context.Context, file domain.UploadFile) (string, error) {
	if m.ProfilePictureFunc != nil {
		return m.ProfilePictureFunc(ctx, file)
	}
	return "https://cdn.example.com/" + file.Name, nil
}

// DeleteImage removes a stored image
func (m *MockUploadGateway) DeleteImage(ctx context.Context, publicID string) error {
	if m.DeleteImageFunc != nil {
		return m.DeleteImageFunc(ctx, publicID)
	}
	return nil
}
