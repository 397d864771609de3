package api

import (
	"context"
	"net/http"

	"github.com/harshhujare/urban-frontend/domain"
)

// UploadGatewayImpl implements domain.UploadGateway over /upload
type UploadGatewayImpl struct {
	client *Client
}

// NewUploadGateway creates a new upload gateway
func NewUploadGateway(client *Client) domain.UploadGateway {
	return &UploadGatewayImpl{client: client}
}

// PropertyImages implements domain.UploadGateway
func (g *UploadGatewayImpl) PropertyImages(ctx context.Context, files []domain.UploadFile) ([]string, error) {
	var out struct {
		Images []string `json:"images"`
	}
	if err := g.client.doMultipart(ctx, "/upload/property-images", "images", files, &out); err != nil {
		return nil, err
	}
	return out.Images, nil
}

// ProfilePicture implements domain.UploadGateway
func (g *UploadGatewayImpl) ProfilePicture(ctx context.Context, file domain.UploadFile) (string, error) {
	var out struct {
		Image string `json:"image"`
	}
	if err := g.client.doMultipart(ctx, "/upload/profile-picture", "image", []domain.UploadFile{file}, &out); err != nil {
		return "", err
	}
	return out.Image, nil
}

// DeleteImage implements domain.UploadGateway. The backend removes the
// stored image by its storage public id.
func (g *UploadGatewayImpl) DeleteImage(ctx context.Context, publicID string) error {
	body := map[string]string{"publicId": publicID}
	return g.client.do(ctx, http.MethodPost, "/upload/image", body, nil)
}
