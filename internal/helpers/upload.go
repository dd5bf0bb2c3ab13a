package helpers

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const EventsFolder = "events"

// CloudinaryUploader pushes event cover images to Cloudinary.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld}
}

func (cu *CloudinaryUploader) UploadCover(ctx context.Context, source string) (string, error) {
	uploadResult, err := cu.cld.Upload.Upload(ctx, source, uploader.UploadParams{
		Folder: EventsFolder,
		Tags:   []string{"events-api", "cover"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload cover image: %w", err)
	}
	if uploadResult.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected cover image: %s", uploadResult.Error.Message)
	}
	if uploadResult.SecureURL == "" {
		return "", fmt.Errorf("cloudinary returned no URL for cover image")
	}
	return uploadResult.SecureURL, nil
}
