package services

import (
	appConfig "github.com/threadline/threadline-api/config"
)

// PreviewService resolves stored design preview keys into time-limited URLs
type PreviewService interface {
	// GalleryURLs maps each preview key to a presigned URL. Best effort: a
	// key that fails to sign is skipped so an order read never fails because
	// of its gallery.
	GalleryURLs(keys []string) []string
}

// S3PreviewService implements PreviewService on top of the S3 presigner
type S3PreviewService struct {
	s3Service S3Interface
}

var previewServiceInstance PreviewService

// InitPreviewService initializes the preview service with the S3 backend
func InitPreviewService(s3Service S3Interface) PreviewService {
	previewServiceInstance = &S3PreviewService{
		s3Service: s3Service,
	}
	return previewServiceInstance
}

// GetPreviewService returns the initialized preview service instance, or nil
// when previews are not configured
func GetPreviewService() PreviewService {
	return previewServiceInstance
}

// SetPreviewService sets the preview service instance (primarily for testing)
func SetPreviewService(service PreviewService) {
	previewServiceInstance = service
}

// GalleryURLs resolves each preview key to a presigned URL
func (s *S3PreviewService) GalleryURLs(keys []string) []string {
	urls := make([]string, 0, len(keys))
	for _, key := range keys {
		if key == "" {
			continue
		}
		url, err := s.s3Service.GetPresignedURL(key)
		if err != nil {
			appConfig.GetLogger().Warnf("Failed to presign preview key %s: %v", key, err)
			continue
		}
		urls = append(urls, url)
	}
	return urls
}
