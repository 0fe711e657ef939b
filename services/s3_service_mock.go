package services

import "fmt"

// MockS3Service is a mock implementation of S3Interface for testing
type MockS3Service struct {
	// PresignError, when set, is returned by every GetPresignedURL call
	PresignError error
	// PresignedKeys records every key that was requested
	PresignedKeys []string
}

// NewMockS3Service creates a new mock S3 service
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{}
}

// GetPresignedURL returns a deterministic fake URL for the key
func (m *MockS3Service) GetPresignedURL(s3Key string) (string, error) {
	if m.PresignError != nil {
		return "", m.PresignError
	}
	m.PresignedKeys = append(m.PresignedKeys, s3Key)
	if s3Key == "" {
		return "", nil
	}
	return fmt.Sprintf("https://mock-bucket.s3.amazonaws.com/%s?signature=mock", s3Key), nil
}
