package api_key

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/strategyloom/strategy-services-backend/internal/database/repository"
	"github.com/strategyloom/strategy-services-backend/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service handles API keys for remediation and automation tooling that needs
// programmatic access to the status and fix endpoints.
type Service struct {
	apiKeyRepo *repository.APIKeyRepository
	userRepo   *repository.UserRepository
}

// NewService creates a new API key service
func NewService(db *gorm.DB) *Service {
	return &Service{
		apiKeyRepo: repository.NewAPIKeyRepository(db),
		userRepo:   repository.NewUserRepository(db),
	}
}

// GenerateAPIKey generates a new API key for a user, replacing any existing one
func (s *Service) GenerateAPIKey(userID string) (*models.APIKey, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("user is not active")
	}

	existing, err := s.apiKeyRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing API key: %w", err)
	}
	if existing != nil {
		if _, err := s.apiKeyRepo.Delete(existing.ID); err != nil {
			return nil, fmt.Errorf("failed to delete existing API key: %w", err)
		}
	}

	key, err := generateRandomKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate API key: %w", err)
	}

	apiKey := &models.APIKey{
		Key:      key,
		UserID:   userID,
		IsActive: true,
	}
	return s.apiKeyRepo.Create(apiKey)
}

// ValidateAPIKey validates an API key and returns the associated user
func (s *Service) ValidateAPIKey(key string) (*models.User, error) {
	apiKey, err := s.apiKeyRepo.GetByKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to get API key: %w", err)
	}
	if apiKey == nil {
		return nil, fmt.Errorf("invalid API key")
	}
	if !apiKey.IsActive {
		return nil, fmt.Errorf("API key is disabled")
	}

	user, err := s.userRepo.GetByID(apiKey.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("user is not active")
	}

	if err := s.apiKeyRepo.UpdateLastUsed(apiKey.ID); err != nil {
		logrus.Warnf("Failed to update API key last used timestamp: %v", err)
	}

	return user, nil
}

// GetAPIKeyByUserID gets the API key for a user
func (s *Service) GetAPIKeyByUserID(userID string) (*models.APIKey, error) {
	return s.apiKeyRepo.GetByUserID(userID)
}

func generateRandomKey() (string, error) {
	keyBytes := make([]byte, 32)
	if _, err := rand.Read(keyBytes); err != nil {
		return "", err
	}
	return "sk_" + hex.EncodeToString(keyBytes), nil
}
