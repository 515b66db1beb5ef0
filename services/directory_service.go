package services

import (
	"context"

	"github.com/sportlinkhq/sportlink/cache"
	"github.com/sportlinkhq/sportlink/db"
	"github.com/sportlinkhq/sportlink/logger"
	"github.com/sportlinkhq/sportlink/models"
)

// DirectoryService resolves display profiles for conversation enrichment.
// It never fails: an unresolvable user degrades to a fallback profile.
type DirectoryService interface {
	Profile(ctx context.Context, userID string) models.UserProfile
}

type directoryService struct {
	userRepo db.UserRepository
	profiles *cache.ProfileCache
}

// NewDirectoryService instantiates a directoryService
func NewDirectoryService(userRepo db.UserRepository, profiles *cache.ProfileCache) DirectoryService {
	return &directoryService{
		userRepo: userRepo,
		profiles: profiles,
	}
}

func (s *directoryService) Profile(ctx context.Context, userID string) models.UserProfile {
	if cached, ok := s.profiles.Get(ctx, userID); ok {
		return *cached
	}

	user, err := s.userRepo.FindUserByID(userID)
	if err != nil {
		logger.Get().Warn().Err(err).Str("user_id", userID).
			Msg("directory lookup failed, using fallback profile")
		return models.FallbackProfile(userID)
	}

	profile := user.Profile()
	// the directory table is written by another subsystem; guard against a
	// role value outside the closed set leaking into responses
	if _, err := models.ParseRole(string(user.Role)); err != nil {
		logger.Get().Warn().Str("user_id", userID).Str("role", string(user.Role)).
			Msg("unknown role on directory record")
		profile.Role = ""
	}
	s.profiles.Set(ctx, profile)
	return profile
}
