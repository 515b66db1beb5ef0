package services

import (
	"github.com/sportlinkhq/sportlink/db"
	"github.com/sportlinkhq/sportlink/logger"
	"github.com/sportlinkhq/sportlink/models"
)

// AccessService decides which identities may be *suggested* as new chat
// contacts. It is consulted at discovery time only: an existing conversation
// stays visible to both sides forever, even if the booking behind it is
// later cancelled.
type AccessService interface {
	CanSuggest(viewer, target *models.User) (bool, error)
	Suggestions(viewerID string) ([]models.UserProfile, error)
}

type accessService struct {
	userRepo    db.UserRepository
	bookingRepo db.BookingRepository
}

// NewAccessService instantiates an accessService
func NewAccessService(userRepo db.UserRepository, bookingRepo db.BookingRepository) AccessService {
	return &accessService{
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
	}
}

// CanSuggest applies the eligibility table keyed by (viewer role, target
// role). The booking's service type must equal the provider's actual role:
// an academy booking never unlocks a clinic contact sharing the same id.
func (s *accessService) CanSuggest(viewer, target *models.User) (bool, error) {
	if viewer.ID == target.ID {
		return false, nil
	}

	// agents are a blanket support role, eligible in both directions
	if viewer.Role == models.RoleAgent || target.Role == models.RoleAgent {
		return true, nil
	}

	switch {
	case viewer.Role.IsCustomer() && target.Role.IsProvider():
		return s.bookingRepo.Exists(viewer.ID, target.ID, target.Role)
	case viewer.Role.IsProvider() && target.Role.IsCustomer():
		return s.bookingRepo.Exists(target.ID, viewer.ID, viewer.Role)
	}
	return false, nil
}

// Suggestions filters the directory down to identities the viewer is
// eligible to contact. Best effort: a failed check skips the candidate.
func (s *accessService) Suggestions(viewerID string) ([]models.UserProfile, error) {
	viewer, err := s.userRepo.FindUserByID(viewerID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.userRepo.GetAllUsers()
	if err != nil {
		logger.Get().Warn().Err(err).Str("user_id", viewerID).
			Msg("directory scan unavailable, returning empty suggestions")
		return []models.UserProfile{}, nil
	}

	suggestions := make([]models.UserProfile, 0, len(candidates))
	for i := range candidates {
		target := &candidates[i]
		eligible, err := s.CanSuggest(viewer, target)
		if err != nil {
			logger.Get().Warn().Err(err).Str("target_id", target.ID).Msg("eligibility check failed, skipping candidate")
			continue
		}
		if eligible {
			suggestions = append(suggestions, target.Profile())
		}
	}
	return suggestions, nil
}
