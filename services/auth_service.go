package services

import (
	"net/http"

	"github.com/sportlinkhq/sportlink/config"
	"github.com/sportlinkhq/sportlink/db"
	apiError "github.com/sportlinkhq/sportlink/errors"
	"github.com/sportlinkhq/sportlink/logger"
	"github.com/sportlinkhq/sportlink/models"
	"github.com/sportlinkhq/sportlink/services/jwt"
)

// AuthService interface
type AuthService interface {
	LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
}

// authService struct
type authService struct {
	Config   *config.Config
	userRepo db.UserRepository
}

// NewAuthService instantiate an authService
func NewAuthService(userRepo db.UserRepository, conf *config.Config) AuthService {
	return &authService{
		Config:   conf,
		userRepo: userRepo,
	}
}

func (s *authService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	user, err := s.userRepo.FindUserByEmail(loginRequest.Email)
	if err != nil {
		logger.Get().Info().Str("email", loginRequest.Email).Msg("login attempt for unknown email")
		return nil, apiError.New("invalid email or password", http.StatusUnauthorized)
	}

	if err := user.VerifyPassword(loginRequest.Password); err != nil {
		return nil, apiError.New("invalid email or password", http.StatusUnauthorized)
	}

	token, err := jwt.GenerateToken(user.ID, s.Config.JWTSecret)
	if err != nil {
		logger.Get().Error().Err(err).Msg("failed to sign access token")
		return nil, apiError.ErrInternalServerError
	}

	return &models.LoginResponse{
		AccessToken: token,
		User:        user.Profile(),
	}, nil
}
