package db

import (
	"github.com/pkg/errors"
	"github.com/sportlinkhq/sportlink/models"
	"gorm.io/gorm"
)

// UserRepository covers the user directory and the identity provider's
// account table (same rows, two concerns).
type UserRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	FindUserByID(id string) (*models.User, error)
	FindUserByEmail(email string) (*models.User, error)
	GetAllUsers() ([]models.User, error)
}

type userRepo struct {
	DB *gorm.DB
}

// NewUserRepo creates a new instance of UserRepository
func NewUserRepo(db *GormDB) UserRepository {
	return &userRepo{db.DB}
}

func (r *userRepo) CreateUser(user *models.User) (*models.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := r.DB.Create(user).Error; err != nil {
		return nil, errors.Wrap(err, "create user")
	}
	return user, nil
}

func (r *userRepo) FindUserByID(id string) (*models.User, error) {
	var user models.User
	if err := r.DB.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.DB.First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetAllUsers() ([]models.User, error) {
	var users []models.User
	if err := r.DB.Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	return users, nil
}
