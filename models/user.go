package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// FallbackDisplayName replaces a peer's name when the directory lookup
// fails or the profile is missing. A broken profile never breaks a list.
const FallbackDisplayName = "Unknown user"

// User is a row of the user directory, which doubles as the identity
// provider's account table. Profile editing itself is handled elsewhere;
// this core only reads display data and verifies credentials.
type User struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	FullName       string    `json:"full_name" binding:"required,min=2"`
	Email          string    `gorm:"unique;not null" json:"email" binding:"required,email"`
	PhotoURL       string    `json:"photo_url,omitempty"`
	Role           Role      `gorm:"type:varchar(16);not null" json:"role"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// UserProfile is the display projection used to enrich conversations.
type UserProfile struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	PhotoURL string `json:"photo_url,omitempty"`
	Role     Role   `json:"role,omitempty"`
}

// Profile projects the directory row onto its display fields.
func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:       u.ID,
		FullName: u.FullName,
		PhotoURL: u.PhotoURL,
		Role:     u.Role,
	}
}

// FallbackProfile stands in for an unresolvable directory entry.
func FallbackProfile(userID string) UserProfile {
	return UserProfile{
		ID:       userID,
		FullName: FallbackDisplayName,
	}
}

func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.HashedPassword = string(hashed)
	return nil
}

func (u *User) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	User        UserProfile `json:"user"`
}
