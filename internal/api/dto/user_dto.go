package dto

import (
	"time"

	"github.com/skillmatch/skillmatch/internal/domain"
)

// UpdateProfileRequest payload.
type UpdateProfileRequest struct {
	Name     string   `json:"name"`
	Bio      string   `json:"bio"`
	Location string   `json:"location"`
	Skills   []string `json:"skills"`
}

// UserProfile is the public view of a member.
type UserProfile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio"`
	Location  string    `json:"location"`
	Skills    []string  `json:"skills"`
	CreatedAt time.Time `json:"created_at"`
}

// UserAccount extends the profile with private fields for the owner.
type UserAccount struct {
	UserProfile
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

// NewUserProfile maps a domain user to its public view.
func NewUserProfile(user *domain.User) UserProfile {
	skills := user.Skills
	if skills == nil {
		skills = []string{}
	}
	return UserProfile{
		ID:        user.ID,
		Name:      user.Name,
		Bio:       user.Bio,
		Location:  user.Location,
		Skills:    skills,
		CreatedAt: user.CreatedAt,
	}
}

// NewUserAccount maps a domain user to the owner's view.
func NewUserAccount(user *domain.User) UserAccount {
	return UserAccount{
		UserProfile: NewUserProfile(user),
		Email:       user.Email,
		Verified:    user.Verified,
	}
}
