package domain

import "time"

// User is the domain model for registered members.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Verified     bool
	Skills       []string
	Bio          string
	Location     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Notifiable reports whether the user is a valid fan-out recipient.
func (u *User) Notifiable() bool {
	return u.Verified && u.Email != ""
}
