package domain

import "time"

// User is the account that owns a bookmark tree.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Sections     []Section `json:"sections"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProfileUpdate carries the optional fields of a profile change. Empty
// strings are left untouched.
type ProfileUpdate struct {
	Username     string
	Email        string
	PasswordHash string
}

// Empty reports whether the update changes nothing.
func (u ProfileUpdate) Empty() bool {
	return u.Username == "" && u.Email == "" && u.PasswordHash == ""
}
