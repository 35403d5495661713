package models

import "time"

// User is a stored credential record. Password holds the bcrypt hash and
// never leaves the server.
type User struct {
	ID        int64
	UserName  string
	Email     string
	Password  string
	CreatedAt time.Time
}

// Public returns the view of u that is safe to send to clients.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		UserName:  u.UserName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// PublicUser is a user without the password hash.
type PublicUser struct {
	ID        int64     `json:"id"`
	UserName  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
