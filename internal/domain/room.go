package domain

import "time"

type Room struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Capacity     int       `json:"capacity"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Users        []string  `json:"users"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HasPassword reports whether joining the room requires a password check.
func (r *Room) HasPassword() bool { return r.PasswordHash != "" }

// HasUser reports whether username is already on the roster.
func (r *Room) HasUser(username string) bool {
	for _, u := range r.Users {
		if u == username {
			return true
		}
	}
	return false
}
