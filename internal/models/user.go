package models

import "time"

// User owns a set of habits. Usernames are unique.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
