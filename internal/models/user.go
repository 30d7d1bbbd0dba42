package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserPatch carries a partial user update. Empty fields keep the stored
// values.
type UserPatch struct {
	ID    int64
	Name  string
	Email string
}
