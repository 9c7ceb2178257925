package models

import "time"

// User is the profile of a signed-in identity.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Age        *int      `json:"age,omitempty"`
	Profession string    `json:"profession,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
