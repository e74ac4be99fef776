package model

import "time"

// User represents an investor account. Authentication lives outside this service;
// only the identity and admin flag matter here.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}
