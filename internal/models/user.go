package models

import (
	"time"
)

type User struct {
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type UserList struct {
	Usernames []string `json:"usernames"`
	Total     int      `json:"total"`
}
