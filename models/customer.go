package models

import "time"

// User is the public view of an account; the password hash never leaves
// the auth package.
type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"joinDate"`
}

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
