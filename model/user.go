package model

import "time"

type User struct {
	ID           string    `json:"id"`
	Account      string    `json:"account"`
	Name         string    `json:"name"`
	Avatar       string    `json:"avatar,omitempty"`
	Profile      string    `json:"profile,omitempty"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginUser is the caller resolved for the current request.
type LoginUser struct {
	ID      string `json:"id"`
	Account string `json:"account"`
	Name    string `json:"name"`
	Role    string `json:"role"`
}

// ToLoginUser strips a user down to what request handling needs.
func (u *User) ToLoginUser() *LoginUser {
	return &LoginUser{ID: u.ID, Account: u.Account, Name: u.Name, Role: u.Role}
}

// Session is the server-side half of a login, stored in the shared cache.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type RegisterRequest struct {
	Account       string `json:"account" binding:"required"`
	Password      string `json:"password" binding:"required"`
	CheckPassword string `json:"check_password" binding:"required"`
	Name          string `json:"name"`
}

type LoginRequest struct {
	Account  string `json:"account" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      *LoginUser `json:"user"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// DeleteRequest is the generic delete-by-id body.
type DeleteRequest struct {
	ID string `json:"id" binding:"required"`
}
