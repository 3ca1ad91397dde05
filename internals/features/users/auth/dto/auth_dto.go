package dto

import (
	"strings"

	m "schoolku_backend/internals/features/users/auth/model"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func FromUserModel(u m.UserModel, role string) UserResponse {
	return UserResponse{
		UserID:   u.UserID.String(),
		Email:    u.UserEmail,
		FullName: u.UserFullName,
		Role:     role,
	}
}
