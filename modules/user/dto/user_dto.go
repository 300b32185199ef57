package dto

import "hiringdesk/modules/user/entity"

// ===================== Request DTOs =====================

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateUserRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Name           string `json:"name" validate:"required"`
	Phone          string `json:"phone"`
	Role           string `json:"role" validate:"required"`
	Password       string `json:"password" validate:"required,min=8"`
	OrganizationID string `json:"organization_id"`
}

// ===================== Response DTOs =====================

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	Name           string  `json:"name"`
	Phone          *string `json:"phone,omitempty"`
	Role           string  `json:"role"`
	OrganizationID *string `json:"organization_id,omitempty"`
}

func ToUserResponse(user *entity.User) UserResponse {
	resp := UserResponse{
		ID:    user.ID.String(),
		Email: user.Email,
		Name:  user.Name,
		Phone: user.Phone,
		Role:  string(user.Role),
	}
	if user.OrganizationID != nil {
		orgID := user.OrganizationID.String()
		resp.OrganizationID = &orgID
	}
	return resp
}
