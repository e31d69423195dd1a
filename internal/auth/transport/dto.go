package transport

import "time"

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"strongpassword"`
	DisplayName  string  `json:"displayName" validate:"required,min=1"`
	ImageProfile *string `json:"imageProfile"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterResponse struct {
	UID          string  `json:"uid"`
	Email        string  `json:"email"`
	DisplayName  string  `json:"displayName"`
	ImageProfile *string `json:"imageProfile"`
}

type Biodata struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

type LoginResponse struct {
	Token   string  `json:"token"`
	Biodata Biodata `json:"biodata"`
}

type UIDResponse struct {
	UID string `json:"uid"`
}

// MeResponse is the decoded principal of the caller.
type MeResponse struct {
	UID      string                 `json:"uid"`
	Email    string                 `json:"email,omitempty"`
	IssuedAt time.Time              `json:"issued_at"`
	Claims   map[string]interface{} `json:"claims,omitempty"`
}

type ProfileResponse struct {
	UID          string     `json:"uid"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"displayName"`
	ImageProfile *string    `json:"imageProfile"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// EditProfileResponse echoes only the fields that changed.
type EditProfileResponse struct {
	UID          string  `json:"uid"`
	DisplayName  *string `json:"displayName,omitempty"`
	ImageProfile *string `json:"imageProfile,omitempty"`
}
