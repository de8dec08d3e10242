package model

import "time"

// Roles assigned to users.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a chat customer or staff member identified by the identity provider.
type User struct {
	ID            string    `json:"line_user_id" db:"line_user_id"`
	DisplayName   string    `json:"display_name" db:"display_name"`
	PictureURL    string    `json:"picture_url" db:"picture_url"`
	StatusMessage string    `json:"status_message" db:"status_message"`
	Role          string    `json:"role" db:"role"`
	Address       string    `json:"address" db:"address"`
	Phone         string    `json:"phone" db:"phone"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// UserSummary is the admin listing projection.
type UserSummary struct {
	ID          string `json:"line_user_id"`
	DisplayName string `json:"display_name"`
}

// Profile is what the identity provider returns for a valid access token.
type Profile struct {
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	PictureURL    string `json:"pictureUrl,omitempty"`
	StatusMessage string `json:"statusMessage,omitempty"`
}

// VerifyAccessTokenRequest is sent by the chat client after login.
type VerifyAccessTokenRequest struct {
	AccessToken   string `json:"accessToken"`
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	PictureURL    string `json:"pictureUrl"`
	StatusMessage string `json:"statusMessage"`
}

// UpdateProfileRequest updates contact details for a user found by display name.
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
}
