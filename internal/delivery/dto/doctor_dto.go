package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateDoctorRequest struct {
	Name        string `json:"name" validate:"required,min=1"`
	Email       string `json:"email" validate:"required,email"`
	Designation string `json:"designation" validate:"omitempty"`
	Degree      string `json:"degree" validate:"omitempty"`
	Mobile      string `json:"mobile" validate:"omitempty"`
}

type UpdateDoctorRequest struct {
	Name        string `json:"name" validate:"required,min=1"`
	Email       string `json:"email" validate:"required,email"`
	Designation string `json:"designation" validate:"omitempty"`
	Degree      string `json:"degree" validate:"omitempty"`
	Mobile      string `json:"mobile" validate:"omitempty"`
}

// Response DTOs

type DoctorResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Designation string     `json:"designation,omitempty"`
	Degree      string     `json:"degree,omitempty"`
	Mobile      string     `json:"mobile,omitempty"`
	Email       string     `json:"email"`
	VideoID     string     `json:"video_id"`
	VideoURL    *string    `json:"video_url"`
	EmailStatus string     `json:"email_status"`
	NotifiedAt  *time.Time `json:"notified_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
