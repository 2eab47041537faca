package entity

import (
	"time"

	"github.com/google/uuid"
)

// Email notification outcomes recorded on the doctor row.
const (
	EmailStatusPending = "pending"
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "failed"
)

// Doctor represents a staff member and their recorded introduction video.
type Doctor struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Designation string    `gorm:"type:varchar(255)" json:"designation,omitempty"`
	Degree      string    `gorm:"type:varchar(255)" json:"degree,omitempty"`
	Mobile      string    `gorm:"type:varchar(50)" json:"mobile,omitempty"`
	Email       string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`

	// VideoID is assigned at creation and never changes. It keys every
	// chunk and finalized video artifact for this doctor.
	VideoID string `gorm:"column:video_id;type:varchar(64);uniqueIndex;not null" json:"video_id"`

	// VideoURL is written exactly once, when finalize succeeds.
	VideoURL *string `gorm:"column:video_url;type:text" json:"video_url"`

	EmailStatus string     `gorm:"type:varchar(20);not null;default:'pending'" json:"email_status"`
	EmailError  *string    `gorm:"type:text" json:"email_error,omitempty"`
	NotifiedAt  *time.Time `gorm:"column:notified_at" json:"notified_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}
