package repository

import (
	"context"
	"time"

	"doctor-intro-service/internal/domain/entity"

	"github.com/google/uuid"
)

type DoctorRepository interface {
	Create(ctx context.Context, doctor *entity.Doctor) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	FindByVideoID(ctx context.Context, videoID string) (*entity.Doctor, error)
	FindAll(ctx context.Context) ([]entity.Doctor, error)
	Update(ctx context.Context, doctor *entity.Doctor) error
	// Delete returns the number of affected rows so callers can
	// distinguish a missing doctor from a successful delete.
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	UpdateVideoURL(ctx context.Context, id uuid.UUID, url string) error
	UpdateEmailOutcome(ctx context.Context, id uuid.UUID, status string, sendErr *string, notifiedAt *time.Time) error
}
