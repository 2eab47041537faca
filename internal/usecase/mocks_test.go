package usecase

import (
	"context"
	"time"

	"doctor-intro-service/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type DoctorRepositoryMock struct {
	mock.Mock
}

func (m *DoctorRepositoryMock) Create(ctx context.Context, doctor *entity.Doctor) error {
	args := m.Called(ctx, doctor)
	return args.Error(0)
}

func (m *DoctorRepositoryMock) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*entity.Doctor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DoctorRepositoryMock) FindByVideoID(ctx context.Context, videoID string) (*entity.Doctor, error) {
	args := m.Called(ctx, videoID)
	if v := args.Get(0); v != nil {
		return v.(*entity.Doctor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DoctorRepositoryMock) FindAll(ctx context.Context) ([]entity.Doctor, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]entity.Doctor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DoctorRepositoryMock) Update(ctx context.Context, doctor *entity.Doctor) error {
	args := m.Called(ctx, doctor)
	return args.Error(0)
}

func (m *DoctorRepositoryMock) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *DoctorRepositoryMock) UpdateVideoURL(ctx context.Context, id uuid.UUID, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}

func (m *DoctorRepositoryMock) UpdateEmailOutcome(ctx context.Context, id uuid.UUID, status string, sendErr *string, notifiedAt *time.Time) error {
	args := m.Called(ctx, id, status, sendErr, notifiedAt)
	return args.Error(0)
}

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) SendRecordingLink(to, doctorName, videoID string) error {
	args := m.Called(to, doctorName, videoID)
	return args.Error(0)
}

type AuditServiceMock struct {
	mock.Mock
}

func (m *AuditServiceMock) LogCreate(ctx context.Context, doctorID *uuid.UUID, action string, newValue interface{}) error {
	args := m.Called(ctx, doctorID, action, newValue)
	return args.Error(0)
}

func (m *AuditServiceMock) LogUpdate(ctx context.Context, doctorID *uuid.UUID, action string, oldValue, newValue interface{}) error {
	args := m.Called(ctx, doctorID, action, oldValue, newValue)
	return args.Error(0)
}

func (m *AuditServiceMock) LogDelete(ctx context.Context, doctorID *uuid.UUID, action string, oldValue interface{}) error {
	args := m.Called(ctx, doctorID, action, oldValue)
	return args.Error(0)
}

type VideoStorageMock struct {
	mock.Mock
}

func (m *VideoStorageMock) Upload(ctx context.Context, videoID, localPath, caption string) (string, error) {
	args := m.Called(ctx, videoID, localPath, caption)
	return args.String(0), args.Error(1)
}

func (m *VideoStorageMock) Remove(ctx context.Context, videoID string) error {
	args := m.Called(ctx, videoID)
	return args.Error(0)
}
