package handler

import (
	"context"
	"io"

	"doctor-intro-service/internal/delivery/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type DoctorUsecaseMock struct {
	mock.Mock
}

func (m *DoctorUsecaseMock) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*dto.DoctorResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DoctorUsecaseMock) ListDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(*dto.DoctorListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DoctorUsecaseMock) UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	args := m.Called(ctx, doctorID, req)
	if v := args.Get(0); v != nil {
		return v.(*dto.DoctorResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DoctorUsecaseMock) DeleteDoctor(ctx context.Context, doctorID uuid.UUID) error {
	args := m.Called(ctx, doctorID)
	return args.Error(0)
}

func (m *DoctorUsecaseMock) WaitNotifications() {
	m.Called()
}

type VideoUsecaseMock struct {
	mock.Mock
}

func (m *VideoUsecaseMock) SaveChunk(ctx context.Context, videoID string, seq *uint64, originalName string, r io.Reader) error {
	args := m.Called(ctx, videoID, seq, originalName, r)
	return args.Error(0)
}

func (m *VideoUsecaseMock) Finalize(ctx context.Context, videoID string) (string, error) {
	args := m.Called(ctx, videoID)
	return args.String(0), args.Error(1)
}

func (m *VideoUsecaseMock) DeleteArtifacts(ctx context.Context, videoID string) error {
	args := m.Called(ctx, videoID)
	return args.Error(0)
}
