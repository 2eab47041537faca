package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"doctor-intro-service/internal/converter"
	"doctor-intro-service/internal/delivery/dto"
	"doctor-intro-service/internal/domain/entity"
	"doctor-intro-service/internal/domain/repository"
	"doctor-intro-service/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

var (
	ErrDoctorNotFound     = errors.New("doctor not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// outcomeTimeout bounds the database write that records a notification
// outcome after the email attempt chain finishes.
const outcomeTimeout = 30 * time.Second

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	ListDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, doctorID uuid.UUID) error

	// WaitNotifications blocks until in-flight notification deliveries
	// have recorded their outcome. Used during graceful shutdown.
	WaitNotifications()
}

type doctorUsecase struct {
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	chunkStore   service.ChunkStore
	storage      service.VideoStorage // nil when no remote storage is configured
	notifier     service.Notifier
	auditService service.AuditService

	notifyWG sync.WaitGroup
}

func NewDoctorUsecase(
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	chunkStore service.ChunkStore,
	storage service.VideoStorage,
	notifier service.Notifier,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		log:          log,
		doctorRepo:   doctorRepo,
		chunkStore:   chunkStore,
		storage:      storage,
		notifier:     notifier,
		auditService: auditService,
	}
}

// newVideoID generates the opaque token that keys all video artifacts for a
// doctor. It doubles as a directory name, so it stays free of separators.
func newVideoID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (u *doctorUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	doctor := &entity.Doctor{
		Name:        req.Name,
		Designation: req.Designation,
		Degree:      req.Degree,
		Mobile:      req.Mobile,
		Email:       req.Email,
		VideoID:     newVideoID(),
		EmailStatus: entity.EmailStatusPending,
	}

	if err := u.doctorRepo.Create(ctx, doctor); err != nil {
		if isDuplicateKeyError(err, "idx_doctors_email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, &doctor.ID, entity.AuditActionDoctorCreate, converter.DoctorToResponse(doctor)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	// The response never waits on email delivery; the outcome lands on
	// the doctor row once the attempt chain finishes.
	u.notifyWG.Add(1)
	go u.deliverNotification(doctor.ID, doctor.Email, doctor.Name, doctor.VideoID)

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) deliverNotification(doctorID uuid.UUID, email, name, videoID string) {
	defer u.notifyWG.Done()

	sendErr := u.notifier.SendRecordingLink(email, name, videoID)

	ctx, cancel := context.WithTimeout(context.Background(), outcomeTimeout)
	defer cancel()

	now := time.Now()
	status := entity.EmailStatusSent
	var errText *string
	if sendErr != nil {
		status = entity.EmailStatusFailed
		msg := sendErr.Error()
		errText = &msg
		u.log.Warnf("Recording email for doctor %s not delivered: %+v", doctorID, sendErr)
	}

	if err := u.doctorRepo.UpdateEmailOutcome(ctx, doctorID, status, errText, &now); err != nil {
		u.log.Warnf("Failed to record email outcome for doctor %s: %+v", doctorID, err)
	}
}

func (u *doctorUsecase) ListDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to find all doctors: %+v", err)
		return nil, err
	}

	responses := converter.DoctorsToResponses(doctors)

	return &dto.DoctorListResponse{
		Doctors: responses,
		Total:   len(responses),
	}, nil
}

func (u *doctorUsecase) UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	oldValue := converter.DoctorToResponse(doctor)

	// VideoID is immutable; everything else follows the payload.
	doctor.Name = req.Name
	doctor.Email = req.Email
	if req.Designation != "" {
		doctor.Designation = req.Designation
	}
	if req.Degree != "" {
		doctor.Degree = req.Degree
	}
	if req.Mobile != "" {
		doctor.Mobile = req.Mobile
	}

	if err := u.doctorRepo.Update(ctx, doctor); err != nil {
		if isDuplicateKeyError(err, "idx_doctors_email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to update doctor: %+v", err)
		return nil, err
	}

	newValue := converter.DoctorToResponse(doctor)
	if err := u.auditService.LogUpdate(ctx, &doctorID, entity.AuditActionDoctorUpdate, oldValue, newValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return newValue, nil
}

func (u *doctorUsecase) DeleteDoctor(ctx context.Context, doctorID uuid.UUID) error {
	doctor, err := u.doctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}
	oldValue := converter.DoctorToResponse(doctor)

	affectedRows, err := u.doctorRepo.Delete(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to delete doctor: %+v", err)
		return err
	}
	if affectedRows == 0 {
		return ErrDoctorNotFound
	}

	// Artifact cleanup is best-effort: the doctor row is already gone and
	// the delete response must not fail on leftover files.
	if err := u.chunkStore.RemoveAll(doctor.VideoID); err != nil {
		u.log.Warnf("Failed to remove video artifacts for %s: %+v", doctor.VideoID, err)
	}
	if u.storage != nil {
		if err := u.storage.Remove(ctx, doctor.VideoID); err != nil {
			u.log.Warnf("Failed to remove remote video for %s: %+v", doctor.VideoID, err)
		}
	}

	if err := u.auditService.LogDelete(ctx, &doctorID, entity.AuditActionDoctorDelete, oldValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return nil
}

func (u *doctorUsecase) WaitNotifications() {
	u.notifyWG.Wait()
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint
// violation on the named constraint.
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
