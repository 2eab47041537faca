package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"doctor-intro-service/internal/domain/entity"
	"doctor-intro-service/internal/domain/repository"
	"doctor-intro-service/internal/service"

	"github.com/sirupsen/logrus"
)

var ErrVideoNotFound = errors.New("video not found")

type VideoUsecase interface {
	// SaveChunk stores one uploaded chunk. seq is the client-supplied
	// sequence number; when absent the arrival timestamp orders the chunk.
	SaveChunk(ctx context.Context, videoID string, seq *uint64, originalName string, r io.Reader) error

	// Finalize merges all staged chunks into the playable video, persists
	// its URL on the doctor record and returns that URL.
	Finalize(ctx context.Context, videoID string) (string, error)

	// DeleteArtifacts removes every local and remote artifact for a
	// video. Idempotent.
	DeleteArtifacts(ctx context.Context, videoID string) error
}

type videoUsecase struct {
	log            *logrus.Logger
	doctorRepo     repository.DoctorRepository
	chunkStore     service.ChunkStore
	storage        service.VideoStorage // nil when videos are served locally
	locker         service.VideoLocker
	auditService   service.AuditService
	backendBaseURL string
}

func NewVideoUsecase(
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	chunkStore service.ChunkStore,
	storage service.VideoStorage,
	locker service.VideoLocker,
	auditService service.AuditService,
	backendBaseURL string,
) VideoUsecase {
	return &videoUsecase{
		log:            log,
		doctorRepo:     doctorRepo,
		chunkStore:     chunkStore,
		storage:        storage,
		locker:         locker,
		auditService:   auditService,
		backendBaseURL: backendBaseURL,
	}
}

// chunkKey builds the zero-padded filename prefix that gives chunks their
// lexicographic order: the explicit sequence when the client sent one, the
// arrival unix-milli timestamp otherwise.
func chunkKey(seq *uint64) string {
	if seq != nil {
		return fmt.Sprintf("%013d", *seq)
	}
	return fmt.Sprintf("%013d", time.Now().UnixMilli())
}

func (u *videoUsecase) SaveChunk(ctx context.Context, videoID string, seq *uint64, originalName string, r io.Reader) error {
	unlock, err := u.locker.Lock(ctx, videoID)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := u.chunkStore.SaveChunk(videoID, chunkKey(seq), originalName, r); err != nil {
		u.log.Warnf("Failed to save chunk for video %s: %+v", videoID, err)
		return err
	}

	return nil
}

func (u *videoUsecase) Finalize(ctx context.Context, videoID string) (string, error) {
	unlock, err := u.locker.Lock(ctx, videoID)
	if err != nil {
		return "", err
	}
	defer unlock()

	doctor, err := u.doctorRepo.FindByVideoID(ctx, videoID)
	if err != nil {
		u.log.Warnf("Failed to find doctor for video %s: %+v", videoID, err)
		return "", err
	}
	if doctor == nil {
		return "", ErrVideoNotFound
	}

	finalPath, err := u.chunkStore.Merge(videoID)
	if err != nil {
		if !errors.Is(err, service.ErrNoChunks) {
			u.log.Warnf("Failed to merge chunks for video %s: %+v", videoID, err)
		}
		return "", err
	}

	var url string
	if u.storage != nil {
		// Chunks stay on disk until the upload succeeds so a failed
		// attempt can be retried.
		url, err = u.storage.Upload(ctx, videoID, finalPath, doctor.Name)
		if err != nil {
			u.log.Warnf("Failed to upload final video %s: %+v", videoID, err)
			return "", err
		}
		if err := u.chunkStore.RemoveAll(videoID); err != nil {
			u.log.Warnf("Failed to remove local artifacts for %s: %+v", videoID, err)
		}
	} else {
		url = fmt.Sprintf("%s/videos/%s/%s", u.backendBaseURL, videoID, filepath.Base(finalPath))
		if err := u.chunkStore.RemoveChunks(videoID); err != nil {
			u.log.Warnf("Failed to remove chunks for %s: %+v", videoID, err)
		}
	}

	if err := u.doctorRepo.UpdateVideoURL(ctx, doctor.ID, url); err != nil {
		u.log.Warnf("Failed to persist video url for doctor %s: %+v", doctor.ID, err)
		return "", err
	}

	if err := u.auditService.LogUpdate(ctx, &doctor.ID, entity.AuditActionVideoFinalize, doctor.VideoURL, url); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return url, nil
}

func (u *videoUsecase) DeleteArtifacts(ctx context.Context, videoID string) error {
	unlock, err := u.locker.Lock(ctx, videoID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := u.chunkStore.RemoveAll(videoID); err != nil {
		u.log.Warnf("Failed to remove local artifacts for %s: %+v", videoID, err)
		return err
	}

	if u.storage != nil {
		if err := u.storage.Remove(ctx, videoID); err != nil {
			u.log.Warnf("Failed to remove remote video for %s: %+v", videoID, err)
			return err
		}
	}

	if err := u.auditService.LogDelete(ctx, nil, entity.AuditActionVideoDelete, map[string]string{"video_id": videoID}); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return nil
}
