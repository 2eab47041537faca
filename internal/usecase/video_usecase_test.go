package usecase

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"doctor-intro-service/internal/domain/entity"
	"doctor-intro-service/internal/service"
	"doctor-intro-service/pkg/lock"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type videoDeps struct {
	doctorRepo *DoctorRepositoryMock
	chunkStore service.ChunkStore
	audit      *AuditServiceMock
}

func newVideoUsecase(t *testing.T, storage service.VideoStorage) (VideoUsecase, *videoDeps) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	deps := &videoDeps{
		doctorRepo: new(DoctorRepositoryMock),
		chunkStore: service.NewDiskChunkStore(t.TempDir(), log),
		audit:      new(AuditServiceMock),
	}

	m := lock.NewKeyedMutex()
	t.Cleanup(m.Stop)

	u := NewVideoUsecase(log, deps.doctorRepo, deps.chunkStore, storage, m, deps.audit, "http://localhost:8080")
	return u, deps
}

func seqPtr(v uint64) *uint64 { return &v }

func TestSaveChunk_UsesSequenceKey(t *testing.T) {
	u, deps := newVideoUsecase(t, nil)
	videoID := strings.Repeat("a", 32)

	require.NoError(t, u.SaveChunk(context.Background(), videoID, seqPtr(5), "blob.webm", strings.NewReader("x")))

	chunks, err := deps.chunkStore.ListChunks(videoID)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	require.Equal(t, "0000000000005-blob.webm", filepath.Base(chunks[0]))
}

func TestSaveChunk_TimestampFallback(t *testing.T) {
	u, deps := newVideoUsecase(t, nil)
	videoID := strings.Repeat("a", 32)

	require.NoError(t, u.SaveChunk(context.Background(), videoID, nil, "blob.webm", strings.NewReader("x")))

	chunks, err := deps.chunkStore.ListChunks(videoID)
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	name := filepath.Base(chunks[0])
	key, _, found := strings.Cut(name, "-")
	require.True(t, found)
	require.Len(t, key, 13)
}

func TestSaveChunk_InvalidVideoID(t *testing.T) {
	u, _ := newVideoUsecase(t, nil)

	err := u.SaveChunk(context.Background(), "../escape", seqPtr(1), "blob.webm", strings.NewReader("x"))
	require.ErrorIs(t, err, service.ErrInvalidVideoID)
}

func TestFinalize_LocalServing(t *testing.T) {
	u, deps := newVideoUsecase(t, nil)
	videoID := strings.Repeat("a", 32)

	// Out-of-order arrival; the sequence keys decide the merge order.
	require.NoError(t, u.SaveChunk(context.Background(), videoID, seqPtr(2), "blob.webm", strings.NewReader("B")))
	require.NoError(t, u.SaveChunk(context.Background(), videoID, seqPtr(1), "blob.webm", strings.NewReader("A")))
	require.NoError(t, u.SaveChunk(context.Background(), videoID, seqPtr(3), "blob.webm", strings.NewReader("C")))

	doctorID := uuid.New()
	deps.doctorRepo.On("FindByVideoID", mock.Anything, videoID).Return(&entity.Doctor{ID: doctorID, Name: "Dr. Alice", VideoID: videoID}, nil)
	deps.doctorRepo.On("UpdateVideoURL", mock.Anything, doctorID, mock.Anything).Return(nil)
	deps.audit.On("LogUpdate", mock.Anything, mock.Anything, entity.AuditActionVideoFinalize, mock.Anything, mock.Anything).Return(nil)

	url, err := u.Finalize(context.Background(), videoID)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/videos/"+videoID+"/final_video.webm", url)

	data, err := os.ReadFile(deps.chunkStore.FinalPath(videoID))
	require.NoError(t, err)
	require.Equal(t, "ABC", string(data))

	// Chunks are gone, the merged video stays for the file server.
	chunks, err := deps.chunkStore.ListChunks(videoID)
	require.NoError(t, err)
	require.Empty(t, chunks)
	require.True(t, deps.chunkStore.HasFinal(videoID))

	deps.doctorRepo.AssertCalled(t, "UpdateVideoURL", mock.Anything, doctorID, url)
}

func TestFinalize_RemoteUpload(t *testing.T) {
	storage := new(VideoStorageMock)
	u, deps := newVideoUsecase(t, storage)
	videoID := strings.Repeat("a", 32)

	require.NoError(t, u.SaveChunk(context.Background(), videoID, seqPtr(1), "blob.webm", strings.NewReader("A")))

	doctorID := uuid.New()
	remoteURL := "https://storage.example.com/intro-videos/videos/" + videoID + "/final_video.webm"
	deps.doctorRepo.On("FindByVideoID", mock.Anything, videoID).Return(&entity.Doctor{ID: doctorID, Name: "Dr. Alice", VideoID: videoID}, nil)
	storage.On("Upload", mock.Anything, videoID, mock.Anything, "Dr. Alice").Return(remoteURL, nil)
	deps.doctorRepo.On("UpdateVideoURL", mock.Anything, doctorID, remoteURL).Return(nil)
	deps.audit.On("LogUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	url, err := u.Finalize(context.Background(), videoID)
	require.NoError(t, err)
	require.Equal(t, remoteURL, url)

	// Local artifacts are gone once the upload succeeded.
	_, err = os.Stat(filepath.Join(deps.chunkStore.Root(), videoID))
	require.True(t, os.IsNotExist(err))
	storage.AssertExpectations(t)
}

func TestFinalize_UploadFailureKeepsChunks(t *testing.T) {
	storage := new(VideoStorageMock)
	u, deps := newVideoUsecase(t, storage)
	videoID := strings.Repeat("a", 32)

	require.NoError(t, u.SaveChunk(context.Background(), videoID, seqPtr(1), "blob.webm", strings.NewReader("A")))

	doctorID := uuid.New()
	deps.doctorRepo.On("FindByVideoID", mock.Anything, videoID).Return(&entity.Doctor{ID: doctorID, Name: "Dr. Alice", VideoID: videoID}, nil)
	storage.On("Upload", mock.Anything, videoID, mock.Anything, mock.Anything).Return("", errors.New("bucket unreachable"))

	_, err := u.Finalize(context.Background(), videoID)
	require.Error(t, err)

	// Chunks survive a failed upload so finalize can be retried.
	chunks, err := deps.chunkStore.ListChunks(videoID)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	deps.doctorRepo.AssertNotCalled(t, "UpdateVideoURL", mock.Anything, mock.Anything, mock.Anything)
}

func TestFinalize_NoChunks(t *testing.T) {
	u, deps := newVideoUsecase(t, nil)
	videoID := strings.Repeat("a", 32)

	deps.doctorRepo.On("FindByVideoID", mock.Anything, videoID).Return(&entity.Doctor{ID: uuid.New(), VideoID: videoID}, nil)

	_, err := u.Finalize(context.Background(), videoID)
	require.ErrorIs(t, err, service.ErrNoChunks)
}

func TestFinalize_UnknownVideo(t *testing.T) {
	u, deps := newVideoUsecase(t, nil)
	videoID := strings.Repeat("a", 32)

	deps.doctorRepo.On("FindByVideoID", mock.Anything, videoID).Return(nil, nil)

	_, err := u.Finalize(context.Background(), videoID)
	require.ErrorIs(t, err, ErrVideoNotFound)
}

func TestDeleteArtifacts(t *testing.T) {
	u, deps := newVideoUsecase(t, nil)
	videoID := strings.Repeat("a", 32)

	require.NoError(t, u.SaveChunk(context.Background(), videoID, seqPtr(1), "blob.webm", strings.NewReader("A")))
	deps.audit.On("LogDelete", mock.Anything, mock.Anything, entity.AuditActionVideoDelete, mock.Anything).Return(nil)

	require.NoError(t, u.DeleteArtifacts(context.Background(), videoID))

	_, err := os.Stat(filepath.Join(deps.chunkStore.Root(), videoID))
	require.True(t, os.IsNotExist(err))

	// Repeat delete is a no-op success.
	require.NoError(t, u.DeleteArtifacts(context.Background(), videoID))
}

func TestDeleteArtifacts_RemovesRemote(t *testing.T) {
	storage := new(VideoStorageMock)
	u, deps := newVideoUsecase(t, storage)
	videoID := strings.Repeat("a", 32)

	deps.audit.On("LogDelete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	storage.On("Remove", mock.Anything, videoID).Return(nil)

	require.NoError(t, u.DeleteArtifacts(context.Background(), videoID))
	storage.AssertExpectations(t)
}
