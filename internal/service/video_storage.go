package service

import "context"

// VideoStorage pushes finalized videos to remote object storage. It is
// optional; without it finalized videos are served from local disk.
type VideoStorage interface {
	// Upload stores the finalized video under a key derived from videoID
	// and returns the playable URL. caption carries the doctor's display
	// name alongside the object.
	Upload(ctx context.Context, videoID, localPath, caption string) (string, error)

	// Remove deletes the remote copy. Removing a missing object is not
	// an error.
	Remove(ctx context.Context, videoID string) error
}
