package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNoChunks is returned by Merge when the chunk directory holds no
	// chunk files.
	ErrNoChunks = errors.New("no chunks to merge")

	// ErrInvalidVideoID is returned when a video identifier is not a
	// plain token. Identifiers become directory names, so anything with
	// path separators is rejected outright.
	ErrInvalidVideoID = errors.New("invalid video id")
)

const (
	chunkExt      = ".webm"
	finalFileName = "final_video" + chunkExt
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ChunkStore manages on-disk chunk files and the merged video artifact,
// one directory per video identifier.
//
// Ordering contract: chunk filenames must sort lexicographically into upload
// order. SaveChunk guarantees this by prefixing each file with a zero-padded
// numeric key.
type ChunkStore interface {
	// SaveChunk writes one chunk under the video's directory and returns
	// the stored file path. key is a zero-padded sequence or timestamp
	// string; originalName is kept as a collision tiebreaker.
	SaveChunk(videoID, key, originalName string, r io.Reader) (string, error)

	// ListChunks returns the chunk file paths for a video in
	// lexicographic name order. A missing directory yields an empty list.
	ListChunks(videoID string) ([]string, error)

	// Merge concatenates all chunks in order into the final video file
	// and returns its path. Returns ErrNoChunks when nothing is staged.
	// A failed merge never leaves a partial final file behind.
	Merge(videoID string) (string, error)

	// RemoveChunks deletes the chunk files but keeps the final artifact.
	RemoveChunks(videoID string) error

	// RemoveAll deletes the video's entire directory. Calling it for a
	// directory that does not exist is a no-op.
	RemoveAll(videoID string) error

	FinalPath(videoID string) string
	HasFinal(videoID string) bool

	// Root is the directory static file serving is anchored at.
	Root() string
}

type diskChunkStore struct {
	root string
	log  *logrus.Logger
}

func NewDiskChunkStore(root string, log *logrus.Logger) ChunkStore {
	return &diskChunkStore{root: root, log: log}
}

func (s *diskChunkStore) Root() string {
	return s.root
}

func (s *diskChunkStore) dir(videoID string) (string, error) {
	if !videoIDPattern.MatchString(videoID) {
		return "", ErrInvalidVideoID
	}
	return filepath.Join(s.root, videoID), nil
}

func (s *diskChunkStore) SaveChunk(videoID, key, originalName string, r io.Reader) (string, error) {
	dir, err := s.dir(videoID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create chunk directory: %w", err)
	}

	name := key + "-" + sanitizeChunkName(originalName)
	path := filepath.Join(dir, name)

	// O_EXCL keeps chunks write-once; a retried upload with the same key
	// and name must not silently overwrite.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create chunk file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write chunk: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close chunk file: %w", err)
	}

	return path, nil
}

func (s *diskChunkStore) ListChunks(videoID string) ([]string, error) {
	dir, err := s.dir(videoID)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read chunk directory: %w", err)
	}

	var chunks []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == finalFileName || !strings.HasSuffix(name, chunkExt) {
			continue
		}
		chunks = append(chunks, filepath.Join(dir, name))
	}

	sort.Strings(chunks)
	return chunks, nil
}

func (s *diskChunkStore) Merge(videoID string) (string, error) {
	chunks, err := s.ListChunks(videoID)
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return "", ErrNoChunks
	}

	final := s.FinalPath(videoID)
	tmp := final + ".tmp"

	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("create output file: %w", err)
	}

	for _, chunk := range chunks {
		if err := appendFile(out, chunk); err != nil {
			out.Close()
			os.Remove(tmp)
			return "", fmt.Errorf("append chunk %s: %w", filepath.Base(chunk), err)
		}
	}

	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("close output file: %w", err)
	}

	// Rename is the commit point: readers either see the previous final
	// video or the complete new one, never a partial write.
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("publish output file: %w", err)
	}

	return final, nil
}

func (s *diskChunkStore) RemoveChunks(videoID string) error {
	chunks, err := s.ListChunks(videoID)
	if err != nil {
		return err
	}

	for _, chunk := range chunks {
		if err := os.Remove(chunk); err != nil && !os.IsNotExist(err) {
			s.log.Warnf("Failed to remove chunk %s: %+v", chunk, err)
		}
	}
	return nil
}

func (s *diskChunkStore) RemoveAll(videoID string) error {
	dir, err := s.dir(videoID)
	if err != nil {
		return err
	}
	// RemoveAll on a missing directory already returns nil.
	return os.RemoveAll(dir)
}

func (s *diskChunkStore) FinalPath(videoID string) string {
	return filepath.Join(s.root, videoID, finalFileName)
}

func (s *diskChunkStore) HasFinal(videoID string) bool {
	info, err := os.Stat(s.FinalPath(videoID))
	return err == nil && !info.IsDir()
}

func appendFile(dst io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(dst, f)
	return err
}

// sanitizeChunkName reduces a client-supplied filename to a safe tiebreaker
// component and normalizes the chunk extension.
func sanitizeChunkName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == ".." || name == "/" || name == "" {
		name = "chunk"
	}
	if !strings.HasSuffix(strings.ToLower(name), chunkExt) {
		name += chunkExt
	}
	return name
}
