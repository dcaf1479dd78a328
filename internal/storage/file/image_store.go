package file

import (
	"context"
	"os"
	"path/filepath"
)

// ImageStore removes uploaded assets for deleted rooms. Uploads themselves
// are handled outside this service; each room's files live under
// uploads/<roomID>/.
type ImageStore struct {
	uploadsDir string
}

func NewImageStore(dataDir string) *ImageStore {
	return &ImageStore{uploadsDir: filepath.Join(dataDir, "uploads")}
}

func (s *ImageStore) DeleteRoomAssets(ctx context.Context, roomID string) error {
	return os.RemoveAll(filepath.Join(s.uploadsDir, roomID))
}
