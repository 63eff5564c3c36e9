// Package blobstore stores menu item images. The local implementation
// writes under a public directory served by the HTTP server.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const MaxImageSize = 5 << 20

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".gif":  {},
}

// Store uploads, and deletes binaries by storage path.
type Store interface {
	Upload(ctx context.Context, storagePath string, body io.Reader) (publicURL string, err error)
	Delete(ctx context.Context, storagePath string) error
}

// Upload is an image received from the admin client.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// ValidateImage checks extension and size before anything is written.
func ValidateImage(upload Upload) error {
	extension := strings.ToLower(filepath.Ext(upload.Filename))
	if extension == "" {
		return fmt.Errorf("image file extension is required")
	}
	if _, ok := allowedExtensions[extension]; !ok {
		return fmt.Errorf("unsupported image type: %s", extension)
	}
	if upload.Size > MaxImageSize {
		return fmt.Errorf("image file too large (max 5MB)")
	}
	return nil
}

// ItemImagePath mirrors the storage layout restaurants/{id}/menuItems/{category}/{ts}-{name}.
func ItemImagePath(restaurantID, categoryID, filename string, now time.Time) string {
	base := filepath.Base(strings.TrimSpace(filename))
	base = strings.ReplaceAll(base, " ", "-")
	return path.Join("restaurants", restaurantID, "menuItems", categoryID,
		fmt.Sprintf("%d-%s", now.UnixMilli(), base))
}

// LocalStore keeps blobs on disk below Root and exposes them under BaseURL.
type LocalStore struct {
	Root    string
	BaseURL string
}

func NewLocalStore(root, baseURL string) *LocalStore {
	return &LocalStore{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalStore) Upload(ctx context.Context, storagePath string, body io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	target, err := s.resolve(storagePath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		log.Printf("[UPLOAD] failed to create directory %s: %v", filepath.Dir(target), err)
		return "", err
	}

	out, err := os.Create(target)
	if err != nil {
		log.Printf("[UPLOAD] failed to create file %s: %v", target, err)
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, io.LimitReader(body, MaxImageSize+1)); err != nil {
		log.Printf("[UPLOAD] failed to save file %s: %v", target, err)
		_ = os.Remove(target)
		return "", err
	}

	log.Printf("[UPLOAD] stored %s", storagePath)
	return s.BaseURL + "/" + cleanRelative(storagePath), nil
}

// Delete removes the blob. A missing file is not an error.
func (s *LocalStore) Delete(ctx context.Context, storagePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(storagePath) == "" {
		return nil
	}
	target, err := s.resolve(storagePath)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}

func (s *LocalStore) resolve(storagePath string) (string, error) {
	cleanRel := cleanRelative(storagePath)
	if !strings.HasPrefix(cleanRel, "restaurants/") {
		return "", fmt.Errorf("refusing to touch non-upload path: %s", storagePath)
	}

	cleanBase := filepath.Clean(s.Root)
	cleanTarget := filepath.Clean(filepath.Join(cleanBase, filepath.FromSlash(cleanRel)))
	if cleanTarget != cleanBase && !strings.HasPrefix(cleanTarget, cleanBase+string(os.PathSeparator)) {
		return "", fmt.Errorf("refusing to touch path outside upload root: %s", storagePath)
	}
	return cleanTarget, nil
}

func cleanRelative(storagePath string) string {
	cleanRel := path.Clean("/" + strings.TrimPrefix(strings.TrimSpace(storagePath), "/"))
	return strings.TrimPrefix(cleanRel, "/")
}
