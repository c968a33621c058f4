package blobstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	objectsDir    = "objects"
	thumbnailsDir = "thumbnails"
)

var errInvalidKey = errors.New("invalid object key")

// LocalStore keeps blobs on disk under baseDir. Objects are renamed to a
// random key on upload, so the key is both the native id and the searchable
// name.
type LocalStore struct {
	baseDir   string
	publicURL string
	thumb     ThumbnailOptions
}

func NewLocalStore(baseDir, publicURL string, thumb ThumbnailOptions) (*LocalStore, error) {
	for _, dir := range []string{objectsDir, thumbnailsDir} {
		if err := os.MkdirAll(filepath.Join(baseDir, dir), 0o755); err != nil {
			return nil, err
		}
	}
	return &LocalStore{
		baseDir:   baseDir,
		publicURL: strings.TrimRight(publicURL, "/"),
		thumb:     thumb,
	}, nil
}

func (s *LocalStore) BaseDir() string {
	return s.baseDir
}

func (s *LocalStore) Upload(ctx context.Context, r io.Reader, name string) (Locator, error) {
	if err := ctx.Err(); err != nil {
		return Locator{}, storeErr("upload", name, err)
	}

	key := uuid.NewString() + strings.ToLower(filepath.Ext(name))
	dst := s.objectPath(key)

	out, err := os.Create(dst)
	if err != nil {
		return Locator{}, storeErr("upload", key, err)
	}
	written, err := io.Copy(out, r)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		return Locator{}, storeErr("upload", key, err)
	}

	loc := Locator{
		NativeID: key,
		Name:     key,
		URL:      s.publicURL + "/" + objectsDir + "/" + key,
		Path:     "/" + objectsDir + "/" + key,
		Size:     written,
	}

	if IsImageFile(name) && s.thumb.Width > 0 && s.thumb.Height > 0 {
		if err := GenerateThumbnail(dst, s.thumbnailPath(key), s.thumb); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("thumbnail generation failed")
		} else {
			loc.ThumbnailURL = s.publicURL + "/" + thumbnailsDir + "/" + key + ".jpg"
		}
	}

	return loc, nil
}

func (s *LocalStore) Search(ctx context.Context, name string, limit int) ([]Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeErr("search", name, err)
	}
	if !validKey(name) || limit == 0 {
		return nil, nil
	}

	if _, err := os.Stat(s.objectPath(name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, storeErr("search", name, err)
	}
	return []Object{{NativeID: name, Name: name}}, nil
}

func (s *LocalStore) Delete(ctx context.Context, nativeID string) error {
	if err := ctx.Err(); err != nil {
		return storeErr("delete", nativeID, err)
	}
	if !validKey(nativeID) {
		return storeErr("delete", nativeID, errInvalidKey)
	}

	if err := os.Remove(s.objectPath(nativeID)); err != nil {
		return storeErr("delete", nativeID, err)
	}
	if err := os.Remove(s.thumbnailPath(nativeID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("key", nativeID).Msg("remove thumbnail failed")
	}
	return nil
}

func (s *LocalStore) objectPath(key string) string {
	return filepath.Join(s.baseDir, objectsDir, key)
}

func (s *LocalStore) thumbnailPath(key string) string {
	return filepath.Join(s.baseDir, thumbnailsDir, key+".jpg")
}

func validKey(key string) bool {
	if key == "" || key == "." || key == ".." {
		return false
	}
	return !strings.ContainsAny(key, `/\`)
}
