package blobstore

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/imagekit-developer/imagekit-go"
	"github.com/imagekit-developer/imagekit-go/api/media"
	"github.com/imagekit-developer/imagekit-go/api/uploader"
)

type ImageKitOptions struct {
	PrivateKey  string
	PublicKey   string
	URLEndpoint string
	// APIBase and UploadBase override the SDK endpoints, e.g.
	// https://api.imagekit.io/v1/ and https://upload.imagekit.io/api/v1/.
	APIBase    string
	UploadBase string
	Folder     string
	Timeout    time.Duration
}

// ImageKitStore talks to the ImageKit media API. ImageKit assigns its own
// fileId on upload, so deletes by stored name must go through Search first.
type ImageKitStore struct {
	ik      *imagekit.ImageKit
	folder  string
	timeout time.Duration
}

func NewImageKitStore(opts ImageKitOptions) *ImageKitStore {
	ik := imagekit.NewFromParams(imagekit.NewParams{
		PrivateKey:  opts.PrivateKey,
		PublicKey:   opts.PublicKey,
		UrlEndpoint: opts.URLEndpoint,
	})
	if opts.APIBase != "" {
		ik.Media.Config.API.Prefix = withSlash(opts.APIBase)
	}
	if opts.UploadBase != "" {
		ik.Uploader.Config.API.UploadPrefix = withSlash(opts.UploadBase)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ImageKitStore{ik: ik, folder: opts.Folder, timeout: timeout}
}

func withSlash(base string) string {
	return strings.TrimRight(base, "/") + "/"
}

func (s *ImageKitStore) Upload(ctx context.Context, r io.Reader, name string) (Locator, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	unique := true
	resp, err := s.ik.Uploader.Upload(ctx, r, uploader.UploadParam{
		FileName:          name,
		UseUniqueFileName: &unique,
		Folder:            s.folder,
	})
	if err != nil {
		return Locator{}, storeErr("upload", name, err)
	}

	out := resp.Data
	return Locator{
		NativeID:     out.FileId,
		Name:         out.Name,
		URL:          out.Url,
		ThumbnailURL: out.ThumbnailUrl,
		Path:         out.FilePath,
		Size:         int64(out.Size),
	}, nil
}

func (s *ImageKitStore) Search(ctx context.Context, name string, limit int) ([]Object, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.ik.Media.Files(ctx, media.FilesParam{
		SearchQuery: fmt.Sprintf("name = %q", name),
		Limit:       limit,
	})
	if err != nil {
		return nil, storeErr("search", name, err)
	}

	objects := make([]Object, 0, len(resp.Data))
	for _, f := range resp.Data {
		if f.FileId == "" {
			continue
		}
		objects = append(objects, Object{NativeID: f.FileId, Name: f.Name})
	}
	return objects, nil
}

// Delete reports a missing file as fs.ErrNotExist so retries can drop it.
func (s *ImageKitStore) Delete(ctx context.Context, nativeID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.ik.Media.DeleteFile(ctx, nativeID)
	if err != nil {
		if resp != nil && resp.ResponseMetaData.StatusCode == http.StatusNotFound {
			err = fmt.Errorf("%w: %v", fs.ErrNotExist, err)
		}
		return storeErr("delete", nativeID, err)
	}
	return nil
}
