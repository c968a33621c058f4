package services

import (
	"context"
	"strings"

	"github.com/Prince5598/Cloud-Storage/blobstore"
	"github.com/Prince5598/Cloud-Storage/metrics"
	"github.com/Prince5598/Cloud-Storage/models"
	"github.com/Prince5598/Cloud-Storage/repositories"

	"github.com/rs/zerolog/log"
)

// deriveBlobKey returns the storage name of a file: the last segment of its
// URL without query string, or failing that the last segment of its path.
// An empty result means there is nothing to clean up.
func deriveBlobKey(fileURL, path string) string {
	if i := strings.IndexByte(fileURL, '?'); i >= 0 {
		fileURL = fileURL[:i]
	}
	if key := lastSegment(fileURL); key != "" {
		return key
	}
	return lastSegment(path)
}

func lastSegment(s string) string {
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// blobCleaner removes the stored object behind a file record. Failures are
// logged and queued for retry, never returned to the caller of remove.
type blobCleaner struct {
	store   blobstore.Store
	orphans repositories.OrphanBlobQueue
}

func (c blobCleaner) remove(ctx context.Context, node models.FileNode) {
	key := deriveBlobKey(node.FileURL, node.Path)
	if key == "" || c.store == nil {
		metrics.Get().RecordBlobCleanup("skipped")
		return
	}

	if err := c.deleteByKey(ctx, key); err != nil {
		metrics.Get().RecordBlobCleanup("failed")
		log.Warn().Err(err).Str("key", key).Str("file_id", node.ID).Msg("blob cleanup failed")
		c.enqueue(ctx, repositories.OrphanBlob{Key: key, NodeID: node.ID, OwnerID: node.UserID, Attempts: 1})
		return
	}
	metrics.Get().RecordBlobCleanup("deleted")
}

// deleteByKey looks the key up by name so providers that assign their own ids
// delete the right object. Without a match, or when search fails, the key
// itself is used as the id.
func (c blobCleaner) deleteByKey(ctx context.Context, key string) error {
	target := key
	objects, err := c.store.Search(ctx, key, 1)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("blob search failed, deleting by key")
	} else if len(objects) > 0 && objects[0].NativeID != "" {
		target = objects[0].NativeID
	}
	return c.store.Delete(ctx, target)
}

func (c blobCleaner) enqueue(ctx context.Context, blob repositories.OrphanBlob) {
	if c.orphans == nil {
		return
	}
	if err := c.orphans.Push(context.WithoutCancel(ctx), blob); err != nil {
		log.Error().Err(err).Str("key", blob.Key).Msg("failed to queue orphan blob")
		return
	}
	metrics.Get().RecordBlobCleanup("requeued")
}
