package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Prince5598/Cloud-Storage/blobstore"
	"github.com/Prince5598/Cloud-Storage/metrics"
	"github.com/Prince5598/Cloud-Storage/models"
	"github.com/Prince5598/Cloud-Storage/repositories"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const defaultBlobDeleteConcurrency = 8

type EmptyTrashOutput struct {
	DeletedCount int      `json:"deletedCount"`
	DeletedIDs   []string `json:"deletedIds"`
}

type LifecycleService interface {
	ToggleStar(ctx context.Context, ownerID string, id string) (models.FileNode, error)
	ToggleTrash(ctx context.Context, ownerID string, id string) (models.FileNode, error)
	DeletePermanent(ctx context.Context, ownerID string, id string) (string, error)
	EmptyTrash(ctx context.Context, ownerID string) (EmptyTrashOutput, error)
}

type lifecycleService struct {
	txManager   TxManager
	files       repositories.FileRepository
	resolver    TreeResolver
	cleaner     blobCleaner
	concurrency int
}

func NewLifecycleService(
	txManager TxManager,
	files repositories.FileRepository,
	store blobstore.Store,
	orphans repositories.OrphanBlobQueue,
	concurrency int,
) LifecycleService {
	if concurrency <= 0 {
		concurrency = defaultBlobDeleteConcurrency
	}
	return &lifecycleService{
		txManager:   txManager,
		files:       files,
		resolver:    NewTreeResolver(files),
		cleaner:     blobCleaner{store: store, orphans: orphans},
		concurrency: concurrency,
	}
}

func (s *lifecycleService) ToggleStar(ctx context.Context, ownerID string, id string) (models.FileNode, error) {
	return s.toggle(ctx, "toggle_star", ownerID, id, "is_starred")
}

// ToggleTrash flips only the node itself. Children keep their own flag and
// are reached through the trashed folder when the trash is emptied.
func (s *lifecycleService) ToggleTrash(ctx context.Context, ownerID string, id string) (models.FileNode, error) {
	return s.toggle(ctx, "toggle_trash", ownerID, id, "is_trash")
}

func (s *lifecycleService) toggle(ctx context.Context, operation, ownerID, id, column string) (node models.FileNode, err error) {
	defer observe(operation, time.Now(), &err)

	if ownerID == "" {
		return models.FileNode{}, unauthorizedError()
	}

	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		updated, err := s.files.UpdateByIDAndOwner(ctx, tx, id, ownerID, map[string]interface{}{
			column: gorm.Expr("NOT " + column),
		})
		if err != nil {
			return err
		}
		node = updated
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.FileNode{}, notFoundError("file not found")
		}
		return models.FileNode{}, newAppError(http.StatusInternalServerError, "failed to update file", err)
	}
	return node, nil
}

// DeletePermanent removes a node and, for folders, its whole subtree.
// Children are deleted before their parents so an interrupted run never
// leaves a child pointing at a missing folder, and re-running it is safe.
func (s *lifecycleService) DeletePermanent(ctx context.Context, ownerID string, id string) (deletedID string, err error) {
	defer observe("delete_permanent", time.Now(), &err)

	if ownerID == "" {
		return "", unauthorizedError()
	}

	target, err := s.files.GetByIDAndOwner(ctx, nil, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", notFoundError("file not found")
		}
		return "", newAppError(http.StatusInternalServerError, "failed to query file", err)
	}

	var order []string
	if target.IsFolder {
		descendants, err := s.resolver.Descendants(ctx, nil, ownerID, target.ID)
		if err != nil {
			return "", newAppError(http.StatusInternalServerError, "failed to resolve folder contents", err)
		}
		for i := len(descendants) - 1; i >= 0; i-- {
			order = append(order, descendants[i].ID)
		}
	}
	order = append(order, target.ID)

	deleted := 0
	for _, nodeID := range order {
		removed, err := s.deleteNode(ctx, ownerID, nodeID)
		if err != nil {
			metrics.Get().RecordNodesDeleted(deleted)
			return "", newAppError(http.StatusInternalServerError, "failed to delete file", err)
		}
		if removed {
			deleted++
		}
	}
	metrics.Get().RecordNodesDeleted(deleted)

	log.Info().Str("owner_id", ownerID).Str("file_id", target.ID).Int("nodes", deleted).Msg("permanently deleted")
	return target.ID, nil
}

// deleteNode re-reads the node so a concurrent delete turns into a no-op.
func (s *lifecycleService) deleteNode(ctx context.Context, ownerID string, id string) (bool, error) {
	node, err := s.files.GetByIDAndOwner(ctx, nil, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	if !node.IsFolder {
		s.cleaner.remove(ctx, node)
	}

	affected, err := s.files.DeleteByIDAndOwner(ctx, nil, node.ID, ownerID)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// EmptyTrash deletes every trashed node together with the contents of
// trashed folders, whatever their own trash flag says.
func (s *lifecycleService) EmptyTrash(ctx context.Context, ownerID string) (out EmptyTrashOutput, err error) {
	defer observe("empty_trash", time.Now(), &err)

	if ownerID == "" {
		return EmptyTrashOutput{}, unauthorizedError()
	}

	trashed, err := s.files.ListTrashed(ctx, nil, ownerID)
	if err != nil {
		return EmptyTrashOutput{}, newAppError(http.StatusInternalServerError, "failed to query trash", err)
	}
	if len(trashed) == 0 {
		return EmptyTrashOutput{DeletedIDs: []string{}}, nil
	}

	seen := make(map[string]struct{}, len(trashed))
	var nodes []models.FileNode
	collect := func(node models.FileNode) {
		if _, ok := seen[node.ID]; ok {
			return
		}
		seen[node.ID] = struct{}{}
		nodes = append(nodes, node)
	}

	for _, node := range trashed {
		collect(node)
		if !node.IsFolder {
			continue
		}
		descendants, err := s.resolver.Descendants(ctx, nil, ownerID, node.ID)
		if err != nil {
			return EmptyTrashOutput{}, newAppError(http.StatusInternalServerError, "failed to resolve folder contents", err)
		}
		for _, d := range descendants {
			collect(d)
		}
	}

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	ids := make([]string, 0, len(nodes))
	for _, node := range nodes {
		ids = append(ids, node.ID)
		if node.IsFolder {
			continue
		}
		node := node
		g.Go(func() error {
			s.cleaner.remove(ctx, node)
			return nil
		})
	}
	_ = g.Wait()

	removed, err := s.files.DeleteByIDsAndOwner(ctx, nil, ids, ownerID)
	if err != nil {
		return EmptyTrashOutput{}, newAppError(http.StatusInternalServerError, "failed to empty trash", err)
	}

	out = EmptyTrashOutput{DeletedCount: len(removed), DeletedIDs: make([]string, 0, len(removed))}
	for _, node := range removed {
		out.DeletedIDs = append(out.DeletedIDs, node.ID)
	}
	metrics.Get().RecordNodesDeleted(out.DeletedCount)

	log.Info().Str("owner_id", ownerID).Int("deleted", out.DeletedCount).Msg("trash emptied")
	return out, nil
}

func observe(operation string, start time.Time, err *error) {
	status := "success"
	if *err != nil {
		status = "error"
	}
	metrics.Get().RecordOperation(operation, status, time.Since(start).Seconds())
}
