package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Prince5598/Cloud-Storage/blobstore"
	"github.com/Prince5598/Cloud-Storage/metrics"
	"github.com/Prince5598/Cloud-Storage/models"
	"github.com/Prince5598/Cloud-Storage/repositories"
	"github.com/Prince5598/Cloud-Storage/view"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type UploadInput struct {
	OwnerID     string
	ParentID    string
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type CreateFolderInput struct {
	OwnerID  string
	Name     string
	ParentID string
}

type MoveInput struct {
	OwnerID  string
	ID       string
	ParentID string
}

type ListInput struct {
	OwnerID  string
	View     string
	ParentID string
	Query    string
}

type ListOutput struct {
	Files        []models.FileNode `json:"files"`
	Breadcrumbs  []view.Crumb      `json:"breadcrumbs"`
	View         view.Name         `json:"view"`
	StarredCount int               `json:"starredCount"`
	TrashCount   int               `json:"trashCount"`
}

type FileService interface {
	Upload(ctx context.Context, in UploadInput) (models.FileNode, error)
	CreateFolder(ctx context.Context, in CreateFolderInput) (models.FileNode, error)
	Move(ctx context.Context, in MoveInput) (models.FileNode, error)
	List(ctx context.Context, in ListInput) (ListOutput, error)
	Get(ctx context.Context, ownerID string, id string) (models.FileNode, error)
	Breadcrumbs(ctx context.Context, ownerID string, id string) ([]view.Crumb, error)
}

type fileService struct {
	txManager TxManager
	files     repositories.FileRepository
	store     blobstore.Store
	resolver  TreeResolver
	cleaner   blobCleaner
}

func NewFileService(
	txManager TxManager,
	files repositories.FileRepository,
	store blobstore.Store,
	orphans repositories.OrphanBlobQueue,
) FileService {
	return &fileService{
		txManager: txManager,
		files:     files,
		store:     store,
		resolver:  NewTreeResolver(files),
		cleaner:   blobCleaner{store: store, orphans: orphans},
	}
}

func (s *fileService) Upload(ctx context.Context, in UploadInput) (models.FileNode, error) {
	if in.OwnerID == "" {
		return models.FileNode{}, unauthorizedError()
	}
	if in.Content == nil {
		return models.FileNode{}, invalidInputError("no file provided")
	}

	name := sanitizeFilename(in.FileName)
	if name == "" {
		return models.FileNode{}, invalidInputError("invalid file name")
	}
	if len(name) > maxNameLength {
		return models.FileNode{}, invalidInputError("file name is too long")
	}
	if !isFileExtensionAllowed(name) {
		return models.FileNode{}, invalidInputError("file type is not allowed")
	}
	maxSize := storageConfig().MaxFileSize
	if maxSize > 0 && in.Size > maxSize {
		return models.FileNode{}, newAppErrorWithData(http.StatusBadRequest, "file exceeds maximum size",
			map[string]int64{"maxFileSize": maxSize}, ErrInvalidInput)
	}

	parentID, err := s.resolveParent(ctx, nil, in.OwnerID, in.ParentID)
	if err != nil {
		return models.FileNode{}, err
	}

	loc, err := s.store.Upload(ctx, in.Content, name)
	if err != nil {
		return models.FileNode{}, newAppError(http.StatusInternalServerError, "failed to store file", err)
	}

	size := loc.Size
	if size <= 0 {
		size = in.Size
	}
	node := models.FileNode{
		ID:           uuid.NewString(),
		UserID:       in.OwnerID,
		ParentID:     parentID,
		Name:         name,
		Path:         loc.Path,
		FileURL:      loc.URL,
		ThumbnailURL: loc.ThumbnailURL,
		Size:         size,
		Type:         detectContentType(in.ContentType, name),
	}
	if err := s.files.Create(ctx, nil, &node); err != nil {
		s.cleaner.remove(ctx, node)
		return models.FileNode{}, newAppError(http.StatusInternalServerError, "failed to save file record", err)
	}

	metrics.Get().RecordUpload(size)
	log.Debug().Str("owner_id", in.OwnerID).Str("file_id", node.ID).Int64("size", size).Msg("file uploaded")
	return node, nil
}

func (s *fileService) CreateFolder(ctx context.Context, in CreateFolderInput) (models.FileNode, error) {
	if in.OwnerID == "" {
		return models.FileNode{}, unauthorizedError()
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.FileNode{}, invalidInputError("folder name is required")
	}
	if len(name) > maxNameLength || strings.ContainsAny(name, `/\`) {
		return models.FileNode{}, invalidInputError("invalid folder name")
	}

	var folder models.FileNode
	err := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		parentID, err := s.resolveParent(ctx, tx, in.OwnerID, in.ParentID)
		if err != nil {
			return err
		}
		folder = models.FileNode{
			ID:       uuid.NewString(),
			UserID:   in.OwnerID,
			ParentID: parentID,
			Name:     name,
			IsFolder: true,
			Type:     models.FolderType,
		}
		return s.files.Create(ctx, tx, &folder)
	})
	if err != nil {
		var appErr *AppError
		if errors.As(err, &appErr) {
			return models.FileNode{}, appErr
		}
		return models.FileNode{}, newAppError(http.StatusInternalServerError, "failed to create folder", err)
	}
	return folder, nil
}

func (s *fileService) Move(ctx context.Context, in MoveInput) (models.FileNode, error) {
	if in.OwnerID == "" {
		return models.FileNode{}, unauthorizedError()
	}

	var moved models.FileNode
	err := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		node, err := s.files.GetByIDAndOwner(ctx, tx, in.ID, in.OwnerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("file not found")
			}
			return err
		}

		parentID, err := s.resolveParent(ctx, tx, in.OwnerID, in.ParentID)
		if err != nil {
			return err
		}
		if parentID != nil {
			cycle, err := s.resolver.IsAncestor(ctx, tx, in.OwnerID, node.ID, *parentID)
			if err != nil {
				return err
			}
			if cycle {
				return invalidInputError("cannot move a folder into itself or one of its subfolders")
			}
		}

		updates := map[string]interface{}{"parent_id": nil}
		if parentID != nil {
			updates["parent_id"] = *parentID
		}
		moved, err = s.files.UpdateByIDAndOwner(ctx, tx, node.ID, in.OwnerID, updates)
		return err
	})
	if err != nil {
		var appErr *AppError
		if errors.As(err, &appErr) {
			return models.FileNode{}, appErr
		}
		return models.FileNode{}, newAppError(http.StatusInternalServerError, "failed to move file", err)
	}
	return moved, nil
}

func (s *fileService) List(ctx context.Context, in ListInput) (ListOutput, error) {
	if in.OwnerID == "" {
		return ListOutput{}, unauthorizedError()
	}

	name, err := view.ParseName(in.View)
	if err != nil {
		return ListOutput{}, invalidInputError(err.Error())
	}

	all, err := s.files.ListByOwner(ctx, nil, in.OwnerID)
	if err != nil {
		return ListOutput{}, newAppError(http.StatusInternalServerError, "failed to list files", err)
	}

	store := view.NewStore()
	store.SetFiles(all)
	store.SetView(name)
	store.SetSearchQuery(strings.TrimSpace(in.Query))
	if parentID := normalizeParentID(in.ParentID); parentID != "" {
		store.SetCurrentFolder(&parentID)
	}

	crumbs := store.Breadcrumbs()
	if crumbs == nil {
		crumbs = []view.Crumb{}
	}
	return ListOutput{
		Files:        store.FilteredFiles(),
		Breadcrumbs:  crumbs,
		View:         name,
		StarredCount: store.StarredCount(),
		TrashCount:   store.TrashCount(),
	}, nil
}

func (s *fileService) Get(ctx context.Context, ownerID string, id string) (models.FileNode, error) {
	if ownerID == "" {
		return models.FileNode{}, unauthorizedError()
	}
	node, err := s.files.GetByIDAndOwner(ctx, nil, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.FileNode{}, notFoundError("file not found")
		}
		return models.FileNode{}, newAppError(http.StatusInternalServerError, "failed to query file", err)
	}
	return node, nil
}

// Breadcrumbs returns the folder chain for a folder, or for the folder that
// contains a file.
func (s *fileService) Breadcrumbs(ctx context.Context, ownerID string, id string) ([]view.Crumb, error) {
	node, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	start := node.ID
	if !node.IsFolder {
		if node.ParentID == nil {
			return []view.Crumb{}, nil
		}
		start = *node.ParentID
	}

	crumbs, err := s.resolver.Breadcrumbs(ctx, nil, ownerID, start)
	if err != nil {
		return nil, newAppError(http.StatusInternalServerError, "failed to resolve breadcrumbs", err)
	}
	if crumbs == nil {
		crumbs = []view.Crumb{}
	}
	return crumbs, nil
}

// resolveParent validates an optional parent id. Empty means the root.
func (s *fileService) resolveParent(ctx context.Context, tx *gorm.DB, ownerID string, parentID string) (*string, error) {
	parentID = normalizeParentID(parentID)
	if parentID == "" {
		return nil, nil
	}

	parent, err := s.files.GetByIDAndOwner(ctx, tx, parentID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("parent folder not found")
		}
		return nil, newAppError(http.StatusInternalServerError, "failed to query parent folder", err)
	}
	if !parent.IsFolder {
		return nil, invalidInputError(fmt.Sprintf("%s is not a folder", parent.Name))
	}
	return &parent.ID, nil
}

func normalizeParentID(parentID string) string {
	parentID = strings.TrimSpace(parentID)
	switch strings.ToLower(parentID) {
	case "", "null", "root", "undefined":
		return ""
	}
	return parentID
}
