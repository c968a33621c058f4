package repositories

import (
	"context"

	"github.com/Prince5598/Cloud-Storage/models"

	"gorm.io/gorm"
)

type TxManager interface {
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type UserRepository interface {
	CountByEmail(ctx context.Context, email string) (int64, error)
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (models.User, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID string) (models.User, error)
}

// FileQuery is an equality predicate over the files table. Nil pointer
// fields are ignored; RootOnly selects parent_id IS NULL.
type FileQuery struct {
	OwnerID   string
	ID        string
	ParentID  *string
	RootOnly  bool
	IsFolder  *bool
	IsTrash   *bool
	IsStarred *bool
}

// FileRepository is the record store. Every method that takes an owner id
// treats rows owned by someone else as absent.
type FileRepository interface {
	Find(ctx context.Context, tx *gorm.DB, q FileQuery) ([]models.FileNode, error)
	Create(ctx context.Context, tx *gorm.DB, node *models.FileNode) error
	GetByIDAndOwner(ctx context.Context, tx *gorm.DB, id string, ownerID string) (models.FileNode, error)
	ListChildren(ctx context.Context, tx *gorm.DB, ownerID string, parentID string) ([]models.FileNode, error)
	ListTrashed(ctx context.Context, tx *gorm.DB, ownerID string) ([]models.FileNode, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID string) ([]models.FileNode, error)
	UpdateByIDAndOwner(ctx context.Context, tx *gorm.DB, id string, ownerID string, updates map[string]interface{}) (models.FileNode, error)
	DeleteByIDAndOwner(ctx context.Context, tx *gorm.DB, id string, ownerID string) (int64, error)
	DeleteByIDsAndOwner(ctx context.Context, tx *gorm.DB, ids []string, ownerID string) ([]models.FileNode, error)
}

// OrphanBlob is a blob whose cleanup failed and is waiting for a retry.
type OrphanBlob struct {
	Key      string `json:"key"`
	NodeID   string `json:"node_id"`
	OwnerID  string `json:"owner_id"`
	Attempts int    `json:"attempts"`
}

type OrphanBlobQueue interface {
	Push(ctx context.Context, blob OrphanBlob) error
	PopBatch(ctx context.Context, max int) ([]OrphanBlob, error)
	Len(ctx context.Context) (int64, error)
}

type Container struct {
	TxManager TxManager
	Users     UserRepository
	Files     FileRepository
	Orphans   OrphanBlobQueue
}
