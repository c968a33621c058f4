package repositories

import (
	"context"

	"github.com/Prince5598/Cloud-Storage/models"

	"gorm.io/gorm"
)

// deleteChunkSize bounds the IN list of a single bulk delete statement.
const deleteChunkSize = 500

type GormFileRepository struct {
	db *gorm.DB
}

func NewGormFileRepository(db *gorm.DB) *GormFileRepository {
	return &GormFileRepository{db: db}
}

func (r *GormFileRepository) applyQuery(db *gorm.DB, q FileQuery) *gorm.DB {
	db = db.Where("user_id = ?", q.OwnerID)
	if q.ID != "" {
		db = db.Where("id = ?", q.ID)
	}
	if q.RootOnly {
		db = db.Where("parent_id IS NULL")
	} else if q.ParentID != nil {
		db = db.Where("parent_id = ?", *q.ParentID)
	}
	if q.IsFolder != nil {
		db = db.Where("is_folder = ?", *q.IsFolder)
	}
	if q.IsTrash != nil {
		db = db.Where("is_trash = ?", *q.IsTrash)
	}
	if q.IsStarred != nil {
		db = db.Where("is_starred = ?", *q.IsStarred)
	}
	return db
}

func (r *GormFileRepository) Find(ctx context.Context, tx *gorm.DB, q FileQuery) ([]models.FileNode, error) {
	var nodes []models.FileNode
	err := r.applyQuery(useTx(ctx, r.db, tx).Model(&models.FileNode{}), q).
		Order("is_folder DESC, name ASC").
		Find(&nodes).Error
	return nodes, err
}

func (r *GormFileRepository) Create(ctx context.Context, tx *gorm.DB, node *models.FileNode) error {
	return useTx(ctx, r.db, tx).Create(node).Error
}

func (r *GormFileRepository) GetByIDAndOwner(ctx context.Context, tx *gorm.DB, id string, ownerID string) (models.FileNode, error) {
	var node models.FileNode
	err := useTx(ctx, r.db, tx).Where("id = ? AND user_id = ?", id, ownerID).First(&node).Error
	return node, err
}

func (r *GormFileRepository) ListChildren(ctx context.Context, tx *gorm.DB, ownerID string, parentID string) ([]models.FileNode, error) {
	var nodes []models.FileNode
	err := useTx(ctx, r.db, tx).Where("parent_id = ? AND user_id = ?", parentID, ownerID).Find(&nodes).Error
	return nodes, err
}

func (r *GormFileRepository) ListTrashed(ctx context.Context, tx *gorm.DB, ownerID string) ([]models.FileNode, error) {
	var nodes []models.FileNode
	err := useTx(ctx, r.db, tx).Where("user_id = ? AND is_trash = ?", ownerID, true).Find(&nodes).Error
	return nodes, err
}

func (r *GormFileRepository) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID string) ([]models.FileNode, error) {
	var nodes []models.FileNode
	err := useTx(ctx, r.db, tx).Where("user_id = ?", ownerID).Order("created_at DESC").Find(&nodes).Error
	return nodes, err
}

// UpdateByIDAndOwner applies updates and returns the row as stored afterwards.
// gorm.ErrRecordNotFound is returned when no owned row matches.
func (r *GormFileRepository) UpdateByIDAndOwner(ctx context.Context, tx *gorm.DB, id string, ownerID string, updates map[string]interface{}) (models.FileNode, error) {
	db := useTx(ctx, r.db, tx)
	if _, err := r.GetByIDAndOwner(ctx, db, id, ownerID); err != nil {
		return models.FileNode{}, err
	}
	if err := db.Model(&models.FileNode{}).Where("id = ? AND user_id = ?", id, ownerID).Updates(updates).Error; err != nil {
		return models.FileNode{}, err
	}
	return r.GetByIDAndOwner(ctx, db, id, ownerID)
}

func (r *GormFileRepository) DeleteByIDAndOwner(ctx context.Context, tx *gorm.DB, id string, ownerID string) (int64, error) {
	result := useTx(ctx, r.db, tx).Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.FileNode{})
	return result.RowsAffected, result.Error
}

// DeleteByIDsAndOwner removes every owned row in ids and returns the rows that
// were present. Rows already gone are skipped silently.
func (r *GormFileRepository) DeleteByIDsAndOwner(ctx context.Context, tx *gorm.DB, ids []string, ownerID string) ([]models.FileNode, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var removed []models.FileNode
	run := func(db *gorm.DB) error {
		for start := 0; start < len(ids); start += deleteChunkSize {
			end := start + deleteChunkSize
			if end > len(ids) {
				end = len(ids)
			}
			chunk := ids[start:end]

			var found []models.FileNode
			if err := db.Where("user_id = ? AND id IN ?", ownerID, chunk).Find(&found).Error; err != nil {
				return err
			}
			if len(found) == 0 {
				continue
			}
			if err := db.Where("user_id = ? AND id IN ?", ownerID, chunk).Delete(&models.FileNode{}).Error; err != nil {
				return err
			}
			removed = append(removed, found...)
		}
		return nil
	}

	if tx != nil {
		return removed, run(tx)
	}
	if err := r.db.WithContext(ctx).Transaction(run); err != nil {
		return nil, err
	}
	return removed, nil
}
