package services

import (
	"context"
	"errors"

	"github.com/Prince5598/Cloud-Storage/models"
	"github.com/Prince5598/Cloud-Storage/repositories"
	"github.com/Prince5598/Cloud-Storage/view"

	"gorm.io/gorm"
)

// TreeResolver answers structural questions about one owner's tree. Every
// walk keeps a visited set, so corrupt parent links end the walk instead of
// looping.
type TreeResolver struct {
	files repositories.FileRepository
}

func NewTreeResolver(files repositories.FileRepository) TreeResolver {
	return TreeResolver{files: files}
}

// Descendants returns every node below folderID in discovery order: a node
// always appears after its parent. The folder itself is not included.
func (r TreeResolver) Descendants(ctx context.Context, tx *gorm.DB, ownerID string, folderID string) ([]models.FileNode, error) {
	seen := map[string]struct{}{folderID: {}}
	stack := []string{folderID}
	var out []models.FileNode

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := r.files.ListChildren(ctx, tx, ownerID, id)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if _, ok := seen[child.ID]; ok {
				continue
			}
			seen[child.ID] = struct{}{}
			out = append(out, child)
			if child.IsFolder {
				stack = append(stack, child.ID)
			}
		}
	}
	return out, nil
}

// Breadcrumbs returns the folder chain from the root down to folderID. The
// walk stops at a missing parent or one that is not a folder.
func (r TreeResolver) Breadcrumbs(ctx context.Context, tx *gorm.DB, ownerID string, folderID string) ([]view.Crumb, error) {
	var crumbs []view.Crumb
	seen := map[string]struct{}{}
	current := folderID

	for current != "" {
		if _, ok := seen[current]; ok {
			break
		}
		seen[current] = struct{}{}

		node, err := r.files.GetByIDAndOwner(ctx, tx, current, ownerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return nil, err
		}
		if !node.IsFolder {
			break
		}
		crumbs = append(crumbs, view.Crumb{ID: node.ID, Name: node.Name})
		if node.ParentID == nil {
			break
		}
		current = *node.ParentID
	}

	for i, j := 0, len(crumbs)-1; i < j; i, j = i+1, j-1 {
		crumbs[i], crumbs[j] = crumbs[j], crumbs[i]
	}
	return crumbs, nil
}

// IsAncestor reports whether ancestorID is nodeID or lies on its parent chain.
func (r TreeResolver) IsAncestor(ctx context.Context, tx *gorm.DB, ownerID string, ancestorID string, nodeID string) (bool, error) {
	seen := map[string]struct{}{}
	current := nodeID

	for current != "" {
		if current == ancestorID {
			return true, nil
		}
		if _, ok := seen[current]; ok {
			return false, nil
		}
		seen[current] = struct{}{}

		node, err := r.files.GetByIDAndOwner(ctx, tx, current, ownerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		if node.ParentID == nil {
			return false, nil
		}
		current = *node.ParentID
	}
	return false, nil
}
