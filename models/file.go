package models

import "time"

// FileNode is a file or folder in an owner's tree. Folders carry no blob
// locators; ParentID nil means the node sits at the root of the owner's tree.
type FileNode struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID       string    `gorm:"type:varchar(255);not null;index:idx_files_owner_parent" json:"userId"`
	ParentID     *string   `gorm:"type:varchar(36);index:idx_files_owner_parent" json:"parentId"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	IsFolder     bool      `gorm:"not null;default:false" json:"isFolder"`
	Path         string    `gorm:"type:varchar(1000)" json:"path"`
	FileURL      string    `gorm:"type:varchar(2000)" json:"fileUrl"`
	ThumbnailURL string    `gorm:"type:varchar(2000)" json:"thumbnailUrl,omitempty"`
	Size         int64     `gorm:"not null;default:0" json:"size"`
	Type         string    `gorm:"type:varchar(255)" json:"type"`
	IsStarred    bool      `gorm:"not null;default:false" json:"isStarred"`
	IsTrash      bool      `gorm:"not null;default:false;index" json:"isTrash"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (FileNode) TableName() string {
	return "files"
}

// FolderType is stored in Type for folder records.
const FolderType = "folder"
