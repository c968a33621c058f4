package handlers

import (
	"net/http"

	"github.com/Prince5598/Cloud-Storage/middleware"
	"github.com/Prince5598/Cloud-Storage/services"
	"github.com/Prince5598/Cloud-Storage/utils"

	"github.com/gin-gonic/gin"
)

type CreateFolderRequest struct {
	Name     string  `json:"name" binding:"required"`
	ParentID *string `json:"parentId"`
}

func CreateFolder(c *gin.Context) {
	var req CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "folder name is required")
		return
	}
	parentID := ""
	if req.ParentID != nil {
		parentID = *req.ParentID
	}

	folder, err := getServices().File.CreateFolder(c.Request.Context(), services.CreateFolderInput{
		OwnerID:  middleware.CurrentUserID(c),
		Name:     req.Name,
		ParentID: parentID,
	})
	if respondServiceError(c, err) {
		return
	}
	utils.SuccessWithMessage(c, "folder created", gin.H{"folder": folder})
}
