package handlers

import (
	"net/http"

	"github.com/Prince5598/Cloud-Storage/middleware"
	"github.com/Prince5598/Cloud-Storage/services"
	"github.com/Prince5598/Cloud-Storage/utils"

	"github.com/gin-gonic/gin"
)

type MoveFileRequest struct {
	ParentID *string `json:"parentId"`
}

// ListFiles serves the dashboard listing: ?view=home|starred|trash&parentId=&q=
func ListFiles(c *gin.Context) {
	out, err := getServices().File.List(c.Request.Context(), services.ListInput{
		OwnerID:  middleware.CurrentUserID(c),
		View:     c.Query("view"),
		ParentID: c.Query("parentId"),
		Query:    c.Query("q"),
	})
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, out)
}

func GetFile(c *gin.Context) {
	node, err := getServices().File.Get(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, node)
}

func GetBreadcrumbs(c *gin.Context) {
	crumbs, err := getServices().File.Breadcrumbs(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, crumbs)
}

func UploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "no file provided")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "failed to read upload")
		return
	}
	defer src.Close()

	node, err := getServices().File.Upload(c.Request.Context(), services.UploadInput{
		OwnerID:     middleware.CurrentUserID(c),
		ParentID:    c.PostForm("parentId"),
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Content:     src,
	})
	if respondServiceError(c, err) {
		return
	}
	utils.SuccessWithMessage(c, "file uploaded", node)
}

func MoveFile(c *gin.Context) {
	var req MoveFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	parentID := ""
	if req.ParentID != nil {
		parentID = *req.ParentID
	}

	node, err := getServices().File.Move(c.Request.Context(), services.MoveInput{
		OwnerID:  middleware.CurrentUserID(c),
		ID:       c.Param("id"),
		ParentID: parentID,
	})
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, node)
}

func ToggleStar(c *gin.Context) {
	node, err := getServices().Lifecycle.ToggleStar(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, node)
}

func ToggleTrash(c *gin.Context) {
	node, err := getServices().Lifecycle.ToggleTrash(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, node)
}

func DeleteFile(c *gin.Context) {
	deletedID, err := getServices().Lifecycle.DeletePermanent(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if respondServiceError(c, err) {
		return
	}
	utils.SuccessWithMessage(c, "file permanently deleted", gin.H{"deletedId": deletedID})
}

func EmptyTrash(c *gin.Context) {
	out, err := getServices().Lifecycle.EmptyTrash(c.Request.Context(), middleware.CurrentUserID(c))
	if respondServiceError(c, err) {
		return
	}
	utils.SuccessWithMessage(c, "trash emptied", out)
}
