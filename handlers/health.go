package handlers

import (
	"github.com/Prince5598/Cloud-Storage/utils"

	"github.com/gin-gonic/gin"
)

func HealthCheck(c *gin.Context) {
	data := gin.H{
		"status":  "ok",
		"service": "droply",
	}
	if appServices != nil && appServices.Cleanup != nil {
		if pending, err := appServices.Cleanup.PendingOrphans(c.Request.Context()); err == nil {
			data["pendingOrphanBlobs"] = pending
		}
	}
	utils.Success(c, data)
}
