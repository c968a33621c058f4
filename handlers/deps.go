package handlers

import (
	"errors"
	"net/http"

	"github.com/Prince5598/Cloud-Storage/services"
	"github.com/Prince5598/Cloud-Storage/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var appServices *services.Container

func SetServices(container *services.Container) {
	appServices = container
}

func getServices() *services.Container {
	if appServices == nil {
		panic("services container is not initialized")
	}
	return appServices
}

func respondServiceError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	var appErr *services.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPCode >= http.StatusInternalServerError {
			log.Error().Err(appErr).Str("path", c.Request.URL.Path).Msg("request failed")
		}
		if appErr.Data != nil {
			utils.ErrorWithData(c, appErr.HTTPCode, appErr.Message, appErr.Data)
		} else {
			utils.Error(c, appErr.HTTPCode, appErr.Message)
		}
		return true
	}
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled error")
	utils.Error(c, http.StatusInternalServerError, "internal error")
	return true
}
