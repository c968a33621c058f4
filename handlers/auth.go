package handlers

import (
	"net/http"

	"github.com/Prince5598/Cloud-Storage/middleware"
	"github.com/Prince5598/Cloud-Storage/services"
	"github.com/Prince5598/Cloud-Storage/utils"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	user, err := getServices().Auth.Register(c.Request.Context(), services.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if respondServiceError(c, err) {
		return
	}
	utils.Created(c, user)
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	out, err := getServices().Auth.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, out)
}

func GetProfile(c *gin.Context) {
	profile, err := getServices().Auth.GetProfile(c.Request.Context(), middleware.CurrentUserID(c))
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, profile)
}
