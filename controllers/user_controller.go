package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/wepodcaster-backend/services"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// GET /api/users/top
func (uc *UserController) GetTopUsers(c *gin.Context) {
	users, err := uc.users.GetTopUserByPodcastCount(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GET /api/users/:identityId
func (uc *UserController) GetUser(c *gin.Context) {
	user, err := uc.users.GetUserByID(c.Request.Context(), c.Param("identityId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
