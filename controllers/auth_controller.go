package controllers

import (
	"context"
	"net/http"

	"cloud.google.com/go/auth/credentials/idtoken"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vnkhanh/wepodcaster-backend/services"
	"github.com/vnkhanh/wepodcaster-backend/utils"
)

// IDTokenValidator khớp chữ ký idtoken.Validate, test thay bằng fake
type IDTokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

type AuthController struct {
	users    *services.UserService
	tokens   *utils.TokenManager
	validate IDTokenValidator
	audience string
	log      *zap.Logger
}

func NewAuthController(users *services.UserService, tokens *utils.TokenManager, validate IDTokenValidator, googleClientID string, log *zap.Logger) *AuthController {
	if validate == nil {
		validate = idtoken.Validate
	}
	return &AuthController{users: users, tokens: tokens, validate: validate, audience: googleClientID, log: log}
}

type GoogleLoginInput struct {
	IDToken string `json:"id_token" binding:"required"`
}

// POST /api/auth/google
func (ac *AuthController) GoogleLogin(c *gin.Context) {
	var input GoogleLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if ac.audience == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google login chưa được cấu hình"})
		return
	}

	// Xác minh token với đúng GOOGLE_CLIENT_ID
	payload, err := ac.validate(c.Request.Context(), input.IDToken, ac.audience)
	if err != nil {
		ac.log.Warn("google id token rejected", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token Google không hợp lệ"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	user, err := ac.users.EnsureUser(c.Request.Context(), services.CreateUserInput{
		IdentityID: "google_" + payload.Subject,
		Email:      email,
		ImageURL:   picture,
		Name:       name,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := ac.tokens.GenerateToken(user.IdentityID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}
