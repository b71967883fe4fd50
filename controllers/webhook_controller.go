package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vnkhanh/wepodcaster-backend/services"
	"github.com/vnkhanh/wepodcaster-backend/utils"
)

const (
	SignatureHeader = "X-Webhook-Signature"
	maxWebhookBody  = 1 << 20
)

// identityEvent là payload sự kiện user từ identity provider
type identityEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		ImageURL       string `json:"image_url"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

func (e identityEvent) email() string {
	if len(e.Data.EmailAddresses) == 0 {
		return ""
	}
	return e.Data.EmailAddresses[0].EmailAddress
}

type WebhookController struct {
	users  *services.UserService
	secret string
	log    *zap.Logger
}

func NewWebhookController(users *services.UserService, secret string, log *zap.Logger) *WebhookController {
	return &WebhookController{users: users, secret: secret, log: log}
}

// POST /api/webhooks/identity
func (wc *WebhookController) IdentityEvent(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không đọc được body"})
		return
	}
	if err := utils.VerifyWebhookSignature(wc.secret, body, c.GetHeader(SignatureHeader)); err != nil {
		wc.log.Warn("webhook signature rejected", zap.String("ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Chữ ký webhook không hợp lệ"})
		return
	}

	var event identityEvent
	if err := bindJSONBytes(body, &event); err != nil || event.Data.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payload không hợp lệ"})
		return
	}

	ctx := c.Request.Context()
	switch event.Type {
	case "user.created":
		err = wc.users.CreateUser(ctx, services.CreateUserInput{
			IdentityID: event.Data.ID,
			Email:      event.email(),
			ImageURL:   event.Data.ImageURL,
			Name:       event.Data.FirstName,
		})
	case "user.updated":
		err = wc.users.UpdateUser(ctx, services.UpdateUserInput{
			IdentityID: event.Data.ID,
			ImageURL:   event.Data.ImageURL,
			Email:      event.email(),
		})
	case "user.deleted":
		err = wc.users.DeleteUser(ctx, event.Data.ID)
	default:
		wc.log.Debug("webhook event ignored", zap.String("type", event.Type))
		c.JSON(http.StatusOK, gin.H{"message": "ignored"})
		return
	}
	// gửi lại user.created là bình thường, trả 200 để provider ngừng retry
	if event.Type == "user.created" && errors.Is(err, services.ErrConflict) {
		wc.log.Info("webhook user already exists", zap.String("identity_id", event.Data.ID))
		c.JSON(http.StatusOK, gin.H{"message": "already exists"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	wc.log.Info("webhook event handled", zap.String("type", event.Type), zap.String("identity_id", event.Data.ID))
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
