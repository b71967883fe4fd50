package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/wepodcaster-backend/services"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{services.ErrNotFound, http.StatusNotFound},
	{services.ErrValidation, http.StatusBadRequest},
	{services.ErrForbidden, http.StatusForbidden},
	{services.ErrGenerationInProgress, http.StatusConflict},
	{services.ErrConflict, http.StatusConflict},
	{services.ErrExternalService, http.StatusBadGateway},
}

// respondError map lỗi domain sang HTTP status, lỗi lạ trả 500 và không lộ chi tiết
func respondError(c *gin.Context, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			msg := strings.TrimSuffix(err.Error(), ": "+e.err.Error())
			c.JSON(e.status, gin.H{"error": msg})
			return
		}
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID không hợp lệ"})
		return uuid.Nil, false
	}
	return id, true
}
