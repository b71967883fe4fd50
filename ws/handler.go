package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vnkhanh/wepodcaster-backend/utils"
)

type Handler struct {
	hub      *Hub
	tokens   *utils.TokenManager
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// allowedOrigins rỗng thì chấp nhận mọi origin
func NewHandler(hub *Hub, tokens *utils.TokenManager, allowedOrigins []string, log *zap.Logger) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		hub:    hub,
		tokens: tokens,
		log:    log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

// HandleUserWebSocket: GET /ws/user?token=
func (h *Handler) HandleUserWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Thiếu token"})
		return
	}
	claims, err := h.tokens.VerifyToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token không hợp lệ hoặc hết hạn"})
		return
	}
	identityID := claims.IdentityID

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	client := h.hub.RegisterUser(identityID, conn)
	defer h.hub.UnregisterUser(identityID, client)
	h.log.Info("user ws connected", zap.String("identity_id", identityID))

	h.hub.sendToClient(client, Message{Type: TypeConnected, Data: gin.H{"message": "Connected to user WebSocket"}})

	// client không gửi gì, chỉ đọc để phát hiện ngắt kết nối
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.log.Info("user ws disconnected", zap.String("identity_id", identityID))
}
