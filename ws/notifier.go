package ws

import (
	"github.com/vnkhanh/wepodcaster-backend/playback"
	"github.com/vnkhanh/wepodcaster-backend/services"
)

const (
	TypeConnected  = "connected"
	TypeToast      = "toast"
	TypeGeneration = "generation"
	TypePlayback   = "playback"
)

// Notifier đẩy toast, trạng thái generate và playback của user qua hub
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) Toast(identityID string, toast services.Toast) {
	n.hub.SendToUser(identityID, Message{Type: TypeToast, Data: toast})
}

func (n *Notifier) DraftChanged(identityID string, snapshot services.DraftSnapshot) {
	n.hub.SendToUser(identityID, Message{Type: TypeGeneration, Data: snapshot})
}

// Playback dùng làm hook onChange của playback.Registry; nil là đã dừng phát
func (n *Notifier) Playback(identityID string, session *playback.Session) {
	n.hub.SendToUser(identityID, Message{Type: TypePlayback, Data: session})
}
