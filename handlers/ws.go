package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/finvault/banking-api/models"
	"github.com/finvault/banking-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

// WSHandler pushes alerts to connected clients over WebSocket. Sessions are
// keyed by user so alerts only reach their owner.
type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024

	// Keep-alive so cloud load balancers don't drop idle sockets.
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		userID, _ := s.Get("user_id")
		log.Printf("✅ Alert feed connected for user: %v", userID)
	})

	m.HandleDisconnect(func(s *melody.Session) {
		userID, _ := s.Get("user_id")
		log.Printf("🔌 Alert feed disconnected for user: %v", userID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket error: %v", err)
	})

	return &WSHandler{M: m}
}

// HandleWS upgrades the request to a WebSocket session. Browsers cannot set
// an Authorization header on WebSocket upgrades, so the token arrives as a
// query parameter instead.
func (h *WSHandler) HandleWS(c *gin.Context) {
	token := c.Query("token")
	userID, err := utils.ParseAccessToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	keys := map[string]interface{}{"user_id": userID}
	if err := h.M.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
	}
}

// BroadcastAlert sends an alert to every session the user has open.
func (h *WSHandler) BroadcastAlert(userID string, alert *models.Alert) {
	payload, err := json.Marshal(gin.H{"type": "alert", "alert": alert})
	if err != nil {
		log.Printf("⚠️ Failed to encode alert %s: %v", alert.ID, err)
		return
	}

	err = h.M.BroadcastFilter(payload, func(s *melody.Session) bool {
		id, exists := s.Get("user_id")
		return exists && id == userID
	})
	if err != nil {
		log.Printf("⚠️ Error broadcasting alert to user %s: %v", userID, err)
	}
}
