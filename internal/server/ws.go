package server

import (
	"net/http"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"ordix/internal/wshub"
)

// handleWebSocket streams the caller's events until the connection closes.
// Clients only listen; anything they send is discarded.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	pid := playerID(w, r)
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket accept failed", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	ctx := conn.CloseRead(r.Context())
	client := wshub.NewClient(pid, conn)
	s.hub.Register(client)
	defer s.hub.Unregister(client)

	s.logger.Debug("WebSocket connected", zap.String("playerID", pid))
	client.WritePump(ctx)
	conn.Close(websocket.StatusNormalClosure, "")
}
