/*
Package handler provides the WebSocket endpoint for the realtime feed.

A connection carries exactly one subscription: the client's first frame
names a table and an optional one-column equality filter, then the server
streams matching insert events until either side closes.
*/
package handler

import (
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aizatop/alive/internal/app/realtime"
	"github.com/aizatop/alive/internal/pkg/errs"
	"github.com/aizatop/alive/internal/pkg/limiter"
	"github.com/aizatop/alive/internal/pkg/logx"
	"github.com/aizatop/alive/internal/pkg/randx"
	"github.com/aizatop/alive/internal/pkg/resp"
)

const (
	// timeout for writing a frame to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time to wait for a Pong before the connection is dead.
	pongWait = 60 * time.Second

	// frequency of server Ping frames.
	pingPeriod = (pongWait * 9) / 10

	// maximum size of the subscribe frame.
	maxFrameSize = 1024
)

// subscribableTables lists the tables the feed exposes.
var subscribableTables = map[string]struct{}{
	"users":         {},
	"visits":        {},
	"friends":       {},
	"messages":      {},
	"room_messages": {},
}

// SubscribeFrame is the first and only frame a feed client sends.
type SubscribeFrame struct {
	Table        string `json:"table"`
	FilterColumn string `json:"filterColumn,omitempty"`
	FilterValue  string `json:"filterValue,omitempty"`
}

// HandleRealtimeFeed upgrades the connection and streams insert events for
// the requested subscription.
func HandleRealtimeFeed(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("Realtime feed connection rejected: rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		if r.URL.Query().Get("apikey") != deps.Config.AnonKey {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade realtime feed connection")
			return
		}

		conn.SetReadLimit(maxFrameSize)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})

		var frame SubscribeFrame
		if err := conn.ReadJSON(&frame); err != nil {
			logx.Warn("Realtime feed client sent an invalid subscribe frame", "error", err)
			conn.Close()
			return
		}

		if _, ok := subscribableTables[frame.Table]; !ok {
			logx.Warn("Realtime feed subscribe rejected: unknown table", "table", frame.Table)
			conn.Close()
			return
		}

		sub := realtime.NewSubscriber(randx.MessageID(), frame.Table, frame.FilterColumn, frame.FilterValue)
		deps.Hub.Register(sub)

		logx.Info("Realtime feed subscription established",
			"subscription_id", sub.ID, "table", frame.Table, "filter_column", frame.FilterColumn)

		go writeFeed(conn, sub)
		readUntilClosed(conn, sub, deps.Hub)
	}
}

// readUntilClosed drains the connection until the peer goes away, then
// removes the subscription. Feed clients send nothing after the subscribe
// frame, so every read is either a control frame or a close.
func readUntilClosed(conn *websocket.Conn, sub *realtime.Subscriber, hub *realtime.Hub) {
	defer func() {
		hub.Unregister(sub.ID)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logx.Info("Realtime feed connection closed", "subscription_id", sub.ID, "error", err)
			}
			return
		}
	}
}

// writeFeed pumps matched events and periodic pings to the client.
func writeFeed(conn *websocket.Conn, sub *realtime.Subscriber) {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case ev, ok := <-sub.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteJSON(ev); err != nil {
				logx.Warn("Error writing feed event", "subscription_id", sub.ID, "error", err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
