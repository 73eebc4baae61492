package client

import (
	"encoding/json"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/aizatop/alive/internal/pkg/errs"
	"github.com/aizatop/alive/internal/pkg/logx"
)

// Subscription is a handle on one realtime feed connection. Unsubscribe is
// idempotent and safe on a nil handle, so teardown paths never need to
// track whether the subscription was ever established.
type Subscription struct {
	conn *websocket.Conn
	once sync.Once
	done chan struct{}
}

// Unsubscribe closes the feed connection and stops the delivery goroutine.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.done != nil {
			close(s.done)
		}
		if s.conn != nil {
			s.conn.Close()
		}
	})
}

// feedFrame is one insert event as written by the service.
type feedFrame struct {
	Table  string          `json:"table"`
	Record json.RawMessage `json:"record"`
}

// subscribe dials the realtime endpoint, sends the subscribe frame, and
// delivers each matching record to handle from a dedicated goroutine.
func (c *Client) subscribe(table, filterColumn, filterValue string, handle func(json.RawMessage)) (*Subscription, *errs.CustomError) {
	wsURL, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, errs.NewError(errs.ErrConnectionFailed)
	}
	switch wsURL.Scheme {
	case "https":
		wsURL.Scheme = "wss"
	default:
		wsURL.Scheme = "ws"
	}
	wsURL.Path = "/realtime"
	wsURL.RawQuery = url.Values{"apikey": {c.anonKey}}.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		logx.Warn("Failed to connect realtime feed", "table", table, "error", err)
		return nil, errs.NewError(errs.ErrConnectionFailed)
	}

	frame := map[string]string{"table": table}
	if filterColumn != "" {
		frame["filterColumn"] = filterColumn
		frame["filterValue"] = filterValue
	}
	if err := conn.WriteJSON(frame); err != nil {
		conn.Close()
		return nil, errs.NewError(errs.ErrSubscriptionFailed)
	}

	sub := &Subscription{conn: conn, done: make(chan struct{})}

	go func() {
		for {
			var ev feedFrame
			if err := conn.ReadJSON(&ev); err != nil {
				select {
				case <-sub.done:
				default:
					logx.Warn("Realtime feed connection lost", "table", table, "error", err)
				}
				return
			}
			handle(ev.Record)
		}
	}()

	return sub, nil
}

// SubscribeToRoomMessages delivers every new community room message.
func (c *Client) SubscribeToRoomMessages(handler func(RoomMessage)) (*Subscription, *errs.CustomError) {
	return c.subscribe("room_messages", "", "", func(record json.RawMessage) {
		var message RoomMessage
		if err := json.Unmarshal(record, &message); err != nil {
			logx.Warn("Dropping malformed room message from feed", "error", err)
			return
		}
		handler(message)
	})
}

// SubscribeToMessages delivers new direct messages addressed to the given
// user.
func (c *Client) SubscribeToMessages(recipientID string, handler func(DirectMessage)) (*Subscription, *errs.CustomError) {
	return c.subscribe("messages", "recipient_id", recipientID, func(record json.RawMessage) {
		var message DirectMessage
		if err := json.Unmarshal(record, &message); err != nil {
			logx.Warn("Dropping malformed direct message from feed", "error", err)
			return
		}
		handler(message)
	})
}

// SubscribeToFriendRequests delivers new friend requests aimed at the
// given user.
func (c *Client) SubscribeToFriendRequests(userID string, handler func(Friend)) (*Subscription, *errs.CustomError) {
	return c.subscribe("friends", "friend_id", userID, func(record json.RawMessage) {
		var request Friend
		if err := json.Unmarshal(record, &request); err != nil {
			logx.Warn("Dropping malformed friend request from feed", "error", err)
			return
		}
		handler(request)
	})
}
