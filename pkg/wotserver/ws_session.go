package wotserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/wostzone/webthing-go/pkg/thing"
)

// drainInterval is the WebSocket queue drain period from section 4.7.
const drainInterval = 200 * time.Millisecond

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// inboundMessage is the {"messageType":..., "data":...} envelope section 4.7
// requires of every inbound text frame.
type inboundMessage struct {
	MessageType string                     `json:"messageType"`
	Data        map[string]json.RawMessage `json:"data"`
}

// wsConn serializes writes to a *websocket.Conn: the drain loop and the
// read-dispatch loop both write error/notification frames concurrently, and
// gorilla/websocket requires callers to coordinate concurrent writers
// themselves.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) writeText(message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, []byte(message))
}

// serveWebSocket upgrades r and runs t's WebSocket session to completion,
// blocking until the connection closes.
//
// Adapted from the original ThingWebSocket/StreamHandler actor: a run_later
// re-arming timer there becomes a time.Ticker driving a dedicated drain
// goroutine here, since Go has no actor-framework equivalent.
func serveWebSocket(t *thing.Thing, generator thing.ActionGenerator, w http.ResponseWriter, r *http.Request) {
	raw, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Warnf("wotserver: websocket upgrade failed: %s", err)
		return
	}
	conn := &wsConn{conn: raw}
	defer raw.Close()

	id := uuid.NewString()
	t.AddSubscriber(id)
	defer t.RemoveSubscriber(id)

	done := make(chan struct{})
	go drainLoop(conn, t, id, done)

	readLoop(conn, t, generator, id)
	close(done)
}

// drainLoop writes every queued message for wsID to conn every
// drainInterval, until done is closed.
func drainLoop(conn *wsConn, t *thing.Thing, wsID string, done <-chan struct{}) {
	ticker := time.NewTicker(drainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			for _, message := range t.DrainQueue(wsID) {
				if err := conn.writeText(message); err != nil {
					return
				}
			}
		}
	}
}

// readLoop reads and dispatches inbound frames until the connection closes
// or a read error occurs.
func readLoop(conn *wsConn, t *thing.Thing, generator thing.ActionGenerator, wsID string) {
	for {
		_, raw, err := conn.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			conn.writeText(thing.ErrorFrameEcho("400 Bad Request", "Parsing request failed", nil))
			continue
		}
		if msg.MessageType == "" || msg.Data == nil {
			conn.writeText(thing.ErrorFrameEcho("400 Bad Request", "Invalid message", json.RawMessage(raw)))
			continue
		}

		switch msg.MessageType {
		case "setProperty":
			dispatchSetProperty(conn, t, msg, raw)
		case "requestAction":
			dispatchRequestAction(conn, t, generator, msg, raw)
		case "addEventSubscription":
			dispatchAddEventSubscription(t, msg, wsID)
		default:
			conn.writeText(thing.ErrorFrameEcho("400 Bad Request", "Invalid message", json.RawMessage(raw)))
		}
	}
}
