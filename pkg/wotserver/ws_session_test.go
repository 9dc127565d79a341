package wotserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wostzone/webthing-go/pkg/thing"
)

// dialWebSocket starts an httptest.Server whose only handler upgrades every
// request to a WebSocket session on th, and returns a connected client.
func dialWebSocket(t *testing.T, th *thing.Thing, generator thing.ActionGenerator) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serveWebSocket(th, generator, w, r)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendFrame(t *testing.T, conn *websocket.Conn, messageType string, data map[string]any) {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"messageType": messageType, "data": data})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, raw))
}

func readFrame(t *testing.T, conn *websocket.Conn, timeout time.Duration) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(timeout)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var frame map[string]any
	require.NoError(t, json.Unmarshal(raw, &frame))
	return frame
}

func TestWebSocketSetPropertyRoundTrip(t *testing.T) {
	th := newLampThing()
	conn := dialWebSocket(t, th, stubGenerator{})

	sendFrame(t, conn, "setProperty", map[string]any{"on": false})

	frame := readFrame(t, conn, 2*time.Second)
	assert.Equal(t, "propertyStatus", frame["messageType"])
	data := frame["data"].(map[string]any)
	assert.Equal(t, false, data["on"])

	p, _ := th.GetProperty("on")
	assert.Equal(t, false, p.GetValue())
}

func TestWebSocketRequestActionRoundTrip(t *testing.T) {
	th := newLampThing()
	conn := dialWebSocket(t, th, stubGenerator{})

	sendFrame(t, conn, "requestAction", map[string]any{
		"fade": map[string]any{"input": map[string]any{"brightness": 80, "duration": 1}},
	})

	var sawCompleted bool
	for i := 0; i < 10 && !sawCompleted; i++ {
		frame := readFrame(t, conn, 2*time.Second)
		if frame["messageType"] != "actionStatus" {
			continue
		}
		data := frame["data"].(map[string]any)
		fade, ok := data["fade"].(map[string]any)
		if ok && fade["status"] == "completed" {
			sawCompleted = true
		}
	}
	assert.True(t, sawCompleted, "expected an actionStatus frame reporting completion")

	brightness, _ := th.GetProperty("brightness")
	assert.EqualValues(t, 80, brightness.GetValue())
}

func TestWebSocketAddEventSubscriptionDeliversEvent(t *testing.T) {
	th := newLampThing()
	conn := dialWebSocket(t, th, stubGenerator{})

	sendFrame(t, conn, "addEventSubscription", map[string]any{"overheated": map[string]any{}})
	time.Sleep(50 * time.Millisecond) // let the subscription land before the event fires
	th.AddEvent(thing.NewEvent("overheated", 102))

	frame := readFrame(t, conn, 2*time.Second)
	assert.Equal(t, "event", frame["messageType"])
	data := frame["data"].(map[string]any)
	assert.Contains(t, data, "overheated")
}

func TestWebSocketMalformedFrameGetsErrorResponse(t *testing.T) {
	th := newLampThing()
	conn := dialWebSocket(t, th, stubGenerator{})

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	frame := readFrame(t, conn, 2*time.Second)
	assert.Equal(t, "error", frame["messageType"])
	data := frame["data"].(map[string]any)
	assert.Equal(t, "400 Bad Request", data["status"])
}
