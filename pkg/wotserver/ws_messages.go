package wotserver

import (
	"encoding/json"

	"github.com/wostzone/webthing-go/pkg/thing"
)

// requestActionParams is the per-key value of a requestAction message's
// data object: {"<name>": {"input": ...}}.
type requestActionParams struct {
	Input map[string]any `json:"input"`
}

// dispatchSetProperty implements section 4.7's setProperty handling: for
// each (name, value) pair in the message data, set it on t; on the first
// error, send one error frame and stop processing the rest of this message.
func dispatchSetProperty(conn *wsConn, t *thing.Thing, msg inboundMessage, raw []byte) {
	for name, rawValue := range msg.Data {
		var value any
		if err := json.Unmarshal(rawValue, &value); err != nil {
			conn.writeText(thing.ErrorFrameEcho("400 Bad Request", "Parsing request failed", json.RawMessage(raw)))
			return
		}
		if err := t.SetProperty(name, value); err != nil {
			conn.writeText(thing.ErrorFrameEcho("400 Bad Request", err.Error(), json.RawMessage(raw)))
			return
		}
	}
}

// dispatchRequestAction implements section 4.7's requestAction handling:
// for each (name, params) pair, generate the action via generator, attach it
// to t, and start it; on any failure, send one error frame and stop.
func dispatchRequestAction(conn *wsConn, t *thing.Thing, generator thing.ActionGenerator, msg inboundMessage, raw []byte) {
	for name, rawParams := range msg.Data {
		var params requestActionParams
		if err := json.Unmarshal(rawParams, &params); err != nil {
			conn.writeText(thing.ErrorFrameEcho("400 Bad Request", "Invalid action request", json.RawMessage(raw)))
			return
		}

		perform, cancel, err := generator.Generate(t, name, params.Input)
		if err != nil {
			conn.writeText(thing.ErrorFrameEcho("400 Bad Request", "Invalid action request", json.RawMessage(raw)))
			return
		}

		action := thing.NewAction(name, params.Input, perform, cancel)
		if err := t.AddAction(action, params.Input); err != nil {
			conn.writeText(thing.ErrorFrameEcho("400 Bad Request", "Failed to start action: "+err.Error(), json.RawMessage(raw)))
			return
		}
		if err := t.StartAction(name, action.GetID()); err != nil {
			conn.writeText(thing.ErrorFrameEcho("400 Bad Request", "Failed to start action: "+err.Error(), json.RawMessage(raw)))
			return
		}
	}
}

// dispatchAddEventSubscription implements section 4.7's
// addEventSubscription handling: for each key in the message data, subscribe
// wsID to that event name on t.
func dispatchAddEventSubscription(t *thing.Thing, msg inboundMessage, wsID string) {
	for name := range msg.Data {
		t.AddEventSubscriber(name, wsID)
	}
}
