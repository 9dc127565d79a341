package thing

import "encoding/json"

// Message type tags used on the wire for WebSocket text frames, both
// outbound notifications and inbound error frames.
const (
	messageTypePropertyStatus = "propertyStatus"
	messageTypeActionStatus   = "actionStatus"
	messageTypeEvent          = "event"
	messageTypeError          = "error"
)

// marshalMessage renders a {"messageType": ..., "data": ...} envelope to a
// JSON string. Marshal failures on an already-decoded data value are not
// expected; on the rare failure, an error frame with the marshal error
// itself is produced instead of panicking or silently dropping the message.
func marshalMessage(messageType string, data any) string {
	raw, err := json.Marshal(map[string]any{
		"messageType": messageType,
		"data":        data,
	})
	if err != nil {
		raw, _ = json.Marshal(map[string]any{
			"messageType": messageTypeError,
			"data":        map[string]any{"status": "500 Internal Server Error", "message": err.Error()},
		})
	}
	return string(raw)
}

func propertyStatusMessage(name string, value any) string {
	return marshalMessage(messageTypePropertyStatus, map[string]any{name: value})
}

func actionStatusMessage(description map[string]any) string {
	return marshalMessage(messageTypeActionStatus, description)
}

func eventMessage(description map[string]any) string {
	return marshalMessage(messageTypeEvent, description)
}

// ErrorFrame renders the WebSocket {"messageType":"error","data":{"status":
// ...,"message":...}} envelope specified in section 4.7, for use by the
// WebSocket session layer when it rejects an inbound frame.
func ErrorFrame(status, message string) string {
	return marshalMessage(messageTypeError, map[string]any{
		"status":  status,
		"message": message,
	})
}

// ErrorFrameEcho is ErrorFrame with the offending request value echoed back
// under "request", matching the original protocol's bad_request helper. Pass
// a nil request to get the plain two-field envelope.
func ErrorFrameEcho(status, message string, request any) string {
	data := map[string]any{
		"status":  status,
		"message": message,
	}
	if request != nil {
		data["request"] = request
	}
	return marshalMessage(messageTypeError, data)
}
