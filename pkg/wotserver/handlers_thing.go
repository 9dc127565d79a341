package wotserver

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
)

const (
	securityScheme = "nosec_sc"
)

// handleGetThings serves GET "<base>" for a multi-Thing server: an array of
// every Thing's enriched description, in mount order.
func (s *Server) handleGetThings(w http.ResponseWriter, r *http.Request) {
	things := s.things.Things()
	descriptions := make([]map[string]any, len(things))
	for i, t := range things {
		descriptions[i] = enrichThingDescription(t.AsThingDescription(), r)
	}
	writeJSON(w, http.StatusOK, descriptions)
}

// handleGetThing serves GET "<base>[/{thingID}]": a WebSocket upgrade if the
// request asks for one, otherwise the Thing's enriched description.
func (s *Server) handleGetThing(w http.ResponseWriter, r *http.Request) {
	t, ok := s.resolveThing(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if websocket.IsWebSocketUpgrade(r) {
		serveWebSocket(t, s.generator, w, r)
		return
	}

	writeJSON(w, http.StatusOK, enrichThingDescription(t.AsThingDescription(), r))
}

// enrichThingDescription adds the request-time fields section 6 specifies:
// "base", "securityDefinitions"/"security", and an "alternate" link to the
// WebSocket endpoint.
func enrichThingDescription(td map[string]any, r *http.Request) map[string]any {
	httpScheme, wsScheme := "http", "ws"
	if r.TLS != nil {
		httpScheme, wsScheme = "https", "wss"
	}

	base := httpScheme + "://" + r.Host + r.URL.Path
	wsHref := wsScheme + "://" + r.Host + r.URL.Path

	td["base"] = base
	td["securityDefinitions"] = map[string]any{securityScheme: map[string]any{"scheme": "nosec"}}
	td["security"] = securityScheme

	link := map[string]any{"rel": "alternate", "href": wsHref}
	switch existing := td["links"].(type) {
	case []any:
		td["links"] = append(existing, link)
	default:
		td["links"] = []any{link}
	}
	return td
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
