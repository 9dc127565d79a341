package wotserver

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wostzone/webthing-go/pkg/thing"
)

// handleGetEvents serves GET ".../events": every logged event, across all
// names.
func (s *Server) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	t, ok := s.resolveThing(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, eventDescriptionsOf(t.GetEvents("")))
}

// handleGetEventsByName serves GET ".../events/{name}": the logged events
// restricted to that name.
func (s *Server) handleGetEventsByName(w http.ResponseWriter, r *http.Request) {
	t, ok := s.resolveThing(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	name := mux.Vars(r)["name"]
	writeJSON(w, http.StatusOK, eventDescriptionsOf(t.GetEvents(name)))
}

func eventDescriptionsOf(events []*thing.Event) []map[string]any {
	out := make([]map[string]any, len(events))
	for i, e := range events {
		out[i] = e.AsEventDescription()
	}
	return out
}
