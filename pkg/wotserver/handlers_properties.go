package wotserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wostzone/webthing-go/pkg/thing"
)

// handleGetProperties serves GET ".../properties": name -> current value for
// every property on the resolved Thing.
func (s *Server) handleGetProperties(w http.ResponseWriter, r *http.Request) {
	t, ok := s.resolveThing(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	values := map[string]any{}
	for name, p := range t.GetProperties() {
		values[name] = p.GetValue()
	}
	writeJSON(w, http.StatusOK, values)
}

// handleGetProperty serves GET ".../properties/{name}": {name: value}, or
// 404 if the property doesn't exist.
func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	t, ok := s.resolveThing(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	name := mux.Vars(r)["name"]
	p, ok := t.GetProperty(name)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{name: p.GetValue()})
}

// handlePutProperty serves PUT ".../properties/{name}": the body must be a
// JSON object containing the key "name"; the matching value is set, and
// {name: value} is replied on success. 404 for an unknown property; 400 on a
// malformed body, an invalid value, or a read-only property.
func (s *Server) handlePutProperty(w http.ResponseWriter, r *http.Request) {
	t, ok := s.resolveThing(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	name := mux.Vars(r)["name"]

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "400 Bad Request", http.StatusBadRequest)
		return
	}
	value, ok := body[name]
	if !ok {
		http.Error(w, "400 Bad Request", http.StatusBadRequest)
		return
	}

	if err := t.SetProperty(name, value); err != nil {
		if errors.Is(err, thing.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "400 Bad Request", http.StatusBadRequest)
		return
	}

	p, _ := t.GetProperty(name)
	writeJSON(w, http.StatusOK, map[string]any{name: p.GetValue()})
}
