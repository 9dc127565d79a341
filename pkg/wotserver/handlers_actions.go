package wotserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wostzone/webthing-go/pkg/thing"
)

// actionRequestBody is the shape of a POST /actions[/{name}] body: exactly
// one key naming the action, whose value carries the optional input.
type actionRequestBody struct {
	Input map[string]any `json:"input"`
}

// handleGetActions serves GET ".../actions": every action description across
// every registered name.
func (s *Server) handleGetActions(w http.ResponseWriter, r *http.Request) {
	t, ok := s.resolveThing(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, descriptionsOf(t.GetActions("")))
}

// handleGetActionsByName serves GET ".../actions/{name}": action
// descriptions restricted to that name (an empty array if none are
// in-flight).
func (s *Server) handleGetActionsByName(w http.ResponseWriter, r *http.Request) {
	t, ok := s.resolveThing(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	name := mux.Vars(r)["name"]
	writeJSON(w, http.StatusOK, descriptionsOf(t.GetActions(name)))
}

func descriptionsOf(actions []*thing.Action) []map[string]any {
	out := make([]map[string]any, len(actions))
	for i, a := range actions {
		out[i] = a.AsActionDescription()
	}
	return out
}

// handlePostActions serves POST ".../actions": the body must name exactly
// one action, per the boundary test in section 8. Generates, attaches and
// starts the action, replying 201 with its description.
func (s *Server) handlePostActions(w http.ResponseWriter, r *http.Request) {
	t, ok := s.resolveThing(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	var body map[string]actionRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body) != 1 {
		http.Error(w, "400 Bad Request", http.StatusBadRequest)
		return
	}

	var name string
	var req actionRequestBody
	for name, req = range body {
	}
	s.createAction(w, t, name, req)
}

// handlePostActionByName serves POST ".../actions/{name}": as
// handlePostActions, but additionally requires the body's single key to
// equal {name}.
func (s *Server) handlePostActionByName(w http.ResponseWriter, r *http.Request) {
	t, ok := s.resolveThing(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	name := mux.Vars(r)["name"]

	var body map[string]actionRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body) != 1 {
		http.Error(w, "400 Bad Request", http.StatusBadRequest)
		return
	}
	req, ok := body[name]
	if !ok {
		http.Error(w, "400 Bad Request", http.StatusBadRequest)
		return
	}
	s.createAction(w, t, name, req)
}

// createAction generates an action of the given name via the server's
// ActionGenerator, attaches it to t and starts it, replying 201 with its
// description on success.
func (s *Server) createAction(w http.ResponseWriter, t *thing.Thing, name string, req actionRequestBody) {
	perform, cancel, err := s.generator.Generate(t, name, req.Input)
	if err != nil {
		http.Error(w, fmt.Sprintf("400 Bad Request: %s", err), http.StatusBadRequest)
		return
	}

	action := thing.NewAction(name, req.Input, perform, cancel)
	if err := t.AddAction(action, req.Input); err != nil {
		writeError(w, err)
		return
	}
	if err := t.StartAction(name, action.GetID()); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, action.AsActionDescription())
}

// handleGetActionByID serves GET ".../actions/{name}/{id}": a single action
// description, or 404.
func (s *Server) handleGetActionByID(w http.ResponseWriter, r *http.Request) {
	t, ok := s.resolveThing(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	vars := mux.Vars(r)
	a, ok := t.GetAction(vars["name"], vars["id"])
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, a.AsActionDescription())
}

// handlePutActionByID serves PUT ".../actions/{name}/{id}". Section 9
// records this as an acknowledged gap in the original protocol (a TODO
// comment in the reference implementation, never resolved): it replies 200
// with no body and performs no action.
func (s *Server) handlePutActionByID(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// handleDeleteActionByID serves DELETE ".../actions/{name}/{id}": cancels
// and removes the action, replying 204, or 404 if it wasn't found.
func (s *Server) handleDeleteActionByID(w http.ResponseWriter, r *http.Request) {
	t, ok := s.resolveThing(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	vars := mux.Vars(r)
	if !t.RemoveAction(vars["name"], vars["id"]) {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
