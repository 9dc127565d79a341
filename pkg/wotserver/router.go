package wotserver

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wostzone/webthing-go/pkg/thing"
)

// buildRouter builds the route table of section 6's HTTP surface table. A
// single Thing gets the per-Thing routes at the base path; a collection gets
// a GET on the base path listing every Thing, plus the per-Thing routes under
// "<base>/<thingID>".
//
// Adapted from the original server's make_config, which mounts the same
// actix web::scope bare or under "/{thing_id}"; here the same
// mountThingRoutes call is applied to one gorilla/mux subrouter, scoped by
// ThingsType.
func buildRouter(s *Server) http.Handler {
	router := mux.NewRouter().StrictSlash(true)

	if s.things.IsSingle() {
		mountThingRoutes(router.PathPrefix(s.basePath).Subrouter(), s)
	} else {
		router.HandleFunc(s.basePath, s.handleGetThings).Methods(http.MethodGet)
		mountThingRoutes(router.PathPrefix(s.basePath+"/{thingID}").Subrouter(), s)
	}

	return router
}

// mountThingRoutes registers the single-Thing route set from section 6 onto
// sub, a subrouter already scoped to either the base path or
// "<base>/{thingID}".
func mountThingRoutes(sub *mux.Router, s *Server) {
	sub.HandleFunc("/", s.handleGetThing).Methods(http.MethodGet)

	sub.HandleFunc("/properties", s.handleGetProperties).Methods(http.MethodGet)
	sub.HandleFunc("/properties/{name}", s.handleGetProperty).Methods(http.MethodGet)
	sub.HandleFunc("/properties/{name}", s.handlePutProperty).Methods(http.MethodPut)

	sub.HandleFunc("/actions", s.handleGetActions).Methods(http.MethodGet)
	sub.HandleFunc("/actions", s.handlePostActions).Methods(http.MethodPost)
	sub.HandleFunc("/actions/{name}", s.handleGetActionsByName).Methods(http.MethodGet)
	sub.HandleFunc("/actions/{name}", s.handlePostActionByName).Methods(http.MethodPost)
	sub.HandleFunc("/actions/{name}/{id}", s.handleGetActionByID).Methods(http.MethodGet)
	sub.HandleFunc("/actions/{name}/{id}", s.handlePutActionByID).Methods(http.MethodPut)
	sub.HandleFunc("/actions/{name}/{id}", s.handleDeleteActionByID).Methods(http.MethodDelete)

	sub.HandleFunc("/events", s.handleGetEvents).Methods(http.MethodGet)
	sub.HandleFunc("/events/{name}", s.handleGetEventsByName).Methods(http.MethodGet)
}

// resolveThing finds the Thing this request targets, from the "thingID" mux
// var (absent when serving a single Thing).
func (s *Server) resolveThing(r *http.Request) (*thing.Thing, bool) {
	return s.things.ThingAt(mux.Vars(r)["thingID"])
}
