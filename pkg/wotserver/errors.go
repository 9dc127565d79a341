package wotserver

import (
	"errors"
	"net/http"

	"github.com/wostzone/webthing-go/pkg/thing"
)

// statusForError maps a pkg/thing sentinel error to the HTTP status section
// 7 assigns it: ErrNotFound to 404, everything else (validation/schema/
// lookup failures) to 400.
func statusForError(err error) int {
	if errors.Is(err, thing.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusForError(err))
}
