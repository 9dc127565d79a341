// Package thing implements the Web of Things entity graph: properties,
// events, actions and the Thing that aggregates them.
package thing

import "errors"

// Sentinel errors returned by Property, Action and Thing operations.
// Handlers in pkg/wotserver map these to HTTP status codes or WebSocket
// error frames; see SPEC_FULL.md section 7.
var (
	ErrNotFound           = errors.New("Not found")
	ErrInvalidValue       = errors.New("Invalid property value")
	ErrReadOnly           = errors.New("Read-only property")
	ErrInvalidSchema      = errors.New("Invalid property schema")
	ErrActionTypeNotFound = errors.New("Action type not found")
	ErrActionInputInvalid = errors.New("Action input invalid")
)
