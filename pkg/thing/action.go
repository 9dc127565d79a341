package thing

import "sync"

// Action status values, matching the original webthing protocol's status
// string vocabulary exactly (these appear on the wire, not just internally).
const (
	StatusCreated   = "created"
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// PerformFunc carries out an action. It is run on its own goroutine by
// Thing.StartAction and must call Thing.FinishAction when done, exactly as
// the fade example in the single-thing demo does after its sleep.
// a.GetThing() returns the owning Thing once the action has been attached.
type PerformFunc func(a *Action)

// CancelFunc signals a running action to stop. The default, used when a
// generator supplies none, is a no-op; implementations should make
// subsequent PerformFunc work become a no-op once called.
type CancelFunc func(a *Action)

// ActionGenerator builds the handlers for a named action type given its
// input and owning Thing, or returns ErrActionTypeNotFound if the name
// isn't recognized. cancel may be nil.
type ActionGenerator interface {
	Generate(t *Thing, name string, input map[string]any) (perform PerformFunc, cancel CancelFunc, err error)
}

// Action represents one invocation of an action on a Thing.
type Action struct {
	mu sync.Mutex

	id            string
	name          string
	input         map[string]any
	hrefPrefix    string
	href          string
	status        string
	timeRequested string
	timeCompleted string

	thing   *Thing
	perform PerformFunc
	cancel  CancelFunc
}

// newAction constructs an Action in the "created" state. It is unattached
// until Thing.AddAction sets its thing back-reference.
func newAction(id, name string, input map[string]any, perform PerformFunc, cancel CancelFunc) *Action {
	return &Action{
		id:            id,
		name:          name,
		input:         input,
		href:          "/actions/" + name + "/" + id,
		status:        StatusCreated,
		timeRequested: timestamp(),
		perform:       perform,
		cancel:        cancel,
	}
}

// SetHrefPrefix sets the prefix prepended to this action's href.
func (a *Action) SetHrefPrefix(prefix string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hrefPrefix = prefix
}

// GetID returns the action's ID.
func (a *Action) GetID() string { return a.id }

// GetName returns the action's type name.
func (a *Action) GetName() string { return a.name }

// GetHref returns the full href, including prefix.
func (a *Action) GetHref() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hrefPrefix + a.href
}

// GetStatus returns the action's current status string.
func (a *Action) GetStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// GetThing returns the Thing this action was added to, or nil if it has not
// been attached to one yet.
func (a *Action) GetThing() *Thing {
	return a.thing
}

// GetTimeRequested returns the timestamp the action was created.
func (a *Action) GetTimeRequested() string { return a.timeRequested }

// GetTimeCompleted returns the timestamp the action finished, or "" if it
// has not completed yet.
func (a *Action) GetTimeCompleted() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.timeCompleted
}

// GetInput returns the action's input map, which may be nil.
func (a *Action) GetInput() map[string]any { return a.input }

func (a *Action) setStatus(status string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = status
}

// start transitions the action to "pending". Called by Thing.StartAction
// before spawning the worker goroutine.
func (a *Action) start() {
	a.setStatus(StatusPending)
}

// finish transitions the action to "completed" and stamps its completion
// time. Called by Thing.FinishAction.
func (a *Action) finish() {
	a.mu.Lock()
	a.status = StatusCompleted
	a.timeCompleted = timestamp()
	a.mu.Unlock()
}

// doCancel transitions the action to "cancelled" and invokes its CancelFunc,
// if one was supplied, so future perform work can recognize it should
// become a no-op. Called by Thing.CancelAction and Thing.RemoveAction.
func (a *Action) doCancel() {
	a.setStatus(StatusCancelled)
	if a.cancel != nil {
		a.cancel(a)
	}
}

// AsActionDescription returns the {"<name>": {href, timeRequested, status,
// input?, timeCompleted?}} envelope used in GET /actions responses and
// "actionStatus" WebSocket messages.
func (a *Action) AsActionDescription() map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()

	inner := map[string]any{
		"href":          a.hrefPrefix + a.href,
		"timeRequested": a.timeRequested,
		"status":        a.status,
	}
	if a.input != nil {
		inner["input"] = a.input
	}
	if a.timeCompleted != "" {
		inner["timeCompleted"] = a.timeCompleted
	}
	return map[string]any{a.name: inner}
}
