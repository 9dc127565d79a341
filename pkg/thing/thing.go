package thing

import "sync"

// DefaultContext is the @context value a Thing carries unless overridden.
const DefaultContext = "https://webthings.io/schemas"

// AvailableAction is the per-Thing descriptor (metadata + optional input
// schema) that incoming action requests of that name are validated against.
type AvailableAction struct {
	name     string
	metadata map[string]any
}

// AvailableEvent is the per-Thing descriptor enabling notify fan-out for
// events of that name.
type AvailableEvent struct {
	name     string
	metadata map[string]any
}

// Thing aggregates a device's properties, actions and events, and owns the
// per-subscriber notification queues. All mutating operations acquire a
// single exclusive lock; all reads acquire it in shared mode.
type Thing struct {
	mu sync.RWMutex

	id          string
	title       string
	context     string
	atType      []string
	description string
	hrefPrefix  string

	properties       map[string]*Property
	availableActions map[string]*AvailableAction
	availableEvents  map[string]*AvailableEvent
	actions          map[string][]*Action
	events           []*Event

	subscribers      map[string]*subscriberQueue
	eventSubscribers map[string]map[string]*subscriberQueue

	schemas *schemaCache
}

// NewThing constructs an empty Thing. atType may be nil.
func NewThing(id, title string, atType []string, description string) *Thing {
	return &Thing{
		id:               id,
		title:            title,
		context:          DefaultContext,
		atType:           atType,
		description:      description,
		hrefPrefix:       "",
		properties:       make(map[string]*Property),
		availableActions: make(map[string]*AvailableAction),
		availableEvents:  make(map[string]*AvailableEvent),
		actions:          make(map[string][]*Action),
		subscribers:      make(map[string]*subscriberQueue),
		eventSubscribers: make(map[string]map[string]*subscriberQueue),
		schemas:          newSchemaCache(),
	}
}

// GetID returns the Thing's URI identifier.
func (t *Thing) GetID() string { return t.id }

// GetTitle returns the Thing's title.
func (t *Thing) GetTitle() string { return t.title }

// GetHrefPrefix returns the current href prefix.
func (t *Thing) GetHrefPrefix() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.hrefPrefix
}

// SetHrefPrefix sets the Thing's own href prefix, then cascades it to every
// owned Property and in-flight Action.
func (t *Thing) SetHrefPrefix(prefix string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.hrefPrefix = prefix
	for _, p := range t.properties {
		p.SetHrefPrefix(prefix)
	}
	for _, actions := range t.actions {
		for _, a := range actions {
			a.SetHrefPrefix(prefix)
		}
	}
}

// AddProperty adds or replaces the named property, inheriting the Thing's
// current href prefix.
func (t *Thing) AddProperty(p *Property) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p.SetHrefPrefix(t.hrefPrefix)
	t.properties[p.GetName()] = p
}

// RemoveProperty removes the named property. Silent if absent.
func (t *Thing) RemoveProperty(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.properties, name)
}

// GetProperty returns the named property and whether it exists.
func (t *Thing) GetProperty(name string) (*Property, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.properties[name]
	return p, ok
}

// HasProperty reports whether a property with this name is registered.
func (t *Thing) HasProperty(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.properties[name]
	return ok
}

// GetProperties returns a snapshot map of every registered property.
func (t *Thing) GetProperties() map[string]*Property {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]*Property, len(t.properties))
	for k, v := range t.properties {
		out[k] = v
	}
	return out
}

// SetProperty validates and sets the named property's value, then emits a
// propertyStatus notification to every main-queue subscriber on success.
func (t *Thing) SetProperty(name string, value any) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.properties[name]
	if !ok {
		return ErrNotFound
	}
	if err := p.SetValue(value); err != nil {
		return err
	}

	msg := propertyStatusMessage(name, p.GetValue())
	for _, q := range t.subscribers {
		q.push(msg)
	}
	return nil
}

// NotifyPropertyChanged stores value as the named property's cached value
// without validation or forwarding, then emits a propertyStatus
// notification as SetProperty does. For devices that report state changes
// out of band (e.g. a polled sensor), mirroring the original protocol's
// find_property + set_cached_value + property_notify sequence.
func (t *Thing) NotifyPropertyChanged(name string, value any) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.properties[name]
	if !ok {
		return ErrNotFound
	}
	p.SetCachedValue(value)

	msg := propertyStatusMessage(name, p.GetValue())
	for _, q := range t.subscribers {
		q.push(msg)
	}
	return nil
}

// AddAvailableAction registers name as a valid action type, with metadata
// describing it (including, optionally, an "input" JSON schema).
func (t *Thing) AddAvailableAction(name string, metadata map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.availableActions[name] = &AvailableAction{name: name, metadata: metadata}
	t.schemas.mu.Lock()
	delete(t.schemas.byKey, "action:"+name)
	t.schemas.mu.Unlock()
	if _, ok := t.actions[name]; !ok {
		t.actions[name] = nil
	}
}

// AddAvailableEvent registers name as a valid event type, enabling notify
// fan-out for events added under it.
func (t *Thing) AddAvailableEvent(name string, metadata map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.availableEvents[name] = &AvailableEvent{name: name, metadata: metadata}
	if _, ok := t.eventSubscribers[name]; !ok {
		t.eventSubscribers[name] = make(map[string]*subscriberQueue)
	}
}

// AddAction validates input against the action's AvailableAction input
// schema (if any), attaches action to this Thing, appends it to the
// per-name list, and emits an actionStatus notification.
func (t *Thing) AddAction(action *Action, input map[string]any) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	available, ok := t.availableActions[action.GetName()]
	if !ok {
		return ErrActionTypeNotFound
	}

	if inputSchema, ok := available.metadata["input"].(map[string]any); ok {
		if err := t.schemas.validate("action:"+action.GetName(), stripActionInputSchema(inputSchema), input); err != nil {
			return ErrActionInputInvalid
		}
	}

	action.SetHrefPrefix(t.hrefPrefix)
	action.thing = t
	t.actions[action.GetName()] = append(t.actions[action.GetName()], action)

	t.notifyActionLocked(action)
	return nil
}

// findActionLocked looks up an action by name and id. Callers must hold t.mu.
func (t *Thing) findActionLocked(name, id string) *Action {
	for _, a := range t.actions[name] {
		if a.GetID() == id {
			return a
		}
	}
	return nil
}

// StartAction transitions the named action to "pending", notifies, then
// spawns its PerformFunc (if any) on its own goroutine.
func (t *Thing) StartAction(name, id string) error {
	t.mu.Lock()
	action := t.findActionLocked(name, id)
	if action == nil {
		t.mu.Unlock()
		return ErrNotFound
	}
	action.start()
	t.notifyActionLocked(action)
	perform := action.perform
	t.mu.Unlock()

	if perform != nil {
		go perform(action)
	}
	return nil
}

// FinishAction transitions the named action to "completed" and notifies.
// Action workers call this once their work is done.
func (t *Thing) FinishAction(name, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	action := t.findActionLocked(name, id)
	if action == nil {
		return ErrNotFound
	}
	action.finish()
	t.notifyActionLocked(action)
	return nil
}

// CancelAction transitions the named action to "cancelled" and invokes its
// CancelFunc, without removing it from the Thing.
func (t *Thing) CancelAction(name, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	action := t.findActionLocked(name, id)
	if action == nil {
		return ErrNotFound
	}
	action.doCancel()
	t.notifyActionLocked(action)
	return nil
}

// RemoveAction cancels and removes the named action, returning whether it
// was found.
func (t *Thing) RemoveAction(name, id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	list := t.actions[name]
	for i, a := range list {
		if a.GetID() == id {
			a.doCancel()
			t.actions[name] = append(list[:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// GetAction returns the named action by name and id, if present.
func (t *Thing) GetAction(name, id string) (*Action, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	a := t.findActionLocked(name, id)
	return a, a != nil
}

// GetActions returns every action across every name (GET /actions), or only
// those under one name (GET /actions/{name}) when name is non-empty.
func (t *Thing) GetActions(name string) []*Action {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if name != "" {
		out := make([]*Action, len(t.actions[name]))
		copy(out, t.actions[name])
		return out
	}

	var out []*Action
	for _, list := range t.actions {
		out = append(out, list...)
	}
	return out
}

// HasAvailableAction reports whether name is a registered action type.
func (t *Thing) HasAvailableAction(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.availableActions[name]
	return ok
}

// AddEvent appends e to the Thing's event log, and, if e's name is a
// registered available event, notifies every subscriber of that event.
func (t *Thing) AddEvent(e *Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.events = append(t.events, e)

	subs, ok := t.eventSubscribers[e.GetName()]
	if !ok {
		return
	}
	msg := eventMessage(e.AsEventDescription())
	for _, q := range subs {
		q.push(msg)
	}
}

// GetEvents returns the event log, optionally filtered to one name.
func (t *Thing) GetEvents(name string) []*Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if name == "" {
		out := make([]*Event, len(t.events))
		copy(out, t.events)
		return out
	}

	var out []*Event
	for _, e := range t.events {
		if e.GetName() == name {
			out = append(out, e)
		}
	}
	return out
}

// AddSubscriber creates the main notification queue for a new WebSocket
// connection.
func (t *Thing) AddSubscriber(wsID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribers[wsID] = newSubscriberQueue()
}

// RemoveSubscriber destroys wsID's main queue and removes it from every
// event's subscriber set.
func (t *Thing) RemoveSubscriber(wsID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.subscribers, wsID)
	for _, subs := range t.eventSubscribers {
		delete(subs, wsID)
	}
}

// AddEventSubscriber subscribes wsID to notifications for eventName.
// No-op if eventName isn't a registered available event.
func (t *Thing) AddEventSubscriber(eventName, wsID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	subs, ok := t.eventSubscribers[eventName]
	if !ok {
		return
	}
	subs[wsID] = newSubscriberQueue()
}

// RemoveEventSubscriber unsubscribes wsID from eventName. No-op if either is
// unknown.
func (t *Thing) RemoveEventSubscriber(eventName, wsID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if subs, ok := t.eventSubscribers[eventName]; ok {
		delete(subs, wsID)
	}
}

// DrainQueue atomically empties wsID's main queue and every event queue it
// is subscribed to, returning the combined pending messages in FIFO order
// per queue (main queue first, then the event queues; the order between
// different event queues is not defined).
func (t *Thing) DrainQueue(wsID string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []string
	if q, ok := t.subscribers[wsID]; ok {
		out = append(out, q.drain()...)
	}
	for _, subs := range t.eventSubscribers {
		if q, ok := subs[wsID]; ok {
			out = append(out, q.drain()...)
		}
	}
	return out
}

// notifyActionLocked pushes an actionStatus message to every main-queue
// subscriber. Callers must hold t.mu for writing.
func (t *Thing) notifyActionLocked(action *Action) {
	msg := actionStatusMessage(action.AsActionDescription())
	for _, q := range t.subscribers {
		q.push(msg)
	}
}

// AsThingDescription builds the base Thing Description document (before the
// HTTP layer's request-time enrichment: base/securityDefinitions/security/
// links entry, which depend on the inbound request and are added by the
// router, not here).
func (t *Thing) AsThingDescription() map[string]any {
	t.mu.RLock()
	defer t.mu.RUnlock()

	properties := make(map[string]any, len(t.properties))
	for name, p := range t.properties {
		properties[name] = p.AsPropertyDescription()
	}

	actions := make(map[string]any, len(t.availableActions))
	for name, a := range t.availableActions {
		actions[name] = withLink(a.metadata, "action", t.hrefPrefix+"/actions/"+name)
	}

	events := make(map[string]any, len(t.availableEvents))
	for name, e := range t.availableEvents {
		events[name] = withLink(e.metadata, "event", t.hrefPrefix+"/events/"+name)
	}

	td := map[string]any{
		"id":          t.id,
		"title":       t.title,
		"@context":    t.context,
		"description": t.description,
		"properties":  properties,
		"actions":     actions,
		"events":      events,
	}
	if t.atType != nil {
		td["@type"] = t.atType
	}
	return td
}

// withLink returns a copy of metadata with a links entry appended for the
// given rel/href, mirroring Property.AsPropertyDescription's link-append
// convention.
func withLink(metadata map[string]any, rel, href string) map[string]any {
	description := make(map[string]any, len(metadata)+1)
	for k, v := range metadata {
		description[k] = v
	}
	link := map[string]any{"rel": rel, "href": href}
	switch existing := description["links"].(type) {
	case []any:
		description["links"] = append(existing, link)
	default:
		description["links"] = []any{link}
	}
	return description
}

// NewActionID is the ID source used when constructing Actions in response
// to requests; exported so pkg/wotserver doesn't need its own UUID import
// solely for this purpose. Kept here, not in action.go, since it is a
// construction helper rather than part of Action's own state.
var NewActionID = defaultActionID

// NewAction constructs an unattached Action ready to be passed to
// Thing.AddAction. id is generated via NewActionID unless overridden (tests
// may swap NewActionID to get deterministic IDs).
func NewAction(name string, input map[string]any, perform PerformFunc, cancel CancelFunc) *Action {
	return newAction(NewActionID(), name, input, perform, cancel)
}
