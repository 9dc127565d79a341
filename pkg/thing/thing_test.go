package thing

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLampThing() *Thing {
	th := NewThing("urn:test:lamp", "My Lamp", []string{"OnOffSwitch", "Light"}, "A web connected lamp")
	th.AddProperty(NewProperty("on", true, nil, map[string]any{"type": "boolean"}))
	th.AddProperty(NewProperty("brightness", 50, nil, map[string]any{
		"type": "integer", "minimum": 0, "maximum": 100,
	}))
	th.AddAvailableAction("fade", map[string]any{
		"input": map[string]any{
			"type":     "object",
			"required": []any{"brightness", "duration"},
			"properties": map[string]any{
				"brightness": map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
				"duration":   map[string]any{"type": "integer", "minimum": 1},
			},
		},
	})
	th.AddAvailableEvent("overheated", map[string]any{"type": "number"})
	return th
}

func TestThingAddAndGetProperty(t *testing.T) {
	th := newLampThing()
	p, ok := th.GetProperty("on")
	require.True(t, ok)
	assert.Equal(t, true, p.GetValue())
	assert.True(t, th.HasProperty("brightness"))
	assert.False(t, th.HasProperty("missing"))
}

func TestThingSetPropertyNotifiesSubscribers(t *testing.T) {
	th := newLampThing()
	th.AddSubscriber("ws1")

	require.NoError(t, th.SetProperty("on", false))

	drained := th.DrainQueue("ws1")
	require.Len(t, drained, 1)

	var frame map[string]any
	require.NoError(t, json.Unmarshal([]byte(drained[0]), &frame))
	assert.Equal(t, "propertyStatus", frame["messageType"])
	data := frame["data"].(map[string]any)
	assert.Equal(t, false, data["on"])
}

func TestThingSetPropertyUnknownNameReturnsNotFound(t *testing.T) {
	th := newLampThing()
	err := th.SetProperty("nope", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestThingAddActionValidatesInput(t *testing.T) {
	th := newLampThing()

	a := NewAction("fade", map[string]any{"brightness": 75, "duration": 500}, nil, nil)
	require.NoError(t, th.AddAction(a, a.GetInput()))

	bad := NewAction("fade", map[string]any{"brightness": 999}, nil, nil)
	err := th.AddAction(bad, bad.GetInput())
	assert.ErrorIs(t, err, ErrActionInputInvalid)

	unknown := NewAction("nope", nil, nil, nil)
	err = th.AddAction(unknown, nil)
	assert.ErrorIs(t, err, ErrActionTypeNotFound)
}

func TestThingActionLifecycle(t *testing.T) {
	th := newLampThing()
	th.AddSubscriber("ws1")

	var wg sync.WaitGroup
	wg.Add(1)
	perform := func(a *Action) {
		defer wg.Done()
		thing := a.GetThing()
		require.NotNil(t, thing)
		require.NoError(t, thing.SetProperty("brightness", 75))
		thing.AddEvent(NewEvent("overheated", 102))
		require.NoError(t, thing.FinishAction(a.GetName(), a.GetID()))
	}

	a := NewAction("fade", map[string]any{"brightness": 75, "duration": 1}, perform, nil)
	require.NoError(t, th.AddAction(a, a.GetInput()))
	require.NoError(t, th.StartAction(a.GetName(), a.GetID()))

	wg.Wait()

	assert.Equal(t, StatusCompleted, a.GetStatus())
	assert.NotEmpty(t, a.GetTimeCompleted())

	brightness, _ := th.GetProperty("brightness")
	assert.EqualValues(t, 75, brightness.GetValue())
}

func TestThingRemoveActionIsIdempotent(t *testing.T) {
	th := newLampThing()
	a := NewAction("fade", map[string]any{"brightness": 10, "duration": 1}, nil, nil)
	require.NoError(t, th.AddAction(a, a.GetInput()))

	assert.True(t, th.RemoveAction("fade", a.GetID()))
	assert.False(t, th.RemoveAction("fade", a.GetID()))
}

func TestThingEventSubscriptionOnlyDeliversToSubscribedEvent(t *testing.T) {
	th := newLampThing()
	th.AddSubscriber("ws1")
	th.AddEventSubscriber("overheated", "ws1")

	th.AddEvent(NewEvent("overheated", 100))

	drained := th.DrainQueue("ws1")
	// one propertyStatus-shaped main queue is empty; expect one "event" frame
	require.Len(t, drained, 1)
	var frame map[string]any
	require.NoError(t, json.Unmarshal([]byte(drained[0]), &frame))
	assert.Equal(t, "event", frame["messageType"])
}

func TestThingRemoveSubscriberStopsAllNotifications(t *testing.T) {
	th := newLampThing()
	th.AddSubscriber("ws1")
	th.AddEventSubscriber("overheated", "ws1")
	th.RemoveSubscriber("ws1")

	require.NoError(t, th.SetProperty("on", false))
	th.AddEvent(NewEvent("overheated", 1))

	assert.Empty(t, th.DrainQueue("ws1"))
}

func TestThingNotifyPropertyChangedSkipsValidation(t *testing.T) {
	th := newLampThing()
	th.AddSubscriber("ws1")

	require.NoError(t, th.NotifyPropertyChanged("brightness", 999))

	p, _ := th.GetProperty("brightness")
	assert.EqualValues(t, 999, p.GetValue(), "out-of-band updates bypass the JSON-schema check")

	drained := th.DrainQueue("ws1")
	require.Len(t, drained, 1)
	var frame map[string]any
	require.NoError(t, json.Unmarshal([]byte(drained[0]), &frame))
	assert.Equal(t, "propertyStatus", frame["messageType"])
}

func TestThingHrefPrefixCascades(t *testing.T) {
	th := newLampThing()
	th.SetHrefPrefix("/things/0")

	p, _ := th.GetProperty("on")
	assert.Equal(t, "/things/0/properties/on", p.GetHref())
}

func TestThingAsThingDescription(t *testing.T) {
	th := newLampThing()
	th.SetHrefPrefix("")

	td := th.AsThingDescription()
	assert.Equal(t, "My Lamp", td["title"])
	assert.Equal(t, DefaultContext, td["@context"])

	props := td["properties"].(map[string]any)
	assert.Contains(t, props, "on")
	assert.Contains(t, props, "brightness")

	actions := td["actions"].(map[string]any)
	assert.Contains(t, actions, "fade")
}
