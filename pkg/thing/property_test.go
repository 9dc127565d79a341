package thing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertySetValueValidatesType(t *testing.T) {
	p := NewProperty("brightness", 50, nil, map[string]any{
		"type":    "integer",
		"minimum": 0,
		"maximum": 100,
	})

	require.NoError(t, p.SetValue(75))
	assert.EqualValues(t, 75, p.GetValue())

	err := p.SetValue(150)
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.EqualValues(t, 75, p.GetValue(), "value must be unchanged after a rejected write")
}

func TestPropertyReadOnlyRejectsWrites(t *testing.T) {
	p := NewProperty("on", true, nil, map[string]any{
		"type":     "boolean",
		"readOnly": true,
	})

	err := p.SetValue(false)
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.Equal(t, true, p.GetValue())
}

type stubForwarder struct {
	applied any
}

func (f *stubForwarder) SetValue(value any) (any, error) {
	f.applied = value
	return value, nil
}

func TestPropertySetValueUsesForwarder(t *testing.T) {
	fwd := &stubForwarder{}
	p := NewProperty("on", false, fwd, map[string]any{"type": "boolean"})

	require.NoError(t, p.SetValue(true))
	assert.Equal(t, true, fwd.applied)
	assert.Equal(t, true, p.GetValue())
}

var errDeviceUnreachable = errors.New("device unreachable")

type failingForwarder struct{}

func (failingForwarder) SetValue(value any) (any, error) {
	return nil, errDeviceUnreachable
}

func TestPropertySetValuePropagatesForwarderErrorUnchanged(t *testing.T) {
	p := NewProperty("on", false, failingForwarder{}, map[string]any{"type": "boolean"})

	err := p.SetValue(true)
	require.ErrorIs(t, err, errDeviceUnreachable)
	assert.NotErrorIs(t, err, ErrInvalidValue, "a forwarder failure is not a schema-validation error")
	assert.Equal(t, false, p.GetValue(), "value must be unchanged after a rejected write")
}

func TestPropertyAsPropertyDescriptionAppendsLink(t *testing.T) {
	p := NewProperty("on", true, nil, map[string]any{
		"type":  "boolean",
		"links": []any{map[string]any{"rel": "other", "href": "/elsewhere"}},
	})
	p.SetHrefPrefix("/things/0")

	desc := p.AsPropertyDescription()
	links, ok := desc["links"].([]any)
	require.True(t, ok)
	require.Len(t, links, 2)
	last := links[1].(map[string]any)
	assert.Equal(t, "property", last["rel"])
	assert.Equal(t, "/things/0/properties/on", last["href"])
}

func TestPropertySetCachedValueSkipsValidation(t *testing.T) {
	p := NewProperty("brightness", 50, nil, map[string]any{
		"type":    "integer",
		"maximum": 100,
	})
	p.SetCachedValue(999)
	assert.EqualValues(t, 999, p.GetValue())
}
