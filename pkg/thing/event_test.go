package thing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventAsEventDescription(t *testing.T) {
	e := NewEvent("overheated", 102)
	desc := e.AsEventDescription()

	inner, ok := desc["overheated"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 102, inner["data"])
	assert.NotEmpty(t, inner["timestamp"])
}

func TestEventWithoutDataOmitsDataKey(t *testing.T) {
	e := NewEvent("overheated", nil)
	inner := e.AsEventDescription()["overheated"].(map[string]any)
	_, hasData := inner["data"]
	assert.False(t, hasData)
}
