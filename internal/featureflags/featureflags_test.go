package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	m := NewManager("")

	assert.False(t, m.Enabled(StrictComments, 1))
	assert.True(t, m.Enabled(LiveFeed, 1))
	assert.True(t, m.Enabled(DataCache, 1))
	assert.False(t, m.Enabled("unknown", 1))
	assert.Equal(t, []string{DataCache, LiveFeed, StrictComments}, m.Names())
}

func TestBooleanValues(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0,live_feed=off")

	for _, name := range []string{"a", "c", "e"} {
		assert.True(t, m.Enabled(name, 1), name)
	}
	for _, name := range []string{"b", "d", "f", LiveFeed} {
		assert.False(t, m.Enabled(name, 1), name)
	}
}

func TestPercentageRollout(t *testing.T) {
	m := NewManager("always=100%,never=0%,strict_comments=25%")

	assert.True(t, m.Enabled("always", 1))
	assert.False(t, m.Enabled("never", 1))
	assert.False(t, m.Enabled(StrictComments, 0), "user 0 is never in a partial rollout")

	first := m.Enabled(StrictComments, 42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Enabled(StrictComments, 42))
	}

	enabled := 0
	for id := 1; id <= 1000; id++ {
		if m.Enabled(StrictComments, id) {
			enabled++
		}
	}
	assert.InDelta(t, 250, enabled, 80)
}

func TestParseSkipsMalformedEntries(t *testing.T) {
	m := NewManager(" bad ,X=on, y = 20% ,z=sometimes,=on")

	raw := m.Raw()
	assert.Equal(t, "on", raw["x"])
	assert.Equal(t, "20%", raw["y"])
	assert.NotContains(t, raw, "z")
	assert.NotContains(t, raw, "bad")

	snap := m.Snapshot(123)
	assert.True(t, snap["x"])
	assert.Len(t, snap, len(raw))
}

func TestNilManager(t *testing.T) {
	var m *Manager
	assert.False(t, m.Enabled(LiveFeed, 1))
}
