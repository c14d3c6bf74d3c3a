package dedup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeduper_DropsRepeatWithinTTL(t *testing.T) {
	d := New(time.Minute, 10)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }

	assert.True(t, d.ShouldProcess("a"))
	assert.False(t, d.ShouldProcess("a"))
	assert.True(t, d.ShouldProcess("b"))

	now = now.Add(2 * time.Minute)
	assert.True(t, d.ShouldProcess("a"), "expired ids are accepted again")
}

func TestDeduper_EmptyIDAlwaysPasses(t *testing.T) {
	d := New(time.Minute, 10)
	assert.True(t, d.ShouldProcess(""))
	assert.True(t, d.ShouldProcess(""))
	assert.Equal(t, 0, d.Len())
}

func TestDeduper_PayloadHash(t *testing.T) {
	d := New(time.Minute, 10)
	assert.True(t, d.ShouldProcessPayload([]byte(`{"action":"on"}`)))
	assert.False(t, d.ShouldProcessPayload([]byte(`{"action":"on"}`)))
	assert.True(t, d.ShouldProcessPayload([]byte(`{"action":"off"}`)))
}

func TestDeduper_EvictsExpiredWhenFull(t *testing.T) {
	d := New(time.Second, 2)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }

	d.ShouldProcess("a")
	d.ShouldProcess("b")
	now = now.Add(5 * time.Second)
	d.ShouldProcess("c")

	assert.LessOrEqual(t, d.Len(), 2)
	assert.True(t, d.ShouldProcess("a"))
}

func TestDeduper_CapsLiveEntries(t *testing.T) {
	d := New(time.Hour, 3)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		assert.True(t, d.ShouldProcess(id))
		now = now.Add(time.Second)
	}

	assert.Equal(t, 3, d.Len())
	// i più vecchi sono stati scartati, i recenti restano
	assert.False(t, d.ShouldProcess("e"))
	assert.False(t, d.ShouldProcess("d"))
	assert.False(t, d.ShouldProcess("c"))
	assert.True(t, d.ShouldProcess("a"))
}

func TestNew_Defaults(t *testing.T) {
	d := New(0, 0)
	assert.Equal(t, 10*time.Minute, d.ttl)
	assert.Equal(t, 10000, d.max)
}
