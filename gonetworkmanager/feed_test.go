package gonetworkmanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedLatestValueWins(t *testing.T) {
	f := NewFeed()
	ch, cancel := f.Subscribe()
	defer cancel()

	f.Publish(named("old"))
	f.Publish(named("new"))

	got := <-ch
	assert.Equal(t, "new", got.Name)
	assert.Empty(t, ch)
}

func TestFeedFanOut(t *testing.T) {
	f := NewFeed()
	a, cancelA := f.Subscribe()
	b, cancelB := f.Subscribe()
	defer cancelB()
	assert.Equal(t, 2, f.Subscribers())

	f.Publish(named("x"))
	assert.Equal(t, "x", (<-a).Name)
	assert.Equal(t, "x", (<-b).Name)

	cancelA()
	cancelA()
	_, open := <-a
	assert.False(t, open)
	assert.Equal(t, 1, f.Subscribers())
}

func TestFeedClose(t *testing.T) {
	f := NewFeed()
	ch, cancel := f.Subscribe()
	f.Close()
	f.Close()

	_, open := <-ch
	assert.False(t, open)
	cancel()

	late, _ := f.Subscribe()
	_, open = <-late
	require.False(t, open)
	f.Publish(named("ignored"))
}
