package gonetworkmanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitorPublishesSettledState(t *testing.T) {
	bus := newFakeBus()
	bus.set(testEthDev, IfaceDevice, propDeviceType, DeviceTypeEthernet)
	bus.activate(testEthDev, "Wired connection 1", ConnectionTypeEthernet, "10.0.0.5")

	m := NewMonitor(newTestClient(bus), WithDebounce(50*time.Millisecond))
	updates, cancel := m.Feed().Subscribe()
	defer cancel()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	bus.emit(signalStateChanged)
	bus.emit(signalPropertiesChanged)
	bus.emit(signalStateChanged)

	select {
	case rec := <-updates:
		assert.Equal(t, "Wired connection 1", rec.Name)
		assert.Equal(t, "10.0.0.5", rec.IPAddress)
		assert.True(t, rec.IsConnected)
	case <-time.After(2 * time.Second):
		t.Fatal("no update published")
	}

	select {
	case rec := <-updates:
		t.Fatalf("burst published twice: %v", rec)
	case <-time.After(200 * time.Millisecond):
	}

	stop()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop")
	}
	_, open := <-updates
	assert.False(t, open)
}

func TestMonitorStopsWhenSignalsEnd(t *testing.T) {
	bus := newFakeBus()
	bus.setActive()
	m := NewMonitor(newTestClient(bus))

	done := make(chan error, 1)
	go func() { done <- m.Run(context.Background()) }()
	close(bus.signals)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop")
	}
}

func TestMonitorSubscribeFailure(t *testing.T) {
	bus := newFakeBus()
	bus.down = true

	err := NewMonitor(newTestClient(bus)).Run(context.Background())
	assert.ErrorIs(t, err, errBusDown)
}
