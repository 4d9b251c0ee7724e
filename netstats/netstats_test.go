package netstats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v4/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounters struct {
	rx, tx uint64
	err    error
}

func (f *fakeCounters) read(context.Context) ([]net.IOCountersStat, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []net.IOCountersStat{
		{Name: "lo", BytesRecv: 1, BytesSent: 1},
		{Name: "wlan0", BytesRecv: f.rx, BytesSent: f.tx},
		{Name: "eth0"},
	}, nil
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestTrackerSample(t *testing.T) {
	counters := &fakeCounters{rx: 1000, tx: 500}
	clock := &fakeClock{t: time.Unix(1700000000, 0)}

	tr, err := New(context.Background(), "wlan0", WithCounters(counters.read), WithClock(clock.now))
	require.NoError(t, err)
	assert.Equal(t, "wlan0", tr.Interface())

	counters.rx, counters.tx = 3000, 1500
	clock.t = clock.t.Add(2 * time.Second)

	s, err := tr.Sample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), s.DownloadSpeed)
	assert.Equal(t, uint64(500), s.UploadSpeed)
	assert.Equal(t, uint64(2000), s.TotalDownloaded)
	assert.Equal(t, uint64(1000), s.TotalUploaded)
	assert.Equal(t, 2*time.Second, s.Duration)

	counters.rx = 4000
	clock.t = clock.t.Add(time.Second)
	s, err = tr.Sample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), s.DownloadSpeed)
	assert.Zero(t, s.UploadSpeed)
	assert.Equal(t, uint64(3000), s.TotalDownloaded)
	assert.Equal(t, 3*time.Second, s.Duration)
}

func TestTrackerSameInstant(t *testing.T) {
	counters := &fakeCounters{rx: 10}
	clock := &fakeClock{t: time.Unix(0, 0)}
	tr, err := New(context.Background(), "wlan0", WithCounters(counters.read), WithClock(clock.now))
	require.NoError(t, err)

	counters.rx = 20
	s, err := tr.Sample(context.Background())
	require.NoError(t, err)
	assert.Zero(t, s.DownloadSpeed)
	assert.Equal(t, uint64(10), s.TotalDownloaded)
}

func TestTrackerCounterReset(t *testing.T) {
	counters := &fakeCounters{rx: 5000, tx: 5000}
	clock := &fakeClock{t: time.Unix(0, 0)}
	tr, err := New(context.Background(), "wlan0", WithCounters(counters.read), WithClock(clock.now))
	require.NoError(t, err)

	counters.rx, counters.tx = 10, 10
	clock.t = clock.t.Add(time.Second)
	s, err := tr.Sample(context.Background())
	require.NoError(t, err)
	assert.Zero(t, s.DownloadSpeed)
	assert.Zero(t, s.TotalDownloaded)
}

func TestTrackerErrors(t *testing.T) {
	counters := &fakeCounters{}
	_, err := New(context.Background(), "wwan0", WithCounters(counters.read))
	assert.ErrorContains(t, err, `"wwan0" not found`)

	counters.err = errors.New("no procfs")
	_, err = New(context.Background(), "wlan0", WithCounters(counters.read))
	assert.ErrorContains(t, err, "no procfs")
}

func TestInterfaces(t *testing.T) {
	counters := &fakeCounters{}
	names, err := interfaces(context.Background(), counters.read)
	require.NoError(t, err)
	assert.Equal(t, []string{"eth0", "wlan0"}, names)
}
