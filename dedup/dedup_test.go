package dedup

import (
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theaaf/radius-core/radius"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
}

var (
	clientA = &net.UDPAddr{IP: net.IPv4(10, 0, 0, 1), Port: 40000}
	clientB = &net.UDPAddr{IP: net.IPv4(10, 0, 0, 2), Port: 40000}
)

func TestByteCache_Lifecycle(t *testing.T) {
	clock := newClock()
	c := NewByteCache(10 * time.Second)
	c.Now = clock.Now

	request := []byte{1, 42, 0, 20}
	response := []byte{2, 42, 0, 20}

	assert.Equal(t, NewRequest, c.HandleRequest(clientA, request).Status)

	clock.Advance(time.Second)
	assert.Equal(t, InProgressRequest, c.HandleRequest(clientA, request).Status)

	c.HandleResponse(clientA, request, response)
	result := c.HandleRequest(clientA, request)
	assert.Equal(t, CachedResponse, result.Status)
	assert.Equal(t, response, result.Response)

	// Exactly at the TTL the entry is still live.
	clock.Advance(9 * time.Second)
	assert.Equal(t, CachedResponse, c.HandleRequest(clientA, request).Status)

	clock.Advance(time.Nanosecond)
	assert.Equal(t, NewRequest, c.HandleRequest(clientA, request).Status)
}

func TestByteCache_KeyIncludesAddressAndBytes(t *testing.T) {
	c := NewByteCache(time.Minute)

	assert.Equal(t, NewRequest, c.HandleRequest(clientA, []byte{1, 2, 3}).Status)
	assert.Equal(t, NewRequest, c.HandleRequest(clientB, []byte{1, 2, 3}).Status)
	assert.Equal(t, NewRequest, c.HandleRequest(clientA, []byte{1, 2, 4}).Status)
	assert.Equal(t, 3, c.Len())
}

func TestByteCache_Unhandle(t *testing.T) {
	c := NewByteCache(time.Minute)
	request := []byte{1, 2, 3}

	c.HandleRequest(clientA, request)
	c.UnhandleRequest(clientA, request)
	assert.Equal(t, NewRequest, c.HandleRequest(clientA, request).Status)

	// Unknown keys are ignored.
	c.UnhandleRequest(clientB, request)
	c.HandleResponse(clientB, request, []byte{9})
	assert.Equal(t, 1, c.Len())
}

func TestByteCache_EmptyResponseIsCached(t *testing.T) {
	c := NewByteCache(time.Minute)
	request := []byte{1}

	c.HandleRequest(clientA, request)
	c.HandleResponse(clientA, request, nil)
	assert.Equal(t, CachedResponse, c.HandleRequest(clientA, request).Status)
}

func TestByteCache_Clear(t *testing.T) {
	c := NewByteCache(time.Minute)
	for i := 0; i < 5; i++ {
		c.HandleRequest(clientA, []byte{byte(i)})
	}
	require.Equal(t, 5, c.Len())
	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, NewRequest, c.HandleRequest(clientA, []byte{0}).Status)
}

func TestByteCache_SweepStopsAtFirstLiveEntry(t *testing.T) {
	clock := newClock()
	c := NewByteCache(10 * time.Second)
	c.Now = clock.Now

	c.HandleRequest(clientA, []byte{1})
	clock.Advance(5 * time.Second)
	c.HandleRequest(clientA, []byte{2})
	clock.Advance(5 * time.Second)
	c.HandleRequest(clientA, []byte{3})
	assert.Equal(t, 3, c.Len())

	clock.Advance(time.Second)
	assert.Equal(t, 2, c.Len())

	clock.Advance(5 * time.Second)
	assert.Equal(t, 1, c.Len())
}

func TestByteCache_Concurrent(t *testing.T) {
	c := NewByteCache(time.Minute)
	request := []byte{1, 2, 3}

	var wg sync.WaitGroup
	results := make(chan Status, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- c.HandleRequest(clientA, request).Status
		}()
	}
	wg.Wait()
	close(results)

	counts := map[Status]int{}
	for s := range results {
		counts[s]++
	}
	assert.Equal(t, 1, counts[NewRequest])
	assert.Equal(t, 49, counts[InProgressRequest])
}

func decoded(id uint8, auth byte) *radius.Packet {
	var a radius.Authenticator
	a[0] = auth
	return &radius.Packet{
		Code:     radius.CodeAccessRequest,
		Received: &radius.ReceivedFields{Identifier: id, Authenticator: a},
	}
}

func TestPacketCache_Lifecycle(t *testing.T) {
	clock := newClock()
	c := NewPacketCache(10 * time.Second)
	c.Now = clock.Now

	request := decoded(42, 1)
	assert.Equal(t, NewRequest, c.HandleRequest(clientA, request).Status)
	assert.Equal(t, InProgressRequest, c.HandleRequest(clientA, decoded(42, 1)).Status)

	c.HandleResponse(clientA, request, []byte("response"))
	result := c.HandleRequest(clientA, request)
	assert.Equal(t, CachedResponse, result.Status)
	assert.Equal(t, []byte("response"), result.Response)

	clock.Advance(11 * time.Second)
	assert.Equal(t, NewRequest, c.HandleRequest(clientA, request).Status)
}

func TestPacketCache_Supersession(t *testing.T) {
	c := NewPacketCache(time.Minute)

	first := decoded(7, 1)
	second := decoded(7, 2)

	assert.Equal(t, NewRequest, c.HandleRequest(clientA, first).Status)
	assert.Equal(t, NewRequest, c.HandleRequest(clientA, second).Status)
	assert.Equal(t, 1, c.Len())

	// The first exchange was replaced; its response and unhandle are ignored.
	c.HandleResponse(clientA, first, []byte("stale"))
	assert.Equal(t, InProgressRequest, c.HandleRequest(clientA, second).Status)
	c.UnhandleRequest(clientA, first)
	assert.Equal(t, InProgressRequest, c.HandleRequest(clientA, second).Status)

	c.HandleResponse(clientA, second, []byte("fresh"))
	result := c.HandleRequest(clientA, second)
	assert.Equal(t, CachedResponse, result.Status)
	assert.Equal(t, []byte("fresh"), result.Response)

	c.UnhandleRequest(clientA, second)
	assert.Equal(t, NewRequest, c.HandleRequest(clientA, second).Status)
}

func TestPacketCache_ReplacementMovesToNewest(t *testing.T) {
	clock := newClock()
	c := NewPacketCache(10 * time.Second)
	c.Now = clock.Now

	c.HandleRequest(clientA, decoded(1, 1))
	clock.Advance(5 * time.Second)
	c.HandleRequest(clientA, decoded(2, 1))
	clock.Advance(4 * time.Second)
	// Identifier 1 reused for a new exchange.
	c.HandleRequest(clientA, decoded(1, 2))

	clock.Advance(2 * time.Second)
	assert.Equal(t, 2, c.Len())
	clock.Advance(5 * time.Second)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, InProgressRequest, c.HandleRequest(clientA, decoded(1, 2)).Status)
}

func TestPacketCache_Untracked(t *testing.T) {
	c := NewPacketCache(time.Minute)
	p := &radius.Packet{Code: radius.CodeAccessRequest}

	assert.Equal(t, NewRequest, c.HandleRequest(clientA, p).Status)
	assert.Equal(t, NewRequest, c.HandleRequest(clientA, p).Status)
	c.HandleResponse(clientA, p, []byte{1})
	c.UnhandleRequest(clientA, p)
	assert.Equal(t, 0, c.Len())
}

func TestPacketCache_Clear(t *testing.T) {
	c := NewPacketCache(time.Minute)
	for i := 0; i < 3; i++ {
		c.HandleRequest(clientA, decoded(uint8(i), 0))
	}
	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestStatus_String(t *testing.T) {
	for s, want := range map[Status]string{
		NewRequest:        "new",
		InProgressRequest: "in progress",
		CachedResponse:    "cached",
		Status(9):         "unknown",
	} {
		assert.Equal(t, want, s.String(), fmt.Sprint(int(s)))
	}
}
