package dedup

import (
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/theaaf/radius-core/radius"
)

type packetEntry struct {
	authenticator radius.Authenticator
	response      []byte
}

// PacketCache keys requests on the client address and the packet identifier. An identifier that
// comes back with a different request authenticator starts a new exchange and replaces the old
// entry. Responses and unhandles for a replaced exchange are ignored.
//
// Requests must have been decoded off the wire; a packet without ReceivedFields is never tracked.
type PacketCache struct {
	TTL time.Duration

	// Now returns the current time. Nil means time.Now.
	Now func() time.Time

	mutex   sync.Mutex
	entries *orderedMap[*packetEntry]
}

func NewPacketCache(ttl time.Duration) *PacketCache {
	return &PacketCache{TTL: ttl}
}

func packetKey(addr net.Addr, identifier uint8) string {
	return addr.String() + "#" + strconv.Itoa(int(identifier))
}

func (c *PacketCache) lock() time.Time {
	c.mutex.Lock()
	if c.entries == nil {
		c.entries = newOrderedMap[*packetEntry]()
	}
	t := now(c.Now)
	c.entries.sweep(t, ttlOrDefault(c.TTL))
	return t
}

func (c *PacketCache) HandleRequest(addr net.Addr, request *radius.Packet) Result {
	t := c.lock()
	defer c.mutex.Unlock()

	if request.Received == nil {
		return Result{Status: NewRequest}
	}
	key := packetKey(addr, request.Received.Identifier)
	ent, ok := c.entries.get(key)
	if !ok || ent.value.authenticator != request.Received.Authenticator {
		c.entries.put(key, t, &packetEntry{authenticator: request.Received.Authenticator})
		return Result{Status: NewRequest}
	}
	if ent.value.response == nil {
		return Result{Status: InProgressRequest}
	}
	return Result{Status: CachedResponse, Response: ent.value.response}
}

// current returns the entry for request if it is still the tracked exchange.
func (c *PacketCache) current(addr net.Addr, request *radius.Packet) (*packetEntry, bool) {
	if request.Received == nil {
		return nil, false
	}
	ent, ok := c.entries.get(packetKey(addr, request.Received.Identifier))
	if !ok || ent.value.authenticator != request.Received.Authenticator {
		return nil, false
	}
	return ent.value, true
}

func (c *PacketCache) HandleResponse(addr net.Addr, request *radius.Packet, response []byte) {
	c.lock()
	defer c.mutex.Unlock()

	if ent, ok := c.current(addr, request); ok {
		ent.response = append([]byte{}, response...)
	}
}

func (c *PacketCache) UnhandleRequest(addr net.Addr, request *radius.Packet) {
	c.lock()
	defer c.mutex.Unlock()

	if _, ok := c.current(addr, request); ok {
		c.entries.remove(packetKey(addr, request.Received.Identifier))
	}
}

func (c *PacketCache) Clear() {
	c.lock()
	defer c.mutex.Unlock()

	c.entries.clear()
}

func (c *PacketCache) Len() int {
	c.lock()
	defer c.mutex.Unlock()

	return c.entries.len()
}
