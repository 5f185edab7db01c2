package dedup

import (
	"net"
	"sync"
	"time"
)

// ByteCache treats a request as a duplicate when the same client sends exactly the same bytes.
type ByteCache struct {
	TTL time.Duration

	// Now returns the current time. Nil means time.Now.
	Now func() time.Time

	mutex   sync.Mutex
	entries *orderedMap[[]byte]
}

func NewByteCache(ttl time.Duration) *ByteCache {
	return &ByteCache{TTL: ttl}
}

func byteKey(addr net.Addr, request []byte) string {
	return addr.String() + "\x00" + string(request)
}

// lock must be called before touching entries. It sweeps expired entries and returns the current
// time.
func (c *ByteCache) lock() time.Time {
	c.mutex.Lock()
	if c.entries == nil {
		c.entries = newOrderedMap[[]byte]()
	}
	t := now(c.Now)
	c.entries.sweep(t, ttlOrDefault(c.TTL))
	return t
}

func (c *ByteCache) HandleRequest(addr net.Addr, request []byte) Result {
	t := c.lock()
	defer c.mutex.Unlock()

	key := byteKey(addr, request)
	ent, ok := c.entries.get(key)
	if !ok {
		c.entries.put(key, t, nil)
		return Result{Status: NewRequest}
	}
	if ent.value == nil {
		return Result{Status: InProgressRequest}
	}
	return Result{Status: CachedResponse, Response: ent.value}
}

// HandleResponse records the response to a tracked request. It does nothing if the request is no
// longer tracked.
func (c *ByteCache) HandleResponse(addr net.Addr, request, response []byte) {
	c.lock()
	defer c.mutex.Unlock()

	if ent, ok := c.entries.get(byteKey(addr, request)); ok {
		ent.value = append([]byte{}, response...)
	}
}

// UnhandleRequest forgets a request so that its next retransmission is handled as new.
func (c *ByteCache) UnhandleRequest(addr net.Addr, request []byte) {
	c.lock()
	defer c.mutex.Unlock()

	c.entries.remove(byteKey(addr, request))
}

func (c *ByteCache) Clear() {
	c.lock()
	defer c.mutex.Unlock()

	c.entries.clear()
}

// Len returns the number of live entries.
func (c *ByteCache) Len() int {
	c.lock()
	defer c.mutex.Unlock()

	return c.entries.len()
}
