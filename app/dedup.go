package app

import (
	"net"
	"time"

	"github.com/pkg/errors"

	"github.com/theaaf/radius-core/dedup"
	"github.com/theaaf/radius-core/radius"
)

// DedupCache is the server's view of a duplicate-request cache. raw is the request as received
// and p is the decoded request, which is nil when NeedsPacket is false and the request has not been
// decoded yet.
type DedupCache interface {
	NeedsPacket() bool
	HandleRequest(addr net.Addr, raw []byte, p *radius.Packet) dedup.Result
	HandleResponse(addr net.Addr, raw []byte, p *radius.Packet, response []byte)
	UnhandleRequest(addr net.Addr, raw []byte, p *radius.Packet)
}

// NewDedupCache returns a cache for the given mode, DedupModeBytes or DedupModeIdentifier.
func NewDedupCache(mode string, ttl time.Duration) (DedupCache, error) {
	switch mode {
	case DedupModeBytes:
		return &ByteDedup{Cache: dedup.NewByteCache(ttl)}, nil
	case DedupModeIdentifier:
		return &PacketDedup{Cache: dedup.NewPacketCache(ttl)}, nil
	}
	return nil, errors.Errorf("invalid dedup mode: %q", mode)
}

// ByteDedup matches retransmissions by their exact bytes, before decoding.
type ByteDedup struct {
	Cache *dedup.ByteCache
}

func (d *ByteDedup) NeedsPacket() bool { return false }

func (d *ByteDedup) HandleRequest(addr net.Addr, raw []byte, _ *radius.Packet) dedup.Result {
	return d.Cache.HandleRequest(addr, raw)
}

func (d *ByteDedup) HandleResponse(addr net.Addr, raw []byte, _ *radius.Packet, response []byte) {
	d.Cache.HandleResponse(addr, raw, response)
}

func (d *ByteDedup) UnhandleRequest(addr net.Addr, raw []byte, _ *radius.Packet) {
	d.Cache.UnhandleRequest(addr, raw)
}

// PacketDedup matches retransmissions by identifier and request authenticator, after decoding.
type PacketDedup struct {
	Cache *dedup.PacketCache
}

func (d *PacketDedup) NeedsPacket() bool { return true }

func (d *PacketDedup) HandleRequest(addr net.Addr, _ []byte, p *radius.Packet) dedup.Result {
	return d.Cache.HandleRequest(addr, p)
}

func (d *PacketDedup) HandleResponse(addr net.Addr, _ []byte, p *radius.Packet, response []byte) {
	d.Cache.HandleResponse(addr, p, response)
}

func (d *PacketDedup) UnhandleRequest(addr net.Addr, _ []byte, p *radius.Packet) {
	d.Cache.UnhandleRequest(addr, p)
}
