package radius

import (
	"crypto/rand"
	"sync/atomic"
)

// RandomProvider fills b with cryptographically strong random bytes.
type RandomProvider interface {
	FillRandom(b []byte) error
}

// CryptoRandom reads from crypto/rand.
type CryptoRandom struct{}

func (CryptoRandom) FillRandom(b []byte) error {
	_, err := rand.Read(b)
	return err
}

// PacketIDGenerator hands out request identifiers.
type PacketIDGenerator interface {
	NextID() uint8
}

// SequenceIDGenerator counts up from a starting value and wraps modulo 256. It is safe for
// concurrent use.
type SequenceIDGenerator struct {
	next uint32
}

func NewSequenceIDGenerator(start uint8) *SequenceIDGenerator {
	return &SequenceIDGenerator{next: uint32(start)}
}

func (g *SequenceIDGenerator) NextID() uint8 {
	return uint8(atomic.AddUint32(&g.next, 1) - 1)
}
