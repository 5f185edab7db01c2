// Package dedup detects retransmitted RADIUS requests so that a server handles each exchange once
// and answers retransmissions with the response it already sent.
//
// Entries live for a fixed TTL counted from when the request was first seen. Every operation first
// evicts expired entries, oldest first.
package dedup

import (
	"time"
)

type Status int

const (
	// NewRequest means the request has not been seen and is now tracked as in progress.
	NewRequest Status = iota

	// InProgressRequest means the request is being handled and no response is recorded yet.
	InProgressRequest

	// CachedResponse means a response was recorded; Result.Response holds it.
	CachedResponse
)

func (s Status) String() string {
	switch s {
	case NewRequest:
		return "new"
	case InProgressRequest:
		return "in progress"
	case CachedResponse:
		return "cached"
	}
	return "unknown"
}

type Result struct {
	Status   Status
	Response []byte
}

// DefaultTTL is how long entries are kept when no TTL is configured.
const DefaultTTL = 30 * time.Second

func now(f func() time.Time) time.Time {
	if f == nil {
		return time.Now()
	}
	return f()
}

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}
