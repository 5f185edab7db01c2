package radius

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies codec failures.
type ErrorKind int

const (
	// KindLength means a declared length disagrees with the bytes available.
	KindLength ErrorKind = iota + 1
	// KindMalformedAttribute covers framing and value arity violations.
	KindMalformedAttribute
	// KindAuthenticator means a response authenticator or Message-Authenticator did not verify.
	KindAuthenticator
	// KindEncoding means a packet or attribute could not be serialized.
	KindEncoding
)

func (k ErrorKind) String() string {
	switch k {
	case KindLength:
		return "length mismatch"
	case KindMalformedAttribute:
		return "malformed attribute"
	case KindAuthenticator:
		return "authenticator mismatch"
	case KindEncoding:
		return "encoding failure"
	}
	return fmt.Sprintf("error kind %d", int(k))
}

// CodecError is returned by every encode and decode operation that fails. Callers may receive it
// wrapped with additional context; use ErrorKindOf to inspect it.
type CodecError struct {
	Kind    ErrorKind
	Message string
}

func (e *CodecError) Error() string {
	return e.Kind.String() + ": " + e.Message
}

func codecError(kind ErrorKind, format string, args ...interface{}) error {
	return &CodecError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorKindOf returns the kind of the CodecError at the root of err, or 0 if there is none.
func ErrorKindOf(err error) ErrorKind {
	if ce, ok := errors.Cause(err).(*CodecError); ok {
		return ce.Kind
	}
	return 0
}

// IsCodecError reports whether err was produced by the codec.
func IsCodecError(err error) bool {
	return ErrorKindOf(err) != 0
}

var (
	ErrInvalidAttributeLength     = &CodecError{Kind: KindMalformedAttribute, Message: "invalid attribute length"}
	ErrBadMessageAuthenticator    = &CodecError{Kind: KindAuthenticator, Message: "bad message authenticator"}
	ErrBadResponseAuthenticator   = &CodecError{Kind: KindAuthenticator, Message: "bad response authenticator"}
	ErrBadAccountingAuthenticator = &CodecError{Kind: KindAuthenticator, Message: "bad accounting request authenticator"}
)
