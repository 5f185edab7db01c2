package radius

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Code is the RADIUS packet type carried in the first header byte.
type Code uint8

const (
	CodeAccessRequest      Code = 1
	CodeAccessAccept       Code = 2
	CodeAccessReject       Code = 3
	CodeAccountingRequest  Code = 4
	CodeAccountingResponse Code = 5
	CodeAccessChallenge    Code = 11
	CodeStatusServer       Code = 12
	CodeStatusClient       Code = 13
	CodeDisconnectRequest  Code = 40
	CodeDisconnectACK      Code = 41
	CodeDisconnectNAK      Code = 42
	CodeCoARequest         Code = 43
	CodeCoAACK             Code = 44
	CodeCoANAK             Code = 45
)

var codeNames = map[Code]string{
	CodeAccessRequest:      "Access-Request",
	CodeAccessAccept:       "Access-Accept",
	CodeAccessReject:       "Access-Reject",
	CodeAccountingRequest:  "Accounting-Request",
	CodeAccountingResponse: "Accounting-Response",
	CodeAccessChallenge:    "Access-Challenge",
	CodeStatusServer:       "Status-Server",
	CodeStatusClient:       "Status-Client",
	CodeDisconnectRequest:  "Disconnect-Request",
	CodeDisconnectACK:      "Disconnect-ACK",
	CodeDisconnectNAK:      "Disconnect-NAK",
	CodeCoARequest:         "CoA-Request",
	CodeCoAACK:             "CoA-ACK",
	CodeCoANAK:             "CoA-NAK",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "Code-" + strconv.Itoa(int(c))
}

const (
	HeaderLength        = 20
	MaxPacketLength     = 4096
	AuthenticatorLength = 16

	// MaxAttributeValueLength is the largest value a single type+length framed attribute can carry.
	MaxAttributeValueLength = 253
)

// Well-known attribute type numbers the codec itself needs to know about.
const (
	AttributeTypeUserName             = 1
	AttributeTypeUserPassword         = 2
	AttributeTypeReplyMessage         = 18
	AttributeTypeState                = 24
	AttributeTypeVendorSpecific       = 26
	AttributeTypeProxyState           = 33
	AttributeTypeAcctStatusType       = 40
	AttributeTypeAcctSessionID        = 44
	AttributeTypeEAPMessage           = 79
	AttributeTypeMessageAuthenticator = 80
)

// Authenticator is the 16 byte header field used for request freshness and response integrity.
type Authenticator [AuthenticatorLength]byte

func (a Authenticator) String() string {
	return hex.EncodeToString(a[:])
}

// AuthenticatorFromBytes copies b into an Authenticator. b must be exactly 16 bytes long.
func AuthenticatorFromBytes(b []byte) (Authenticator, error) {
	var a Authenticator
	if len(b) != AuthenticatorLength {
		return a, errors.Errorf("authenticator must be %d bytes, got %d", AuthenticatorLength, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// ReceivedFields holds the header fields of a packet that was decoded off the wire.
type ReceivedFields struct {
	Identifier    uint8
	Authenticator Authenticator
}

// AttributeType identifies an attribute by its dotted path. A top-level attribute is a single
// number ("1"), a vendor sub-attribute is "26.<vendor>.<sub-type>" and an extended attribute is
// "<type>.<extended-type>".
type AttributeType string

// NewAttributeType joins parts into a dotted AttributeType.
func NewAttributeType(parts ...uint32) AttributeType {
	var sb strings.Builder
	for i, p := range parts {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.FormatUint(uint64(p), 10))
	}
	return AttributeType(sb.String())
}

// ParseAttributeType validates s as a dotted attribute path.
func ParseAttributeType(s string) (AttributeType, error) {
	parts := strings.Split(s, ".")
	out := make([]uint32, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return "", errors.Wrapf(err, "invalid attribute type %q", s)
		}
		out[i] = uint32(v)
	}
	if out[0] > 255 {
		return "", errors.Errorf("invalid attribute type %q: top-level type exceeds 255", s)
	}
	return NewAttributeType(out...), nil
}

// Parts returns the numeric components of the path. Malformed components parse as zero.
func (t AttributeType) Parts() []uint32 {
	if t == "" {
		return nil
	}
	fields := strings.Split(string(t), ".")
	parts := make([]uint32, len(fields))
	for i, f := range fields {
		v, _ := strconv.ParseUint(f, 10, 32)
		parts[i] = uint32(v)
	}
	return parts
}

// Top returns the type byte that appears on the wire.
func (t AttributeType) Top() uint8 {
	parts := t.Parts()
	if len(parts) == 0 {
		return 0
	}
	return uint8(parts[0])
}

// Last returns the innermost component of the path.
func (t AttributeType) Last() uint32 {
	parts := t.Parts()
	if len(parts) == 0 {
		return 0
	}
	return parts[len(parts)-1]
}

// Child appends n to the path.
func (t AttributeType) Child(n uint32) AttributeType {
	return AttributeType(string(t) + "." + strconv.FormatUint(uint64(n), 10))
}

// Parent drops the innermost component. The parent of a top-level type is "".
func (t AttributeType) Parent() AttributeType {
	i := strings.LastIndexByte(string(t), '.')
	if i < 0 {
		return ""
	}
	return t[:i]
}
