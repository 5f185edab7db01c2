package radius

import (
	"net"

	"github.com/pkg/errors"
)

// Attribute is an immutable typed value. Two attributes are equal when their types and data
// are equal.
type Attribute struct {
	Type AttributeType
	Data Data
}

func MustAttribute(a *Attribute, err error) *Attribute {
	if err != nil {
		panic(err)
	}
	return a
}

func (a *Attribute) Equal(other *Attribute) bool {
	if a == nil || other == nil {
		return a == other
	}
	if a.Type != other.Type {
		return false
	}
	if a.Data == nil || other.Data == nil {
		return a.Data == nil && other.Data == nil
	}
	return a.Data.Equal(other.Data)
}

func (a *Attribute) String() string {
	if a.Data == nil {
		return string(a.Type) + "=<nil>"
	}
	return string(a.Type) + "=" + a.Data.String()
}

// NewTextAttribute returns an attribute whose value is "text" as defined by RFC-2865.
func NewTextAttribute(attributeType uint8, value string) (*Attribute, error) {
	if len(value) > MaxAttributeValueLength {
		return nil, errors.Errorf("text attribute %d longer than %d bytes", attributeType, MaxAttributeValueLength)
	}
	return &Attribute{
		Type: NewAttributeType(uint32(attributeType)),
		Data: Text(value),
	}, nil
}

// NewStringAttribute returns an attribute whose value is a "string" as defined by RFC-2865. This is used
// for binary data, not UTF-8 strings. UTF-8 strings are encoded as "text" values.
func NewStringAttribute(attributeType uint8, value []byte) (*Attribute, error) {
	if len(value) == 0 || len(value) > MaxAttributeValueLength {
		return nil, errors.Errorf("invalid length for string attribute")
	}
	return &Attribute{
		Type: NewAttributeType(uint32(attributeType)),
		Data: Octets(append([]byte(nil), value...)),
	}, nil
}

func NewAddressAttribute(attributeType uint8, value net.IP) (*Attribute, error) {
	ipv4 := value.To4()
	if ipv4 == nil {
		return nil, errors.Errorf("invalid address")
	}
	return &Attribute{
		Type: NewAttributeType(uint32(attributeType)),
		Data: IPv4Addr(ipv4),
	}, nil
}

func NewIntAttribute(attributeType uint8, value uint32) (*Attribute, error) {
	return &Attribute{
		Type: NewAttributeType(uint32(attributeType)),
		Data: Integer(value),
	}, nil
}

// NewConcatAttribute returns an attribute whose value may exceed a single attribute's capacity,
// such as EAP-Message.
func NewConcatAttribute(attributeType uint8, value []byte) (*Attribute, error) {
	if len(value) == 0 {
		return nil, errors.Errorf("empty concat attribute")
	}
	return &Attribute{
		Type: NewAttributeType(uint32(attributeType)),
		Data: Concat(append([]byte(nil), value...)),
	}, nil
}

// NewMessageAuthenticatorAttribute returns a placeholder Message-Authenticator. The codec fills in
// the HMAC when the packet is encoded.
func NewMessageAuthenticatorAttribute() *Attribute {
	return &Attribute{
		Type: NewAttributeType(AttributeTypeMessageAuthenticator),
		Data: Octets(make([]byte, AuthenticatorLength)),
	}
}

// VendorData is a vendor sub-attribute given as raw bytes.
type VendorData struct {
	Type uint8
	Data []byte
}

func NewVendorAttribute(vendorId uint32, data []*VendorData) (*Attribute, error) {
	size := 4
	vsa := VendorSpecific{VendorID: vendorId}
	parent := NewAttributeType(AttributeTypeVendorSpecific, vendorId)
	for _, d := range data {
		size += 2 + len(d.Data)
		vsa.Attributes = append(vsa.Attributes, &Attribute{
			Type: parent.Child(uint32(d.Type)),
			Data: Octets(append([]byte(nil), d.Data...)),
		})
	}
	if size > MaxAttributeValueLength {
		return nil, errors.Errorf("vendor attribute too large (%d bytes)", size)
	}
	return &Attribute{
		Type: NewAttributeType(AttributeTypeVendorSpecific),
		Data: vsa,
	}, nil
}
