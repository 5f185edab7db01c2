package radius

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Data is the typed value of an attribute. The set of implementations is closed; each variant
// holds exactly what is needed to reproduce its wire form.
type Data interface {
	fmt.Stringer

	// Equal reports whether other is the same variant with the same value.
	Equal(other Data) bool

	isData()
}

// Text is a string value. It is usually UTF-8, but any bytes are carried through unchanged.
type Text string

// Octets is an opaque byte string value. Attributes with no known definition decode as Octets.
type Octets []byte

// Integer is a 32-bit unsigned value.
type Integer uint32

// Integer64 is a 64-bit unsigned value.
type Integer64 uint64

// Time is a 32-bit count of seconds since the Unix epoch.
type Time time.Time

// Enum is a 32-bit value with an optional dictionary name. When encoding, a zero Value with a
// Name is resolved through the dictionary.
type Enum struct {
	Value uint32
	Name  string
}

// IPv4Addr is a 4 byte address.
type IPv4Addr net.IP

// IPv6Addr is a 16 byte address.
type IPv6Addr net.IP

// IPv4Prefix is an RFC 8044 ipv4prefix.
type IPv4Prefix net.IPNet

// IPv6Prefix is an RFC 3162 prefix.
type IPv6Prefix net.IPNet

// Concat is an octet string that may be split across consecutive attributes of the same type.
type Concat []byte

// VendorSpecific is the container carried by attribute 26.
type VendorSpecific struct {
	VendorID   uint32
	Attributes []*Attribute
}

func (Text) isData()           {}
func (Octets) isData()         {}
func (Integer) isData()        {}
func (Integer64) isData()      {}
func (Time) isData()           {}
func (Enum) isData()           {}
func (IPv4Addr) isData()       {}
func (IPv6Addr) isData()       {}
func (IPv4Prefix) isData()     {}
func (IPv6Prefix) isData()     {}
func (Concat) isData()         {}
func (VendorSpecific) isData() {}

func (d Text) String() string { return string(d) }

func (d Text) Equal(other Data) bool {
	o, ok := other.(Text)
	return ok && o == d
}

func (d Octets) String() string { return "0x" + hex.EncodeToString(d) }

func (d Octets) Equal(other Data) bool {
	o, ok := other.(Octets)
	return ok && bytes.Equal(o, d)
}

func (d Integer) String() string { return strconv.FormatUint(uint64(d), 10) }

func (d Integer) Equal(other Data) bool {
	o, ok := other.(Integer)
	return ok && o == d
}

func (d Integer64) String() string { return strconv.FormatUint(uint64(d), 10) }

func (d Integer64) Equal(other Data) bool {
	o, ok := other.(Integer64)
	return ok && o == d
}

func (d Time) String() string { return time.Time(d).UTC().Format(time.RFC3339) }

func (d Time) Equal(other Data) bool {
	o, ok := other.(Time)
	return ok && time.Time(o).Unix() == time.Time(d).Unix()
}

func (d Enum) String() string {
	if d.Name != "" {
		return d.Name
	}
	return strconv.FormatUint(uint64(d.Value), 10)
}

// Equal compares enum values by number only; the name is presentation.
func (d Enum) Equal(other Data) bool {
	o, ok := other.(Enum)
	return ok && o.Value == d.Value
}

func (d IPv4Addr) String() string { return net.IP(d).String() }

func (d IPv4Addr) Equal(other Data) bool {
	o, ok := other.(IPv4Addr)
	return ok && net.IP(o).Equal(net.IP(d))
}

func (d IPv6Addr) String() string { return net.IP(d).String() }

func (d IPv6Addr) Equal(other Data) bool {
	o, ok := other.(IPv6Addr)
	return ok && net.IP(o).Equal(net.IP(d))
}

func (d IPv4Prefix) String() string {
	n := net.IPNet(d)
	return n.String()
}

func (d IPv4Prefix) Equal(other Data) bool {
	o, ok := other.(IPv4Prefix)
	return ok && prefixEqual(net.IPNet(o), net.IPNet(d))
}

func (d IPv6Prefix) String() string {
	n := net.IPNet(d)
	return n.String()
}

func (d IPv6Prefix) Equal(other Data) bool {
	o, ok := other.(IPv6Prefix)
	return ok && prefixEqual(net.IPNet(o), net.IPNet(d))
}

func prefixEqual(a, b net.IPNet) bool {
	return a.IP.Equal(b.IP) && bytes.Equal(a.Mask, b.Mask)
}

func (d Concat) String() string { return "0x" + hex.EncodeToString(d) }

func (d Concat) Equal(other Data) bool {
	o, ok := other.(Concat)
	return ok && bytes.Equal(o, d)
}

func (d VendorSpecific) String() string {
	parts := make([]string, len(d.Attributes))
	for i, a := range d.Attributes {
		parts[i] = a.String()
	}
	return fmt.Sprintf("vendor %d {%s}", d.VendorID, strings.Join(parts, ", "))
}

func (d VendorSpecific) Equal(other Data) bool {
	o, ok := other.(VendorSpecific)
	if !ok || o.VendorID != d.VendorID || len(o.Attributes) != len(d.Attributes) {
		return false
	}
	for i := range d.Attributes {
		if !d.Attributes[i].Equal(o.Attributes[i]) {
			return false
		}
	}
	return true
}
