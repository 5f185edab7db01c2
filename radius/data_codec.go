package radius

import (
	"encoding/binary"
	"net"
	"time"
)

// CodecContext is what a codec may need beyond the bytes it is handed.
type CodecContext struct {
	Dictionary Dictionary
	Secret     []byte

	// Authenticator is the request authenticator that keys User-Password obfuscation.
	Authenticator Authenticator
}

func (ctx *CodecContext) dictionary() Dictionary {
	if ctx == nil || ctx.Dictionary == nil {
		return EmptyDictionary
	}
	return ctx.Dictionary
}

// DataCodec converts between a Data value and the value region of an attribute. It never sees
// type or length framing.
type DataCodec interface {
	EncodeData(ctx *CodecContext, t AttributeType, d Data) ([]byte, error)
	DecodeData(ctx *CodecContext, t AttributeType, b []byte) (Data, error)
}

func wrongData(t AttributeType, d Data) error {
	return codecError(KindEncoding, "attribute %s: unexpected data type %T", t, d)
}

func wrongArity(t AttributeType, want string, got int) error {
	return codecError(KindMalformedAttribute, "attribute %s: value must be %s bytes, got %d", t, want, got)
}

// TextCodec passes bytes through unchanged in both directions. UTF-8 is not enforced, so a
// decoded value can always be encoded again.
type TextCodec struct{}

func (TextCodec) EncodeData(ctx *CodecContext, t AttributeType, d Data) ([]byte, error) {
	v, ok := d.(Text)
	if !ok {
		return nil, wrongData(t, d)
	}
	return []byte(v), nil
}

func (TextCodec) DecodeData(ctx *CodecContext, t AttributeType, b []byte) (Data, error) {
	return Text(b), nil
}

type OctetsCodec struct{}

func (OctetsCodec) EncodeData(ctx *CodecContext, t AttributeType, d Data) ([]byte, error) {
	switch v := d.(type) {
	case Octets:
		return append([]byte(nil), v...), nil
	case Text:
		return []byte(v), nil
	}
	return nil, wrongData(t, d)
}

func (OctetsCodec) DecodeData(ctx *CodecContext, t AttributeType, b []byte) (Data, error) {
	return Octets(append([]byte(nil), b...)), nil
}

type IntegerCodec struct{}

func (IntegerCodec) EncodeData(ctx *CodecContext, t AttributeType, d Data) ([]byte, error) {
	v, ok := d.(Integer)
	if !ok {
		return nil, wrongData(t, d)
	}
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(v))
	return b, nil
}

func (IntegerCodec) DecodeData(ctx *CodecContext, t AttributeType, b []byte) (Data, error) {
	if len(b) != 4 {
		return nil, wrongArity(t, "4", len(b))
	}
	return Integer(binary.BigEndian.Uint32(b)), nil
}

type Integer64Codec struct{}

func (Integer64Codec) EncodeData(ctx *CodecContext, t AttributeType, d Data) ([]byte, error) {
	v, ok := d.(Integer64)
	if !ok {
		return nil, wrongData(t, d)
	}
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b, nil
}

func (Integer64Codec) DecodeData(ctx *CodecContext, t AttributeType, b []byte) (Data, error) {
	if len(b) != 8 {
		return nil, wrongArity(t, "8", len(b))
	}
	return Integer64(binary.BigEndian.Uint64(b)), nil
}

type TimeCodec struct{}

func (TimeCodec) EncodeData(ctx *CodecContext, t AttributeType, d Data) ([]byte, error) {
	v, ok := d.(Time)
	if !ok {
		return nil, wrongData(t, d)
	}
	secs := time.Time(v).Unix()
	if secs < 0 || secs > 0xffffffff {
		return nil, codecError(KindEncoding, "attribute %s: time %v out of range", t, v)
	}
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(secs))
	return b, nil
}

func (TimeCodec) DecodeData(ctx *CodecContext, t AttributeType, b []byte) (Data, error) {
	if len(b) != 4 {
		return nil, wrongArity(t, "4", len(b))
	}
	return Time(time.Unix(int64(binary.BigEndian.Uint32(b)), 0).UTC()), nil
}

// EnumCodec is an integer whose values have dictionary names.
type EnumCodec struct{}

func (EnumCodec) EncodeData(ctx *CodecContext, t AttributeType, d Data) ([]byte, error) {
	var value uint32
	switch v := d.(type) {
	case Enum:
		value = v.Value
		if value == 0 && v.Name != "" {
			resolved, ok := ctx.dictionary().LookupEnumValue(t, v.Name)
			if !ok {
				return nil, codecError(KindEncoding, "attribute %s: unknown value name %q", t, v.Name)
			}
			value = resolved
		}
	case Integer:
		value = uint32(v)
	default:
		return nil, wrongData(t, d)
	}
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, value)
	return b, nil
}

func (EnumCodec) DecodeData(ctx *CodecContext, t AttributeType, b []byte) (Data, error) {
	if len(b) != 4 {
		return nil, wrongArity(t, "4", len(b))
	}
	e := Enum{Value: binary.BigEndian.Uint32(b)}
	if name, ok := ctx.dictionary().LookupEnumName(t, e.Value); ok {
		e.Name = name
	}
	return e, nil
}

type IPv4AddrCodec struct{}

func (IPv4AddrCodec) EncodeData(ctx *CodecContext, t AttributeType, d Data) ([]byte, error) {
	v, ok := d.(IPv4Addr)
	if !ok {
		return nil, wrongData(t, d)
	}
	ip := net.IP(v).To4()
	if ip == nil {
		return nil, codecError(KindEncoding, "attribute %s: %v is not an ipv4 address", t, net.IP(v))
	}
	return append([]byte(nil), ip...), nil
}

func (IPv4AddrCodec) DecodeData(ctx *CodecContext, t AttributeType, b []byte) (Data, error) {
	if len(b) != net.IPv4len {
		return nil, wrongArity(t, "4", len(b))
	}
	return IPv4Addr(append(net.IP(nil), b...)), nil
}

type IPv6AddrCodec struct{}

func (IPv6AddrCodec) EncodeData(ctx *CodecContext, t AttributeType, d Data) ([]byte, error) {
	v, ok := d.(IPv6Addr)
	if !ok {
		return nil, wrongData(t, d)
	}
	ip := net.IP(v).To16()
	if ip == nil {
		return nil, codecError(KindEncoding, "attribute %s: invalid ipv6 address", t)
	}
	return append([]byte(nil), ip...), nil
}

func (IPv6AddrCodec) DecodeData(ctx *CodecContext, t AttributeType, b []byte) (Data, error) {
	if len(b) != net.IPv6len {
		return nil, wrongArity(t, "16", len(b))
	}
	return IPv6Addr(append(net.IP(nil), b...)), nil
}

// IPv4PrefixCodec encodes reserved(1) prefix-length(1) address(4).
type IPv4PrefixCodec struct{}

func (IPv4PrefixCodec) EncodeData(ctx *CodecContext, t AttributeType, d Data) ([]byte, error) {
	v, ok := d.(IPv4Prefix)
	if !ok {
		return nil, wrongData(t, d)
	}
	ip := v.IP.To4()
	ones, bits := net.IPMask(v.Mask).Size()
	if ip == nil || bits != 32 {
		return nil, codecError(KindEncoding, "attribute %s: invalid ipv4 prefix", t)
	}
	b := make([]byte, 6)
	b[1] = byte(ones)
	copy(b[2:], ip.Mask(v.Mask))
	return b, nil
}

func (IPv4PrefixCodec) DecodeData(ctx *CodecContext, t AttributeType, b []byte) (Data, error) {
	if len(b) != 6 {
		return nil, wrongArity(t, "6", len(b))
	}
	if b[1] > 32 {
		return nil, codecError(KindMalformedAttribute, "attribute %s: prefix length %d exceeds 32", t, b[1])
	}
	return IPv4Prefix{
		IP:   append(net.IP(nil), b[2:6]...),
		Mask: net.CIDRMask(int(b[1]), 32),
	}, nil
}

// IPv6PrefixCodec encodes reserved(1) prefix-length(1) and only the prefix bytes that are needed.
type IPv6PrefixCodec struct{}

func (IPv6PrefixCodec) EncodeData(ctx *CodecContext, t AttributeType, d Data) ([]byte, error) {
	v, ok := d.(IPv6Prefix)
	if !ok {
		return nil, wrongData(t, d)
	}
	ip := v.IP.To16()
	ones, bits := net.IPMask(v.Mask).Size()
	if ip == nil || bits != 128 {
		return nil, codecError(KindEncoding, "attribute %s: invalid ipv6 prefix", t)
	}
	n := (ones + 7) / 8
	b := make([]byte, 2+n)
	b[1] = byte(ones)
	copy(b[2:], ip.Mask(v.Mask)[:n])
	return b, nil
}

func (IPv6PrefixCodec) DecodeData(ctx *CodecContext, t AttributeType, b []byte) (Data, error) {
	if len(b) < 2 || len(b) > 18 {
		return nil, wrongArity(t, "2-18", len(b))
	}
	ones := int(b[1])
	if ones > 128 || (ones+7)/8 > len(b)-2 {
		return nil, codecError(KindMalformedAttribute, "attribute %s: prefix length %d does not fit %d bytes", t, ones, len(b)-2)
	}
	ip := make(net.IP, net.IPv6len)
	copy(ip, b[2:])
	mask := net.CIDRMask(ones, 128)
	return IPv6Prefix{
		IP:   ip.Mask(mask),
		Mask: mask,
	}, nil
}

// ConcatCodec carries the joined value of a ConcatFormat attribute.
type ConcatCodec struct{}

func (ConcatCodec) EncodeData(ctx *CodecContext, t AttributeType, d Data) ([]byte, error) {
	switch v := d.(type) {
	case Concat:
		return append([]byte(nil), v...), nil
	case Octets:
		return append([]byte(nil), v...), nil
	}
	return nil, wrongData(t, d)
}

func (ConcatCodec) DecodeData(ctx *CodecContext, t AttributeType, b []byte) (Data, error) {
	return Concat(append([]byte(nil), b...)), nil
}

// MessageAuthenticatorCodec is a fixed 16 byte octet string.
type MessageAuthenticatorCodec struct{}

func (MessageAuthenticatorCodec) EncodeData(ctx *CodecContext, t AttributeType, d Data) ([]byte, error) {
	v, ok := d.(Octets)
	if !ok {
		return nil, wrongData(t, d)
	}
	if len(v) == 0 {
		return make([]byte, AuthenticatorLength), nil
	}
	if len(v) != AuthenticatorLength {
		return nil, codecError(KindEncoding, "attribute %s: message authenticator must be 16 bytes, got %d", t, len(v))
	}
	return append([]byte(nil), v...), nil
}

func (MessageAuthenticatorCodec) DecodeData(ctx *CodecContext, t AttributeType, b []byte) (Data, error) {
	if len(b) != AuthenticatorLength {
		return nil, wrongArity(t, "16", len(b))
	}
	return Octets(append([]byte(nil), b...)), nil
}
