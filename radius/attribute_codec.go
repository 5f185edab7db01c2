package radius

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// AttributeCodec frames a Data value as one or more wire attributes.
//
// DecodeAttribute is handed the remaining attribute bytes of a packet, starting at the type byte
// of the attribute to decode. It returns the decoded attribute and the number of bytes consumed,
// which covers every wire attribute that contributed to the value.
type AttributeCodec interface {
	DecodeAttribute(ctx *CodecContext, def *AttributeDefinition, b []byte) (*Attribute, int, error)
	EncodeAttribute(ctx *CodecContext, def *AttributeDefinition, a *Attribute) ([]byte, error)
}

const (
	longExtendedMore        = 0x80
	maxExtendedValueLength  = 255 - 3
	maxLongExtendedFragment = 255 - 4
	minVendorSpecificLength = 6
)

// frame checks the type+length header at the start of b and returns the declared length.
func frame(b []byte, min int) (int, error) {
	if len(b) < 2 {
		return 0, errors.Wrapf(ErrInvalidAttributeLength, "%d trailing bytes", len(b))
	}
	l := int(b[1])
	if l < min {
		return 0, codecError(KindMalformedAttribute, "attribute %d: length %d below minimum %d", b[0], l, min)
	}
	if l > len(b) {
		return 0, codecError(KindLength, "attribute %d: length %d overruns %d remaining bytes", b[0], l, len(b))
	}
	return l, nil
}

func topLevelOnly(a *Attribute, def *AttributeDefinition) error {
	if len(a.Type.Parts()) != 1 {
		return codecError(KindEncoding, "attribute %s cannot be framed by the definition for %s", a.Type, def.Type)
	}
	return nil
}

// StandardFormat is type(1) length(1) value.
type StandardFormat struct{}

func (StandardFormat) DecodeAttribute(ctx *CodecContext, def *AttributeDefinition, b []byte) (*Attribute, int, error) {
	l, err := frame(b, 2)
	if err != nil {
		return nil, 0, err
	}
	data, err := def.dataCodec().DecodeData(ctx, def.Type, b[2:l])
	if err != nil {
		return nil, 0, err
	}
	return &Attribute{Type: def.Type, Data: data}, l, nil
}

func (StandardFormat) EncodeAttribute(ctx *CodecContext, def *AttributeDefinition, a *Attribute) ([]byte, error) {
	if err := topLevelOnly(a, def); err != nil {
		return nil, err
	}
	value, err := def.dataCodec().EncodeData(ctx, a.Type, a.Data)
	if err != nil {
		return nil, err
	}
	if len(value) > MaxAttributeValueLength {
		return nil, codecError(KindEncoding, "attribute %s: value of %d bytes exceeds %d", a.Type, len(value), MaxAttributeValueLength)
	}
	return append([]byte{a.Type.Top(), byte(2 + len(value))}, value...), nil
}

// ConcatFormat joins the values of consecutive attributes of the same type, as RFC 3579 does for
// EAP-Message.
type ConcatFormat struct{}

func (ConcatFormat) DecodeAttribute(ctx *CodecContext, def *AttributeDefinition, b []byte) (*Attribute, int, error) {
	var value []byte
	consumed := 0
	for consumed < len(b) && b[consumed] == b[0] {
		l, err := frame(b[consumed:], 3)
		if err != nil {
			return nil, 0, err
		}
		value = append(value, b[consumed+2:consumed+l]...)
		consumed += l
	}
	data, err := def.dataCodec().DecodeData(ctx, def.Type, value)
	if err != nil {
		return nil, 0, err
	}
	return &Attribute{Type: def.Type, Data: data}, consumed, nil
}

func (ConcatFormat) EncodeAttribute(ctx *CodecContext, def *AttributeDefinition, a *Attribute) ([]byte, error) {
	if err := topLevelOnly(a, def); err != nil {
		return nil, err
	}
	value, err := def.dataCodec().EncodeData(ctx, a.Type, a.Data)
	if err != nil {
		return nil, err
	}
	if len(value) == 0 {
		return nil, codecError(KindEncoding, "attribute %s: concat value is empty", a.Type)
	}
	var out []byte
	for len(value) > 0 {
		n := len(value)
		if n > MaxAttributeValueLength {
			n = MaxAttributeValueLength
		}
		out = append(out, a.Type.Top(), byte(2+n))
		out = append(out, value[:n]...)
		value = value[n:]
	}
	return out, nil
}

// ExtendedFormat is the RFC 6929 short extended form: type(1) length(1) extended-type(1) value.
// The decoded attribute's type is "<type>.<extended-type>".
type ExtendedFormat struct{}

func (ExtendedFormat) DecodeAttribute(ctx *CodecContext, def *AttributeDefinition, b []byte) (*Attribute, int, error) {
	l, err := frame(b, 3)
	if err != nil {
		return nil, 0, err
	}
	t := def.Type.Child(uint32(b[2]))
	sub := lookupDefinition(ctx.dictionary(), t)
	data, err := sub.dataCodec().DecodeData(ctx, t, b[3:l])
	if err != nil {
		return nil, 0, err
	}
	return &Attribute{Type: t, Data: data}, l, nil
}

func (ExtendedFormat) EncodeAttribute(ctx *CodecContext, def *AttributeDefinition, a *Attribute) ([]byte, error) {
	ext, err := extendedType(a, def)
	if err != nil {
		return nil, err
	}
	sub := lookupDefinition(ctx.dictionary(), a.Type)
	value, err := sub.dataCodec().EncodeData(ctx, a.Type, a.Data)
	if err != nil {
		return nil, err
	}
	if len(value) > maxExtendedValueLength {
		return nil, codecError(KindEncoding, "attribute %s: value of %d bytes exceeds %d", a.Type, len(value), maxExtendedValueLength)
	}
	return append([]byte{a.Type.Top(), byte(3 + len(value)), ext}, value...), nil
}

func extendedType(a *Attribute, def *AttributeDefinition) (byte, error) {
	parts := a.Type.Parts()
	if len(parts) != 2 || parts[1] > 255 || a.Type.Parent() != def.Type {
		return 0, codecError(KindEncoding, "attribute %s is not an extended type of %s", a.Type, def.Type)
	}
	return byte(parts[1]), nil
}

// LongExtendedFormat is the RFC 6929 long extended form: type(1) length(1) extended-type(1)
// flags(1) value. Values longer than one attribute are fragmented; every fragment but the last
// has the More flag set.
type LongExtendedFormat struct{}

func (LongExtendedFormat) DecodeAttribute(ctx *CodecContext, def *AttributeDefinition, b []byte) (*Attribute, int, error) {
	l, err := frame(b, 4)
	if err != nil {
		return nil, 0, err
	}
	ext, flags := b[2], b[3]
	value := append([]byte(nil), b[4:l]...)
	consumed := l
	for flags&longExtendedMore != 0 {
		rest := b[consumed:]
		if len(rest) < 4 || rest[0] != b[0] || rest[2] != ext {
			return nil, 0, codecError(KindMalformedAttribute, "attribute %d.%d: more flag set without a continuation", b[0], ext)
		}
		l, err := frame(rest, 4)
		if err != nil {
			return nil, 0, err
		}
		value = append(value, rest[4:l]...)
		flags = rest[3]
		consumed += l
	}

	t := def.Type.Child(uint32(ext))
	sub := lookupDefinition(ctx.dictionary(), t)
	data, err := sub.dataCodec().DecodeData(ctx, t, value)
	if err != nil {
		return nil, 0, err
	}
	return &Attribute{Type: t, Data: data}, consumed, nil
}

func (LongExtendedFormat) EncodeAttribute(ctx *CodecContext, def *AttributeDefinition, a *Attribute) ([]byte, error) {
	ext, err := extendedType(a, def)
	if err != nil {
		return nil, err
	}
	sub := lookupDefinition(ctx.dictionary(), a.Type)
	value, err := sub.dataCodec().EncodeData(ctx, a.Type, a.Data)
	if err != nil {
		return nil, err
	}
	var out []byte
	for {
		n := len(value)
		var flags byte
		if n > maxLongExtendedFragment {
			n = maxLongExtendedFragment
			flags = longExtendedMore
		}
		out = append(out, a.Type.Top(), byte(4+n), ext, flags)
		out = append(out, value[:n]...)
		value = value[n:]
		if flags == 0 {
			return out, nil
		}
	}
}

// VendorSpecificFormat is attribute 26: type(1) length(1) vendor-id(4) followed by
// sub-type(1) sub-length(1) sub-value TLVs. Vendors without a TLV definition in the dictionary
// decode as a raw Octets attribute holding everything after the length byte.
type VendorSpecificFormat struct{}

func (VendorSpecificFormat) DecodeAttribute(ctx *CodecContext, def *AttributeDefinition, b []byte) (*Attribute, int, error) {
	l, err := frame(b, minVendorSpecificLength)
	if err != nil {
		return nil, 0, err
	}
	vendorID := binary.BigEndian.Uint32(b[2:6])
	container := def.Type.Child(vendorID)
	dict := ctx.dictionary()
	if _, ok := dict.LookupTlvDefinition(container); !ok {
		return &Attribute{Type: def.Type, Data: Octets(append([]byte(nil), b[2:l]...))}, l, nil
	}

	vsa := VendorSpecific{VendorID: vendorID}
	sub := b[6:l]
	for len(sub) > 0 {
		if len(sub) < 2 {
			return nil, 0, codecError(KindMalformedAttribute, "vendor %d: truncated sub-attribute", vendorID)
		}
		sl := int(sub[1])
		if sl < 2 {
			return nil, 0, codecError(KindMalformedAttribute, "vendor %d: sub-attribute %d length %d below minimum 2", vendorID, sub[0], sl)
		}
		if sl > len(sub) {
			return nil, 0, codecError(KindLength, "vendor %d: sub-attribute %d length %d overruns %d remaining bytes", vendorID, sub[0], sl, len(sub))
		}
		t := container.Child(uint32(sub[0]))
		sd := lookupDefinition(dict, t)
		data, err := sd.dataCodec().DecodeData(ctx, t, sub[2:sl])
		if err != nil {
			return nil, 0, err
		}
		vsa.Attributes = append(vsa.Attributes, &Attribute{Type: t, Data: data})
		sub = sub[sl:]
	}
	return &Attribute{Type: def.Type, Data: vsa}, l, nil
}

func (VendorSpecificFormat) EncodeAttribute(ctx *CodecContext, def *AttributeDefinition, a *Attribute) ([]byte, error) {
	if err := topLevelOnly(a, def); err != nil {
		return nil, err
	}
	switch v := a.Data.(type) {
	case Octets:
		return StandardFormat{}.EncodeAttribute(ctx, &AttributeDefinition{Type: def.Type, Data: OctetsCodec{}}, a)
	case VendorSpecific:
		payload := make([]byte, 4, 16)
		binary.BigEndian.PutUint32(payload, v.VendorID)
		container := def.Type.Child(v.VendorID)
		dict := ctx.dictionary()
		for _, attr := range v.Attributes {
			if attr.Type.Parent() != container || attr.Type.Last() > 255 {
				return nil, codecError(KindEncoding, "attribute %s does not belong to vendor %d", attr.Type, v.VendorID)
			}
			sd := lookupDefinition(dict, attr.Type)
			value, err := sd.dataCodec().EncodeData(ctx, attr.Type, attr.Data)
			if err != nil {
				return nil, err
			}
			payload = append(payload, byte(attr.Type.Last()), byte(2+len(value)))
			payload = append(payload, value...)
		}
		if len(payload) > MaxAttributeValueLength {
			return nil, codecError(KindEncoding, "vendor %d: payload of %d bytes exceeds %d", v.VendorID, len(payload), MaxAttributeValueLength)
		}
		return append([]byte{a.Type.Top(), byte(2 + len(payload))}, payload...), nil
	}
	return nil, wrongData(a.Type, a.Data)
}
