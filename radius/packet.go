package radius

// Packet is a RADIUS packet. Received is only set on packets that were decoded off the wire;
// a packet being built for sending leaves it nil and the identifier and authenticator are given
// to the codec instead.
type Packet struct {
	Code       Code
	Attributes []*Attribute
	Received   *ReceivedFields
}

// NewPacket is the generic PacketFactory, used for codes the dictionary does not know.
func NewPacket(code Code, attributes []*Attribute, received *ReceivedFields) (*Packet, error) {
	return &Packet{
		Code:       code,
		Attributes: attributes,
		Received:   received,
	}, nil
}

// Response returns an empty reply with the given code. Proxy-State attributes are copied in
// order, as RFC-2865 requires of every reply.
func (p *Packet) Response(code Code) *Packet {
	resp := &Packet{Code: code}
	for _, attr := range p.Attributes {
		if attr.Type == NewAttributeType(AttributeTypeProxyState) {
			resp.Attributes = append(resp.Attributes, attr)
		}
	}
	return resp
}

func (p *Packet) Add(attrs ...*Attribute) {
	p.Attributes = append(p.Attributes, attrs...)
}

func (p *Packet) HasAttributeType(attributeType AttributeType) bool {
	return p.Lookup(attributeType) != nil
}

// Lookup returns the first attribute of the given type, or nil.
func (p *Packet) Lookup(attributeType AttributeType) *Attribute {
	for _, attr := range p.Attributes {
		if attr.Type == attributeType {
			return attr
		}
	}
	return nil
}

// LookupAll returns every attribute of the given type in packet order.
func (p *Packet) LookupAll(attributeType AttributeType) []*Attribute {
	var ret []*Attribute
	for _, attr := range p.Attributes {
		if attr.Type == attributeType {
			ret = append(ret, attr)
		}
	}
	return ret
}

// LookupVendor returns the first sub-attribute of the given vendor type across all
// Vendor-Specific attributes. vendorType is "26.<vendor>.<sub-type>".
func (p *Packet) LookupVendor(vendorType AttributeType) *Attribute {
	for _, attr := range p.Attributes {
		vsa, ok := attr.Data.(VendorSpecific)
		if !ok {
			continue
		}
		for _, sub := range vsa.Attributes {
			if sub.Type == vendorType {
				return sub
			}
		}
	}
	return nil
}

// Text returns the value of the first attribute of the given type as a string. Text, Octets and
// Concat values are accepted.
func (p *Packet) Text(attributeType AttributeType) (string, bool) {
	attr := p.Lookup(attributeType)
	if attr == nil {
		return "", false
	}
	switch v := attr.Data.(type) {
	case Text:
		return string(v), true
	case Octets:
		return string(v), true
	case Concat:
		return string(v), true
	}
	return "", false
}

// EAPMessage returns the joined EAP-Message value, or nil if the packet has none.
func (p *Packet) EAPMessage() []byte {
	attr := p.Lookup(NewAttributeType(AttributeTypeEAPMessage))
	if attr == nil {
		return nil
	}
	switch v := attr.Data.(type) {
	case Concat:
		return v
	case Octets:
		return v
	}
	return nil
}
