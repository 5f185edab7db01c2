package radius

// AttributeDefinition binds an attribute type to its name and codecs. Definitions are immutable
// once registered in a Dictionary.
type AttributeDefinition struct {
	Type AttributeType
	Name string

	// Data encodes and decodes the value region.
	Data DataCodec

	// Codec frames the value on the wire. Nil means StandardFormat.
	Codec AttributeCodec
}

func (d *AttributeDefinition) codec() AttributeCodec {
	if d.Codec == nil {
		return StandardFormat{}
	}
	return d.Codec
}

func (d *AttributeDefinition) dataCodec() DataCodec {
	if d.Data == nil {
		return OctetsCodec{}
	}
	return d.Data
}

// PacketFactory rebuilds a packet from decoded parts. It may validate the attributes for the
// packet's code and return an error to reject the packet.
type PacketFactory func(code Code, attributes []*Attribute, received *ReceivedFields) (*Packet, error)

// PacketDefinition binds a packet code to a name and a factory.
type PacketDefinition struct {
	Code Code
	Name string
	New  PacketFactory
}

func (d *PacketDefinition) build(code Code, attributes []*Attribute, received *ReceivedFields) (*Packet, error) {
	if d.New == nil {
		return NewPacket(code, attributes, received)
	}
	return d.New(code, attributes, received)
}

// TlvDefinition describes a container whose value is a sequence of sub-attributes, such as the
// "26.<vendor-id>" container of a vendor.
type TlvDefinition struct {
	Type AttributeType
	Name string
}

// Dictionary resolves numeric identifiers to definitions. Implementations must be safe for
// concurrent reads.
type Dictionary interface {
	LookupPacketDefinition(code Code) (*PacketDefinition, bool)
	LookupAttributeDefinition(t AttributeType) (*AttributeDefinition, bool)

	// LookupAttributeDefinitionByName is case-insensitive.
	LookupAttributeDefinitionByName(name string) (*AttributeDefinition, bool)

	LookupEnumValue(t AttributeType, name string) (uint32, bool)
	LookupEnumName(t AttributeType, value uint32) (string, bool)
	LookupTlvDefinition(t AttributeType) (*TlvDefinition, bool)
}

type emptyDictionary struct{}

func (emptyDictionary) LookupPacketDefinition(Code) (*PacketDefinition, bool) { return nil, false }

func (emptyDictionary) LookupAttributeDefinition(AttributeType) (*AttributeDefinition, bool) {
	return nil, false
}

func (emptyDictionary) LookupAttributeDefinitionByName(string) (*AttributeDefinition, bool) {
	return nil, false
}

func (emptyDictionary) LookupEnumValue(AttributeType, string) (uint32, bool) { return 0, false }
func (emptyDictionary) LookupEnumName(AttributeType, uint32) (string, bool)  { return "", false }
func (emptyDictionary) LookupTlvDefinition(AttributeType) (*TlvDefinition, bool) {
	return nil, false
}

// EmptyDictionary knows nothing; every attribute decodes as Octets and every packet is generic.
var EmptyDictionary Dictionary = emptyDictionary{}

// lookupDefinition returns the definition for t, or a raw octets definition when the dictionary
// has none. Unknown attributes are not an error.
func lookupDefinition(dict Dictionary, t AttributeType) *AttributeDefinition {
	if def, ok := dict.LookupAttributeDefinition(t); ok && def != nil {
		return def
	}
	return &AttributeDefinition{
		Type: t,
		Data: OctetsCodec{},
	}
}
