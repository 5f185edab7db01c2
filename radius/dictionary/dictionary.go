// Package dictionary provides the concrete radius.Dictionary implementations: a map-backed
// dictionary, an ordered compound of dictionaries, the standard RFC definitions and a YAML
// loader for vendor dictionaries.
package dictionary

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/theaaf/radius-core/radius"
)

// Dictionary is a map-backed radius.Dictionary. It is populated once at startup with the Add
// methods and must not be modified after it is shared between goroutines.
type Dictionary struct {
	packets    map[radius.Code]*radius.PacketDefinition
	attributes map[radius.AttributeType]*radius.AttributeDefinition
	names      map[string]*radius.AttributeDefinition
	values     map[radius.AttributeType]map[string]uint32
	valueNames map[radius.AttributeType]map[uint32]string
	tlvs       map[radius.AttributeType]*radius.TlvDefinition
}

var _ radius.Dictionary = (*Dictionary)(nil)

func New() *Dictionary {
	return &Dictionary{
		packets:    make(map[radius.Code]*radius.PacketDefinition),
		attributes: make(map[radius.AttributeType]*radius.AttributeDefinition),
		names:      make(map[string]*radius.AttributeDefinition),
		values:     make(map[radius.AttributeType]map[string]uint32),
		valueNames: make(map[radius.AttributeType]map[uint32]string),
		tlvs:       make(map[radius.AttributeType]*radius.TlvDefinition),
	}
}

func (d *Dictionary) AddPacket(def *radius.PacketDefinition) error {
	if _, ok := d.packets[def.Code]; ok {
		return errors.Errorf("duplicate packet code %d (%s)", def.Code, def.Name)
	}
	d.packets[def.Code] = def
	return nil
}

// AddAttribute registers def. Names must be unique regardless of case.
func (d *Dictionary) AddAttribute(def *radius.AttributeDefinition) error {
	if def.Type == "" || def.Name == "" {
		return errors.Errorf("attribute definition needs a type and a name")
	}
	if _, ok := d.attributes[def.Type]; ok {
		return errors.Errorf("duplicate attribute type %s (%s)", def.Type, def.Name)
	}
	key := strings.ToLower(def.Name)
	if existing, ok := d.names[key]; ok {
		return errors.Errorf("duplicate attribute name %q: already used by %s", def.Name, existing.Type)
	}
	d.attributes[def.Type] = def
	d.names[key] = def
	return nil
}

// AddValue names an enumerated value of attribute t.
func (d *Dictionary) AddValue(t radius.AttributeType, name string, value uint32) error {
	if d.values[t] == nil {
		d.values[t] = make(map[string]uint32)
		d.valueNames[t] = make(map[uint32]string)
	}
	key := strings.ToLower(name)
	if _, ok := d.values[t][key]; ok {
		return errors.Errorf("duplicate value %q for attribute %s", name, t)
	}
	d.values[t][key] = value
	if _, ok := d.valueNames[t][value]; !ok {
		d.valueNames[t][value] = name
	}
	return nil
}

func (d *Dictionary) AddTlv(def *radius.TlvDefinition) error {
	if _, ok := d.tlvs[def.Type]; ok {
		return errors.Errorf("duplicate tlv definition %s (%s)", def.Type, def.Name)
	}
	d.tlvs[def.Type] = def
	return nil
}

// AddVendor registers the "26.<id>" container and the vendor's sub-attributes. Each attribute's
// Type may be given either fully ("26.<id>.<n>") or as just the sub-type ("<n>").
func (d *Dictionary) AddVendor(id uint32, name string, attrs []*radius.AttributeDefinition) error {
	container := radius.NewAttributeType(radius.AttributeTypeVendorSpecific, id)
	if err := d.AddTlv(&radius.TlvDefinition{Type: container, Name: name}); err != nil {
		return err
	}
	for _, attr := range attrs {
		def := *attr
		if def.Type.Parent() != container {
			parts := def.Type.Parts()
			if len(parts) != 1 || parts[0] > 255 {
				return errors.Errorf("vendor %s attribute %s: invalid sub-type %s", name, def.Name, def.Type)
			}
			def.Type = container.Child(parts[0])
		}
		if err := d.AddAttribute(&def); err != nil {
			return errors.Wrapf(err, "vendor %s", name)
		}
	}
	return nil
}

func (d *Dictionary) LookupPacketDefinition(code radius.Code) (*radius.PacketDefinition, bool) {
	def, ok := d.packets[code]
	return def, ok
}

func (d *Dictionary) LookupAttributeDefinition(t radius.AttributeType) (*radius.AttributeDefinition, bool) {
	def, ok := d.attributes[t]
	return def, ok
}

func (d *Dictionary) LookupAttributeDefinitionByName(name string) (*radius.AttributeDefinition, bool) {
	def, ok := d.names[strings.ToLower(name)]
	return def, ok
}

func (d *Dictionary) LookupEnumValue(t radius.AttributeType, name string) (uint32, bool) {
	v, ok := d.values[t][strings.ToLower(name)]
	return v, ok
}

func (d *Dictionary) LookupEnumName(t radius.AttributeType, value uint32) (string, bool) {
	name, ok := d.valueNames[t][value]
	return name, ok
}

func (d *Dictionary) LookupTlvDefinition(t radius.AttributeType) (*radius.TlvDefinition, bool) {
	def, ok := d.tlvs[t]
	return def, ok
}

// Compound chains dictionaries. Every lookup returns the first match in list order.
type Compound []radius.Dictionary

var _ radius.Dictionary = Compound(nil)

func (c Compound) LookupPacketDefinition(code radius.Code) (*radius.PacketDefinition, bool) {
	for _, d := range c {
		if def, ok := d.LookupPacketDefinition(code); ok {
			return def, true
		}
	}
	return nil, false
}

func (c Compound) LookupAttributeDefinition(t radius.AttributeType) (*radius.AttributeDefinition, bool) {
	for _, d := range c {
		if def, ok := d.LookupAttributeDefinition(t); ok {
			return def, true
		}
	}
	return nil, false
}

func (c Compound) LookupAttributeDefinitionByName(name string) (*radius.AttributeDefinition, bool) {
	for _, d := range c {
		if def, ok := d.LookupAttributeDefinitionByName(name); ok {
			return def, true
		}
	}
	return nil, false
}

func (c Compound) LookupEnumValue(t radius.AttributeType, name string) (uint32, bool) {
	for _, d := range c {
		if v, ok := d.LookupEnumValue(t, name); ok {
			return v, true
		}
	}
	return 0, false
}

func (c Compound) LookupEnumName(t radius.AttributeType, value uint32) (string, bool) {
	for _, d := range c {
		if name, ok := d.LookupEnumName(t, value); ok {
			return name, true
		}
	}
	return "", false
}

func (c Compound) LookupTlvDefinition(t radius.AttributeType) (*radius.TlvDefinition, bool) {
	for _, d := range c {
		if def, ok := d.LookupTlvDefinition(t); ok {
			return def, true
		}
	}
	return nil, false
}
