package dictionary

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/theaaf/radius-core/radius"
)

// File is the YAML dictionary format.
//
//	attributes:
//	  - type: "241.1"
//	    name: Frag-Status
//	    data_type: integer
//	vendors:
//	  - id: 311
//	    name: Microsoft
//	    attributes:
//	      - type: 16
//	        name: MS-MPPE-Send-Key
//	        data_type: octets
type File struct {
	Attributes []AttributeEntry `yaml:"attributes"`
	Vendors    []VendorEntry    `yaml:"vendors"`
}

type AttributeEntry struct {
	// Type is a dotted attribute path. Inside a vendor it is the sub-type alone.
	Type     string            `yaml:"type"`
	Name     string            `yaml:"name"`
	DataType string            `yaml:"data_type"`
	Format   string            `yaml:"format,omitempty"`
	Values   map[string]uint32 `yaml:"values,omitempty"`
}

type VendorEntry struct {
	ID         uint32           `yaml:"id"`
	Name       string           `yaml:"name"`
	Attributes []AttributeEntry `yaml:"attributes"`
}

// DataCodec returns the data codec for a dictionary data type name.
func DataCodec(name string) (radius.DataCodec, error) {
	switch strings.ToLower(name) {
	case "text", "string":
		return radius.TextCodec{}, nil
	case "octets":
		return radius.OctetsCodec{}, nil
	case "integer":
		return radius.IntegerCodec{}, nil
	case "integer64":
		return radius.Integer64Codec{}, nil
	case "enum":
		return radius.EnumCodec{}, nil
	case "date":
		return radius.TimeCodec{}, nil
	case "ipaddr":
		return radius.IPv4AddrCodec{}, nil
	case "ipv6addr":
		return radius.IPv6AddrCodec{}, nil
	case "ipv4prefix":
		return radius.IPv4PrefixCodec{}, nil
	case "ipv6prefix":
		return radius.IPv6PrefixCodec{}, nil
	case "concat":
		return radius.ConcatCodec{}, nil
	case "password":
		return radius.PasswordCodec{}, nil
	case "message-authenticator":
		return radius.MessageAuthenticatorCodec{}, nil
	}
	return nil, errors.Errorf("unknown data type %q", name)
}

// Format returns the attribute codec for a framing name. The empty name is standard framing.
func Format(name string) (radius.AttributeCodec, error) {
	switch strings.ToLower(name) {
	case "", "standard":
		return nil, nil
	case "concat":
		return radius.ConcatFormat{}, nil
	case "extended":
		return radius.ExtendedFormat{}, nil
	case "long-extended":
		return radius.LongExtendedFormat{}, nil
	case "vsa", "vendor-specific":
		return radius.VendorSpecificFormat{}, nil
	}
	return nil, errors.Errorf("unknown attribute format %q", name)
}

func (e *AttributeEntry) definition() (*radius.AttributeDefinition, error) {
	t, err := radius.ParseAttributeType(e.Type)
	if err != nil {
		return nil, err
	}
	dataType := e.DataType
	if len(e.Values) > 0 && strings.EqualFold(dataType, "integer") {
		dataType = "enum"
	}
	data, err := DataCodec(dataType)
	if err != nil {
		return nil, errors.Wrapf(err, "attribute %s", e.Name)
	}
	format := e.Format
	if format == "" && strings.EqualFold(dataType, "concat") {
		format = "concat"
	}
	codec, err := Format(format)
	if err != nil {
		return nil, errors.Wrapf(err, "attribute %s", e.Name)
	}
	return &radius.AttributeDefinition{
		Type:  t,
		Name:  e.Name,
		Data:  data,
		Codec: codec,
	}, nil
}

func (d *Dictionary) addValues(t radius.AttributeType, values map[string]uint32) error {
	for name, value := range values {
		if err := d.AddValue(t, name, value); err != nil {
			return err
		}
	}
	return nil
}

// AddFile adds every definition in f.
func (d *Dictionary) AddFile(f *File) error {
	for i := range f.Attributes {
		def, err := f.Attributes[i].definition()
		if err != nil {
			return err
		}
		if err := d.AddAttribute(def); err != nil {
			return err
		}
		if err := d.addValues(def.Type, f.Attributes[i].Values); err != nil {
			return err
		}
	}
	for _, v := range f.Vendors {
		defs := make([]*radius.AttributeDefinition, 0, len(v.Attributes))
		for i := range v.Attributes {
			def, err := v.Attributes[i].definition()
			if err != nil {
				return errors.Wrapf(err, "vendor %s", v.Name)
			}
			defs = append(defs, def)
		}
		if err := d.AddVendor(v.ID, v.Name, defs); err != nil {
			return err
		}
		container := radius.NewAttributeType(radius.AttributeTypeVendorSpecific, v.ID)
		for i, def := range defs {
			t := def.Type
			if t.Parent() != container {
				t = container.Child(t.Last())
			}
			if err := d.addValues(t, v.Attributes[i].Values); err != nil {
				return err
			}
		}
	}
	return nil
}

// LoadYAML reads a YAML dictionary.
func LoadYAML(r io.Reader) (*Dictionary, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "unable to parse dictionary")
	}
	d := New()
	if err := d.AddFile(&f); err != nil {
		return nil, err
	}
	return d, nil
}

// LoadFile reads a YAML dictionary from path.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open dictionary")
	}
	defer f.Close()
	d, err := LoadYAML(f)
	return d, errors.Wrapf(err, "dictionary %s", path)
}
