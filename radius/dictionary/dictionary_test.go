package dictionary

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theaaf/radius-core/radius"
)

func TestStandard(t *testing.T) {
	d := Standard()

	def, ok := d.LookupAttributeDefinition("1")
	require.True(t, ok)
	assert.Equal(t, "User-Name", def.Name)

	def, ok = d.LookupAttributeDefinitionByName("message-authenticator")
	require.True(t, ok)
	assert.Equal(t, radius.AttributeType("80"), def.Type)

	v, ok := d.LookupEnumValue("40", "interim-update")
	require.True(t, ok)
	assert.EqualValues(t, 3, v)

	name, ok := d.LookupEnumName("6", 2)
	require.True(t, ok)
	assert.Equal(t, "Framed-User", name)

	def, ok = d.LookupAttributeDefinition("241.1")
	require.True(t, ok)
	assert.Equal(t, "Frag-Status", def.Name)

	p, ok := d.LookupPacketDefinition(radius.CodeCoARequest)
	require.True(t, ok)
	assert.Equal(t, "CoA-Request", p.Name)

	_, ok = d.LookupAttributeDefinition("17")
	assert.False(t, ok)
}

func TestAccessRequestFactory(t *testing.T) {
	password := &radius.Attribute{Type: "2", Data: radius.Text("pw")}
	chap := &radius.Attribute{Type: "3", Data: radius.Octets{1, 2, 3}}
	eap := &radius.Attribute{Type: "79", Data: radius.Concat{2, 0, 0, 5, 1}}

	_, err := NewAccessRequest(radius.CodeAccessRequest, []*radius.Attribute{password}, nil)
	assert.NoError(t, err)

	_, err = NewAccessRequest(radius.CodeAccessRequest, []*radius.Attribute{password, chap}, nil)
	assert.Equal(t, radius.KindMalformedAttribute, radius.ErrorKindOf(err))

	_, err = NewAccessRequest(radius.CodeAccessRequest, []*radius.Attribute{eap}, nil)
	assert.Equal(t, radius.KindMalformedAttribute, radius.ErrorKindOf(err))

	_, err = NewAccessRequest(radius.CodeAccessRequest, []*radius.Attribute{eap, radius.NewMessageAuthenticatorAttribute()}, nil)
	assert.NoError(t, err)
}

func TestDictionary_Duplicates(t *testing.T) {
	d := New()
	require.NoError(t, d.AddAttribute(&radius.AttributeDefinition{Type: "1", Name: "User-Name"}))
	assert.Error(t, d.AddAttribute(&radius.AttributeDefinition{Type: "1", Name: "Other"}))
	assert.Error(t, d.AddAttribute(&radius.AttributeDefinition{Type: "2", Name: "user-name"}))
	assert.Error(t, d.AddAttribute(&radius.AttributeDefinition{Type: "3"}))

	require.NoError(t, d.AddValue("1", "A", 1))
	assert.Error(t, d.AddValue("1", "a", 2))
}

func TestCompound(t *testing.T) {
	first := New()
	require.NoError(t, first.AddAttribute(&radius.AttributeDefinition{Type: "1", Name: "First-Name"}))
	second := New()
	require.NoError(t, second.AddAttribute(&radius.AttributeDefinition{Type: "1", Name: "Second-Name"}))
	require.NoError(t, second.AddAttribute(&radius.AttributeDefinition{Type: "2", Name: "Only-Second"}))

	c := Compound{first, second}

	def, ok := c.LookupAttributeDefinition("1")
	require.True(t, ok)
	assert.Equal(t, "First-Name", def.Name)

	def, ok = c.LookupAttributeDefinition("2")
	require.True(t, ok)
	assert.Equal(t, "Only-Second", def.Name)

	_, ok = c.LookupAttributeDefinitionByName("second-name")
	assert.True(t, ok)

	_, ok = c.LookupAttributeDefinition("3")
	assert.False(t, ok)
}

const testYAML = `
attributes:
  - type: 1
    name: User-Name
    data_type: text
  - type: 6
    name: Service-Type
    data_type: integer
    values:
      Login-User: 1
      Framed-User: 2
  - type: 79
    name: EAP-Message
    data_type: concat
  - type: 241
    name: Extended-Attribute-1
    data_type: octets
    format: extended
  - type: "241.3"
    name: Response-Length
    data_type: integer
vendors:
  - id: 9
    name: Cisco
    attributes:
      - type: 1
        name: Cisco-AVPair
        data_type: text
`

func TestLoadYAML(t *testing.T) {
	d, err := LoadYAML(strings.NewReader(testYAML))
	require.NoError(t, err)

	def, ok := d.LookupAttributeDefinitionByName("Service-Type")
	require.True(t, ok)
	assert.IsType(t, radius.EnumCodec{}, def.Data)

	v, ok := d.LookupEnumValue("6", "Framed-User")
	require.True(t, ok)
	assert.EqualValues(t, 2, v)

	def, ok = d.LookupAttributeDefinition("79")
	require.True(t, ok)
	assert.IsType(t, radius.ConcatFormat{}, def.Codec)

	def, ok = d.LookupAttributeDefinition("241")
	require.True(t, ok)
	assert.IsType(t, radius.ExtendedFormat{}, def.Codec)

	_, ok = d.LookupAttributeDefinition("241.3")
	assert.True(t, ok)

	_, ok = d.LookupTlvDefinition("26.9")
	assert.True(t, ok)

	def, ok = d.LookupAttributeDefinition("26.9.1")
	require.True(t, ok)
	assert.Equal(t, "Cisco-AVPair", def.Name)
}

func TestLoadYAML_Errors(t *testing.T) {
	for name, doc := range map[string]string{
		"UnknownDataType": "attributes:\n  - {type: 1, name: A, data_type: blob}\n",
		"UnknownFormat":   "attributes:\n  - {type: 1, name: A, data_type: octets, format: weird}\n",
		"BadType":         "attributes:\n  - {type: x, name: A, data_type: octets}\n",
		"UnknownField":    "attributes:\n  - {type: 1, name: A, data_type: octets, colour: red}\n",
		"Duplicate":       "attributes:\n  - {type: 1, name: A, data_type: octets}\n  - {type: 1, name: B, data_type: octets}\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadYAML(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testYAML), 0644))

	d, err := LoadFile(path)
	require.NoError(t, err)
	_, ok := d.LookupAttributeDefinitionByName("Cisco-AVPair")
	assert.True(t, ok)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	d := Default()

	def, ok := d.LookupAttributeDefinitionByName("MS-MPPE-Send-Key")
	require.True(t, ok)
	assert.Equal(t, radius.AttributeType("26.311.16"), def.Type)

	v, ok := d.LookupEnumValue("26.311.7", "Encryption-Required")
	require.True(t, ok)
	assert.EqualValues(t, 2, v)

	_, ok = d.LookupTlvDefinition("26.14122")
	assert.True(t, ok)

	def, ok = d.LookupAttributeDefinition("1")
	require.True(t, ok)
	assert.Equal(t, "User-Name", def.Name)
}
