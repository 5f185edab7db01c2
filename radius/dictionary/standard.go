package dictionary

import (
	"sync"

	"github.com/theaaf/radius-core/radius"
)

type attr struct {
	t      uint32
	name   string
	data   radius.DataCodec
	format radius.AttributeCodec
	values []value
}

type value struct {
	name string
	v    uint32
}

var (
	text     = radius.TextCodec{}
	octets   = radius.OctetsCodec{}
	integer  = radius.IntegerCodec{}
	enum     = radius.EnumCodec{}
	ipaddr   = radius.IPv4AddrCodec{}
	ipv6addr = radius.IPv6AddrCodec{}
	date     = radius.TimeCodec{}
)

// RFC 2865, 2866, 2869, 3162, 3576, 4372, 4675 and 6929 attributes. Tagged tunnel attributes are
// not included.
var standardAttributes = []attr{
	{1, "User-Name", text, nil, nil},
	{2, "User-Password", radius.PasswordCodec{}, nil, nil},
	{3, "CHAP-Password", octets, nil, nil},
	{4, "NAS-IP-Address", ipaddr, nil, nil},
	{5, "NAS-Port", integer, nil, nil},
	{6, "Service-Type", enum, nil, []value{
		{"Login-User", 1},
		{"Framed-User", 2},
		{"Callback-Login-User", 3},
		{"Callback-Framed-User", 4},
		{"Outbound-User", 5},
		{"Administrative-User", 6},
		{"NAS-Prompt-User", 7},
		{"Authenticate-Only", 8},
		{"Callback-NAS-Prompt", 9},
		{"Call-Check", 10},
		{"Callback-Administrative", 11},
		{"Authorize-Only", 17},
	}},
	{7, "Framed-Protocol", enum, nil, []value{
		{"PPP", 1},
		{"SLIP", 2},
		{"ARAP", 3},
		{"Gandalf-SLML", 4},
		{"Xylogics-IPX-SLIP", 5},
		{"X.75-Synchronous", 6},
	}},
	{8, "Framed-IP-Address", ipaddr, nil, nil},
	{9, "Framed-IP-Netmask", ipaddr, nil, nil},
	{10, "Framed-Routing", enum, nil, []value{
		{"None", 0},
		{"Broadcast", 1},
		{"Listen", 2},
		{"Broadcast-Listen", 3},
	}},
	{11, "Filter-Id", text, nil, nil},
	{12, "Framed-MTU", integer, nil, nil},
	{13, "Framed-Compression", enum, nil, []value{
		{"None", 0},
		{"Van-Jacobson-TCP-IP", 1},
		{"IPX-Header-Compression", 2},
		{"Stac-LZS", 3},
	}},
	{14, "Login-IP-Host", ipaddr, nil, nil},
	{15, "Login-Service", enum, nil, []value{
		{"Telnet", 0},
		{"Rlogin", 1},
		{"TCP-Clear", 2},
		{"PortMaster", 3},
		{"LAT", 4},
		{"X25-PAD", 5},
		{"X25-T3POS", 6},
		{"TCP-Clear-Quiet", 8},
	}},
	{16, "Login-TCP-Port", integer, nil, nil},
	{18, "Reply-Message", text, nil, nil},
	{19, "Callback-Number", text, nil, nil},
	{20, "Callback-Id", text, nil, nil},
	{22, "Framed-Route", text, nil, nil},
	{23, "Framed-IPX-Network", ipaddr, nil, nil},
	{24, "State", octets, nil, nil},
	{25, "Class", octets, nil, nil},
	{26, "Vendor-Specific", octets, radius.VendorSpecificFormat{}, nil},
	{27, "Session-Timeout", integer, nil, nil},
	{28, "Idle-Timeout", integer, nil, nil},
	{29, "Termination-Action", enum, nil, []value{
		{"Default", 0},
		{"RADIUS-Request", 1},
	}},
	{30, "Called-Station-Id", text, nil, nil},
	{31, "Calling-Station-Id", text, nil, nil},
	{32, "NAS-Identifier", text, nil, nil},
	{33, "Proxy-State", octets, nil, nil},
	{34, "Login-LAT-Service", text, nil, nil},
	{35, "Login-LAT-Node", text, nil, nil},
	{36, "Login-LAT-Group", octets, nil, nil},
	{37, "Framed-AppleTalk-Link", integer, nil, nil},
	{38, "Framed-AppleTalk-Network", integer, nil, nil},
	{39, "Framed-AppleTalk-Zone", text, nil, nil},
	{40, "Acct-Status-Type", enum, nil, []value{
		{"Start", 1},
		{"Stop", 2},
		{"Interim-Update", 3},
		{"Accounting-On", 7},
		{"Accounting-Off", 8},
	}},
	{41, "Acct-Delay-Time", integer, nil, nil},
	{42, "Acct-Input-Octets", integer, nil, nil},
	{43, "Acct-Output-Octets", integer, nil, nil},
	{44, "Acct-Session-Id", text, nil, nil},
	{45, "Acct-Authentic", enum, nil, []value{
		{"RADIUS", 1},
		{"Local", 2},
		{"Remote", 3},
		{"Diameter", 4},
	}},
	{46, "Acct-Session-Time", integer, nil, nil},
	{47, "Acct-Input-Packets", integer, nil, nil},
	{48, "Acct-Output-Packets", integer, nil, nil},
	{49, "Acct-Terminate-Cause", enum, nil, []value{
		{"User-Request", 1},
		{"Lost-Carrier", 2},
		{"Lost-Service", 3},
		{"Idle-Timeout", 4},
		{"Session-Timeout", 5},
		{"Admin-Reset", 6},
		{"Admin-Reboot", 7},
		{"Port-Error", 8},
		{"NAS-Error", 9},
		{"NAS-Request", 10},
		{"NAS-Reboot", 11},
		{"Port-Unneeded", 12},
		{"Port-Preempted", 13},
		{"Port-Suspended", 14},
		{"Service-Unavailable", 15},
		{"Callback", 16},
		{"User-Error", 17},
		{"Host-Request", 18},
	}},
	{50, "Acct-Multi-Session-Id", text, nil, nil},
	{51, "Acct-Link-Count", integer, nil, nil},
	{52, "Acct-Input-Gigawords", integer, nil, nil},
	{53, "Acct-Output-Gigawords", integer, nil, nil},
	{55, "Event-Timestamp", date, nil, nil},
	{60, "CHAP-Challenge", octets, nil, nil},
	{61, "NAS-Port-Type", enum, nil, []value{
		{"Async", 0},
		{"Sync", 1},
		{"ISDN", 2},
		{"ISDN-V120", 3},
		{"ISDN-V110", 4},
		{"Virtual", 5},
		{"PIAFS", 6},
		{"HDLC-Clear-Channel", 7},
		{"X.25", 8},
		{"X.75", 9},
		{"G.3-Fax", 10},
		{"SDSL", 11},
		{"ADSL-CAP", 12},
		{"ADSL-DMT", 13},
		{"IDSL", 14},
		{"Ethernet", 15},
		{"xDSL", 16},
		{"Cable", 17},
		{"Wireless-Other", 18},
		{"Wireless-802.11", 19},
	}},
	{62, "Port-Limit", integer, nil, nil},
	{63, "Login-LAT-Port", text, nil, nil},
	{70, "ARAP-Password", octets, nil, nil},
	{71, "ARAP-Features", octets, nil, nil},
	{72, "ARAP-Zone-Access", integer, nil, nil},
	{73, "ARAP-Security", integer, nil, nil},
	{74, "ARAP-Security-Data", text, nil, nil},
	{75, "Password-Retry", integer, nil, nil},
	{76, "Prompt", enum, nil, []value{
		{"No-Echo", 0},
		{"Echo", 1},
	}},
	{77, "Connect-Info", text, nil, nil},
	{78, "Configuration-Token", text, nil, nil},
	{79, "EAP-Message", radius.ConcatCodec{}, radius.ConcatFormat{}, nil},
	{80, "Message-Authenticator", radius.MessageAuthenticatorCodec{}, nil, nil},
	{84, "ARAP-Challenge-Response", octets, nil, nil},
	{85, "Acct-Interim-Interval", integer, nil, nil},
	{87, "NAS-Port-Id", text, nil, nil},
	{88, "Framed-Pool", text, nil, nil},
	{89, "Chargeable-User-Identity", octets, nil, nil},
	{95, "NAS-IPv6-Address", ipv6addr, nil, nil},
	{96, "Framed-Interface-Id", octets, nil, nil},
	{97, "Framed-IPv6-Prefix", radius.IPv6PrefixCodec{}, nil, nil},
	{98, "Login-IPv6-Host", ipv6addr, nil, nil},
	{99, "Framed-IPv6-Route", text, nil, nil},
	{100, "Framed-IPv6-Pool", text, nil, nil},
	{101, "Error-Cause", enum, nil, []value{
		{"Residual-Session-Context-Removed", 201},
		{"Invalid-EAP-Packet", 202},
		{"Unsupported-Attribute", 401},
		{"Missing-Attribute", 402},
		{"NAS-Identification-Mismatch", 403},
		{"Invalid-Request", 404},
		{"Unsupported-Service", 405},
		{"Unsupported-Extension", 406},
		{"Invalid-Attribute-Value", 407},
		{"Administratively-Prohibited", 501},
		{"Request-Not-Routable", 502},
		{"Session-Context-Not-Found", 503},
		{"Session-Context-Not-Removable", 504},
		{"Other-Proxy-Processing-Error", 505},
		{"Resources-Unavailable", 506},
		{"Request-Initiated", 507},
		{"Multiple-Session-Selection-Unsupported", 508},
	}},
	{241, "Extended-Attribute-1", octets, radius.ExtendedFormat{}, nil},
	{242, "Extended-Attribute-2", octets, radius.ExtendedFormat{}, nil},
	{243, "Extended-Attribute-3", octets, radius.ExtendedFormat{}, nil},
	{244, "Extended-Attribute-4", octets, radius.ExtendedFormat{}, nil},
	{245, "Extended-Attribute-5", octets, radius.LongExtendedFormat{}, nil},
	{246, "Extended-Attribute-6", octets, radius.LongExtendedFormat{}, nil},
}

var extendedAttributes = []struct {
	t    radius.AttributeType
	name string
	data radius.DataCodec
}{
	{"241.1", "Frag-Status", integer},
	{"241.2", "Proxy-State-Length", integer},
	{"241.3", "Response-Length", integer},
	{"241.4", "Original-Packet-Code", integer},
}

var packetCodes = []radius.Code{
	radius.CodeAccessRequest,
	radius.CodeAccessAccept,
	radius.CodeAccessReject,
	radius.CodeAccountingRequest,
	radius.CodeAccountingResponse,
	radius.CodeAccessChallenge,
	radius.CodeStatusServer,
	radius.CodeStatusClient,
	radius.CodeDisconnectRequest,
	radius.CodeDisconnectACK,
	radius.CodeDisconnectNAK,
	radius.CodeCoARequest,
	radius.CodeCoAACK,
	radius.CodeCoANAK,
}

const attributeTypeCHAPPassword = 3

// NewAccessRequest is the factory for Access-Request. A request may carry at most one of
// User-Password and CHAP-Password, and EAP-Message requires a Message-Authenticator.
func NewAccessRequest(code radius.Code, attributes []*radius.Attribute, received *radius.ReceivedFields) (*radius.Packet, error) {
	p, err := radius.NewPacket(code, attributes, received)
	if err != nil {
		return nil, err
	}
	if p.HasAttributeType(radius.NewAttributeType(radius.AttributeTypeUserPassword)) &&
		p.HasAttributeType(radius.NewAttributeType(attributeTypeCHAPPassword)) {
		return nil, &radius.CodecError{
			Kind:    radius.KindMalformedAttribute,
			Message: "access request carries both User-Password and CHAP-Password",
		}
	}
	if p.HasAttributeType(radius.NewAttributeType(radius.AttributeTypeEAPMessage)) &&
		!p.HasAttributeType(radius.NewAttributeType(radius.AttributeTypeMessageAuthenticator)) {
		return nil, &radius.CodecError{
			Kind:    radius.KindMalformedAttribute,
			Message: "access request carries EAP-Message without Message-Authenticator",
		}
	}
	return p, nil
}

func newStandard() (*Dictionary, error) {
	d := New()
	for _, code := range packetCodes {
		def := &radius.PacketDefinition{Code: code, Name: code.String()}
		if code == radius.CodeAccessRequest {
			def.New = NewAccessRequest
		}
		if err := d.AddPacket(def); err != nil {
			return nil, err
		}
	}
	for _, a := range standardAttributes {
		t := radius.NewAttributeType(a.t)
		if err := d.AddAttribute(&radius.AttributeDefinition{
			Type:  t,
			Name:  a.name,
			Data:  a.data,
			Codec: a.format,
		}); err != nil {
			return nil, err
		}
		for _, v := range a.values {
			if err := d.AddValue(t, v.name, v.v); err != nil {
				return nil, err
			}
		}
	}
	for _, a := range extendedAttributes {
		if err := d.AddAttribute(&radius.AttributeDefinition{
			Type: a.t,
			Name: a.name,
			Data: a.data,
		}); err != nil {
			return nil, err
		}
	}
	return d, nil
}

var (
	standardOnce sync.Once
	standard     *Dictionary
)

// Standard returns the shared RFC dictionary. It must not be modified.
func Standard() *Dictionary {
	standardOnce.Do(func() {
		d, err := newStandard()
		if err != nil {
			panic(err)
		}
		standard = d
	})
	return standard
}
