package radius

import (
	"crypto/hmac"
	"crypto/md5"
	"encoding/binary"

	"github.com/pkg/errors"
)

// Codec encodes and decodes packets. It holds no per-call state and is safe for concurrent use as
// long as its Random and IDs are.
type Codec struct {
	// Dictionary resolves attribute and packet definitions. Nil means EmptyDictionary.
	Dictionary Dictionary

	// Random supplies request authenticators. Nil means CryptoRandom.
	Random RandomProvider

	// IDs supplies request identifiers. Nil means a random identifier per request.
	IDs PacketIDGenerator
}

func (c *Codec) dictionary() Dictionary {
	if c.Dictionary == nil {
		return EmptyDictionary
	}
	return c.Dictionary
}

func (c *Codec) random() RandomProvider {
	if c.Random == nil {
		return CryptoRandom{}
	}
	return c.Random
}

// NextRequestHeader returns the identifier and random authenticator for a new request.
func (c *Codec) NextRequestHeader() (uint8, Authenticator, error) {
	var auth Authenticator
	if err := c.random().FillRandom(auth[:]); err != nil {
		return 0, auth, errors.Wrap(err, "unable to generate request authenticator")
	}
	if c.IDs == nil {
		var id [1]byte
		if err := c.random().FillRandom(id[:]); err != nil {
			return 0, auth, errors.Wrap(err, "unable to generate request identifier")
		}
		return id[0], auth, nil
	}
	return c.IDs.NextID(), auth, nil
}

// EncodeRequest serializes a request with the given identifier and request authenticator. A
// Message-Authenticator attribute, if present, is computed over the finished packet.
func (c *Codec) EncodeRequest(p *Packet, secret []byte, identifier uint8, authenticator Authenticator) ([]byte, error) {
	ctx := c.context(secret, authenticator)
	b, maOffset, err := c.marshal(ctx, p, identifier, authenticator)
	if err != nil {
		return nil, err
	}
	if maOffset > 0 {
		signMessageAuthenticator(b, maOffset, secret)
	}
	return b, nil
}

// EncodeResponse serializes a reply to the request identified by identifier and
// requestAuthenticator. The Message-Authenticator is computed with the request authenticator in
// the header, then the response authenticator replaces it.
func (c *Codec) EncodeResponse(p *Packet, secret []byte, identifier uint8, requestAuthenticator Authenticator) ([]byte, error) {
	ctx := c.context(secret, requestAuthenticator)
	b, maOffset, err := c.marshal(ctx, p, identifier, requestAuthenticator)
	if err != nil {
		return nil, err
	}
	if maOffset > 0 {
		signMessageAuthenticator(b, maOffset, secret)
	}
	sum := headerHash(b, secret)
	copy(b[4:HeaderLength], sum)
	return b, nil
}

// EncodeAccountingRequest serializes a request whose authenticator is derived from its content as
// RFC-2866 describes: MD5 over the packet with a zero authenticator, followed by the secret. The
// same form is used by Disconnect-Request and CoA-Request.
func (c *Codec) EncodeAccountingRequest(p *Packet, secret []byte, identifier uint8) ([]byte, error) {
	var zero Authenticator
	ctx := c.context(secret, zero)
	b, maOffset, err := c.marshal(ctx, p, identifier, zero)
	if err != nil {
		return nil, err
	}
	if maOffset > 0 {
		signMessageAuthenticator(b, maOffset, secret)
	}
	copy(b[4:HeaderLength], headerHash(b, secret))
	return b, nil
}

// DecodeRequest parses a request and verifies its Message-Authenticator if one is present.
func (c *Codec) DecodeRequest(b, secret []byte) (*Packet, error) {
	return c.decode(b, secret, nil, nil)
}

// DecodeResponse parses a reply to the request whose authenticator is requestAuthenticator and
// verifies both the Message-Authenticator, if present, and the response authenticator.
func (c *Codec) DecodeResponse(b, secret []byte, requestAuthenticator Authenticator) (*Packet, error) {
	return c.decode(b, secret, &requestAuthenticator, func(b []byte) error {
		if !hmac.Equal(headerHash(withAuthenticator(b, requestAuthenticator), secret), b[4:HeaderLength]) {
			return ErrBadResponseAuthenticator
		}
		return nil
	})
}

// DecodeAccountingRequest parses an Accounting-Request, Disconnect-Request or CoA-Request and
// verifies its content-derived request authenticator.
func (c *Codec) DecodeAccountingRequest(b, secret []byte) (*Packet, error) {
	var zero Authenticator
	return c.decode(b, secret, &zero, func(b []byte) error {
		if !hmac.Equal(headerHash(withAuthenticator(b, zero), secret), b[4:HeaderLength]) {
			return ErrBadAccountingAuthenticator
		}
		return nil
	})
}

func (c *Codec) context(secret []byte, authenticator Authenticator) *CodecContext {
	return &CodecContext{
		Dictionary:    c.dictionary(),
		Secret:        secret,
		Authenticator: authenticator,
	}
}

// marshal writes the header with headerAuth and every attribute in order. It returns the offset of
// the Message-Authenticator value, or 0 when the packet has none. The value is left zeroed.
func (c *Codec) marshal(ctx *CodecContext, p *Packet, identifier uint8, headerAuth Authenticator) ([]byte, int, error) {
	b := make([]byte, HeaderLength, 256)
	b[0] = byte(p.Code)
	b[1] = identifier
	copy(b[4:HeaderLength], headerAuth[:])

	maType := NewAttributeType(AttributeTypeMessageAuthenticator)
	maOffset := 0
	dict := ctx.dictionary()
	for _, attr := range p.Attributes {
		if attr == nil || attr.Type == "" {
			return nil, 0, codecError(KindEncoding, "packet contains an empty attribute")
		}
		if _, err := ParseAttributeType(string(attr.Type)); err != nil {
			return nil, 0, codecError(KindEncoding, "%v", err)
		}
		def := lookupDefinition(dict, NewAttributeType(uint32(attr.Type.Top())))
		enc, err := def.codec().EncodeAttribute(ctx, def, attr)
		if err != nil {
			return nil, 0, errors.Wrapf(err, "unable to encode attribute %s", attr.Type)
		}
		if attr.Type == maType {
			if maOffset > 0 {
				return nil, 0, codecError(KindEncoding, "packet contains more than one message authenticator")
			}
			if len(enc) != 2+AuthenticatorLength {
				return nil, 0, codecError(KindEncoding, "message authenticator must be %d bytes", AuthenticatorLength)
			}
			maOffset = len(b) + 2
			for i := 2; i < len(enc); i++ {
				enc[i] = 0
			}
		}
		b = append(b, enc...)
	}
	if len(b) > MaxPacketLength {
		return nil, 0, codecError(KindEncoding, "packet too large (%d bytes)", len(b))
	}
	binary.BigEndian.PutUint16(b[2:], uint16(len(b)))
	return b, maOffset, nil
}

type header struct {
	code          Code
	identifier    uint8
	length        int
	authenticator Authenticator
}

func parseHeader(b []byte) (header, error) {
	var h header
	if len(b) < HeaderLength {
		return h, codecError(KindLength, "buffer too short (%d bytes)", len(b))
	}
	h.length = int(binary.BigEndian.Uint16(b[2:]))
	if h.length < HeaderLength || h.length > MaxPacketLength {
		return h, codecError(KindLength, "packet length (%d bytes) outside valid range (%d-%d)", h.length, HeaderLength, MaxPacketLength)
	}
	if h.length != len(b) {
		return h, codecError(KindLength, "packet length (%d bytes) does not match buffer (%d bytes)", h.length, len(b))
	}
	h.code = Code(b[0])
	h.identifier = b[1]
	copy(h.authenticator[:], b[4:HeaderLength])
	return h, nil
}

// decode runs the stages in order: header, attributes, Message-Authenticator, then verify (the
// outer authenticator check, if any). requestAuth, when set, replaces the header authenticator as
// the key for User-Password and in the Message-Authenticator computation.
func (c *Codec) decode(b, secret []byte, requestAuth *Authenticator, verify func([]byte) error) (*Packet, error) {
	h, err := parseHeader(b)
	if err != nil {
		return nil, err
	}
	auth := h.authenticator
	if requestAuth != nil {
		auth = *requestAuth
	}

	ctx := c.context(secret, auth)
	attrs, maOffset, err := c.unmarshalAttributes(ctx, b)
	if err != nil {
		return nil, err
	}

	if maOffset > 0 {
		check := withAuthenticator(b, auth)
		if !hmac.Equal(messageAuthenticator(check, maOffset, secret), b[maOffset:maOffset+AuthenticatorLength]) {
			return nil, ErrBadMessageAuthenticator
		}
	}

	if verify != nil {
		if err := verify(b); err != nil {
			return nil, err
		}
	}

	received := &ReceivedFields{
		Identifier:    h.identifier,
		Authenticator: h.authenticator,
	}
	if def, ok := c.dictionary().LookupPacketDefinition(h.code); ok && def != nil {
		p, err := def.build(h.code, attrs, received)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to build %s packet", def.Name)
		}
		return p, nil
	}
	return NewPacket(h.code, attrs, received)
}

func (c *Codec) unmarshalAttributes(ctx *CodecContext, b []byte) ([]*Attribute, int, error) {
	var attrs []*Attribute
	maOffset := 0
	dict := ctx.dictionary()
	for offset := HeaderLength; offset < len(b); {
		rest := b[offset:]
		if _, err := frame(rest, 2); err != nil {
			return nil, 0, err
		}
		if rest[0] == AttributeTypeMessageAuthenticator {
			if maOffset > 0 {
				return nil, 0, codecError(KindMalformedAttribute, "packet contains more than one message authenticator")
			}
			if int(rest[1]) != 2+AuthenticatorLength {
				return nil, 0, codecError(KindMalformedAttribute, "message authenticator length %d, expected %d", rest[1], 2+AuthenticatorLength)
			}
			maOffset = offset + 2
		}
		def := lookupDefinition(dict, NewAttributeType(uint32(rest[0])))
		attr, n, err := def.codec().DecodeAttribute(ctx, def, rest)
		if err != nil {
			return nil, 0, errors.Wrapf(err, "unable to decode attribute at offset %d", offset)
		}
		attrs = append(attrs, attr)
		offset += n
	}
	return attrs, maOffset, nil
}

// withAuthenticator returns a copy of the packet with auth in the header.
func withAuthenticator(b []byte, auth Authenticator) []byte {
	ret := append([]byte(nil), b...)
	copy(ret[4:HeaderLength], auth[:])
	return ret
}

// headerHash is MD5(packet || secret), the form shared by response and accounting authenticators.
func headerHash(b, secret []byte) []byte {
	h := md5.New()
	h.Write(b)
	h.Write(secret)
	return h.Sum(nil)
}

// messageAuthenticator computes the HMAC-MD5 of b with the value at offset zeroed. b is modified.
func messageAuthenticator(b []byte, offset int, secret []byte) []byte {
	for i := offset; i < offset+AuthenticatorLength; i++ {
		b[i] = 0
	}
	mac := hmac.New(md5.New, secret)
	mac.Write(b)
	return mac.Sum(nil)
}

func signMessageAuthenticator(b []byte, offset int, secret []byte) {
	copy(b[offset:offset+AuthenticatorLength], messageAuthenticator(b, offset, secret))
}
