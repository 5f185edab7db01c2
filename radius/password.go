package radius

import (
	"bytes"
	"crypto/md5"
)

const maxPasswordLength = 128

// PasswordCodec implements the RFC 2865 User-Password hiding. The value is XORed in 16 byte
// blocks with MD5(secret || authenticator) for the first block and MD5(secret || previous
// ciphertext block) for each block after it.
type PasswordCodec struct{}

func (PasswordCodec) EncodeData(ctx *CodecContext, t AttributeType, d Data) ([]byte, error) {
	var plaintext []byte
	switch v := d.(type) {
	case Text:
		plaintext = []byte(v)
	case Octets:
		plaintext = v
	default:
		return nil, wrongData(t, d)
	}
	if ctx == nil {
		return nil, codecError(KindEncoding, "attribute %s: password requires a codec context", t)
	}
	if len(plaintext) > maxPasswordLength {
		return nil, codecError(KindEncoding, "attribute %s: password longer than %d bytes", t, maxPasswordLength)
	}
	return HidePassword(plaintext, ctx.Secret, ctx.Authenticator), nil
}

func (PasswordCodec) DecodeData(ctx *CodecContext, t AttributeType, b []byte) (Data, error) {
	if len(b) < 16 || len(b)%16 != 0 || len(b) > maxPasswordLength {
		return nil, codecError(KindMalformedAttribute, "attribute %s: password ciphertext length %d is not a multiple of 16 between 16 and %d", t, len(b), maxPasswordLength)
	}
	if ctx == nil {
		return nil, codecError(KindMalformedAttribute, "attribute %s: password requires a codec context", t)
	}
	return Text(RevealPassword(b, ctx.Secret, ctx.Authenticator)), nil
}

// HidePassword zero pads plaintext to a multiple of 16 bytes and obfuscates it.
func HidePassword(plaintext, secret []byte, authenticator Authenticator) []byte {
	n := (len(plaintext) + 15) / 16 * 16
	if n == 0 {
		n = 16
	}
	out := make([]byte, n)
	copy(out, plaintext)

	prev := authenticator[:]
	for i := 0; i < n; i += 16 {
		key := passwordKey(secret, prev)
		for j := 0; j < 16; j++ {
			out[i+j] ^= key[j]
		}
		prev = out[i : i+16]
	}
	return out
}

// RevealPassword reverses HidePassword and strips the trailing zero padding. len(ciphertext) must
// be a multiple of 16.
func RevealPassword(ciphertext, secret []byte, authenticator Authenticator) []byte {
	out := make([]byte, len(ciphertext))
	prev := authenticator[:]
	for i := 0; i+16 <= len(ciphertext); i += 16 {
		key := passwordKey(secret, prev)
		for j := 0; j < 16; j++ {
			out[i+j] = ciphertext[i+j] ^ key[j]
		}
		prev = ciphertext[i : i+16]
	}
	return bytes.TrimRight(out, "\x00")
}

func passwordKey(secret, prev []byte) []byte {
	h := md5.New()
	h.Write(secret)
	h.Write(prev)
	return h.Sum(nil)
}
