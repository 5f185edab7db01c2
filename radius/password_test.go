package radius_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theaaf/radius-core/radius"
)

func TestHidePassword(t *testing.T) {
	auth := radius.Authenticator{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}

	for _, password := range []string{"", "a", "exactly16bytes!!", "seventeen bytes!!", strings.Repeat("x", 128)} {
		hidden := radius.HidePassword([]byte(password), testSecret, auth)
		assert.Zero(t, len(hidden)%16, password)
		assert.True(t, len(hidden) >= 16, password)
		assert.Equal(t, password, string(radius.RevealPassword(hidden, testSecret, auth)))
	}
}

func TestHidePassword_Chaining(t *testing.T) {
	auth := radius.Authenticator{}
	a := radius.HidePassword([]byte(strings.Repeat("a", 32)), testSecret, auth)
	b := radius.HidePassword([]byte(strings.Repeat("a", 16)+strings.Repeat("b", 16)), testSecret, auth)

	assert.Equal(t, a[:16], b[:16])
	assert.NotEqual(t, a[16:], b[16:])
}

func TestPasswordCodec(t *testing.T) {
	codec := standardCodec()
	auth := testAuthenticator(t)

	b, err := codec.EncodeRequest(&radius.Packet{Code: radius.CodeAccessRequest, Attributes: []*radius.Attribute{
		{Type: "1", Data: radius.Text("jdoe")},
		{Type: "2", Data: radius.Text("hunter2")},
	}}, testSecret, 1, auth)
	require.NoError(t, err)

	p, err := codec.DecodeRequest(b, testSecret)
	require.NoError(t, err)
	password, ok := p.Text("2")
	require.True(t, ok)
	assert.Equal(t, "hunter2", password)

	p, err = codec.DecodeRequest(b, []byte("wrong"))
	require.NoError(t, err)
	password, _ = p.Text("2")
	assert.NotEqual(t, "hunter2", password)

	_, err = codec.EncodeRequest(&radius.Packet{Code: radius.CodeAccessRequest, Attributes: []*radius.Attribute{
		{Type: "2", Data: radius.Text(strings.Repeat("x", 129))},
	}}, testSecret, 1, auth)
	assert.Equal(t, radius.KindEncoding, radius.ErrorKindOf(err))
}
