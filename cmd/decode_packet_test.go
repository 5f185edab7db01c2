package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDecodePacket_Request(t *testing.T) {
	out, err := runCommand(t, "", "decode-packet", "--secret", "abc123", "--request-authenticator=",
		"012a0026f58c0714b19ce47b2e4976e62dd7d6fc01066a646f65200c30306131623263336434")
	require.NoError(t, err)
	assert.Equal(t, "Access-Request id=42 authenticator=f58c0714b19ce47b2e4976e62dd7d6fc\n"+
		"  User-Name = jdoe\n"+
		"  NAS-Identifier = 00a1b2c3d4\n", out)
}

func TestDecodePacket_ResponseFromStdin(t *testing.T) {
	out, err := runCommand(t, "022a0023a4e5b10fcd0de0818d9af33c\n945a50230b0f41646d696e6973747261746f72\n",
		"decode-packet", "--secret", "abc123", "--request-authenticator", "f58c0714b19ce47b2e4976e62dd7d6fc")
	require.NoError(t, err)
	assert.Contains(t, out, "Access-Accept id=42")
	assert.Contains(t, out, "Filter-Id = Administrator")
}

func TestDecodePacket_Errors(t *testing.T) {
	_, err := runCommand(t, "", "decode-packet", "--secret", "abc123", "--request-authenticator=", "zz")
	assert.Error(t, err)

	_, err = runCommand(t, "", "decode-packet", "--secret", "wrong", "--request-authenticator", "f58c0714b19ce47b2e4976e62dd7d6fc",
		"022a0023a4e5b10fcd0de0818d9af33c945a50230b0f41646d696e6973747261746f72")
	assert.Error(t, err)

	_, err = runCommand(t, "", "decode-packet", "--secret", "abc123", "--request-authenticator", "f58c",
		"022a0023a4e5b10fcd0de0818d9af33c945a50230b0f41646d696e6973747261746f72")
	assert.Error(t, err)

	_, err = runCommand(t, "", "decode-packet", "--secret", "abc123", "--request-authenticator=", "012a0026f58c")
	assert.Error(t, err)
}
