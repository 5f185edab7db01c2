package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/theaaf/radius-core/app"
	"github.com/theaaf/radius-core/radius"
)

var decodePacketCmd = &cobra.Command{
	Use:   "decode-packet [hex]",
	Short: "decodes and verifies a hex encoded packet",
	Long: `Decodes a packet given as hex, either as an argument or on stdin, and prints its attributes.

Responses are verified against --request-authenticator. Accounting, CoA and Disconnect requests are
verified with the RFC-2866 content authenticator.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, _ := cmd.Flags().GetString("secret")
		requestAuthenticator, _ := cmd.Flags().GetString("request-authenticator")
		dictionaryPath, _ := cmd.Flags().GetString("dictionary")

		var input string
		if len(args) > 0 {
			input = args[0]
		} else {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return errors.Wrap(err, "unable to read packet")
			}
			input = string(b)
		}
		b, err := hex.DecodeString(strings.Join(strings.Fields(input), ""))
		if err != nil {
			return errors.Wrap(err, "invalid hex")
		}

		dict, err := app.LoadDictionary(dictionaryPath)
		if err != nil {
			return err
		}
		codec := &radius.Codec{Dictionary: dict}

		var p *radius.Packet
		switch {
		case requestAuthenticator != "":
			raw, err := hex.DecodeString(requestAuthenticator)
			if err != nil {
				return errors.Wrap(err, "invalid request authenticator")
			}
			auth, err := radius.AuthenticatorFromBytes(raw)
			if err != nil {
				return err
			}
			p, err = codec.DecodeResponse(b, []byte(secret), auth)
			if err != nil {
				return err
			}
		case len(b) > 0 && app.IsContentAuthenticated(radius.Code(b[0])):
			p, err = codec.DecodeAccountingRequest(b, []byte(secret))
		default:
			p, err = codec.DecodeRequest(b, []byte(secret))
		}
		if err != nil {
			return err
		}

		printPacket(cmd.OutOrStdout(), dict, p)
		return nil
	}}

func printPacket(w io.Writer, dict radius.Dictionary, p *radius.Packet) {
	fmt.Fprintf(w, "%v id=%d authenticator=%v\n", p.Code, p.Received.Identifier, p.Received.Authenticator)
	for _, attr := range p.Attributes {
		printAttribute(w, dict, attr, "  ")
	}
}

func printAttribute(w io.Writer, dict radius.Dictionary, attr *radius.Attribute, indent string) {
	name := string(attr.Type)
	if def, ok := dict.LookupAttributeDefinition(attr.Type); ok && def.Name != "" {
		name = def.Name
	}
	if vsa, ok := attr.Data.(radius.VendorSpecific); ok {
		vendor := fmt.Sprintf("vendor %d", vsa.VendorID)
		if tlv, ok := dict.LookupTlvDefinition(attr.Type.Child(vsa.VendorID)); ok && tlv.Name != "" {
			vendor = tlv.Name
		}
		fmt.Fprintf(w, "%s%s (%s)\n", indent, name, vendor)
		for _, sub := range vsa.Attributes {
			printAttribute(w, dict, sub, indent+"  ")
		}
		return
	}
	fmt.Fprintf(w, "%s%s = %v\n", indent, name, attr.Data)
}

func init() {
	decodePacketCmd.Flags().String("secret", "", "the shared secret (required)")
	decodePacketCmd.MarkFlagRequired("secret")

	decodePacketCmd.Flags().String("request-authenticator", "", "hex request authenticator; decodes the packet as a response")
	decodePacketCmd.Flags().String("dictionary", "", "a YAML file with additional attribute definitions")

	rootCmd.AddCommand(decodePacketCmd)
}
