package cmd

import (
	"github.com/spf13/cobra"

	"github.com/theaaf/radius-core/app"
)

var addClientCmd = &cobra.Command{
	Use:   "add-client",
	Short: "sets the shared secret for a client",
	RunE: func(cmd *cobra.Command, args []string) error {
		redis, _ := cmd.Flags().GetString("redis")
		ip, _ := cmd.Flags().GetString("ip")
		secret, _ := cmd.Flags().GetString("secret")

		return app.AddClient(redis, ip, secret)
	}}

var removeClientCmd = &cobra.Command{
	Use:   "remove-client",
	Short: "removes a client's shared secret",
	RunE: func(cmd *cobra.Command, args []string) error {
		redis, _ := cmd.Flags().GetString("redis")
		ip, _ := cmd.Flags().GetString("ip")

		return app.RemoveClient(redis, ip)
	}}

func init() {
	for _, cmd := range []*cobra.Command{addClientCmd, removeClientCmd} {
		cmd.Flags().String("redis", "", "the Redis server to use for storage (required)")
		cmd.MarkFlagRequired("redis")

		cmd.Flags().String("ip", "", "the client's IP address (required)")
		cmd.MarkFlagRequired("ip")

		rootCmd.AddCommand(cmd)
	}

	addClientCmd.Flags().String("secret", "", "the shared secret for the client (required)")
	addClientCmd.MarkFlagRequired("secret")
}
