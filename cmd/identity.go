package cmd

import (
	"github.com/spf13/cobra"

	"github.com/theaaf/radius-core/app"
)

var addIdentityCmd = &cobra.Command{
	Use:   "add-identity",
	Short: "stores a plaintext password for a PAP identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		redis, _ := cmd.Flags().GetString("redis")
		name, _ := cmd.Flags().GetString("name")
		password, _ := cmd.Flags().GetString("password")

		return app.AddIdentity(redis, name, password)
	}}

var removeIdentityCmd = &cobra.Command{
	Use:   "remove-identity",
	Short: "removes a PAP identity's password",
	RunE: func(cmd *cobra.Command, args []string) error {
		redis, _ := cmd.Flags().GetString("redis")
		name, _ := cmd.Flags().GetString("name")

		return app.RemoveIdentity(redis, name)
	}}

func init() {
	for _, cmd := range []*cobra.Command{addIdentityCmd, removeIdentityCmd} {
		cmd.Flags().String("redis", "", "the Redis server to use for storage (required)")
		cmd.MarkFlagRequired("redis")

		cmd.Flags().String("name", "", "the identity's User-Name, which may not contain ':' (required)")
		cmd.MarkFlagRequired("name")

		rootCmd.AddCommand(cmd)
	}

	addIdentityCmd.Flags().String("password", "", "the identity's plaintext password (required)")
	addIdentityCmd.MarkFlagRequired("password")
}
