package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/theaaf/radius-core/app"
)

var serveRADIUSCmd = &cobra.Command{
	Use:   "serve-radius",
	Short: "runs the RADIUS server",
	Long: `Runs the authentication and accounting listeners.

Settings are read from RADIUS_* environment variables. Flags that are given override them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := app.LoadConfig()
		if err != nil {
			return err
		}
		applyFlags(cmd.Flags(), cfg)

		if !cmd.Flags().Changed("log-level") {
			lvl, err := logrus.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(lvl)
		}

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			ch := make(chan os.Signal, 1)
			signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
			<-ch
			logrus.Info("signal received; shutting down")
			cancel()
		}()

		if err := app.ServeRADIUS(ctx, cfg, logrus.StandardLogger()); err != nil && err != context.Canceled {
			return err
		}
		return nil
	}}

func applyFlags(flags *pflag.FlagSet, cfg *app.Config) {
	stringFlags := map[string]*string{
		"shared-secret": &cfg.SharedSecret,
		"redis":         &cfg.Redis,
		"auth-addr":     &cfg.AuthAddr,
		"acct-addr":     &cfg.AcctAddr,
		"dedup-mode":    &cfg.DedupMode,
		"dictionary":    &cfg.Dictionary,
	}
	for name, dest := range stringFlags {
		if flags.Changed(name) {
			*dest, _ = flags.GetString(name)
		}
	}
	if flags.Changed("dedup-ttl") {
		cfg.DedupTTL, _ = flags.GetDuration("dedup-ttl")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
}

func addServeFlags(flags *pflag.FlagSet) {
	flags.String("shared-secret", "", "the shared secret for clients without their own (RADIUS_SHARED_SECRET)")
	flags.String("redis", "", "the Redis server to use for storage (RADIUS_REDIS)")
	flags.String("auth-addr", ":1812", "the authentication listener address (RADIUS_AUTH_ADDR)")
	flags.String("acct-addr", ":1813", "the accounting listener address (RADIUS_ACCT_ADDR)")
	flags.Duration("dedup-ttl", 0, "how long to remember requests for retransmission detection (RADIUS_DEDUP_TTL)")
	flags.String("dedup-mode", app.DedupModeBytes, "how retransmissions are matched: bytes or identifier (RADIUS_DEDUP_MODE)")
	flags.String("dictionary", "", "a YAML file with additional attribute definitions (RADIUS_DICTIONARY)")
}

func init() {
	addServeFlags(serveRADIUSCmd.Flags())
	rootCmd.AddCommand(serveRADIUSCmd)
}
