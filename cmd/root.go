package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcanaland/seer/internal/config"
	"github.com/arcanaland/seer/internal/logging"
)

var (
	cfgFile      string
	verbose      bool
	offline      bool
	privateKey   string
	outputFormat string

	app *environment
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "seer",
	Short: "Draw tarot cards and record readings on the TarotReader ledger",
	Long: `Seer shuffles and draws from the 78 card tarot deck and records readings
on the TarotReader contract: start a session with a question, draw its cards,
and complete it with an interpretation. Your profile keeps the history.

Use --offline to run against an in-process ledger instead of the chain.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch outputFormat {
		case "text", "json", "yaml":
		default:
			return fmt.Errorf("unknown output format %q (expected text, json or yaml)", outputFormat)
		}

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %v", err)
		}

		logger, err := logging.New(cfg.LogLevel, verbose)
		if err != nil {
			return err
		}

		key := privateKey
		if key == "" {
			key = cfg.PrivateKey
		}
		app, err = newEnvironment(cfg, logger, offline, key)
		if err != nil {
			return fmt.Errorf("error connecting wallet: %v", err)
		}
		return nil
	},
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/seer/config.toml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&offline, "offline", false, "use an in-process ledger instead of the chain")
	flags.StringVar(&privateKey, "key", "", "hex private key to sign with (or SEER_PRIVATE_KEY)")
	flags.StringVarP(&outputFormat, "output", "o", "text", "output format: text, json or yaml")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Services opened by the command are closed afterwards, even when it fails.
func Execute() error {
	defer func() {
		if app != nil {
			app.Close()
			app = nil
		}
	}()
	return RootCmd.Execute()
}
