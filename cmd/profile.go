package cmd

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/arcanaland/seer/internal/ledger"
	"github.com/arcanaland/seer/internal/userdata"
)

var profileCmd = &cobra.Command{
	Use:   "profile [address]",
	Short: "Show a reader's profile",
	Long: `Profile shows the ledger profile of an address: favourite spread, number
of readings, last reading time, daily subscription and reading history.
Without an address, the connected wallet's profile is shown along with
its local preferences.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := app.Ledger(cmd.Context())
		if err != nil {
			return err
		}

		if len(args) == 1 {
			if !common.IsHexAddress(args[0]) {
				return fmt.Errorf("invalid address %q", args[0])
			}
			profile, err := client.GetUserProfile(cmd.Context(), common.HexToAddress(args[0]))
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), profile, func(w io.Writer) error {
				return printProfile(w, profile)
			})
		}

		svc, err := app.UserData(cmd.Context())
		if err != nil {
			return err
		}
		profile, err := svc.UserProfile(cmd.Context())
		if err != nil {
			return err
		}
		prefs, err := svc.LoadPreferences(cmd.Context())
		if err != nil {
			return err
		}
		addr, _ := svc.Address()

		v := struct {
			Address     string               `json:"address" yaml:"address"`
			Profile     ledger.UserProfile   `json:"profile" yaml:"profile"`
			Preferences userdata.Preferences `json:"preferences" yaml:"preferences"`
		}{addr.Hex(), profile, prefs}

		return render(cmd.OutOrStdout(), v, func(w io.Writer) error {
			fmt.Fprintln(w, label("Address")+addr.Hex())
			if err := printProfile(w, profile); err != nil {
				return err
			}
			fmt.Fprintln(w, label("Theme")+prefs.Theme)
			fmt.Fprintln(w, label("Notifications")+onOff(prefs.Notifications))
			fmt.Fprintln(w, label("Auto-save")+onOff(prefs.AutoSave))
			return nil
		})
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the connected wallet's balance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.offline {
			return fmt.Errorf("balance is not available offline")
		}
		if _, err := app.Ledger(cmd.Context()); err != nil {
			return err
		}
		balance, err := app.wallet.Balance(cmd.Context(), app.eth)
		if err != nil {
			return err
		}
		addr, _ := app.wallet.Address()
		return render(cmd.OutOrStdout(), map[string]string{"address": addr.Hex(), "wei": balance.String()}, func(w io.Writer) error {
			fmt.Fprintln(w, label("Address")+addr.Hex())
			fmt.Fprintln(w, label("Balance")+balance.String()+" wei")
			return nil
		})
	},
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func init() {
	RootCmd.AddCommand(profileCmd, balanceCmd)
}
