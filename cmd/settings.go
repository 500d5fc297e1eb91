package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/arcanaland/seer/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and change settings",
	Long: `Settings are kept in the local store: RPC endpoints, colour themes, the
ENS domain and the IPFS gateway. They can be published to and loaded from
IPFS.`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := app.Settings(cmd.Context())
		if err != nil {
			return err
		}
		cfg := m.Config()
		return render(cmd.OutOrStdout(), cfg, func(w io.Writer) error {
			palette := app.Palette(cmd.Context())
			fmt.Fprintln(w, label("Flow RPC")+cfg.RPCEndpoints.Flow)
			fmt.Fprintln(w, label("Filecoin RPC")+cfg.RPCEndpoints.Filecoin)
			fmt.Fprintln(w, label("IPFS RPC")+cfg.RPCEndpoints.IPFS)
			fmt.Fprintln(w, label("IPFS gateway")+cfg.IPFSGateway)
			if cfg.ENSDomain != "" {
				fmt.Fprintln(w, label("ENS domain")+cfg.ENSDomain)
			}
			fmt.Fprintln(w, label("Themes"))
			current := m.CurrentTheme()
			for _, t := range cfg.Themes {
				marker := "  "
				if t.ID == current.ID {
					marker = palette.Accent.Render("* ")
				}
				p := settings.NewPalette(t)
				fmt.Fprintf(w, "%s%-18s %s\n", marker, p.Primary.Render(t.ID), p.Text.Render(t.Description))
			}
			return nil
		})
	},
}

var settingsThemeCmd = &cobra.Command{
	Use:   "theme [id]",
	Short: "Switch the colour theme",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := app.Settings(cmd.Context())
		if err != nil {
			return err
		}
		if err := m.SetTheme(cmd.Context(), args[0]); err != nil {
			return err
		}
		palette := app.Palette(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), palette.Title.Render("Theme set to "+m.CurrentTheme().Name))
		return nil
	},
}

var settingsRPCCmd = &cobra.Command{
	Use:   "rpc [chain] [url]",
	Short: "Set the RPC endpoint of a chain (flow, filecoin, ipfs)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := app.Settings(cmd.Context())
		if err != nil {
			return err
		}
		if err := m.UpdateRPCEndpoint(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s endpoint set to %s\n", args[0], args[1])
		return nil
	},
}

var settingsENSCmd = &cobra.Command{
	Use:   "ens [domain]",
	Short: "Record the ENS domain settings are published under",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := app.Settings(cmd.Context())
		if err != nil {
			return err
		}
		load, _ := cmd.Flags().GetBool("load")
		if load {
			return m.LoadFromENS(cmd.Context(), args[0])
		}
		if err := m.SetENSDomain(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ENS domain set to %s\n", args[0])
		return nil
	},
}

var settingsGatewayCmd = &cobra.Command{
	Use:   "gateway [url]",
	Short: "Set the IPFS gateway",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := app.Settings(cmd.Context())
		if err != nil {
			return err
		}
		if err := m.SetIPFSGateway(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "IPFS gateway set to %s\n", args[0])
		return nil
	},
}

var settingsPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Publish the settings to IPFS",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := app.Settings(cmd.Context())
		if err != nil {
			return err
		}
		cid, err := m.SaveToIPFS(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), map[string]string{"cid": cid}, func(w io.Writer) error {
			fmt.Fprintln(w, cid)
			return nil
		})
	},
}

var settingsPullCmd = &cobra.Command{
	Use:   "pull [cid]",
	Short: "Replace the settings with a document from IPFS",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := app.Settings(cmd.Context())
		if err != nil {
			return err
		}
		if err := m.LoadFromIPFS(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Settings loaded from %s\n", args[0])
		return nil
	},
}

func init() {
	RootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsThemeCmd, settingsRPCCmd,
		settingsENSCmd, settingsGatewayCmd, settingsPushCmd, settingsPullCmd)

	settingsENSCmd.Flags().Bool("load", false, "load settings from the domain instead of recording it")
}
