package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arcanaland/seer/internal/archive"
	"github.com/arcanaland/seer/internal/card"
	"github.com/arcanaland/seer/internal/deck"
	"github.com/arcanaland/seer/internal/ledger"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Keep readings in the content-addressed archive",
	Long: `The archive keeps completed readings, reading histories, public archives
and card assets in the local store, each under a content id derived from
its JSON encoding.`,
}

var archiveStoreCmd = &cobra.Command{
	Use:   "store [session-id]",
	Short: "Archive a reading session from the ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ledger.ParseSessionID(args[0])
		if err != nil {
			return err
		}
		cid, err := archiveSession(cmd, id)
		if err != nil {
			return err
		}
		return printCID(cmd, cid)
	},
}

var archiveGetCmd = &cobra.Command{
	Use:   "get [cid]",
	Short: "Show an archived document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.Archive()
		if err != nil {
			return err
		}
		ctx, cid := cmd.Context(), args[0]

		var v any
		if r, err := a.RetrieveReading(ctx, cid); err == nil {
			v = r
		} else if !errors.Is(err, archive.ErrWrongKind) {
			return err
		} else if h, err := a.GetUserHistory(ctx, cid); err == nil {
			v = h
		} else if p, err := a.GetPublicArchive(ctx, cid); err == nil {
			v = p
		} else if asset, err := a.GetCardAsset(ctx, cid); err == nil {
			v = asset
		} else {
			return err
		}

		// archived documents have no text layout of their own
		if outputFormat == "text" {
			outputFormat = "yaml"
		}
		return render(cmd.OutOrStdout(), v, nil)
	},
}

var archiveListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List archived readings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := app.Store()
		if err != nil {
			return err
		}
		a, err := app.Archive()
		if err != nil {
			return err
		}
		cids, err := s.ListContent(cmd.Context(), archive.KindReading)
		if err != nil {
			return err
		}

		type entry struct {
			CID     string          `json:"cid" yaml:"cid"`
			Reading archive.Reading `json:"reading" yaml:"reading"`
		}
		entries := make([]entry, 0, len(cids))
		for _, cid := range cids {
			r, err := a.RetrieveReading(cmd.Context(), cid)
			if err != nil {
				return err
			}
			entries = append(entries, entry{cid, r})
		}

		return render(cmd.OutOrStdout(), entries, func(w io.Writer) error {
			if len(entries) == 0 {
				fmt.Fprintln(w, "No archived readings.")
				return nil
			}
			for _, e := range entries {
				public := ""
				if e.Reading.IsPublic() {
					public = " [public]"
				}
				fmt.Fprintf(w, "%s  %s  %s%s\n", e.CID, formatTimestamp(e.Reading.Timestamp), e.Reading.Question, public)
			}
			return nil
		})
	},
}

var archiveHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Snapshot your reading history from the ledger",
	Long: `History reads every session in your ledger profile and archives them
together as one history document.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := app.UserData(cmd.Context())
		if err != nil {
			return err
		}
		profile, err := svc.UserProfile(cmd.Context())
		if err != nil {
			return err
		}
		client, err := app.Ledger(cmd.Context())
		if err != nil {
			return err
		}
		owner, _ := svc.Address()

		readings := make([]archive.Reading, 0, len(profile.ReadingHistory))
		for _, raw := range profile.ReadingHistory {
			id, err := ledger.ParseSessionID(raw)
			if err != nil {
				return err
			}
			session, err := client.GetReadingSession(cmd.Context(), id)
			if err != nil {
				return err
			}
			readings = append(readings, archive.FromSession(session, owner.Hex()))
		}

		a, err := app.Archive()
		if err != nil {
			return err
		}
		cid, err := a.StoreUserHistory(cmd.Context(), owner.Hex(), readings)
		if err != nil {
			return err
		}
		app.logger.Info("history archived", zap.String("cid", cid), zap.Int("readings", len(readings)))
		return printCID(cmd, cid)
	},
}

var archivePublicCmd = &cobra.Command{
	Use:   "public",
	Short: "Build a public archive of readings tagged public",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.Archive()
		if err != nil {
			return err
		}
		readings, err := a.Readings(cmd.Context())
		if err != nil {
			return err
		}
		cid, err := a.CreatePublicArchive(cmd.Context(), readings)
		if err != nil {
			return err
		}
		return printCID(cmd, cid)
	},
}

var archiveAssetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Archive card assets for the whole deck",
	Long: `Assets archives one asset document per card. With --image-base each
asset points at <image-base>/major_arcana/00.png style image URLs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		base, _ := cmd.Flags().GetString("image-base")
		a, err := app.Archive()
		if err != nil {
			return err
		}

		catalog := deck.Catalog()
		assets := make([]archive.CardAsset, len(catalog))
		for i, c := range catalog {
			assets[i] = cardAsset(c, base)
		}
		cids, err := a.StoreCardAssets(cmd.Context(), assets)
		if err != nil {
			return err
		}

		return render(cmd.OutOrStdout(), cids, func(w io.Writer) error {
			for i, cid := range cids {
				fmt.Fprintf(w, "%s  %s\n", cid, assets[i].Name)
			}
			return nil
		})
	},
}

func cardAsset(c card.Card, imageBase string) archive.CardAsset {
	asset := archive.CardAsset{
		Name:        c.Name,
		Description: c.Description,
		Category:    "major",
	}
	if !c.IsMajor() {
		asset.Category = "minor"
		asset.Suit = card.SuitSlug(c.Suit)
	}
	if imageBase != "" {
		asset.ImageURL = strings.TrimSuffix(imageBase, "/") + "/" + strings.ReplaceAll(c.ID, ".", "/") + ".png"
	}
	return asset
}

func printCID(cmd *cobra.Command, cid string) error {
	return render(cmd.OutOrStdout(), map[string]string{"cid": cid}, func(w io.Writer) error {
		fmt.Fprintln(w, cid)
		return nil
	})
}

func init() {
	RootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archiveStoreCmd, archiveGetCmd, archiveListCmd,
		archiveHistoryCmd, archivePublicCmd, archiveAssetsCmd)

	archiveStoreCmd.Flags().StringSlice("tag", nil, "tags to archive with (use 'public' to include it in public archives)")
	archiveAssetsCmd.Flags().String("image-base", "", "base URL of card images")
}
