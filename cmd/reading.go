package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/arcanaland/seer/internal/archive"
	"github.com/arcanaland/seer/internal/card"
	"github.com/arcanaland/seer/internal/deck"
	"github.com/arcanaland/seer/internal/knowledge"
	"github.com/arcanaland/seer/internal/ledger"
	"github.com/arcanaland/seer/internal/userdata"
)

// lastReadingKey is where `reading save` keeps the most recent reading
const lastReadingKey = "last-reading"

var readingCmd = &cobra.Command{
	Use:   "reading",
	Short: "Record readings on the ledger",
	Long: `A reading session moves through three steps on the ledger: start it with
a question, perform it to draw cards, then complete it with an
interpretation. Each step is a transaction signed by your wallet.`,
}

var readingStartCmd = &cobra.Command{
	Use:   "start [question]",
	Short: "Start a reading session",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := app.Ledger(cmd.Context())
		if err != nil {
			return err
		}
		id, err := client.StartReading(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), map[string]string{"sessionId": id.String()}, func(w io.Writer) error {
			fmt.Fprintln(w, id.String())
			return nil
		})
	},
}

var readingPerformCmd = &cobra.Command{
	Use:   "perform [session-id] [count]",
	Short: "Draw the cards of a started session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ledger.ParseSessionID(args[0])
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid card count %q", args[1])
		}
		client, err := app.Ledger(cmd.Context())
		if err != nil {
			return err
		}
		if err := client.PerformReading(cmd.Context(), id, n); err != nil {
			return err
		}
		return showSession(cmd, client, id)
	},
}

var readingCompleteCmd = &cobra.Command{
	Use:   "complete [session-id] [interpretation|-]",
	Short: "Complete a session with an interpretation",
	Long: `Complete records the interpretation of a drawn session. Pass "-" to read
the interpretation from stdin. Without one, an interpretation is composed
from the drawn cards.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ledger.ParseSessionID(args[0])
		if err != nil {
			return err
		}
		spread, _ := cmd.Flags().GetString("spread")
		client, err := app.Ledger(cmd.Context())
		if err != nil {
			return err
		}

		var interpretation string
		switch {
		case len(args) == 2 && args[1] == "-":
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("error reading interpretation: %v", err)
			}
			interpretation = strings.TrimSpace(string(data))
		case len(args) == 2:
			interpretation = args[1]
		default:
			session, err := client.GetReadingSession(cmd.Context(), id)
			if err != nil {
				return err
			}
			interpretation, err = composeFor(session.Question, spread, session.DrawnCards())
			if err != nil {
				return err
			}
		}

		if err := client.CompleteReading(cmd.Context(), id, interpretation); err != nil {
			return err
		}
		return showSession(cmd, client, id)
	},
}

var readingGetCmd = &cobra.Command{
	Use:   "get [session-id]",
	Short: "Show a reading session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ledger.ParseSessionID(args[0])
		if err != nil {
			return err
		}
		client, err := app.Ledger(cmd.Context())
		if err != nil {
			return err
		}
		return showSession(cmd, client, id)
	},
}

var readingStateCmd = &cobra.Command{
	Use:   "state [session-id]",
	Short: "Show where a session is in its lifecycle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ledger.ParseSessionID(args[0])
		if err != nil {
			return err
		}
		client, err := app.Ledger(cmd.Context())
		if err != nil {
			return err
		}
		state, err := client.SessionState(cmd.Context(), id)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), map[string]string{"state": state.String()}, func(w io.Writer) error {
			fmt.Fprintln(w, state)
			return nil
		})
	},
}

type savedReading struct {
	SessionID ledger.SessionID   `json:"sessionId" yaml:"session_id"`
	Reading   userdata.Reading   `json:"reading" yaml:"reading"`
	Profile   ledger.UserProfile `json:"profile" yaml:"profile"`
	ArchiveID string             `json:"archiveCid,omitempty" yaml:"archive_cid,omitempty"`
}

var readingSaveCmd = &cobra.Command{
	Use:   "save [question]",
	Short: "Draw, interpret and record a whole reading",
	Long: `Save draws cards locally, composes an interpretation unless one is given,
and records the reading on the ledger in one go: start, perform and
complete. With --archive the completed session is also archived locally.

Examples:
  seer reading save "Should I take the job?" --spread Past-Present-Future
  seer reading save "What do I need to know today?" --cards 1 --interpretation "Rest."`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")
		count, _ := cmd.Flags().GetInt("cards")
		spreadName, _ := cmd.Flags().GetString("spread")
		interpretation, _ := cmd.Flags().GetString("interpretation")
		archiveIt, _ := cmd.Flags().GetBool("archive")

		if spreadName != "" && !cmd.Flags().Changed("cards") {
			spread, ok := knowledge.GetSpread(spreadName)
			if !ok {
				return fmt.Errorf("unknown spread %q (see 'seer spread ls')", spreadName)
			}
			count = spread.TotalCards
		}

		cards, err := deck.NewDefaultEngine().DrawCards(count)
		if err != nil {
			return err
		}
		app.metrics.RecordDraw(cards)
		if interpretation == "" {
			interpretation = knowledge.Compose(question, spreadName, cards)
		}

		reading := userdata.Reading{
			Question:       question,
			Interpretation: interpretation,
			Timestamp:      time.Now().UnixMilli(),
		}
		for _, c := range cards {
			reading.Cards = append(reading.Cards, c.Name)
			reading.Reversals = append(reading.Reversals, c.IsReversed)
		}

		svc, err := app.UserData(cmd.Context())
		if err != nil {
			return err
		}
		id, profile, err := svc.SaveReading(cmd.Context(), reading)
		if err != nil {
			return err
		}
		reading.SessionID = id.String()
		if err := svc.SaveValue(cmd.Context(), lastReadingKey, reading); err != nil {
			return err
		}

		result := savedReading{SessionID: id, Reading: reading, Profile: profile}
		if archiveIt {
			cid, err := archiveSession(cmd, id)
			if err != nil {
				return err
			}
			result.ArchiveID = cid
		}

		return render(cmd.OutOrStdout(), result, func(w io.Writer) error {
			fmt.Fprintln(w, label("Session")+id.String())
			for i, c := range cards {
				fmt.Fprintf(w, "  %d. %s %s\n", i+1, c.Emoji(), cardTitle(c))
			}
			fmt.Fprintln(w)
			fmt.Fprint(w, renderMarkdown(interpretation))
			fmt.Fprintln(w, label("Total readings")+fmt.Sprint(profile.TotalReadings))
			if result.ArchiveID != "" {
				fmt.Fprintln(w, label("Archived")+result.ArchiveID)
			}
			return nil
		})
	},
}

var readingLastCmd = &cobra.Command{
	Use:   "last",
	Short: "Show the last reading saved from this machine",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := app.UserData(cmd.Context())
		if err != nil {
			return err
		}
		var reading userdata.Reading
		if err := svc.LoadValue(cmd.Context(), lastReadingKey, &reading); err != nil {
			return fmt.Errorf("no saved reading: %w", err)
		}
		return render(cmd.OutOrStdout(), reading, func(w io.Writer) error {
			fmt.Fprintln(w, label("Session")+reading.SessionID)
			fmt.Fprintln(w, label("Question")+reading.Question)
			fmt.Fprintln(w, label("Saved")+time.UnixMilli(reading.Timestamp).Local().Format(time.RFC1123))
			for i, name := range reading.Cards {
				fmt.Fprintf(w, "  %d. %s\n", i+1, drawnCardLine(ledger.DrawnCard{Name: name, IsReversed: reading.Reversals[i]}))
			}
			fmt.Fprintln(w)
			fmt.Fprint(w, renderMarkdown(reading.Interpretation))
			return nil
		})
	},
}

func showSession(cmd *cobra.Command, client *ledger.Client, id ledger.SessionID) error {
	session, err := client.GetReadingSession(cmd.Context(), id)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), session, func(w io.Writer) error {
		return printSession(w, session)
	})
}

// composeFor composes an interpretation for cards drawn by the ledger
func composeFor(question, spread string, drawn []ledger.DrawnCard) (string, error) {
	if len(drawn) == 0 {
		return "", fmt.Errorf("session has no cards yet; run 'seer reading perform' first")
	}
	cards, err := resolveDrawn(drawn)
	if err != nil {
		return "", err
	}
	return knowledge.Compose(question, spread, cards), nil
}

// resolveDrawn looks up ledger card names in the catalog
func resolveDrawn(drawn []ledger.DrawnCard) ([]card.Card, error) {
	cards := make([]card.Card, len(drawn))
	for i, d := range drawn {
		c, err := deck.Lookup(d.Name)
		if err != nil {
			return nil, err
		}
		c.IsReversed = d.IsReversed
		cards[i] = c
	}
	return cards, nil
}

func archiveSession(cmd *cobra.Command, id ledger.SessionID) (string, error) {
	client, err := app.Ledger(cmd.Context())
	if err != nil {
		return "", err
	}
	session, err := client.GetReadingSession(cmd.Context(), id)
	if err != nil {
		return "", err
	}
	a, err := app.Archive()
	if err != nil {
		return "", err
	}
	owner, _ := client.Sender()
	tags, _ := cmd.Flags().GetStringSlice("tag")
	reading := archive.FromSession(session, owner.Hex())
	if len(tags) > 0 {
		reading.Metadata = &archive.Metadata{Tags: tags}
	}
	return a.StoreReading(cmd.Context(), reading)
}

func init() {
	RootCmd.AddCommand(readingCmd)
	readingCmd.AddCommand(readingStartCmd, readingPerformCmd, readingCompleteCmd,
		readingGetCmd, readingStateCmd, readingSaveCmd, readingLastCmd)

	readingCompleteCmd.Flags().String("spread", "", "spread used to label composed interpretations")

	readingSaveCmd.Flags().IntP("cards", "n", 3, "number of cards to draw")
	readingSaveCmd.Flags().StringP("spread", "s", "", "lay the cards out in a named spread")
	readingSaveCmd.Flags().String("interpretation", "", "interpretation to record instead of a composed one")
	readingSaveCmd.Flags().Bool("archive", false, "archive the completed session")
	readingSaveCmd.Flags().StringSlice("tag", nil, "archive tags (use 'public' to include it in public archives)")
}
