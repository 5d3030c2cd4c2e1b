// ABOUTME: Subcommand implementations for the genie CLI
// ABOUTME: ask, follow, feedback, space, samples, and history

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/PortoLucas1/dbx-apps-genie-api/internal/config"
	"github.com/PortoLucas1/dbx-apps-genie-api/internal/genie"
	"github.com/PortoLucas1/dbx-apps-genie-api/internal/history"
)

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>...",
		Short: "Start a new conversation with a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, cfg, err := buildSession()
			if err != nil {
				return err
			}
			settings, err := loadSettings()
			if err != nil {
				return err
			}

			question := strings.Join(args, " ")
			result := session.AskNew(cmd.Context(), question)
			printResult(result, settings)
			recordExchange(cmd.Context(), cfg, settings, question, result)
			return nil
		},
	}
}

func newFollowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "follow [conversation-id] <question>...",
		Short: "Continue an existing conversation",
		Long:  "Continue an existing conversation. With --last, the conversation id is taken from the most recent recorded exchange.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, cfg, err := buildSession()
			if err != nil {
				return err
			}
			settings, err := loadSettings()
			if err != nil {
				return err
			}

			var conversationID string
			if flagLast {
				store, err := openLedger(cfg, settings)
				if err != nil {
					return err
				}
				defer store.Close()
				last, err := store.Latest(cmd.Context())
				if err != nil {
					return fmt.Errorf("no previous exchange to follow: %w", err)
				}
				conversationID = last.ConversationID
			} else {
				if len(args) < 2 {
					return fmt.Errorf("need a conversation id and a question (or use --last)")
				}
				conversationID = args[0]
				args = args[1:]
			}

			question := strings.Join(args, " ")
			result := session.AskFollowUp(cmd.Context(), conversationID, question)
			printResult(result, settings)
			recordExchange(cmd.Context(), cfg, settings, question, result)
			return nil
		},
	}
	cmd.Flags().BoolVar(&flagLast, "last", false, "follow the most recent recorded conversation")
	return cmd
}

func newFeedbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback [conversation-id message-id] <positive|negative>",
		Short: "Rate an answer",
		Long:  "Rate an answer. With --last, the target is the most recent recorded exchange.",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, cfg, err := buildSession()
			if err != nil {
				return err
			}
			settings, err := loadSettings()
			if err != nil {
				return err
			}

			sentiment := args[len(args)-1]
			switch strings.ToLower(sentiment) {
			case "positive", "negative":
			default:
				return fmt.Errorf("sentiment must be positive or negative, got %q", sentiment)
			}

			var conversationID, messageID, exchangeID string
			if flagLast || len(args) == 1 {
				store, err := openLedger(cfg, settings)
				if err != nil {
					return err
				}
				defer store.Close()
				last, err := store.Latest(cmd.Context())
				if err != nil {
					return fmt.Errorf("no recorded exchange to rate: %w", err)
				}
				conversationID = last.ConversationID
				messageID = last.AnswerMessageID
				exchangeID = last.ID
			} else if len(args) == 3 {
				conversationID, messageID = args[0], args[1]
			} else {
				return fmt.Errorf("need a conversation id and message id (or use --last)")
			}

			ok := session.SendFeedback(cmd.Context(), conversationID, messageID, sentiment)
			if !ok {
				return fmt.Errorf("feedback was not accepted")
			}
			if exchangeID != "" {
				store, err := openLedger(cfg, settings)
				if err == nil {
					_ = store.SetFeedback(cmd.Context(), exchangeID, strings.ToLower(sentiment))
					store.Close()
				}
			}
			printOK("Feedback recorded")
			return nil
		},
	}
	cmd.Flags().BoolVar(&flagLast, "last", false, "rate the most recent recorded exchange")
	return cmd
}

func newSpaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "space",
		Short: "Show the space title and description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := buildSession()
			if err != nil {
				return err
			}
			settings, err := loadSettings()
			if err != nil {
				return err
			}

			title, description := session.SpaceInfo(cmd.Context())
			if title == "" && description == "" {
				return fmt.Errorf("space details are unavailable")
			}
			printSpace(title, description, settings)
			return nil
		},
	}
}

func newSamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "samples",
		Short: "List the space's sample questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := buildSession()
			if err != nil {
				return err
			}
			settings, err := loadSettings()
			if err != nil {
				return err
			}

			questions := session.SampleQuestions(cmd.Context())
			if len(questions) == 0 {
				fmt.Println("No sample questions configured for this space.")
				return nil
			}
			printQuestions(questions, settings)
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded exchanges, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			setupLogger(cfg.Logging)
			settings, err := loadSettings()
			if err != nil {
				return err
			}

			store, err := openLedger(cfg, settings)
			if err != nil {
				return err
			}
			defer store.Close()

			exchanges, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(exchanges) == 0 {
				fmt.Println("No exchanges recorded yet.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tCONVERSATION\tKIND\tFEEDBACK\tQUESTION")
			for _, ex := range exchanges {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					humanize.Time(ex.CreatedAt), ex.ConversationID, ex.Kind, orDash(ex.Feedback), truncate(ex.Question, 60))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of exchanges to show")
	return cmd
}

// recordExchange appends a successful ask to the ledger. Ledger failures are
// logged but never fail the command; the answer was already printed.
func recordExchange(ctx context.Context, cfg *config.Config, settings *Settings, question string, result *genie.Result) {
	if result.ConversationID == "" {
		return
	}
	store, err := openLedger(cfg, settings)
	if err != nil {
		slog.Warn("exchange ledger unavailable", "error", err)
		return
	}
	defer store.Close()

	kind := history.KindText
	if result.IsTable() {
		kind = history.KindTable
	}
	ex := history.Exchange{
		ConversationID:  result.ConversationID,
		Question:        question,
		AnswerMessageID: result.MessageID,
		Kind:            kind,
		QueryText:       result.QueryText,
	}
	if err := store.Record(ctx, &ex); err != nil {
		slog.Warn("recording exchange failed", "error", err)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
