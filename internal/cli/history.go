package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/igenius/soroban/internal/config"
	"github.com/igenius/soroban/internal/history"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	Answers  string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past practice sessions",
		Long: `List completed practice sessions from the local history store,
newest first.

Example:
  soroban history
  soroban history --limit 5
  soroban history --answers 0190a8b2-...`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "history database path (overrides config)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum sessions to list (0 = all)")
	cmd.Flags().StringVar(&opts.Answers, "answers", "", "show the answer sheet of a session token")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return outputHistoryError(out, ExitCommandError, "E_CONFIG", "failed to load config", err)
	}
	path := cfg.HistoryDB
	if cmd.Flags().Changed("db") {
		path = opts.Database
	}
	if path == "" {
		return outputHistoryError(out, ExitCommandError, "E_HISTORY_PATH", "no history database configured", nil)
	}

	out.VerboseLog("history store: %s", path)

	store, err := history.Open(path)
	if err != nil {
		return outputHistoryError(out, ExitCommandError, "E_HISTORY_OPEN", "failed to open history store", err)
	}
	defer store.Close()

	if opts.Answers != "" {
		return printAnswerSheet(store, out, cmd, opts.Answers)
	}

	sessions, err := store.ListSessions(cmd.Context(), opts.Limit)
	if err != nil {
		return outputHistoryError(out, ExitFailure, "E_HISTORY_LIST", "failed to list sessions", err)
	}

	out.VerboseLog("loaded %d sessions", len(sessions))

	if opts.Format == "json" {
		return out.Success(sessions)
	}

	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded.")
		return nil
	}
	for _, s := range sessions {
		ids := make([]string, len(s.SetIDs))
		for i, id := range s.SetIDs {
			ids[i] = fmt.Sprintf("%d", id)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  level %s week %d  sets [%s]  %d questions  %s\n",
			s.CompletedAt.Local().Format(time.DateTime),
			s.Level, s.Week, strings.Join(ids, ","), s.Questions, s.Token)
	}
	return nil
}

// outputHistoryError renders the failure through the formatter, then wraps
// it for the exit path.
func outputHistoryError(out *OutputFormatter, exitCode int, code, message string, err error) error {
	_ = out.Error(code, message)
	return WrapExitError(exitCode, message, err)
}

func printAnswerSheet(store *history.Store, out *OutputFormatter, cmd *cobra.Command, token string) error {
	answers, err := store.SessionAnswers(cmd.Context(), token)
	if err != nil {
		return outputHistoryError(out, ExitFailure, "E_HISTORY_ANSWERS", "failed to read answer sheet", err)
	}

	if out.Format == "json" {
		return out.Success(answers)
	}

	if len(answers) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No answers recorded for session %s.\n", token)
		return nil
	}
	for _, a := range answers {
		fmt.Fprintf(cmd.OutOrStdout(), "%3d. [%s] %s = %s\n",
			a.GlobalIndex+1, a.SetName, a.Question, formatAnswer(a.Answer))
	}
	return nil
}
