package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/igenius/soroban/internal/config"
	"github.com/igenius/soroban/internal/history"
	"github.com/igenius/soroban/internal/loader"
	"github.com/igenius/soroban/internal/narrator"
	"github.com/igenius/soroban/internal/player"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Level     string
	Week      int
	SetIDs    []int64
	BaseURL   string
	Mute      bool
	Speed     float64
	NoHistory bool
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play question sets for a level and week",
		Long: `Fetch question sets and play them: items are revealed on each
question's time budget and spoken aloud. Playback starts automatically
and advances through all selected sets.

Interactive controls (one per line on stdin):
  p      pause / resume
  n      next question
  b      previous question (pauses)
  r      restart from the first question
  m      toggle narration mute
  q      quit

Example:
  soroban play --level 1 --week 3 --sets 11,12
  soroban play --level 2 --week 5 --sets 7 --mute --speed 1.5`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Level, "level", "", "level slug (required)")
	cmd.Flags().IntVar(&opts.Week, "week", 0, "week number (required)")
	cmd.Flags().Int64SliceVar(&opts.SetIDs, "sets", nil, "question set ids, in playback order (required)")
	cmd.Flags().StringVar(&opts.BaseURL, "base-url", "", "backend API root (overrides config)")
	cmd.Flags().BoolVar(&opts.Mute, "mute", false, "start with narration muted")
	cmd.Flags().Float64Var(&opts.Speed, "speed", 0, "narration speed (0.75, 1, 1.25 or 1.5; overrides config)")
	cmd.Flags().BoolVar(&opts.NoHistory, "no-history", false, "do not record the session to history")
	_ = cmd.MarkFlagRequired("level")
	_ = cmd.MarkFlagRequired("week")
	_ = cmd.MarkFlagRequired("sets")

	return cmd
}

func runPlay(opts *PlayOptions, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		_ = out.Error("E_CONFIG", "failed to load config")
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if cmd.Flags().Changed("base-url") {
		cfg.BaseURL = opts.BaseURL
	}
	if cmd.Flags().Changed("mute") {
		cfg.Muted = opts.Mute
	}
	if cmd.Flags().Changed("speed") {
		cfg.Speed = opts.Speed
	}
	if err := cfg.Validate(); err != nil {
		_ = out.Error("E_CONFIG", err.Error())
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	out.VerboseLog("backend: %s", cfg.BaseURL)

	var speechOpts []narrator.SpeechOption
	speechOpts = append(speechOpts, narrator.WithSpeakEquals(cfg.SpeakEquals))
	if len(cfg.PreferredVoices) > 0 {
		speechOpts = append(speechOpts, narrator.WithPreferredVoices(cfg.PreferredVoices))
	}
	narr := narrator.System(speechOpts...)
	narr.SetMuted(cfg.Muted)
	if err := narr.SetRate(cfg.Speed); err != nil {
		_ = out.Error("E_SPEED", err.Error())
		return WrapExitError(ExitCommandError, "invalid speed", err)
	}
	out.VerboseLog("narration: muted=%v rate=%.2g", narr.Muted(), narr.Rate())

	rend := newRenderer(cmd.OutOrStdout())
	ctl := player.New(narr,
		player.WithObserver(rend),
		player.WithResultsSink(rend),
	)
	defer ctl.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("loading question sets",
		"session", ctl.SessionToken(),
		"level", opts.Level,
		"week", opts.Week,
		"sets", opts.SetIDs,
	)
	ld := loader.New(cfg.BaseURL)
	if err := ctl.Load(ctx, ld, opts.Level, opts.Week, opts.SetIDs); err != nil {
		_ = out.Error("E_LOAD", err.Error())
		return WrapExitError(ExitFailure, "failed to load question sets", err)
	}
	if ctl.State().Phase == player.PhaseNoQuestions {
		fmt.Fprintln(cmd.OutOrStdout(), "No questions available for the selected sets.")
		return nil
	}

	quit := make(chan struct{})
	go readControls(cmd, ctl, quit)

	select {
	case res := <-rend.Results():
		printAnswers(cmd.OutOrStdout(), res)
		recordHistory(ctx, cfg, opts, ctl, res)
		return nil
	case <-quit:
		return nil
	case <-ctx.Done():
		slog.Info("interrupted, shutting down")
		return nil
	}
}

// readControls drives the controller from stdin, one command per line.
func readControls(cmd *cobra.Command, ctl *player.Controller, quit chan<- struct{}) {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		switch strings.TrimSpace(scanner.Text()) {
		case "p", "":
			ctl.TogglePlay()
		case "n":
			ctl.Next()
		case "b":
			ctl.Previous()
		case "r":
			ctl.Restart()
		case "m":
			ctl.SetMuted(!ctl.Muted())
		case "q":
			close(quit)
			return
		}
	}
}

// recordHistory writes the completed session to the local history store.
// History failures are logged, never fatal: the session already finished.
func recordHistory(ctx context.Context, cfg config.Config, opts *PlayOptions, ctl *player.Controller, res player.Results) {
	if opts.NoHistory || cfg.HistoryDB == "" {
		return
	}

	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		slog.Error("failed to open history store", "path", cfg.HistoryDB, "error", err)
		return
	}
	defer store.Close()

	setIDs := make([]int64, len(res.Sets))
	setNames := make(map[int64]string, len(res.Sets))
	for i, s := range res.Sets {
		setIDs[i] = s.ID
		setNames[s.ID] = s.Name
	}

	answers := make([]history.Answer, len(res.Questions))
	for i, q := range res.Questions {
		answers[i] = history.Answer{
			GlobalIndex: q.GlobalIndex,
			SetName:     setNames[q.SetID],
			Question:    q.FormattedQuestion,
			Answer:      q.Answer,
		}
	}

	err = store.RecordSession(ctx, history.Session{
		Token:       ctl.SessionToken(),
		Level:       res.Level,
		Week:        res.Week,
		SetIDs:      setIDs,
		Sets:        len(res.Sets),
		Questions:   len(res.Questions),
		CompletedAt: time.Now(),
	}, answers)
	if err != nil {
		slog.Error("failed to record session history", "error", err)
		return
	}
	slog.Debug("session recorded", "session", ctl.SessionToken())
}
