package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pomodoro/internal/app"
	"pomodoro/internal/core/timer"
	"pomodoro/internal/notify"
	"pomodoro/internal/storage"
	"pomodoro/internal/ui/term"

	"github.com/spf13/cobra"
	xterm "golang.org/x/term"
)

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Run the timer in the terminal",
	Long: `Run the timer in the terminal.

Keys: space start/pause, r reset, s skip, q quit.
When stdout is not a terminal, or with --plain, the first session starts
immediately and progress is logged line by line.`,
	Args: cobra.NoArgs,
	RunE: runTerm,
}

var termPlain bool

func init() {
	termCmd.Flags().BoolVar(&termPlain, "plain", false, "log progress instead of drawing a UI")
	rootCmd.AddCommand(termCmd)
}

func runTerm(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !termPlain && xterm.IsTerminal(int(os.Stdout.Fd())) {
		return term.Run(ctx, store, app.Options{Override: applyOverrides}, connectMQTT)
	}
	runPlain(ctx, store)
	return nil
}

// runPlain drives the timer from a Loop on this goroutine and logs transitions.
func runPlain(ctx context.Context, store *storage.Store) {
	loop := timer.NewLoop()
	controller := app.New(store, app.Options{
		TickSource: timer.NewRealTickSource(loop.Dispatch),
		Override:   applyOverrides,
		Sinks:      []notify.Sink{notify.BellSink{Writer: os.Stdout}},
	})
	defer controller.Close()
	connectMQTT(controller, loop.Dispatch)

	sessionTimer := controller.Timer()
	sessionTimer.OnStateChange(func(state timer.RunState, session timer.SessionType) {
		log.Printf("%s %s (%s)", session.Label(), state, timer.FormatTime(sessionTimer.CurrentTime()))
	})
	sessionTimer.OnTick(func(remaining, total int) {
		if remaining > 0 && remaining%60 == 0 {
			log.Printf("%s: %s left", sessionTimer.SessionType().Label(), timer.FormatTime(remaining))
		}
	})

	loop.Dispatch(controller.ToggleStartPause)
	loop.Run(ctx)
}
