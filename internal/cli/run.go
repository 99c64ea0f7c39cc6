package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-payform/pkg/renderers/tui"
	"github.com/goliatone/go-payform/pkg/session"
	"github.com/goliatone/go-payform/pkg/toast"
)

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Walk through a payment in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := RuntimeFrom(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runTerminal(ctx, rt, tui.NewSurveyDriver(cmd.OutOrStdout()))
		},
	}
}

func runTerminal(ctx context.Context, rt *Runtime, driver tui.PromptDriver) error {
	app, err := rt.App()
	if err != nil {
		return err
	}

	toasts := toast.NewQueue()
	updates := make(chan struct{}, 1)
	sess, err := app.NewSession(
		session.WithNotifier(toast.Multi{toasts, toast.NewLog(rt.Logger)}),
		session.WithOnUpdate(func() {
			select {
			case updates <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := sess.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			rt.Logger.Warn("session stopped", zap.Error(err))
		}
	}()
	defer sess.Close()

	loop := tui.NewLoop(
		tui.WithPromptDriver(driver),
		tui.WithToasts(toasts),
		tui.WithUpdates(updates),
		tui.WithPending(func(ctx context.Context) bool {
			snap, err := sess.Snapshot(ctx)
			return err == nil && snap.Pending != ""
		}, 0),
	)
	err = loop.Run(ctx, sess)
	if errors.Is(err, tui.ErrAborted) {
		return nil
	}
	return err
}
