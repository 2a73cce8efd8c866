package main

import (
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/elmo3159/Pokeseal-sub000/pkg/client"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	var retry time.Duration
	cmd := &cobra.Command{
		Use:   "watch SESSION_ID",
		Short: "Follow a session live until it ends",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			r := client.NewReconciler(c, args[0], c.UserID)
			out := cmd.OutOrStdout()
			r.OnChange = func(s client.State) {
				if err := a.print(out, s.View); err != nil {
					slog.Warn("failed to print session", "error", err)
				}
			}

			sub := client.NewFeedSubscriber(c.BaseURL, c.UserID, r)
			sub.RetryDelay = retry
			sub.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			if err := sub.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&retry, "retry", time.Second, "delay before reconnecting a dropped feed")
	return cmd
}
