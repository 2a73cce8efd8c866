package main

import (
	"strings"

	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"github.com/spf13/cobra"
)

func newMatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "match",
		Short: "Pair with a waiting trader or start waiting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.StartMatching(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), res)
		},
	}
}

func newCancelMatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel-match SESSION_ID",
		Short: "Stop waiting for a partner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			session, err := c.CancelMatching(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), session)
		},
	}
}

func newInviteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "invite USER_ID",
		Short: "Open a trade with a specific user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			session, err := c.InviteDirect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), session)
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			sessions, err := c.ListSessions(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), sessions)
		},
	}
}

func newUnreadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unread",
		Short: "Count unread messages across your active sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			summary, err := c.UnreadSummary(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), summary)
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show SESSION_ID",
		Short: "Show a session from your side",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			view, err := c.GetSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), view)
		},
	}
}

func newRequestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Manage the items you ask for",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add SESSION_ID ITEM_ID",
		Short: "Ask for one of the partner's items",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			req, err := c.AddRequest(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), req)
		},
	}, &cobra.Command{
		Use:   "remove SESSION_ID ITEM_ID",
		Short: "Withdraw a request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			return c.RemoveRequest(cmd.Context(), args[0], args[1])
		},
	})
	return cmd
}

func newMessageCmd(a *app) *cobra.Command {
	var stamp bool
	cmd := &cobra.Command{
		Use:   "message SESSION_ID CONTENT...",
		Short: "Send a text message or, with --stamp, a stamp",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			msgType := models.TEXT
			if stamp {
				msgType = models.STAMP
			}
			msg, err := c.SendMessage(cmd.Context(), args[0], msgType, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), msg)
		},
	}
	cmd.Flags().BoolVar(&stamp, "stamp", false, "send CONTENT as a stamp id")
	return cmd
}

func newConfirmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm SESSION_ID",
		Short: "Confirm the current trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.Confirm(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), res)
		},
	}
}

func newCancelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel SESSION_ID",
		Short: "Cancel a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			session, err := c.Cancel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), session)
		},
	}
}

func newItemsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "items [USER_ID]",
		Short: "List the items a user owns, yourself by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			owner := c.UserID
			if len(args) == 1 {
				owner = args[0]
			}
			items, err := c.GetOwnedItems(cmd.Context(), owner)
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), items)
		},
	}
}
