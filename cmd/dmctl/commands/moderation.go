package commands

import (
	"dm-lab/domain"
	"dm-lab/services"
	"time"

	"github.com/spf13/cobra"
)

func parsePair(args []string) (domain.UserID, domain.UserID, error) {
	actor, err := domain.ParseUserID(args[0])
	if err != nil {
		return domain.NoUser, domain.NoUser, err
	}
	target, err := domain.ParseUserID(args[1])
	if err != nil {
		return domain.NoUser, domain.NoUser, err
	}
	return actor, target, nil
}

func blockCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "block <actor_id> <target_id>",
		Short: "Record that actor blocked target",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, target, err := parsePair(args)
			if err != nil {
				return err
			}
			ctx, cancel := a.context()
			defer cancel()
			if err := a.moderation.Block(ctx, actor, target); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "User %d blocked user %d", actor, target)
			return nil
		},
	}
}

func unblockCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unblock <actor_id> <target_id>",
		Short: "Lift a block",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, target, err := parsePair(args)
			if err != nil {
				return err
			}
			ctx, cancel := a.context()
			defer cancel()
			if err := a.moderation.Unblock(ctx, actor, target); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "User %d unblocked user %d", actor, target)
			return nil
		},
	}
}

func blocksCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "blocks <actor_id>",
		Short: "List the blocks made by a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := domain.ParseUserID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context()
			defer cancel()
			blocks, err := a.moderation.ListBlocks(ctx, actor)
			if err != nil {
				return err
			}
			table := newTable(cmd.OutOrStdout(), "Actor", "Target", "Since")
			for _, b := range blocks {
				table.Append([]string{b.Actor.String(), b.Target.String(), b.CreatedAt.Format(time.DateTime)})
			}
			table.Render()
			return nil
		},
	}
}

func reportCommand(a *app) *cobra.Command {
	var reason, content string
	cmd := &cobra.Command{
		Use:   "report <actor_id> <target_id>",
		Short: "File a pending report; the pair cannot talk until it is closed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, target, err := parsePair(args)
			if err != nil {
				return err
			}
			ctx, cancel := a.context()
			defer cancel()
			report, err := a.moderation.Report(ctx, services.ReportCommand{
				Actor: actor, Target: target, Reason: reason, Content: content,
			})
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Report %s filed", report.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Reason of the report")
	cmd.Flags().StringVar(&content, "content", "", "Reported content")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}

func reportsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reports <actor_id>",
		Short: "List the reports filed by a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := domain.ParseUserID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context()
			defer cancel()
			reports, err := a.moderation.ListReports(ctx, actor)
			if err != nil {
				return err
			}
			table := newTable(cmd.OutOrStdout(), "Report", "Target", "Status", "Reason", "Filed")
			for _, r := range reports {
				table.Append([]string{
					r.ID.String(),
					r.Target.String(),
					string(r.Status),
					shorten(r.Reason, 40),
					r.CreatedAt.Format(time.DateTime),
				})
			}
			table.Render()
			return nil
		},
	}
}

func resolveReportCommand(a *app) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "resolve-report <report_id>",
		Short: "Move a report to reviewing, resolved or dismissed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseReportID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context()
			defer cancel()
			if err := a.moderation.SetReportStatus(ctx, id, domain.ReportStatus(status)); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Report %s is now %s", id, status)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", string(domain.ReportResolved), "New status")
	return cmd
}
