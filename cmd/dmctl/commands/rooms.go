package commands

import (
	"dm-lab/contract"
	"dm-lab/domain"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func roomsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rooms <user_id>",
		Short: "List the rooms of a user as the user would see them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := domain.ParseUserID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context()
			defer cancel()
			summaries, err := a.rooms.ListMyRooms(ctx, user)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				notice(cmd.OutOrStdout(), "No room for user %d", user)
				return nil
			}
			table := newTable(cmd.OutOrStdout(), "Room", "Friend", "Name", "Last message", "At", "Unread", "Pinned", "They left")
			for _, s := range summaries {
				at := ""
				if s.LastMessageTime != nil {
					at = s.LastMessageTime.Format(time.DateTime)
				}
				last := ""
				if s.LastMessage != nil {
					last = shorten(*s.LastMessage, 40)
				}
				table.Append([]string{
					s.ID,
					s.FriendID.String(),
					s.FriendName,
					last,
					at,
					strconv.Itoa(s.UnreadCount),
					strconv.FormatBool(s.Pinned),
					strconv.FormatBool(s.TheyLeft),
				})
			}
			table.Render()
			return nil
		},
	}
}

// messagesCommand reads the log without marking anything read.
func messagesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "messages <room_id>",
		Short: "Dump the message log of a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roomID, err := domain.ParseRoomID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context()
			defer cancel()
			var room domain.Room
			var messages []domain.Message
			err = a.store.View(ctx, func(uow contract.UnitOfWork) error {
				if room, err = uow.Rooms().GetRoom(roomID); err != nil {
					return err
				}
				messages, err = uow.Messages().ListByRoom(roomID)
				return err
			})
			if err != nil {
				return err
			}
			notice(cmd.OutOrStdout(), "Room %s between %d and %d (%s)", room.ID, room.UserA, room.UserB, room.State())
			table := newTable(cmd.OutOrStdout(), "At", "Sender", "Kind", "Content", "Read", "Pinned")
			for _, m := range messages {
				content := m.Content
				if m.File != nil {
					content = m.File.URL
				}
				table.Append([]string{
					m.CreatedAt.Format(time.DateTime),
					m.SenderID.String(),
					m.Kind.String(),
					shorten(content, 60),
					strconv.FormatBool(m.Read),
					strconv.FormatBool(m.Pinned),
				})
			}
			table.Render()
			return nil
		},
	}
}

func withdrawCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <user_id>",
		Short: "Delete every room, message and moderation edge of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := domain.ParseUserID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context()
			defer cancel()
			report, err := a.rooms.WithdrawAccount(ctx, user)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "User %d withdrawn: %d rooms, %d messages, %d moderation edges deleted",
				user, report.Rooms, report.Messages, report.Edges)
			return nil
		},
	}
}
