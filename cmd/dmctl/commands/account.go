package commands

import (
	"dm-lab/domain"
	"dm-lab/errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func tokenCommand(a *app) *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token <user_id>",
		Short: "Issue a development token for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := domain.ParseUserID(args[0])
			if err != nil {
				return err
			}
			verifier, err := a.verifier()
			if err != nil {
				return err
			}
			token, err := verifier.GenerateToken(user, ttl)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Validity of the token")
	return cmd
}

func profileCommand(a *app) *cobra.Command {
	profile := &cobra.Command{
		Use:   "profile",
		Short: "Read or seed the local copy of user profiles",
	}

	get := &cobra.Command{
		Use:   "get <user_id>",
		Short: "Show a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := domain.ParseUserID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context()
			defer cancel()
			p, err := a.profiles.GetProfile(ctx, user)
			if errors.Is(err, errors.ErrProfileNotFound) {
				notice(cmd.OutOrStdout(), "No profile for user %d, shown as %q", user, domain.UnknownProfile(user).Name)
				return nil
			}
			if err != nil {
				return err
			}
			table := newTable(cmd.OutOrStdout(), "User", "Name", "Profile image")
			table.Append([]string{p.ID.String(), p.Name, p.ProfileImage})
			table.Render()
			return nil
		},
	}

	var name, image string
	set := &cobra.Command{
		Use:   "set <user_id>",
		Short: "Create or replace a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := domain.ParseUserID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context()
			defer cancel()
			err = a.profiles.SaveProfile(ctx, domain.Profile{ID: user, Name: name, ProfileImage: image})
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Profile of user %d saved", user)
			return nil
		},
	}
	set.Flags().StringVar(&name, "name", "", "Display name")
	set.Flags().StringVar(&image, "image", "", "Profile image URL")
	_ = set.MarkFlagRequired("name")

	profile.AddCommand(get, set)
	return profile
}
